// Package service imports parsed question groups into a test's question
// bank through the catalog.
package service

import (
	"context"
	"io"
	"log/slog"

	"trainhub/internal/catalog"
	catalogservice "trainhub/internal/catalog/service"
	"trainhub/internal/platform/metrics"
	"trainhub/internal/question"
	dErrors "trainhub/pkg/domain-errors"
)

// QuestionCatalog is the slice of the catalog the importer needs: the test
// must exist, and each parsed group becomes one created question.
type QuestionCatalog interface {
	GetTest(ctx context.Context, id int64) (*catalog.Test, error)
	CreateQuestion(ctx context.Context, testID int64, in catalogservice.QuestionInput) (*catalog.Question, error)
}

// Importer loads questions from the six-line text format into a test.
type Importer struct {
	catalog QuestionCatalog
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(i *Importer)

func WithLogger(logger *slog.Logger) Option {
	return func(i *Importer) {
		i.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(i *Importer) {
		i.metrics = m
	}
}

// New constructs an Importer.
func New(cat QuestionCatalog, opts ...Option) *Importer {
	i := &Importer{
		catalog: cat,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Import parses r and creates one question per well-formed group. Malformed
// groups are dropped by the parser, not reported as errors. Returns the
// number of questions created; on a mid-import failure the count covers the
// questions already created.
func (i *Importer) Import(ctx context.Context, testID int64, r io.Reader) (int, error) {
	if _, err := i.catalog.GetTest(ctx, testID); err != nil {
		return 0, err
	}

	parsed, err := question.Parse(r)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInvalidInput, "failed to read import file")
	}

	imported := 0
	for _, p := range parsed {
		_, err := i.catalog.CreateQuestion(ctx, testID, catalogservice.QuestionInput{
			Text:          p.Text,
			OptionTexts:   p.OptionTexts,
			CorrectLetter: p.CorrectLetter,
		})
		if err != nil {
			return imported, err
		}
		imported++
	}

	i.logger.InfoContext(ctx, "questions imported",
		"test_id", testID,
		"imported", imported,
		"parsed", len(parsed),
	)
	i.incrementQuestionsImported(imported)
	return imported, nil
}

func (i *Importer) incrementQuestionsImported(n int) {
	if i.metrics != nil && n > 0 {
		i.metrics.QuestionsImported.Add(float64(n))
	}
}
