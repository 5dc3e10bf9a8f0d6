package service

import (
	"context"
	"errors"
	"strings"

	"trainhub/internal/catalog"
	dErrors "trainhub/pkg/domain-errors"
	"trainhub/pkg/platform/sentinel"
)

// QuestionInput carries the writable question fields. CorrectLetter selects
// which of the four options is the right answer.
type QuestionInput struct {
	Text          string
	OptionTexts   [catalog.OptionCount]string
	CorrectLetter string
}

func (s *Service) buildQuestion(ctx context.Context, testID int64, in QuestionInput) (*catalog.Question, error) {
	in.Text = strings.TrimSpace(in.Text)
	if in.Text == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "question text is required")
	}
	correctPosition, ok := catalog.LetterPosition(in.CorrectLetter)
	if !ok {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "correct answer must be one of A, B, C, D")
	}
	if _, err := s.GetTest(ctx, testID); err != nil {
		return nil, err
	}
	return &catalog.Question{
		TestID:  testID,
		Text:    in.Text,
		Options: catalog.NewOptions(in.OptionTexts, correctPosition),
	}, nil
}

func (s *Service) ListQuestions(ctx context.Context, testID int64) ([]catalog.Question, error) {
	if _, err := s.GetTest(ctx, testID); err != nil {
		return nil, err
	}
	questions, err := s.store.ListQuestionsByTest(ctx, testID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list questions")
	}
	return questions, nil
}

func (s *Service) CountQuestions(ctx context.Context, testID int64) (int, error) {
	if _, err := s.GetTest(ctx, testID); err != nil {
		return 0, err
	}
	n, err := s.store.CountQuestionsByTest(ctx, testID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count questions")
	}
	return n, nil
}

func (s *Service) CreateQuestion(ctx context.Context, testID int64, in QuestionInput) (*catalog.Question, error) {
	q, err := s.buildQuestion(ctx, testID, in)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateQuestion(ctx, q); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create question")
	}
	return q, nil
}

// UpdateQuestion replaces the question text and its full option set.
func (s *Service) UpdateQuestion(ctx context.Context, id int64, in QuestionInput) (*catalog.Question, error) {
	current, err := s.store.GetQuestion(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "question not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load question")
	}

	q, err := s.buildQuestion(ctx, current.TestID, in)
	if err != nil {
		return nil, err
	}
	q.ID = id
	if err := s.store.UpdateQuestion(ctx, q); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "question not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update question")
	}
	return q, nil
}

func (s *Service) DeleteQuestion(ctx context.Context, id int64) error {
	if err := s.store.DeleteQuestion(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "question not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete question")
	}
	return nil
}
