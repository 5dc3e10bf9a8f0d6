// Package question parses the plain-text bulk question format. Questions
// arrive as fixed six-line groups: the question text, the four answer
// options in order, and the letter of the correct option.
package question

import (
	"bufio"
	"io"
	"strings"

	"trainhub/internal/catalog"
)

// groupSize is the number of lines one question occupies.
const groupSize = 2 + catalog.OptionCount

// Parsed is one well-formed six-line group.
type Parsed struct {
	Text          string
	OptionTexts   [catalog.OptionCount]string
	CorrectLetter string
}

// Parse reads six-line groups from r. Groups with an empty question text or
// an unrecognized answer letter are skipped but still consume their six
// lines, and a trailing partial group is ignored. The letter comparison is
// case-insensitive.
func Parse(r io.Reader) ([]Parsed, error) {
	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	var parsed []Parsed
	for i := 0; i+groupSize <= len(lines); i += groupSize {
		text := strings.TrimSpace(lines[i])
		letter := strings.TrimSpace(lines[i+groupSize-1])
		if text == "" {
			continue
		}
		if _, ok := catalog.LetterPosition(letter); !ok {
			continue
		}

		p := Parsed{Text: text, CorrectLetter: letter}
		for j := range p.OptionTexts {
			p.OptionTexts[j] = strings.TrimSpace(lines[i+1+j])
		}
		parsed = append(parsed, p)
	}
	return parsed, nil
}
