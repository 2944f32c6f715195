package shell

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// PipeDelimiter separates stages. It can't be escaped or quoted.
const PipeDelimiter = "|"

var (
	// ErrEmptyLine is returned for lines with no tokens at all.
	ErrEmptyLine = errors.New("empty line")
	// ErrEmptyStage is returned when a delimiter has nothing on one side.
	ErrEmptyStage = errors.New("empty pipeline stage")
)

// Parse splits a line into a pipeline.
//
// Stages are separated by PipeDelimiter and tokens by runs of whitespace.
// There is no quoting or escaping, so quote characters are ordinary token
// characters and a delimiter always ends a stage.
func Parse(line string) (Pipeline, error) {
	if strings.TrimSpace(line) == "" {
		return nil, ErrEmptyLine
	}

	segments := strings.Split(line, PipeDelimiter)
	pipeline := make(Pipeline, 0, len(segments))

	for i, segment := range segments {
		tokens := strings.FieldsFunc(segment, unicode.IsSpace)
		if len(tokens) == 0 {
			return nil, fmt.Errorf("stage %d: %w near %q", i+1, ErrEmptyStage, PipeDelimiter)
		}

		pipeline = append(pipeline, PipelineStage{
			Kind: Classify(tokens[0]),
			Args: tokens[1:],
		})
	}

	return pipeline, nil
}
