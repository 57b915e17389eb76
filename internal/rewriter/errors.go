package rewriter

import "errors"

var (
	// ErrHeaderMismatch means variants grouped under one function disagree on
	// their function or parametrize header. The run must abort.
	ErrHeaderMismatch = errors.New("marked parametrized function differs")
	// ErrNoParametrizeHeader is returned in strict mode when a parametrized
	// function has no parametrize decoration to replace.
	ErrNoParametrizeHeader = errors.New("no parametrize decoration found")
	// ErrDefinitionNotFound means the def line of a test is missing from its source.
	ErrDefinitionNotFound = errors.New("function definition not found")
	// ErrSpanMismatch means the file no longer holds the discovered source at the discovered lines.
	ErrSpanMismatch = errors.New("source span does not match file")
	// ErrOverlappingEdits means two rewrites target overlapping lines of one file.
	ErrOverlappingEdits = errors.New("overlapping edits")
)
