// Package pipeline provides the image-to-bead-grid conversion pipeline.
package pipeline

import "fmt"

// InputError indicates invalid caller input: an empty or unreadable byte
// stream, non-positive source dimensions or out-of-range parameters.
// Input errors are detected before pipeline execution begins.
type InputError struct {
	Err error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %v", e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

func inputErrorf(format string, args ...any) *InputError {
	return &InputError{Err: fmt.Errorf(format, args...)}
}

// ProcessingError indicates an unexpected failure while the pipeline was
// running. The conversion is aborted as a whole; there is no partial or
// best-effort grid.
type ProcessingError struct {
	Stage string
	Err   error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("conversion failed at %s: %v", e.Stage, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}
