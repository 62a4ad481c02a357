package filter

import (
	"errors"
	"fmt"
)

var (
	// ErrFilterNotFound is returned for an unknown preset name
	ErrFilterNotFound = errors.New("filter not found")
	// ErrPoolStopped is returned when work is submitted to a stopped pool
	ErrPoolStopped = errors.New("worker pool is stopped")
)

// Error types for filter operations
type (
	// CompilationError indicates a filter expression could not be compiled
	CompilationError struct {
		Expression string
		Reason     string
		Err        error
	}

	// EvaluationError indicates a filter could not be evaluated against an object
	EvaluationError struct {
		Expression string
		ObjectName string
		Reason     string
		Err        error
	}
)

func (e *CompilationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("compilation error in '%s': %s: %v", e.Expression, e.Reason, e.Err)
	}
	return fmt.Sprintf("compilation error in '%s': %s", e.Expression, e.Reason)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluation error for filter '%s' on '%s': %s", e.Expression, e.ObjectName, e.Reason)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}
