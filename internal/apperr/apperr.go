// Package apperr defines the failures the report generator distinguishes and
// the single line shown to the operator for each of them.
package apperr

import (
	"errors"
	"fmt"
)

// InputNotFoundError reports that the automation-run result file does not exist.
type InputNotFoundError struct {
	Path string
}

func (e *InputNotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Path)
}

// StructureError reports a result document that lacks the expected play/task chain
// or cannot be decoded at all.
type StructureError struct {
	Path   string
	Reason string
}

func (e *StructureError) Error() string {
	if e.Path == "" {
		return "invalid result document: " + e.Reason
	}
	return fmt.Sprintf("invalid result document at %s: %s", e.Path, e.Reason)
}

// PartialExtractionError reports a host record that could not be traversed.
// It aborts the whole run; hosts are never skipped individually.
type PartialExtractionError struct {
	Host   string
	Task   string
	Reason string
}

func (e *PartialExtractionError) Error() string {
	if e.Task == "" {
		return fmt.Sprintf("host %q: %s", e.Host, e.Reason)
	}
	return fmt.Sprintf("host %q task %q: %s", e.Host, e.Task, e.Reason)
}

// Structure is shorthand for a StructureError.
func Structure(path, format string, args ...interface{}) error {
	return &StructureError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// Message maps any failure to the line printed on standard output.
func Message(err error) string {
	var notFound *InputNotFoundError
	if errors.As(err, &notFound) {
		return fmt.Sprintf("Error: %s not found. Please run the Ansible playbook with JSON output first.", notFound.Path)
	}
	return fmt.Sprintf("An error occurred: %v", err)
}
