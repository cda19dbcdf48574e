// Package errors provides the error types used across crosscheck.
// The taxonomy mirrors how a reconciliation run can fail: configuration
// errors halt the run before any table is melted, while data-quality
// anomalies are handled in place and never surface as errors.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors.
var (
	// ErrNotFound indicates that a requested resource was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfig indicates a configuration problem that prevents
	// a reconciliation run from starting.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmptyTable indicates a source table with no rows or columns.
	ErrEmptyTable = errors.New("empty table")
)

// ConfigError represents a configuration error. Configuration errors are
// the only errors that abort a pipeline run; everything downstream
// degrades gracefully so imperfect source data still yields a usable
// partial diff.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// ParseError represents an error when parsing an input format
// (CSV, XLSX, YAML ruleset).
type ParseError struct {
	Format  string
	File    string
	Line    int
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s file %s:%d: %s", e.Format, e.File, e.Line, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError.
func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{Format: format, File: file, Message: message, Err: err}
}

// IOError represents an error during I/O at the collaborator boundary.
// The engine itself performs no I/O; these come from readers and sinks.
type IOError struct {
	Operation string // "read", "write", "open", "close"
	Path      string
	Err       error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("IO error during %s: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError.
func NewIOError(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

// Helper functions for error checking.

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConfig checks if an error is a configuration error. Callers use this
// to distinguish "engine could not run" from "run produced zero diffs".
func IsConfig(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}

// Helper wrapping functions for common patterns.

// WrapIO wraps an error as an IOError.
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError.
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapConfig wraps an error as a ConfigError.
func WrapConfig(component string, err error) error {
	if err == nil {
		return nil
	}
	return NewConfigError(component, err.Error(), err)
}
