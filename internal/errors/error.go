package errors

import (
	"bufio"
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
)

// Category represents the type of error.
type Category string

const (
	CategoryRouting Category = "routing"
	CategoryPattern Category = "pattern"
	CategoryConfig  Category = "config"
	CategoryCLI     Category = "cli"
)

// Location represents a position in a definition file.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// NavError is a structured error with an optional file location and a fix hint.
type NavError struct {
	// Code is a unique error identifier (e.g., "NAV101").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the definition file position where the error occurred.
	Location *Location

	// Context contains surrounding lines of the definition file.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Coded is implemented by errors that map onto a registered code.
type Coded interface {
	error
	ErrorCode() string
}

// Error implements the error interface.
func (e *NavError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *NavError) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds a file location to the error.
func (e *NavError) WithLocation(file string, line, column int) *NavError {
	e.Location = &Location{File: file, Line: line, Column: column}
	return e
}

// WithSource fills Context with the lines of src around the location line.
// It does nothing without a location.
func (e *NavError) WithSource(src []byte) *NavError {
	if e.Location == nil {
		return e
	}
	e.Context = readContextLines(bytes.NewReader(src), e.Location.Line, 5)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *NavError) WithSuggestion(s string) *NavError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *NavError) WithDetail(d string) *NavError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *NavError) Wrap(err error) *NavError {
	e.Wrapped = err
	return e
}

// readContextLines reads lines around the specified line number.
func readContextLines(r io.Reader, targetLine, contextSize int) []string {
	var lines []string
	scanner := bufio.NewScanner(r)
	lineNum := 0
	startLine := targetLine - contextSize/2
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}

	return lines
}

// New creates a NavError from a registered error code.
func New(code string) *NavError {
	template, ok := registry[code]
	if !ok {
		return &NavError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &NavError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a new NavError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *NavError {
	return &NavError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError lifts err into a NavError. Errors implementing Coded keep their
// own code; anything else is wrapped under fallback.
func FromError(err error, fallback string) *NavError {
	if err == nil {
		return nil
	}
	var ne *NavError
	if stderrors.As(err, &ne) {
		return ne
	}
	var coded Coded
	if stderrors.As(err, &coded) {
		out := New(coded.ErrorCode()).Wrap(err)
		out.Detail = coded.Error()
		return out
	}
	out := New(fallback).Wrap(err)
	out.Detail = err.Error()
	return out
}
