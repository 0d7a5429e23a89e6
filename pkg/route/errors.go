package route

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks.
var (
	ErrDuplicateRoute = errors.New("duplicate route name")
	ErrInvalidPattern = errors.New("invalid path pattern")
	ErrUnknownParent  = errors.New("unknown parent route")
	ErrMissingParam   = errors.New("missing path parameter")
)

// DuplicateRouteError is returned when a route name is registered twice.
type DuplicateRouteError struct {
	Name string
}

func (e *DuplicateRouteError) Error() string {
	return fmt.Sprintf("route %q is already registered", e.Name)
}

func (e *DuplicateRouteError) Is(target error) bool { return target == ErrDuplicateRoute }

// ErrorCode returns the navigator error code.
func (e *DuplicateRouteError) ErrorCode() string { return "NAV101" }

// PatternError is returned when a path pattern cannot be compiled.
type PatternError struct {
	Pattern string
	Reason  string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid path pattern %q: %s", e.Pattern, e.Reason)
}

func (e *PatternError) Is(target error) bool { return target == ErrInvalidPattern }

// ErrorCode returns the navigator error code.
func (e *PatternError) ErrorCode() string { return "NAV102" }

// UnknownParentError is returned by Registry.Validate for a route whose
// parent was never registered.
type UnknownParentError struct {
	Route  string
	Parent string
}

func (e *UnknownParentError) Error() string {
	return fmt.Sprintf("route %q names unknown parent %q", e.Route, e.Parent)
}

func (e *UnknownParentError) Is(target error) bool { return target == ErrUnknownParent }

// ErrorCode returns the navigator error code.
func (e *UnknownParentError) ErrorCode() string { return "NAV104" }

// MissingParamError is returned when a path is generated without a value
// for a required parameter.
type MissingParamError struct {
	Pattern string
	Param   string
}

func (e *MissingParamError) Error() string {
	return fmt.Sprintf("pattern %q requires parameter %q", e.Pattern, e.Param)
}

func (e *MissingParamError) Is(target error) bool { return target == ErrMissingParam }

// ErrorCode returns the navigator error code.
func (e *MissingParamError) ErrorCode() string { return "NAV105" }
