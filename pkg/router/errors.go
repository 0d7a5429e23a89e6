package router

import (
	"errors"
	"fmt"
)

// ErrRouteNotFound is returned when navigating to an unregistered route.
var ErrRouteNotFound = errors.New("route not found")

// RouteNotFoundError reports the unknown route name.
type RouteNotFoundError struct {
	Name string
}

func (e *RouteNotFoundError) Error() string {
	return fmt.Sprintf("route %q not found", e.Name)
}

// Is reports whether target is ErrRouteNotFound.
func (e *RouteNotFoundError) Is(target error) bool { return target == ErrRouteNotFound }

// ErrorCode returns the registered error code.
func (e *RouteNotFoundError) ErrorCode() string { return "NAV103" }
