// Package errors provides structured, actionable error messages for the navigator.
//
// Every error carries a code (e.g. "NAV101") that maps to a registered template:
//   - a short message describing the error
//   - a longer explanation
//
// # Error Categories
//
// Errors are grouped into categories:
//   - routing: route registration and navigation errors (duplicate names, unknown routes)
//   - pattern: path pattern compilation errors
//   - config: route definition loading and validation errors
//   - cli: command line usage errors
//
// # Usage
//
//	err := errors.New("NAV202").
//	    WithLocation("navigator.yaml", 12, 5).
//	    WithSource(data).
//	    WithSuggestion("Check the indentation of the routes list")
//
//	fmt.Println(err.Format())
//
// Errors returned by the public packages (route, router) implement
// ErrorCode() and are lifted into a NavError by FromError.
package errors
