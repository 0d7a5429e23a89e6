package history

import (
	"errors"
	"strings"
)

// Location errors.
var (
	ErrInvalidPath          = errors.New("history: invalid path")
	ErrAbsoluteURL          = errors.New("history: absolute URLs are not allowed")
	ErrBackslashInPath      = errors.New("history: path contains backslash")
	ErrNullByteInPath       = errors.New("history: path contains null byte")
	ErrInvalidPercentEscape = errors.New("history: invalid percent escape sequence")
	ErrPathEscapesRoot      = errors.New("history: path escapes root via ..")
)

// Location is the part of a URL the router works with.
type Location struct {
	// Path is the canonical path, always starting with "/".
	Path string

	// Query is the raw query string without the leading "?".
	Query string
}

// String returns the location as a relative URL.
func (l Location) String() string {
	if l.Query == "" {
		return l.Path
	}
	return l.Path + "?" + l.Query
}

// Search returns the query string with its leading "?", or "" if empty.
func (l Location) Search() string {
	if l.Query == "" {
		return ""
	}
	return "?" + l.Query
}

// ParseLocation parses a relative URL into a canonical Location.
//
// The path is normalized: repeated slashes collapse, "." segments are
// dropped, ".." segments are resolved and a trailing slash is removed
// (except for the root). Fragments are discarded. Absolute URLs, backslashes,
// NUL bytes, invalid percent escapes and paths escaping the root are
// rejected. The query string is kept as-is.
func ParseLocation(raw string) (Location, error) {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") || strings.HasPrefix(raw, "//") {
		return Location{}, ErrAbsoluteURL
	}

	raw, _, _ = strings.Cut(raw, "#")
	path, query, _ := strings.Cut(raw, "?")

	if strings.Contains(path, "\\") {
		return Location{}, ErrBackslashInPath
	}
	if strings.Contains(path, "\x00") || strings.Contains(path, "%00") {
		return Location{}, ErrNullByteInPath
	}
	if err := validateEscapes(path); err != nil {
		return Location{}, err
	}

	segments := strings.Split(path, "/")
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		switch seg {
		case "", ".":
		case "..":
			if len(out) == 0 {
				return Location{}, ErrPathEscapesRoot
			}
			out = out[:len(out)-1]
		default:
			out = append(out, seg)
		}
	}

	return Location{Path: "/" + strings.Join(out, "/"), Query: query}, nil
}

// MustParseLocation is like ParseLocation but panics on error.
func MustParseLocation(raw string) Location {
	loc, err := ParseLocation(raw)
	if err != nil {
		panic(err)
	}
	return loc
}

func validateEscapes(s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			continue
		}
		if i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 2
	}
	return nil
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
