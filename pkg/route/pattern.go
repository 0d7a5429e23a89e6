package route

import (
	"net/url"
	"regexp"
	"strings"
)

// segmentKind distinguishes the three segment forms of a pattern.
type segmentKind int

const (
	segmentStatic segmentKind = iota
	segmentParam
	segmentOptional
)

// segment is one slash-delimited piece of a compiled pattern.
type segment struct {
	kind segmentKind

	// value is the literal for static segments and the parameter name otherwise.
	value string
}

// identifierRegex matches valid parameter names.
var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Pattern is a compiled path pattern.
type Pattern struct {
	raw      string
	segments []segment
	params   []string

	// required is the number of leading segments that must be present.
	required int
}

// Compile parses a path pattern such as "/snippets/:id/:tab?".
func Compile(pattern string) (*Pattern, error) {
	if !strings.HasPrefix(pattern, "/") {
		return nil, &PatternError{Pattern: pattern, Reason: "pattern must start with /"}
	}

	p := &Pattern{raw: pattern}
	seen := make(map[string]bool)
	optionalSeen := false

	for _, seg := range splitPath(pattern) {
		if seg == "" {
			return nil, &PatternError{Pattern: pattern, Reason: "empty segment"}
		}

		s, err := parseSegment(seg)
		if err != nil {
			return nil, &PatternError{Pattern: pattern, Reason: err.Error()}
		}

		if s.kind != segmentStatic {
			if seen[s.value] {
				return nil, &PatternError{Pattern: pattern, Reason: "duplicate parameter :" + s.value}
			}
			seen[s.value] = true
			p.params = append(p.params, s.value)
		}

		if s.kind == segmentOptional {
			optionalSeen = true
		} else if optionalSeen {
			return nil, &PatternError{Pattern: pattern, Reason: "optional parameter followed by required segment " + seg}
		} else {
			p.required++
		}

		p.segments = append(p.segments, s)
	}

	return p, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(pattern string) *Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

type segmentError string

func (e segmentError) Error() string { return string(e) }

// parseSegment classifies a single pattern segment.
// Input: "pages" -> static, ":id" -> param, ":tab?" -> optional param.
func parseSegment(seg string) (segment, error) {
	if !strings.HasPrefix(seg, ":") {
		if strings.ContainsAny(seg, "?:") {
			return segment{}, segmentError("static segment " + seg + " contains a reserved character")
		}
		return segment{kind: segmentStatic, value: seg}, nil
	}

	name := seg[1:]
	kind := segmentParam
	if strings.HasSuffix(name, "?") {
		name = name[:len(name)-1]
		kind = segmentOptional
	}

	if !identifierRegex.MatchString(name) {
		return segment{}, segmentError("parameter name " + name + " is not an identifier")
	}

	return segment{kind: kind, value: name}, nil
}

// String returns the source pattern.
func (p *Pattern) String() string {
	return p.raw
}

// Params returns the parameter names in pattern order.
func (p *Pattern) Params() []string {
	out := make([]string, len(p.params))
	copy(out, p.params)
	return out
}

// HasParam reports whether name is a parameter of the pattern.
func (p *Pattern) HasParam(name string) bool {
	for _, param := range p.params {
		if param == name {
			return true
		}
	}
	return false
}

// Match matches a URL path against the pattern and returns the unescaped
// parameter values. Absent optional parameters are not present in the map.
// A trailing slash is ignored.
func (p *Pattern) Match(path string) (map[string]string, bool) {
	parts := splitPath(path)
	if len(parts) < p.required || len(parts) > len(p.segments) {
		return nil, false
	}

	params := make(map[string]string, len(p.params))
	for i, part := range parts {
		seg := p.segments[i]

		if seg.kind == segmentStatic {
			if part != seg.value {
				return nil, false
			}
			continue
		}

		if part == "" {
			return nil, false
		}
		value, err := url.PathUnescape(part)
		if err != nil {
			return nil, false
		}
		params[seg.value] = value
	}

	return params, true
}

// PathParams returns the parameters Generate places into the path for
// values, in pattern order. The first optional parameter without a value
// ends the path, so later optional parameters are not part of it.
func (p *Pattern) PathParams(values map[string]string) []string {
	var out []string
	for _, seg := range p.segments {
		if seg.kind == segmentStatic {
			continue
		}
		if values[seg.value] == "" {
			if seg.kind == segmentOptional {
				break
			}
			continue
		}
		out = append(out, seg.value)
	}
	return out
}

// Generate builds a concrete path from parameter values. Trailing optional
// segments without a value (or with an empty value) are omitted.
func (p *Pattern) Generate(values map[string]string) (string, error) {
	parts := make([]string, 0, len(p.segments))

	for _, seg := range p.segments {
		if seg.kind == segmentStatic {
			parts = append(parts, seg.value)
			continue
		}

		value := values[seg.value]
		if value == "" {
			if seg.kind == segmentParam {
				return "", &MissingParamError{Pattern: p.raw, Param: seg.value}
			}
			// Only optional segments can follow an optional segment.
			break
		}
		parts = append(parts, url.PathEscape(value))
	}

	return "/" + strings.Join(parts, "/"), nil
}

// splitPath splits a path into segments.
func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
