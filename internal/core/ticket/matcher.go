// Package ticket extracts ticket references from commit text.
// This is part of the Functional Core - no I/O, only pure functions.
package ticket

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrEmptyPattern is returned by Compile for a blank pattern.
var ErrEmptyPattern = errors.New("ticket pattern is required")

// Compile compiles the configured ticket pattern.
// An invalid pattern is a configuration error, reported once at startup.
func Compile(expr string) (*regexp.Regexp, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, ErrEmptyPattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid ticket pattern %q: %w", expr, err)
	}
	return re, nil
}

// Match returns the first ticket reference (e.g. "PROJ-123") in text,
// scanning left to right.
// When the pattern has capture groups the first group is the reference,
// otherwise the whole match is.
func Match(pattern *regexp.Regexp, text string) (string, bool) {
	if pattern == nil {
		return "", false
	}
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	ref := m[0]
	if len(m) > 1 {
		ref = m[1]
	}
	if ref == "" {
		return "", false
	}
	return ref, true
}

// Resolve attributes text to a ticket: the first pattern match, else the
// hint, else nothing.
func Resolve(pattern *regexp.Regexp, text, hint string) (string, bool) {
	if ref, ok := Match(pattern, text); ok {
		return ref, true
	}
	if hint != "" {
		return hint, true
	}
	return "", false
}
