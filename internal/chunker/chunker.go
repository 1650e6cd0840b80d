// Package chunker splits the knowledge document into self-contained
// passages at author-marked boundaries.
//
// The document is pre-authored as FAQ-like units separated by marker lines
// of the form "=== <label> ===". Text between consecutive markers, trimmed,
// is one passage; passages that are empty after trimming are dropped. No
// paragraph- or sentence-level splitting is attempted.
//
// A document without any marker yields a single passage holding the whole
// trimmed document (or none, if the document is blank).
package chunker

import (
	"regexp"
	"strings"
)

// DefaultMarkerPattern matches the passage boundary lines.
const DefaultMarkerPattern = `(?m)^\s*===[^=\n]*===\s*$`

// Splitter splits raw document text into passages.
type Splitter struct {
	marker *regexp.Regexp
}

// Option configures the splitter.
type Option func(*Splitter)

// WithMarkerPattern overrides the boundary line pattern.
func WithMarkerPattern(pattern string) Option {
	return func(s *Splitter) {
		if re, err := regexp.Compile(pattern); err == nil {
			s.marker = re
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		marker: regexp.MustCompile(DefaultMarkerPattern),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Split returns the ordered passages of the document.
func (s *Splitter) Split(text string) []string {
	parts := s.marker.Split(text, -1)

	passages := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		passages = append(passages, part)
	}

	return passages
}
