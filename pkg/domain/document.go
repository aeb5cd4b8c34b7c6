package domain

import (
	"fmt"
	"strings"
)

// Block keywords understood by the resolver.
const (
	KeywordContainer = "package"
	KeywordLeaf      = "model"
)

// Document is the full text of one model file.
// The Text is never patched in place; every edit produces a new value.
type Document struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Path is a dotted address through nested containers.
// All elements except the last name containers; the last names the target leaf.
type Path []string

// ParsePath splits a dotted path such as "Example.G.R4C3".
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	parts := strings.Split(s, ".")
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("%w: empty segment at position %d in %q", ErrInvalidPath, i, s)
		}
		parts[i] = p
	}
	return Path(parts), nil
}

// MustParsePath is like ParsePath but panics on error. Intended for tests and constants.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the dotted form of the path.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// Leaf returns the last segment, the name of the target block.
func (p Path) Leaf() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Parent returns the container part of the path.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

// Sibling returns a path in the same container with a different leaf name.
func (p Path) Sibling(name string) Path {
	out := make(Path, 0, len(p))
	out = append(out, p.Parent()...)
	return append(out, name)
}

// Span is a contiguous region of a Document.
// Text always starts with the block's start marker and ends with its end marker.
type Span struct {
	Path    Path   `json:"path"`
	Keyword string `json:"keyword"`
	Name    string `json:"name"`
	Text    string `json:"text"`
	Offset  int    `json:"offset"`
}

// End returns the offset immediately after the span's end marker.
func (s Span) End() int {
	return s.Offset + len(s.Text)
}

// In reports whether the span still describes the given document text.
func (s Span) In(doc string) bool {
	if s.Offset < 0 || s.End() > len(doc) {
		return false
	}
	return doc[s.Offset:s.End()] == s.Text
}
