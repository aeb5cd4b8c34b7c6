package mutate

import (
	"fmt"

	"github.com/aretw0/moedit/pkg/domain"
)

// Splice returns doc[:offset] + sep + block + doc[offset:].
// The prefix and suffix of doc are copied unchanged.
func Splice(doc string, offset int, sep, block string) (string, error) {
	if offset < 0 || offset > len(doc) {
		return "", fmt.Errorf("splice offset %d out of range [0, %d]", offset, len(doc))
	}
	return doc[:offset] + sep + block + doc[offset:], nil
}

// Replace writes text in place of span within doc.
// It fails when span no longer describes doc.
func Replace(doc string, span domain.Span, text string) (string, error) {
	if !span.In(doc) {
		return "", domain.NewEditError("replace", domain.ErrNotFound, span.Path.String(), "span does not match the document")
	}
	return doc[:span.Offset] + text + doc[span.End():], nil
}

// Widen extends span back to the start of its line when only indentation
// precedes the start marker, so line-oriented edits see that indentation.
func Widen(doc string, span domain.Span) domain.Span {
	if !span.In(doc) {
		return span
	}
	start, indent, blank := lineAt(doc, span.Offset)
	if !blank || indent == "" {
		return span
	}
	span.Text = doc[start:span.End()]
	span.Offset = start
	return span
}
