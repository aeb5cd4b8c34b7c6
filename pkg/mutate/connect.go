package mutate

import (
	"github.com/aretw0/moedit/pkg/domain"
	"github.com/aretw0/moedit/pkg/outline"
	"github.com/aretw0/moedit/pkg/pattern"
)

const (
	OpInsertConnection = "add_connection"
	OpEditConnection   = "edit_connection"
)

// InsertConnection adds `connect(a, b);` on a new line right after the first
// equation section marker, one indentation level deeper than the marker.
func InsertConnection(text string, c domain.Connection, opts ...Option) (string, error) {
	if err := c.Validate(); err != nil {
		return "", domain.NewEditError(OpInsertConnection, domain.ErrInvalidArgument, c.String(), err.Error())
	}
	o := newOptions(opts)

	markers := outline.SectionMarkers(text)
	if len(markers) == 0 {
		return "", domain.NewEditError(OpInsertConnection, domain.ErrAnchorNotFound, "equation", "no equation section in scope")
	}
	marker := markers[0]
	_, indent, _ := lineAt(text, marker[0])

	line := newline(text) + indent + o.indent + c.Statement()
	return text[:marker[1]] + line + text[marker[1]:], nil
}

// EditConnection rewrites the endpoints of `connect(old.A, old.B)` to
// new.A and new.B. Whitespace inside the call is kept as it was, so editing
// back restores the original text exactly.
func EditConnection(text string, old, updated domain.Connection, opts ...Option) (string, error) {
	if err := old.Validate(); err != nil {
		return "", domain.NewEditError(OpEditConnection, domain.ErrInvalidArgument, old.String(), err.Error())
	}
	if err := updated.Validate(); err != nil {
		return "", domain.NewEditError(OpEditConnection, domain.ErrInvalidArgument, updated.String(), err.Error())
	}
	o := newOptions(opts)

	re := pattern.Connect(old.A, old.B)
	locs := re.FindAllStringSubmatchIndex(text, -1)
	switch {
	case len(locs) == 0:
		return "", domain.NewEditError(OpEditConnection, domain.ErrNotFound, "connect"+old.String(), "")
	case len(locs) > 1 && !o.allowDuplicates:
		return "", domain.NewEditError(OpEditConnection, domain.ErrAmbiguous, "connect"+old.String(), "statement occurs more than once")
	}

	return re.ReplaceAllStringFunc(text, func(m string) string {
		sub := re.FindStringSubmatch(m)
		return "connect(" + sub[1] + updated.A + sub[2] + updated.B + sub[3] + ")"
	}), nil
}
