package mutate

import (
	"strings"

	"github.com/aretw0/moedit/pkg/domain"
	"github.com/aretw0/moedit/pkg/pattern"
)

const (
	OpClone   = "clone"
	OpExtends = "extend"
)

// CloneBlock copies the block described by span, renames its start and end
// markers to newName and inserts the copy into doc right after the original
// block, separated by a blank line. The original block is left untouched.
func CloneBlock(doc string, span domain.Span, newName string, opts ...Option) (string, error) {
	if strings.TrimSpace(newName) == "" || strings.ContainsAny(newName, " \t\r\n;") {
		return "", domain.NewEditError(OpClone, domain.ErrInvalidArgument, newName, "invalid block name")
	}
	if !span.In(doc) {
		return "", domain.NewEditError(OpClone, domain.ErrNotFound, span.Name, "span does not match the document")
	}

	m := pattern.LeafName.FindStringSubmatchIndex(span.Text)
	if m == nil {
		return "", domain.NewEditError(OpClone, domain.ErrNotFound, span.Path.String(), "no model name in block")
	}
	oldName := span.Text[m[2]:m[3]]
	renamed := span.Text[:m[2]] + newName + span.Text[m[3]:]

	end := pattern.EndMarker(oldName).FindStringSubmatchIndex(renamed)
	if end == nil {
		return "", domain.NewEditError(OpClone, domain.ErrNotFound, "end "+oldName+";", "no end marker for block")
	}
	renamed = renamed[:end[3]] + newName + renamed[end[4]:]

	_, indent, blank := lineAt(doc, span.Offset)
	if !blank {
		indent = ""
	}
	nl := newline(doc)
	return Splice(doc, span.End(), nl+nl+indent, renamed)
}

// AddExtends inserts `extends <base>;` on the line following the declaration
// of the block owner, one indentation level deeper than that declaration.
func AddExtends(text, base, owner string, opts ...Option) (string, error) {
	if base == "" || owner == "" {
		return "", domain.NewEditError(OpExtends, domain.ErrInvalidArgument, owner, "extends requires a base and an owner")
	}
	o := newOptions(opts)

	re := pattern.LeafHeader(owner)
	locs := re.FindAllStringSubmatchIndex(text, -1)
	switch {
	case len(locs) == 0:
		return "", domain.NewEditError(OpExtends, domain.ErrNotFound, owner, "no declaration line for block")
	case len(locs) > 1 && !o.allowDuplicates:
		return "", domain.NewEditError(OpExtends, domain.ErrAmbiguous, owner, "block is declared more than once")
	}

	loc := locs[0]
	indent := text[loc[2]:loc[3]]
	nl := newline(text)
	stmt := nl + indent + o.indent + "extends " + base + ";"

	rest := strings.TrimSpace(text[loc[6]:loc[7]])
	if rest == "" || strings.HasPrefix(rest, "//") {
		lineEnd := strings.TrimRight(text[:loc[1]], "\r")
		return lineEnd + stmt + text[len(lineEnd):], nil
	}

	// The body shares the header line: break it after the header so the
	// clause stays inside the block.
	body := strings.TrimLeft(text[loc[5]:], " \t")
	return text[:loc[5]] + stmt + nl + indent + o.indent + body, nil
}
