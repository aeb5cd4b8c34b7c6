package mutate

import "strings"

// DefaultIndent is the indentation unit added for one nesting level.
const DefaultIndent = "  "

type options struct {
	indent          string
	allowDuplicates bool
}

// Option configures a mutation.
type Option func(*options)

// WithIndent sets the indentation unit used for inserted lines.
func WithIndent(unit string) Option {
	return func(o *options) {
		o.indent = unit
	}
}

// WithAllowDuplicates makes edits apply to every match instead of failing with
// domain.ErrAmbiguous when a target occurs more than once.
func WithAllowDuplicates() Option {
	return func(o *options) {
		o.allowDuplicates = true
	}
}

func newOptions(opts []Option) *options {
	o := &options{indent: DefaultIndent}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// lineAt describes the line containing pos.
// indent is the leading whitespace of the line and blank reports whether
// everything between the line start and pos is whitespace.
func lineAt(text string, pos int) (start int, indent string, blank bool) {
	start = strings.LastIndexByte(text[:pos], '\n') + 1
	prefix := text[start:pos]
	trimmed := strings.TrimLeft(prefix, " \t")
	indent = prefix[:len(prefix)-len(trimmed)]
	return start, indent, trimmed == ""
}

// newline returns the line terminator used by text.
func newline(text string) string {
	if strings.Contains(text, "\r\n") {
		return "\r\n"
	}
	return "\n"
}
