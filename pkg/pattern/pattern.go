// Package pattern holds the regular expressions for the grammar fragments moedit understands.
//
// Every constructor embeds names as literal text through regexp.QuoteMeta.
// Block patterns are lazy so that a match stops at the first end marker
// carrying the same name instead of swallowing sibling blocks.
package pattern

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

// LeafName captures the name of the first leaf block in a text.
var LeafName = regexp.MustCompile(`\bmodel\s+(\w+)`)

// boundary returns the suffix that stops name from matching a longer identifier.
func boundary(name string) string {
	r, _ := utf8.DecodeLastRuneInString(name)
	if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
		return `\b`
	}
	return ""
}

func quote(name string) string {
	return regexp.QuoteMeta(name) + boundary(name)
}

// ContainerSource returns the source of the container pattern for name.
// Group 1 is the interior, without the markers and surrounding whitespace.
func ContainerSource(name string) string {
	q := regexp.QuoteMeta(name)
	return `(?s)\bpackage\s+` + quote(name) + `\s*(.*?)\s*\bend\s+` + q + `\s*;`
}

// Container matches a container block named name.
func Container(name string) *regexp.Regexp {
	return regexp.MustCompile(ContainerSource(name))
}

// LeafSource returns the source of the leaf pattern for name.
// The whole match is the block, markers included.
func LeafSource(name string) string {
	q := regexp.QuoteMeta(name)
	return `(?s)\bmodel\s+` + quote(name) + `(.*?)\bend\s+` + q + `\s*;`
}

// Leaf matches a leaf block named name.
func Leaf(name string) *regexp.Regexp {
	return regexp.MustCompile(LeafSource(name))
}

// StartMarker matches the opening `<keyword> <name>` of a block.
func StartMarker(keyword, name string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(keyword) + `\s+` + quote(name))
}

// EndMarker matches `end <name>;`. Group 1 ends right before the name and
// group 2 starts right after it.
func EndMarker(name string) *regexp.Regexp {
	return regexp.MustCompile(`(\bend\s+)` + regexp.QuoteMeta(name) + `(\s*;)`)
}

// LeafHeader matches the whole line declaring the leaf block name.
// Group 1 is the line's leading indentation, group 2 the optional description
// string and group 3 whatever follows the header on the same line.
func LeafHeader(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^([ \t]*)(?:\w+[ \t]+)*model[ \t]+` + quote(name) + `((?:[ \t]*"(?:[^"\\\n]|\\.)*")?)(.*)$`)
}

// Parameter matches the declaration of the parameter name.
// The name must be the declared identifier that follows the type, so a
// modifier of another parameter carrying the same name never matches.
// Groups: 1 the prefix up to and including "=", 2 the value, 3 the trailer
// (description string, annotation and the terminating semicolon).
func Parameter(name string) *regexp.Regexp {
	return regexp.MustCompile(`(\bparameter\s+(?:\w+\s+)*?[\w.]+(?:\s*\[[^\]]*\])?\s+` + quote(name) + `(?:\s*\[[^\]]*\])?(?:\s*\([^;]*?\))?\s*=\s*)` +
		`((?:"[^"]*"|[^;"])*?)` +
		`((?:\s+"[^"]*")?(?:\s+annotation\b[^;]*)?\s*;)`)
}

// Connect matches `connect(a, b)` with any whitespace around the endpoints.
// Groups 1, 2 and 3 capture that whitespace so a rewrite can keep it.
func Connect(a, b string) *regexp.Regexp {
	return regexp.MustCompile(`\bconnect\((\s*)` + regexp.QuoteMeta(a) + `(\s*,\s*)` + regexp.QuoteMeta(b) + `(\s*)\)`)
}
