// Package outline scans a model document for block delimiters and builds a
// shallow tree of named blocks with their byte offsets.
//
// Only the delimiter keywords are tokenised. Comments and string literals are
// skipped, short class definitions (`model A = B;`) do not open a block and
// `end if;` style statement terminators are ignored. Block bodies stay opaque.
package outline

import (
	"fmt"

	"github.com/aretw0/moedit/pkg/domain"
)

// Block is a named region found by Scan.
type Block struct {
	Keyword  string   `json:"keyword"`
	Name     string   `json:"name"`
	Start    int      `json:"start"` // Offset of the keyword
	End      int      `json:"end"`   // Offset immediately after the terminating ";"
	Depth    int      `json:"depth"`
	Children []*Block `json:"children,omitempty"`
}

// Text returns the block's text within doc.
func (b *Block) Text(doc string) string {
	return doc[b.Start:b.End]
}

var classKeywords = map[string]bool{
	"package":   true,
	"model":     true,
	"class":     true,
	"block":     true,
	"connector": true,
	"record":    true,
	"function":  true,
	"type":      true,
}

var statementEnds = map[string]bool{
	"if":    true,
	"for":   true,
	"when":  true,
	"while": true,
}

type token struct {
	text  string
	start int
	end   int
}

// Scan returns the top-level blocks of text.
// It fails with domain.ErrUnbalanced when an end marker does not close the
// innermost open block or when blocks are left open.
func Scan(text string) ([]*Block, error) {
	toks := tokenize(text)
	var roots []*Block
	var stack []*Block

	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch {
		case classKeywords[t.text]:
			if i+1 >= len(toks) || !isIdent(toks[i+1].text) {
				continue
			}
			if i > 0 && toks[i-1].text == "end" {
				continue
			}
			// "model extends Base" redefines Base in place.
			if toks[i+1].text == "extends" {
				i++
				if i+1 >= len(toks) || !isIdent(toks[i+1].text) {
					continue
				}
			}
			name := toks[i+1]
			if i+2 < len(toks) && toks[i+2].text == "=" {
				i++
				continue
			}
			b := &Block{Keyword: t.text, Name: name.text, Start: t.start, End: -1, Depth: len(stack)}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, b)
			} else {
				roots = append(roots, b)
			}
			stack = append(stack, b)
			i++

		case t.text == "end":
			if i+2 >= len(toks) || toks[i+2].text != ";" {
				continue
			}
			name := toks[i+1].text
			if statementEnds[name] {
				continue
			}
			if len(stack) == 0 {
				return roots, fmt.Errorf("%w: %q closed at offset %d without an open block", domain.ErrUnbalanced, name, t.start)
			}
			top := stack[len(stack)-1]
			if top.Name != name {
				return roots, fmt.Errorf("%w: %q closed at offset %d while %q is open", domain.ErrUnbalanced, name, t.start, top.Name)
			}
			top.End = toks[i+2].end
			stack = stack[:len(stack)-1]
			i += 2
		}
	}

	if len(stack) > 0 {
		return roots, fmt.Errorf("%w: %q is never closed", domain.ErrUnbalanced, stack[len(stack)-1].Name)
	}
	return roots, nil
}

// Walk visits every block depth-first. Returning false from fn stops descent into that block.
func Walk(blocks []*Block, fn func(*Block) bool) {
	for _, b := range blocks {
		if fn(b) {
			Walk(b.Children, fn)
		}
	}
}

// Find returns the blocks directly under blocks whose keyword and name match.
func Find(blocks []*Block, keyword, name string) []*Block {
	var out []*Block
	for _, b := range blocks {
		if b.Name == name && (keyword == "" || b.Keyword == keyword) {
			out = append(out, b)
		}
	}
	return out
}

// SectionMarkers returns the [start, end) offsets of every equation section
// marker in text. Occurrences inside comments and string literals are not
// markers, and neither is "initial equation".
func SectionMarkers(text string) [][]int {
	var out [][]int
	toks := tokenize(text)
	for i, t := range toks {
		if t.text != "equation" {
			continue
		}
		if i > 0 && toks[i-1].text == "initial" {
			continue
		}
		out = append(out, []int{t.start, t.end})
	}
	return out
}

func tokenize(text string) []token {
	var toks []token
	n := len(text)
	for i := 0; i < n; {
		c := text[i]
		switch {
		case c == '/' && i+1 < n && text[i+1] == '/':
			for i < n && text[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < n && text[i+1] == '*':
			i += 2
			for i+1 < n && !(text[i] == '*' && text[i+1] == '/') {
				i++
			}
			i += 2
		case c == '"':
			i++
			for i < n && text[i] != '"' {
				if text[i] == '\\' {
					i++
				}
				i++
			}
			i++
		case c == '\'':
			// Quoted identifier.
			start := i
			i++
			for i < n && text[i] != '\'' {
				if text[i] == '\\' {
					i++
				}
				i++
			}
			i++
			if i > n {
				i = n
			}
			toks = append(toks, token{text: text[start:i], start: start, end: i})
		case isIdentStart(c):
			start := i
			for i < n && isIdentPart(text[i]) {
				i++
			}
			toks = append(toks, token{text: text[start:i], start: start, end: i})
		case c == ';' || c == '=':
			toks = append(toks, token{text: text[i : i+1], start: i, end: i + 1})
			i++
		default:
			i++
		}
	}
	return toks
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '\'' {
		return true
	}
	return isIdentStart(s[0]) && !classKeywords[s] && s != "end"
}
