// Package scope resolves a dotted path to the exact span of a block.
//
// Resolution narrows the document one segment at a time: every container
// segment is matched inside the previously narrowed text and replaced by its
// interior, and the final segment is matched as a leaf whose whole text,
// markers included, becomes the result. Offsets are carried along so the
// returned span can be spliced back into the original document.
package scope

import (
	"fmt"
	"regexp"

	"github.com/aretw0/moedit/pkg/domain"
	"github.com/aretw0/moedit/pkg/outline"
	"github.com/aretw0/moedit/pkg/pattern"
)

const opResolve = "resolve"

type config struct {
	trace           *domain.Trace
	allowDuplicates bool
}

// Option configures a resolution.
type Option func(*config)

// WithTrace collects one TraceStep per attempted segment into t.
func WithTrace(t *domain.Trace) Option {
	return func(c *config) {
		c.trace = t
	}
}

// WithAllowDuplicates disables the ambiguity check: when several blocks share
// a name at the same level, the first one wins.
func WithAllowDuplicates() Option {
	return func(c *config) {
		c.allowDuplicates = true
	}
}

// Resolve returns the span of the block addressed by path within doc.
// It fails with domain.ErrNotFound naming the first segment that does not
// match, or domain.ErrAmbiguous when a segment matches more than one block at
// the same nesting level.
func Resolve(doc string, path domain.Path, opts ...Option) (domain.Span, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	if len(path) == 0 {
		return domain.Span{}, fmt.Errorf("%w: empty path", domain.ErrInvalidPath)
	}

	scope := doc
	base := 0
	for i, seg := range path {
		leaf := i == len(path)-1

		keyword := domain.KeywordContainer
		src := pattern.ContainerSource(seg)
		if leaf {
			keyword = domain.KeywordLeaf
			src = pattern.LeafSource(seg)
		}
		re := regexp.MustCompile(src)

		loc, err := cfg.match(re, scope, keyword, seg)
		cfg.record(domain.TraceStep{Segment: seg, Keyword: keyword, Pattern: src, Matched: loc != nil, Offset: offsetOf(loc, base)})
		if err != nil {
			return domain.Span{}, domain.NewEditError(opResolve, err.kind, seg, err.detail(path[:i]))
		}

		if leaf {
			return domain.Span{
				Path:    path,
				Keyword: keyword,
				Name:    seg,
				Text:    scope[loc[0]:loc[1]],
				Offset:  base + loc[0],
			}, nil
		}

		// Narrow to the container interior.
		base += loc[2]
		scope = scope[loc[2]:loc[3]]
	}

	// Unreachable: the loop returns on the leaf segment.
	return domain.Span{}, domain.NewEditError(opResolve, domain.ErrNotFound, path.Leaf(), "")
}

// Locate resolves path and returns the span together with the untouched document.
func Locate(doc domain.Document, path domain.Path, opts ...Option) (domain.Span, domain.Document, error) {
	span, err := Resolve(doc.Text, path, opts...)
	if err != nil {
		return domain.Span{}, doc, err
	}
	return span, doc, nil
}

func (c *config) record(step domain.TraceStep) {
	if c.trace != nil {
		*c.trace = append(*c.trace, step)
	}
}

func offsetOf(loc []int, base int) int {
	if loc == nil {
		return -1
	}
	return base + loc[0]
}

func scopeName(p domain.Path) string {
	if len(p) == 0 {
		return "<document>"
	}
	return p.String()
}

// matchError carries the failure class of a single segment match.
type matchError struct {
	kind  error
	count int
}

func (e *matchError) detail(parent domain.Path) string {
	if e.count > 1 {
		return fmt.Sprintf("%d blocks share this name in scope %s", e.count, scopeName(parent))
	}
	return "in scope " + scopeName(parent)
}

// match finds the segment's block directly inside scope and returns the
// submatch indexes of re relative to scope.
//
// The outline scanner picks the block at the top level of scope so that a
// same-named block nested deeper is never selected; the pattern then
// determines the span bounds from that block's start. When scope cannot be
// scanned the first pattern match is used and any further start marker makes
// the segment ambiguous.
func (c *config) match(re *regexp.Regexp, scope, keyword, seg string) ([]int, *matchError) {
	blocks, scanErr := outline.Scan(scope)
	if scanErr != nil {
		loc := re.FindStringSubmatchIndex(scope)
		if loc == nil {
			return nil, &matchError{kind: domain.ErrNotFound}
		}
		if !c.allowDuplicates {
			if n := len(pattern.StartMarker(keyword, seg).FindAllStringIndex(scope, -1)); n > 1 {
				return nil, &matchError{kind: domain.ErrAmbiguous, count: n}
			}
		}
		return loc, nil
	}

	found := outline.Find(blocks, keyword, seg)
	if len(found) == 0 {
		return nil, &matchError{kind: domain.ErrNotFound}
	}
	if len(found) > 1 && !c.allowDuplicates {
		return nil, &matchError{kind: domain.ErrAmbiguous, count: len(found)}
	}

	start := found[0].Start
	loc := re.FindStringSubmatchIndex(scope[start:])
	if loc == nil || loc[0] != 0 {
		return nil, &matchError{kind: domain.ErrNotFound}
	}
	for i := range loc {
		if loc[i] >= 0 {
			loc[i] += start
		}
	}
	return loc, nil
}
