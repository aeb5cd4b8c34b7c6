package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/moedit/pkg/domain"
	"github.com/aretw0/moedit/pkg/outline"
	"github.com/aretw0/moedit/pkg/plan"
)

// ReportMarkdown renders the steps of a plan run as a markdown table.
func ReportMarkdown(title string, r *plan.Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)
	if r == nil || len(r.Steps) == 0 {
		sb.WriteString("_No steps applied._\n")
		return sb.String()
	}

	sb.WriteString("| # | Operation | Target | Bytes |\n")
	sb.WriteString("|---|-----------|--------|-------|\n")
	for _, s := range r.Steps {
		target := s.Target
		if target == "" {
			target = "(document)"
		}
		fmt.Fprintf(&sb, "| %d | %s | `%s` | %+d |\n", s.Index+1, s.Op, target, s.Delta)
	}
	return sb.String()
}

// TraceMarkdown lists the resolution steps of a path.
func TraceMarkdown(path string, trace domain.Trace) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Resolving `%s`\n\n", path)
	for i, st := range trace {
		status := "not found"
		if st.Matched {
			status = fmt.Sprintf("found at offset %d", st.Offset)
		}
		fmt.Fprintf(&sb, "%d. `%s %s`: %s\n", i+1, st.Keyword, st.Segment, status)
	}
	return sb.String()
}

// OutlineMarkdown renders the block tree as a nested list.
func OutlineMarkdown(blocks []*outline.Block) string {
	var sb strings.Builder
	outline.Walk(blocks, func(b *outline.Block) bool {
		fmt.Fprintf(&sb, "%s- **%s** %s\n", strings.Repeat("  ", b.Depth), b.Keyword, b.Name)
		return true
	})
	return sb.String()
}
