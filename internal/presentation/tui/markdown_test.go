package tui_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/moedit/internal/presentation/tui"
	"github.com/aretw0/moedit/internal/testutils"
	"github.com/aretw0/moedit/pkg/domain"
	"github.com/aretw0/moedit/pkg/outline"
	"github.com/aretw0/moedit/pkg/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportMarkdown(t *testing.T) {
	r := &plan.Report{Steps: []plan.StepResult{
		{Index: 0, Op: "clone", Target: "Example.G.R4C3", Delta: 120},
		{Index: 1, Op: "set_parameter", Delta: -1},
	}}

	md := tui.ReportMarkdown("Example1.mo", r)
	assert.Contains(t, md, "# Example1.mo")
	assert.Contains(t, md, "| 1 | clone | `Example.G.R4C3` | +120 |")
	assert.Contains(t, md, "| 2 | set_parameter | `(document)` | -1 |")

	assert.Contains(t, tui.ReportMarkdown("x", nil), "_No steps applied._")
}

func TestTraceMarkdown(t *testing.T) {
	trace := domain.Trace{
		{Segment: "Example", Keyword: "package", Matched: true, Offset: 9},
		{Segment: "H", Keyword: "package", Matched: false, Offset: -1},
	}

	md := tui.TraceMarkdown("Example.H.R", trace)
	assert.Contains(t, md, "1. `package Example`: found at offset 9")
	assert.Contains(t, md, "2. `package H`: not found")
}

func TestOutlineMarkdown(t *testing.T) {
	blocks, err := outline.Scan(testutils.ExampleModel)
	require.NoError(t, err)

	md := tui.OutlineMarkdown(blocks)
	assert.Contains(t, md, "- **package** Example\n  - **package** G\n    - **model** R4C3\n")
	assert.Contains(t, md, "  - **model** Standalone\n")
}

func TestStatus_PlainWriter(t *testing.T) {
	var buf bytes.Buffer
	tui.Status(&buf, false, "%d step(s) failed", 1)
	assert.Contains(t, buf.String(), "✘ 1 step(s) failed")
}
