package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/moedit/pkg/domain"
	"github.com/aretw0/moedit/pkg/outline"
)

// Overlay highlights a resolved path on the outline.
type Overlay struct {
	Path domain.Path
}

// GenerateMermaid produces a Mermaid flowchart of the block tree.
// It applies semantic styling:
// - package: [Rectangle]
// - model: ([Stadium])
// - other classes: {{Hexagon}}
// When an overlay is given, the blocks along its path are styled as visited
// and its last block as current.
func GenerateMermaid(blocks []*outline.Block, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var walk func(parent string, level []*outline.Block)
	walk = func(parent string, level []*outline.Block) {
		for _, b := range level {
			id := b.Name
			if parent != "" {
				id = parent + "." + b.Name
			}
			safeID := sanitizeMermaidID(id)

			opener, closer := "{{", "}}"
			switch b.Keyword {
			case domain.KeywordContainer:
				opener, closer = "[", "]"
			case domain.KeywordLeaf:
				opener, closer = "([", "])"
			}
			sb.WriteString(fmt.Sprintf("    %s%s\"%s %s\"%s\n", safeID, opener, b.Keyword, b.Name, closer))

			if parent != "" {
				sb.WriteString(fmt.Sprintf("    %s --> %s\n", sanitizeMermaidID(parent), safeID))
			}
			walk(id, b.Children)
		}
	}
	walk("", blocks)

	if overlay != nil && len(overlay.Path) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		for i := 1; i < len(overlay.Path); i++ {
			sb.WriteString(fmt.Sprintf("    class %s visited;\n", sanitizeMermaidID(overlay.Path[:i].String())))
		}
		sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.Path.String())))
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
