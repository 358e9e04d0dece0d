package graph

import (
	"fmt"
	"strings"

	"github.com/qqdb/molstar/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart syntax string from a cell
// listing. It applies semantic styling:
// - Root: ((Circle))
// - Volume: [(Cylinder)]
// - Shape (representation output): [/Parallelogram/]
// - Default: [Rectangle]
// Edges are labeled with the transformer name; cell status is overlaid as
// node classes so errors and pending work stand out.
func GenerateMermaid(cells []domain.Cell) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var errored, pending, nulled []string

	for _, cell := range cells {
		ref := cell.Transform.Ref
		safeID := sanitizeMermaidID(string(ref))

		// Node shape based on kind
		opener, closer := "[", "]"
		switch cell.Kind() {
		case domain.KindRoot:
			opener, closer = "((", "))"
		case domain.KindVolume:
			opener, closer = "[(", ")]"
		case domain.KindShape:
			opener, closer = "[/", "/]"
		}

		label := string(ref)
		if cell.Object != nil && cell.Object.Label != "" {
			label = cell.Object.Label
		}
		if cell.Kind() == domain.KindRoot {
			label = "root"
		}
		// Escape double quotes for Mermaid labels
		label = strings.ReplaceAll(label, "\"", "'")

		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))

		switch {
		case cell.Status == domain.StatusError:
			errored = append(errored, safeID)
		case cell.Status == domain.StatusPending || cell.Status == domain.StatusProcessing:
			pending = append(pending, safeID)
		case cell.Object.IsNull():
			nulled = append(nulled, safeID)
		}

		// Edge from the parent, labeled with the transformer
		if ref == domain.RootRef {
			continue
		}
		safeParent := sanitizeMermaidID(string(cell.Transform.Parent))
		arrow := fmt.Sprintf("-- \"%s\" -->", cell.Transform.Transformer)
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeParent, arrow, safeID))
	}

	// Status overlay styles
	if len(errored)+len(pending)+len(nulled) > 0 {
		sb.WriteString("\n    %% Status Styles\n")
		// Force black text (color:#000) for high contrast regardless of theme
		sb.WriteString("    classDef errored fill:#ffcdd2,stroke:#b71c1c,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef pending fill:#fff9c4,stroke:#f9a825,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef nulled fill:#eceff1,stroke:#90a4ae,stroke-width:1px,color:#000;\n")

		for _, id := range errored {
			sb.WriteString(fmt.Sprintf("    class %s errored;\n", id))
		}
		for _, id := range pending {
			sb.WriteString(fmt.Sprintf("    class %s pending;\n", id))
		}
		for _, id := range nulled {
			sb.WriteString(fmt.Sprintf("    class %s nulled;\n", id))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "=", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
