package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mindmap/internal/tree"
)

// OutlineOptions controls Outline.
type OutlineOptions struct {
	SelectedID int
	// Styled paints each node's swatch in its color and highlights the
	// selected label. Plain output marks the selection with '*'.
	Styled bool
	// Indent is the number of spaces per depth level. Zero means 2.
	Indent int
}

var selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)

// Outline renders the tree as an indented list, one node per line in
// display order.
func Outline(root *tree.Node, opts OutlineOptions) string {
	if root == nil {
		return ""
	}
	if opts.Indent <= 0 {
		opts.Indent = 2
	}

	var b strings.Builder
	tree.Walk(root, func(n *tree.Node, depth int) bool {
		b.WriteString(strings.Repeat(" ", depth*opts.Indent))
		selected := n.ID == opts.SelectedID
		if opts.Styled {
			swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(colorOr(n.Color))).Render("■")
			label := n.Label
			if selected {
				label = selectedStyle.Render(label)
			}
			b.WriteString(swatch + " " + label)
		} else {
			marker := "-"
			if selected {
				marker = "*"
			}
			b.WriteString(marker + " " + n.Label)
		}
		b.WriteByte('\n')
		return true
	})
	return b.String()
}
