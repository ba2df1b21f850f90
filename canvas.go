package main

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mindmap/internal/hittest"
	"mindmap/internal/layout"
	"mindmap/internal/tree"
)

type cellKind int

const (
	cellEmpty cellKind = iota
	cellEdge
	cellNode
	cellSelected
)

// Connector directions, combined per cell so crossing lines join.
const (
	dirUp = 1 << iota
	dirDown
	dirLeft
	dirRight
)

var edgeRunes = map[int]rune{
	dirLeft | dirRight:                   '─',
	dirUp | dirDown:                      '│',
	dirDown | dirLeft:                    '┐',
	dirUp | dirLeft:                      '┘',
	dirDown | dirRight:                   '┌',
	dirUp | dirRight:                     '└',
	dirUp | dirDown | dirLeft:            '┤',
	dirUp | dirDown | dirRight:           '├',
	dirLeft | dirRight | dirDown:         '┬',
	dirLeft | dirRight | dirUp:           '┴',
	dirUp | dirDown | dirLeft | dirRight: '┼',
	dirLeft:                              '─',
	dirRight:                             '─',
	dirUp:                                '│',
	dirDown:                              '│',
}

type canvasCell struct {
	ch    rune // 0 for the trailing half of a wide rune
	kind  cellKind
	edges int
	color string
	node  int
}

// Grid is one rendered frame of the terminal canvas.
type Grid struct {
	width, height int
	cells         [][]canvasCell
}

func newGrid(width, height int) *Grid {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	g := &Grid{width: width, height: height, cells: make([][]canvasCell, height)}
	for y := range g.cells {
		g.cells[y] = make([]canvasCell, width)
		for x := range g.cells[y] {
			g.cells[y][x].ch = ' '
		}
	}
	return g
}

func (g *Grid) isValidPos(x, y int) bool {
	return y >= 0 && y < g.height && x >= 0 && x < g.width
}

// NodeAt returns the id of the node drawn at a cell, or 0.
func (g *Grid) NodeAt(x, y int) int {
	if !g.isValidPos(x, y) {
		return 0
	}
	return g.cells[y][x].node
}

// renderCanvas draws connectors first and boxes on top, the way the PNG
// exporter layers them.
func renderCanvas(root *tree.Node, l *layout.Layout, v hittest.Viewport, selectedID, width, height int) *Grid {
	g := newGrid(width, height)
	if root == nil || l == nil {
		return g
	}
	tree.Walk(root, func(n *tree.Node, _ int) bool {
		for _, child := range n.Children {
			g.drawConnector(l, v, n, child)
		}
		return true
	})
	tree.Walk(root, func(n *tree.Node, _ int) bool {
		if b, ok := l.Box(n.ID); ok {
			g.drawNode(n, b, v, n.ID == selectedID)
		}
		return true
	})
	return g
}

// toCell maps a world point to the terminal cell it falls in.
func toCell(v hittest.Viewport, wx, wy float64) (int, int) {
	sx, sy := v.WorldToScreen(wx, wy)
	return int(math.Floor(sx / cellWidth)), int(math.Floor(sy / cellHeight))
}

// nodeSpan returns the column, row and width in cells of a node's box.
func nodeSpan(b layout.Box, v hittest.Viewport) (int, int, int) {
	x, y := toCell(v, b.X, b.Y)
	right, _ := toCell(v, b.Right(), b.Y)
	w := right - x
	if w < 3 {
		w = 3
	}
	return x, y, w
}

func (g *Grid) drawNode(n *tree.Node, b layout.Box, v hittest.Viewport, selected bool) {
	x0, y, w := nodeSpan(b, v)
	if y < 0 || y >= g.height {
		return
	}

	kind := cellNode
	left, right := '(', ')'
	if selected {
		kind = cellSelected
		left, right = '[', ']'
	}

	label := fitLabel(n.Label, w-2)
	pad := w - 2 - lipgloss.Width(label)
	body := make([]rune, 0, w)
	body = append(body, left)
	body = append(body, []rune(strings.Repeat(" ", pad/2))...)
	body = append(body, []rune(label)...)
	body = append(body, []rune(strings.Repeat(" ", pad-pad/2))...)
	body = append(body, right)

	x := x0
	for _, r := range body {
		rw := lipgloss.Width(string(r))
		if rw < 1 {
			rw = 1
		}
		for i := 0; i < rw; i++ {
			if g.isValidPos(x+i, y) {
				c := &g.cells[y][x+i]
				c.ch = r
				if i > 0 {
					c.ch = 0
				}
				c.kind = kind
				c.edges = 0
				c.color = n.Color
				c.node = n.ID
			}
		}
		x += rw
	}
}

// fitLabel trims a label to limit cells, marking the cut with an ellipsis.
func fitLabel(label string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if lipgloss.Width(label) <= limit {
		return label
	}
	var b strings.Builder
	used := 0
	for _, r := range label {
		rw := lipgloss.Width(string(r))
		if used+rw > limit-1 {
			break
		}
		b.WriteRune(r)
		used += rw
	}
	b.WriteRune('…')
	return b.String()
}

// drawConnector routes an elbow from the parent's right edge to the child's
// left edge, turning at the midpoint column like the bezier it stands for.
func (g *Grid) drawConnector(l *layout.Layout, v hittest.Viewport, parent, child *tree.Node) {
	pb, ok := l.Box(parent.ID)
	if !ok {
		return
	}
	cb, ok := l.Box(child.ID)
	if !ok {
		return
	}
	px, py, pw := nodeSpan(pb, v)
	cx, cy, _ := nodeSpan(cb, v)
	from, to := px+pw, cx-1
	if to < from {
		return
	}
	mid := (from + to) / 2
	color := child.Color

	if py == cy {
		for x := from; x <= to; x++ {
			g.addEdge(x, py, dirLeft|dirRight, color)
		}
		return
	}

	down := cy > py
	for x := from; x < mid; x++ {
		g.addEdge(x, py, dirLeft|dirRight, color)
	}
	if down {
		g.addEdge(mid, py, dirLeft|dirDown, color)
		g.addEdge(mid, cy, dirUp|dirRight, color)
	} else {
		g.addEdge(mid, py, dirLeft|dirUp, color)
		g.addEdge(mid, cy, dirDown|dirRight, color)
	}
	lo, hi := py, cy
	if !down {
		lo, hi = cy, py
	}
	for y := lo + 1; y < hi; y++ {
		g.addEdge(mid, y, dirUp|dirDown, color)
	}
	for x := mid + 1; x <= to; x++ {
		g.addEdge(x, cy, dirLeft|dirRight, color)
	}
}

func (g *Grid) addEdge(x, y, dirs int, color string) {
	if !g.isValidPos(x, y) {
		return
	}
	c := &g.cells[y][x]
	if c.kind == cellNode || c.kind == cellSelected {
		return
	}
	c.kind = cellEdge
	c.edges |= dirs
	c.ch = edgeRunes[c.edges]
	c.color = color
}

type cellStyle struct {
	kind  cellKind
	color string
}

func (s cellStyle) render(text string) string {
	color := lipgloss.Color(s.color)
	switch s.kind {
	case cellEdge:
		return lipgloss.NewStyle().Foreground(color).Render(text)
	case cellNode:
		return lipgloss.NewStyle().Background(color).Foreground(lipgloss.Color("#ffffff")).Render(text)
	case cellSelected:
		return lipgloss.NewStyle().Background(color).Foreground(lipgloss.Color("#ffffff")).Bold(true).Underline(true).Render(text)
	default:
		return text
	}
}

// Lines returns one string per row. Styled output colors runs of cells
// that share a look; plain output is just the runes.
func (g *Grid) Lines(styled bool) []string {
	lines := make([]string, g.height)
	for y, row := range g.cells {
		var line, run strings.Builder
		var cur cellStyle
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if styled {
				line.WriteString(cur.render(run.String()))
			} else {
				line.WriteString(run.String())
			}
			run.Reset()
		}
		for _, c := range row {
			if c.ch == 0 {
				continue
			}
			s := cellStyle{kind: c.kind, color: c.color}
			if s != cur {
				flush()
				cur = s
			}
			run.WriteRune(c.ch)
		}
		flush()
		lines[y] = line.String()
	}
	return lines
}
