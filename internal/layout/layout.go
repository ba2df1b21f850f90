// Package layout computes left-to-right tree geometry for a mind map.
//
// All nodes at one depth share an x offset; each depth is pushed right by the
// widest node of the depth before it plus a gap. Subtrees are stacked top to
// bottom and every node is centred on its own subtree. Geometry is returned
// as a side-table keyed by node id and never written onto the nodes.
package layout

import (
	"math"

	"mindmap/internal/tree"
)

// Geometry constants, in world units (pixels at zoom 1).
const (
	NodeHeight    = 30.0
	BoxHeight     = 26.0
	HorizontalGap = 30.0
	VerticalGap   = 10.0
	MinWidth      = 60.0
	Padding       = 24.0
)

// Box is the computed geometry of one node. X is the left edge, Y the
// vertical centre.
type Box struct {
	X           float64
	Y           float64
	Width       float64
	TotalHeight float64
	Depth       int
}

// Right returns the x of the box's right edge.
func (b Box) Right() float64 { return b.X + b.Width }

// Rect is an axis-aligned rectangle in world space.
type Rect struct {
	X, Y, Width, Height float64
}

// Layout is the result of one layout pass.
type Layout struct {
	boxes        map[int]Box
	depthOffsets []float64
}

// Box returns the geometry of the node with the given id.
func (l *Layout) Box(id int) (Box, bool) {
	b, ok := l.boxes[id]
	return b, ok
}

// Len returns the number of laid out nodes.
func (l *Layout) Len() int { return len(l.boxes) }

// DepthOffset returns the shared x offset of a depth.
func (l *Layout) DepthOffset(depth int) float64 {
	if depth < 0 || depth >= len(l.depthOffsets) {
		return 0
	}
	return l.depthOffsets[depth]
}

// Depths returns the number of depth columns.
func (l *Layout) Depths() int { return len(l.depthOffsets) }

// Bounds returns the rectangle covering every node box.
func (l *Layout) Bounds() Rect {
	if len(l.boxes) == 0 {
		return Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, b := range l.boxes {
		minX = math.Min(minX, b.X)
		maxX = math.Max(maxX, b.Right())
		minY = math.Min(minY, b.Y-BoxHeight/2)
		maxY = math.Max(maxY, b.Y+BoxHeight/2)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// NodeWidth returns the display width of a label.
func NodeWidth(label string, m Measurer, font Font) float64 {
	return math.Max(MinWidth, m.Measure(label, font)+Padding)
}

// Compute lays out the tree rooted at root. The result depends only on the
// tree, the measurer and the font.
func Compute(root *tree.Node, m Measurer, font Font) *Layout {
	l := &Layout{boxes: make(map[int]Box)}
	if root == nil {
		return l
	}

	widths := make(map[int]float64)
	maxDepth := tree.MaxDepth(root)
	maxWidths := make([]float64, maxDepth+1)
	tree.Walk(root, func(n *tree.Node, depth int) bool {
		w := NodeWidth(n.Label, m, font)
		widths[n.ID] = w
		maxWidths[depth] = math.Max(maxWidths[depth], w)
		return true
	})

	l.depthOffsets = make([]float64, maxDepth+1)
	for d := 0; d < maxDepth; d++ {
		l.depthOffsets[d+1] = l.depthOffsets[d] + maxWidths[d] + HorizontalGap
	}

	heights := make(map[int]float64)
	subtreeHeight(root, heights)
	l.place(root, 0, -heights[root.ID]/2, widths, heights)
	return l
}

// subtreeHeight fills heights with the vertical span of every subtree.
func subtreeHeight(n *tree.Node, heights map[int]float64) float64 {
	h := NodeHeight
	if len(n.Children) > 0 {
		sum := 0.0
		for i, child := range n.Children {
			if i > 0 {
				sum += VerticalGap
			}
			sum += subtreeHeight(child, heights)
		}
		h = math.Max(NodeHeight, sum)
	}
	heights[n.ID] = h
	return h
}

func (l *Layout) place(n *tree.Node, depth int, top float64, widths, heights map[int]float64) {
	total := heights[n.ID]
	l.boxes[n.ID] = Box{
		X:           l.depthOffsets[depth],
		Y:           top + total/2,
		Width:       widths[n.ID],
		TotalHeight: total,
		Depth:       depth,
	}

	y := top
	for _, child := range n.Children {
		l.place(child, depth+1, y, widths, heights)
		y += heights[child.ID] + VerticalGap
	}
}
