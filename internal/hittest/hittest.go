package hittest

import (
	"mindmap/internal/layout"
	"mindmap/internal/tree"
)

// Margin widens every box horizontally to make clicks less fiddly.
const Margin = 10.0

// Contains reports whether a world point lies in a node's hit area.
func Contains(b layout.Box, wx, wy float64) bool {
	return wx >= b.X-Margin && wx <= b.X+b.Width+Margin &&
		wy >= b.Y-layout.BoxHeight/2 && wy <= b.Y+layout.BoxHeight/2
}

// NodeAt returns the first node in pre-order whose hit area contains the
// world point, or nil. A node is tested before its children.
func NodeAt(root *tree.Node, l *layout.Layout, wx, wy float64) *tree.Node {
	if root == nil || l == nil {
		return nil
	}
	if b, ok := l.Box(root.ID); ok && Contains(b, wx, wy) {
		return root
	}
	for _, child := range root.Children {
		if found := NodeAt(child, l, wx, wy); found != nil {
			return found
		}
	}
	return nil
}

// NodeAtScreen converts a screen point through v and hit-tests it.
func NodeAtScreen(root *tree.Node, l *layout.Layout, v Viewport, sx, sy float64) *tree.Node {
	wx, wy := v.ScreenToWorld(sx, sy)
	return NodeAt(root, l, wx, wy)
}
