package main

import (
	"math"

	tea "github.com/charmbracelet/bubbletea"

	"mindmap/internal/hittest"
	"mindmap/internal/layout"
	"mindmap/internal/tree"
)

func (m *model) handleNavigation(key string) {
	switch key {
	case "h", "left":
		m.selectParent()
	case "l", "right":
		m.selectChild()
	case "k", "up":
		m.selectVertical(-1)
	case "j", "down":
		m.selectVertical(1)
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		m.handlePan(key, m.getMoveSpeed(key))
	}
}

func (m *model) handlePan(key string, speed int) {
	dx, dy := 0.0, 0.0
	switch key {
	case "H", "shift+left":
		dx = 1
	case "L", "shift+right":
		dx = -1
	case "K", "shift+up":
		dy = 1
	case "J", "shift+down":
		dy = -1
	}
	m.view.Pan(dx*float64(speed)*cellWidth, dy*float64(speed)*cellHeight/2)
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "shift+left", "shift+right", "shift+up", "shift+down":
		return panStep * fastPanFactor
	default:
		return panStep
	}
}

func (m *model) zoom(factor float64) {
	m.view.ZoomBy(factor)
	m.ensureVisible(m.sess.SelectedID())
}

func (m *model) resetView() {
	m.view.Reset()
}

func (m *model) selectNode(id int) {
	if m.sess.Select(id) {
		m.ensureVisible(id)
	}
}

func (m *model) selectParent() {
	if p := m.sess.Parent(m.sess.SelectedID()); p != nil {
		m.selectNode(p.ID)
	}
}

// selectChild picks the child closest in height to the selection.
func (m *model) selectChild() {
	n := m.sess.Selected()
	if n == nil || n.IsLeaf() {
		return
	}
	cur, _ := m.layout.Box(n.ID)
	best, bestDist := n.Children[0].ID, math.Inf(1)
	for _, c := range n.Children {
		b, ok := m.layout.Box(c.ID)
		if !ok {
			continue
		}
		if d := math.Abs(b.Y - cur.Y); d < bestDist {
			best, bestDist = c.ID, d
		}
	}
	m.selectNode(best)
}

// selectVertical moves to the nearest node above (dir < 0) or below at the
// same depth, crossing subtree boundaries.
func (m *model) selectVertical(dir int) {
	id := m.sess.SelectedID()
	cur, ok := m.layout.Box(id)
	if !ok {
		return
	}
	best, bestDist := 0, math.Inf(1)
	tree.Walk(m.sess.Root(), func(n *tree.Node, depth int) bool {
		if depth > cur.Depth {
			return false
		}
		if depth < cur.Depth || n.ID == id {
			return true
		}
		b, ok := m.layout.Box(n.ID)
		if !ok {
			return false
		}
		d := (b.Y - cur.Y) * float64(dir)
		if d > 0 && d < bestDist {
			best, bestDist = n.ID, d
		}
		return false
	})
	if best != 0 {
		m.selectNode(best)
	}
}

// ensureVisible pans so that a node's box is inside the canvas.
func (m *model) ensureVisible(id int) {
	if m.layout == nil || m.view.Width <= 0 || m.view.Height <= 0 {
		return
	}
	b, ok := m.layout.Box(id)
	if !ok {
		return
	}
	left, top := m.view.WorldToScreen(b.X, b.Y-layout.BoxHeight/2)
	right, bottom := m.view.WorldToScreen(b.Right(), b.Y+layout.BoxHeight/2)

	dx, dy := 0.0, 0.0
	switch {
	case right-left > m.view.Width || left < 0:
		dx = cellWidth - left
	case right > m.view.Width:
		dx = m.view.Width - cellWidth - right
	}
	switch {
	case top < 0:
		dy = cellHeight - top
	case bottom > m.view.Height:
		dy = m.view.Height - cellHeight - bottom
	}
	m.view.Pan(dx, dy)
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	switch msg.Type {
	case tea.MouseLeft:
		if msg.Y >= m.canvasHeight() {
			return
		}
		if n := m.nodeAtCell(msg.X, msg.Y); n != nil {
			m.errorMessage = ""
			m.sess.Select(n.ID)
		}
	case tea.MouseWheelUp:
		m.zoom(hittest.WheelZoomIn)
	case tea.MouseWheelDown:
		m.zoom(hittest.WheelZoomOut)
	}
}

// nodeAtCell hit-tests a terminal cell. A cell covers cellWidth x cellHeight
// screen units, so it is probed at its centre and then its top and bottom
// edges; when zoomed out a box can be thinner than a row.
func (m *model) nodeAtCell(col, row int) *tree.Node {
	sx := (float64(col) + 0.5) * cellWidth
	top := float64(row) * cellHeight
	for _, sy := range []float64{top + cellHeight/2, top, top + cellHeight - 1} {
		if n := hittest.NodeAtScreen(m.sess.Root(), m.layout, m.view, sx, sy); n != nil {
			return n
		}
	}
	return nil
}
