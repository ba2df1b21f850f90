package layout

import (
	"fmt"
	"strings"
	"testing"

	"mindmap/internal/tree"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// perRune measures every rune as 10 units, so a label of n runes is
// max(60, 10n+24) wide.
var perRune = MeasureFunc(func(text string, _ Font) float64 {
	return float64(len([]rune(text))) * 10
})

func leaf(id int, label string) *tree.Node {
	return &tree.Node{ID: id, Label: label, Color: tree.DefaultColor, Children: []*tree.Node{}}
}

func TestSingleNode(t *testing.T) {
	l := Compute(leaf(1, "x"), perRune, DefaultFont)
	require.Equal(t, 1, l.Len())

	b, ok := l.Box(1)
	require.True(t, ok)
	assert.Equal(t, Box{X: 0, Y: 0, Width: MinWidth, TotalHeight: NodeHeight, Depth: 0}, b)
	assert.Equal(t, 1, l.Depths())
}

func TestNodeWidth(t *testing.T) {
	assert.Equal(t, MinWidth, NodeWidth("", perRune, DefaultFont))
	assert.Equal(t, MinWidth, NodeWidth("abc", perRune, DefaultFont))
	assert.Equal(t, 10*10+Padding, NodeWidth("abcdefghij", perRune, DefaultFont))
}

func TestChildrenStackAroundParent(t *testing.T) {
	root := leaf(1, "r")
	root.Children = []*tree.Node{leaf(2, "a"), leaf(3, "b")}

	l := Compute(root, perRune, DefaultFont)

	r, _ := l.Box(1)
	a, _ := l.Box(2)
	b, _ := l.Box(3)

	assert.Equal(t, 2*NodeHeight+VerticalGap, r.TotalHeight)
	assert.Equal(t, 0.0, r.Y, "tree is centred on y=0")
	assert.Equal(t, -20.0, a.Y)
	assert.Equal(t, 20.0, b.Y)
	assert.Equal(t, NodeHeight, a.TotalHeight)
	assert.Equal(t, MinWidth+HorizontalGap, a.X)
	assert.Equal(t, a.X, b.X)
	assert.Equal(t, 1, a.Depth)
}

func TestDepthOffsetsUseWidestNode(t *testing.T) {
	//	root ── short ── g1
	//	     └─ a-much-longer-label ── g2
	root := leaf(1, "root")
	short := leaf(2, "short")
	long := leaf(3, "a-much-longer-label")
	short.Children = []*tree.Node{leaf(4, "g1")}
	long.Children = []*tree.Node{leaf(5, "g2")}
	root.Children = []*tree.Node{short, long}

	l := Compute(root, perRune, DefaultFont)

	longWidth := NodeWidth(long.Label, perRune, DefaultFont)
	g1, _ := l.Box(4)
	g2, _ := l.Box(5)
	s, _ := l.Box(2)

	assert.Equal(t, g1.X, g2.X, "same depth, same offset")
	assert.Equal(t, s.X+longWidth+HorizontalGap, g1.X)
	assert.Equal(t, g1.X, l.DepthOffset(2))
	assert.Equal(t, 0.0, l.DepthOffset(-1))
	assert.Equal(t, 0.0, l.DepthOffset(9))
}

func TestParentCentredOnSubtree(t *testing.T) {
	//	1 ── 2 ── 4
	//	  │     └ 5
	//	  │     └ 6
	//	  └─ 3
	root := leaf(1, "r")
	n2 := leaf(2, "n2")
	n2.Children = []*tree.Node{leaf(4, "a"), leaf(5, "b"), leaf(6, "c")}
	root.Children = []*tree.Node{n2, leaf(3, "n3")}

	l := Compute(root, perRune, DefaultFont)
	b2, _ := l.Box(2)
	b3, _ := l.Box(3)
	b4, _ := l.Box(4)
	b6, _ := l.Box(6)
	r, _ := l.Box(1)

	assert.Equal(t, 3*NodeHeight+2*VerticalGap, b2.TotalHeight)
	assert.Equal(t, (b4.Y+b6.Y)/2, b2.Y)
	assert.Equal(t, b2.TotalHeight+VerticalGap+NodeHeight, r.TotalHeight)
	assert.Equal(t, -r.TotalHeight/2, b2.Y-b2.TotalHeight/2, "first subtree starts at the top")
	assert.Equal(t, r.TotalHeight/2, b3.Y+b3.TotalHeight/2, "last subtree ends at the bottom")
}

func buildWide(depth, fanout int, next *int) *tree.Node {
	n := leaf(*next, fmt.Sprintf("node %d%s", *next, strings.Repeat("x", *next%7)))
	*next++
	if depth == 0 {
		return n
	}
	for i := 0; i < fanout; i++ {
		n.Children = append(n.Children, buildWide(depth-1, fanout, next))
	}
	return n
}

func TestLayoutContainment(t *testing.T) {
	next := 1
	root := buildWide(3, 3, &next)
	l := Compute(root, perRune, DefaultFont)
	require.Equal(t, tree.Count(root), l.Len())

	tree.Walk(root, func(n *tree.Node, _ int) bool {
		parent, ok := l.Box(n.ID)
		require.True(t, ok)
		for _, child := range n.Children {
			cb, ok := l.Box(child.ID)
			require.True(t, ok)
			assert.Greater(t, cb.X, parent.X+parent.Width, "child %d overlaps parent %d", child.ID, n.ID)
		}
		return true
	})
}

func TestSiblingsDoNotOverlap(t *testing.T) {
	next := 1
	root := buildWide(3, 2, &next)
	l := Compute(root, perRune, DefaultFont)

	tree.Walk(root, func(n *tree.Node, _ int) bool {
		for i := 1; i < len(n.Children); i++ {
			prev, _ := l.Box(n.Children[i-1].ID)
			cur, _ := l.Box(n.Children[i].ID)
			gap := (cur.Y - cur.TotalHeight/2) - (prev.Y + prev.TotalHeight/2)
			assert.InDelta(t, VerticalGap, gap, 1e-9)
		}
		return true
	})
}

func TestComputeIsDeterministic(t *testing.T) {
	next := 1
	root := buildWide(2, 3, &next)
	assert.Equal(t, Compute(root, perRune, DefaultFont), Compute(root, perRune, DefaultFont))
}

func TestComputeNil(t *testing.T) {
	l := Compute(nil, perRune, DefaultFont)
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, Rect{}, l.Bounds())
}

func TestBounds(t *testing.T) {
	root := leaf(1, "r")
	root.Children = []*tree.Node{leaf(2, "a"), leaf(3, "b")}
	l := Compute(root, perRune, DefaultFont)

	b := l.Bounds()
	assert.Equal(t, 0.0, b.X)
	assert.Equal(t, 2*MinWidth+HorizontalGap, b.Width)
	assert.Equal(t, -20-BoxHeight/2, b.Y)
	assert.Equal(t, 40+BoxHeight, b.Height)
}

func TestCellMeasurer(t *testing.T) {
	m := CellMeasurer{CellWidth: 8}
	assert.Equal(t, 24.0, m.Measure("abc", DefaultFont))
	assert.Equal(t, 32.0, m.Measure("日本", DefaultFont))
	assert.Equal(t, 0.0, m.Measure("", DefaultFont))
}
