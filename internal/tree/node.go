// Package tree holds the mind-map node hierarchy and the pure queries over it.
//
// A node never stores a reference to its parent; the parent is found by
// searching from the root, so the structure stays a strict tree that can be
// cloned and serialized without cycles.
package tree

import "regexp"

const (
	// RootLabel is the label of a freshly created map's root.
	RootLabel = "Mindmap"
	// NewNodeLabel is given to nodes created by add child / add sibling.
	NewNodeLabel = "new node"
	// DefaultImportLabel replaces labels that are missing or not strings.
	DefaultImportLabel = "node"
	// DefaultColor is used for the root and for invalid imported colors.
	DefaultColor = "#4a90d9"
	// CopySuffix is appended to the label of a duplicated subtree's root.
	CopySuffix = " (copy)"
	// MaxLabelLength caps imported labels, counted in runes.
	MaxLabelLength = 200
)

// Palette is the set of colors offered by the editor's color picker.
var Palette = []string{
	"#e91e63", "#9c27b0", "#673ab7", "#3f51b5", "#2196f3", "#00bcd4",
	"#009688", "#4caf50", "#8bc34a", "#ff9800", "#ff5722", "#795548",
}

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// IsValidColor reports whether s is a 6-hex-digit color such as "#4a90d9".
func IsValidColor(s string) bool {
	return colorPattern.MatchString(s)
}

// Node is a labeled, colored entity with ordered children.
// Children order is display order, top to bottom.
type Node struct {
	ID       int     `json:"id" yaml:"id"`
	Label    string  `json:"label" yaml:"label"`
	Color    string  `json:"color" yaml:"color"`
	Children []*Node `json:"children" yaml:"children"`
}

// NewRoot returns the single-node tree a new session starts with.
func NewRoot() *Node {
	return &Node{ID: 1, Label: RootLabel, Color: DefaultColor, Children: []*Node{}}
}

// Find returns the first node with the given id in pre-order, or nil.
func Find(root *Node, id int) *Node {
	if root == nil {
		return nil
	}
	if root.ID == id {
		return root
	}
	for _, child := range root.Children {
		if found := Find(child, id); found != nil {
			return found
		}
	}
	return nil
}

// FindParent returns the immediate parent of the node with the given id.
// It returns nil both when id is the root and when id is absent; callers
// tell the two apart by comparing id with root.ID.
func FindParent(root *Node, id int) *Node {
	if root == nil {
		return nil
	}
	for _, child := range root.Children {
		if child.ID == id {
			return root
		}
		if found := FindParent(child, id); found != nil {
			return found
		}
	}
	return nil
}

// MaxID returns the largest id in the subtree.
func MaxID(root *Node) int {
	max := root.ID
	for _, child := range root.Children {
		if id := MaxID(child); id > max {
			max = id
		}
	}
	return max
}

// MaxDepth returns the depth of the deepest leaf; the root is depth 0.
func MaxDepth(root *Node) int {
	max := 0
	for _, child := range root.Children {
		if d := MaxDepth(child) + 1; d > max {
			max = d
		}
	}
	return max
}

// Count returns the number of nodes in the subtree.
func Count(root *Node) int {
	if root == nil {
		return 0
	}
	n := 1
	for _, child := range root.Children {
		n += Count(child)
	}
	return n
}

// Walk visits the subtree in pre-order. Returning false from fn skips the
// node's children.
func Walk(root *Node, fn func(n *Node, depth int) bool) {
	walk(root, 0, fn)
}

func walk(n *Node, depth int, fn func(n *Node, depth int) bool) {
	if n == nil || !fn(n, depth) {
		return
	}
	for _, child := range n.Children {
		walk(child, depth+1, fn)
	}
}

// Clone returns a deep copy that shares no memory with n.
func Clone(n *Node) *Node {
	if n == nil {
		return nil
	}
	c := &Node{
		ID:       n.ID,
		Label:    n.Label,
		Color:    n.Color,
		Children: make([]*Node, 0, len(n.Children)),
	}
	for _, child := range n.Children {
		c.Children = append(c.Children, Clone(child))
	}
	return c
}

// RemoveChild drops the direct child with the given id, keeping the order of
// the remaining children. It reports whether a child was removed.
func (n *Node) RemoveChild(id int) bool {
	for i, child := range n.Children {
		if child.ID == id {
			n.Children = append(n.Children[:i:i], n.Children[i+1:]...)
			return true
		}
	}
	return false
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}
