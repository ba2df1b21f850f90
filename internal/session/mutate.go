package session

import "mindmap/internal/tree"

// AddChild appends a new leaf to parentID's children and selects it.
// An empty label means tree.NewNodeLabel; an empty color inherits the
// parent's color. It returns the new id, or false if parentID is unknown.
func (s *Session) AddChild(parentID int, label, color string) (int, bool) {
	parent := tree.Find(s.root, parentID)
	if parent == nil {
		return 0, false
	}
	if label == "" {
		label = tree.NewNodeLabel
	}
	if color == "" || !tree.IsValidColor(color) {
		color = parent.Color
	}

	s.record()
	n := &tree.Node{ID: s.mintID(), Label: label, Color: color, Children: []*tree.Node{}}
	parent.Children = append(parent.Children, n)
	s.selectedID = n.ID

	s.logger.Debug("added child", "id", n.ID, "parent", parent.ID)
	return n.ID, true
}

// AddSibling appends a new node at the end of nodeID's parent's children,
// colored like that parent, and selects it. The root has no siblings.
func (s *Session) AddSibling(nodeID int) (int, bool) {
	if s.IsRoot(nodeID) {
		return 0, false
	}
	parent := tree.FindParent(s.root, nodeID)
	if parent == nil {
		return 0, false
	}

	s.record()
	n := &tree.Node{ID: s.mintID(), Label: tree.NewNodeLabel, Color: parent.Color, Children: []*tree.Node{}}
	parent.Children = append(parent.Children, n)
	s.selectedID = n.ID

	s.logger.Debug("added sibling", "id", n.ID, "sibling_of", nodeID, "parent", parent.ID)
	return n.ID, true
}

// Delete removes nodeID and its whole subtree, then selects the parent.
// The root cannot be deleted.
func (s *Session) Delete(nodeID int) bool {
	if s.IsRoot(nodeID) {
		return false
	}
	parent := tree.FindParent(s.root, nodeID)
	if parent == nil {
		return false
	}

	s.record()
	parent.RemoveChild(nodeID)
	s.selectedID = parent.ID

	s.logger.Debug("deleted node", "id", nodeID, "parent", parent.ID)
	return true
}

// DeleteIfUntouched deletes nodeID only while it still has the label new
// nodes are created with.
func (s *Session) DeleteIfUntouched(nodeID int) bool {
	n := tree.Find(s.root, nodeID)
	if n == nil || n.Label != tree.NewNodeLabel {
		return false
	}
	return s.Delete(nodeID)
}

// Relabel sets a node's label, cut to tree.MaxLabelLength runes. Setting the
// current label is a no-op.
func (s *Session) Relabel(nodeID int, text string) bool {
	text = tree.TruncateLabel(text)
	n := tree.Find(s.root, nodeID)
	if n == nil || n.Label == text {
		return false
	}

	s.record()
	n.Label = text

	s.logger.Debug("relabeled node", "id", nodeID)
	return true
}

// Recolor sets a node's color. Unchanged or malformed colors are no-ops.
func (s *Session) Recolor(nodeID int, color string) bool {
	n := tree.Find(s.root, nodeID)
	if n == nil || n.Color == color || !tree.IsValidColor(color) {
		return false
	}

	s.record()
	n.Color = color

	s.logger.Debug("recolored node", "id", nodeID, "color", color)
	return true
}

// Duplicate copies nodeID's subtree, gives every copied node a fresh id in
// pre-order, marks the copy's label and appends it to the same parent.
// The copy becomes the selection.
func (s *Session) Duplicate(nodeID int) (int, bool) {
	if s.IsRoot(nodeID) {
		return 0, false
	}
	n := tree.Find(s.root, nodeID)
	parent := tree.FindParent(s.root, nodeID)
	if n == nil || parent == nil {
		return 0, false
	}

	s.record()
	clone := tree.Clone(n)
	tree.Walk(clone, func(c *tree.Node, _ int) bool {
		c.ID = s.mintID()
		return true
	})
	clone.Label += tree.CopySuffix
	parent.Children = append(parent.Children, clone)
	s.selectedID = clone.ID

	s.logger.Debug("duplicated node", "id", nodeID, "copy", clone.ID, "nodes", tree.Count(clone))
	return clone.ID, true
}
