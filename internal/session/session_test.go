package session

import (
	"testing"

	"mindmap/internal/history"
	"mindmap/internal/tree"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectIDs(root *tree.Node) []int {
	var ids []int
	tree.Walk(root, func(n *tree.Node, _ int) bool {
		ids = append(ids, n.ID)
		return true
	})
	return ids
}

func TestNewSession(t *testing.T) {
	s := New()
	assert.Equal(t, 1, s.Root().ID)
	assert.Equal(t, tree.RootLabel, s.Root().Label)
	assert.Equal(t, tree.DefaultColor, s.Root().Color)
	assert.Equal(t, 2, s.NextID())
	assert.Equal(t, 1, s.SelectedID())
	assert.False(t, s.CanUndo())
	assert.False(t, s.CanRedo())
}

func TestScenario(t *testing.T) {
	s := New()

	id, ok := s.AddChild(1, "", "")
	require.True(t, ok)
	assert.Equal(t, 2, id)
	assert.Equal(t, 2, s.SelectedID())
	require.Len(t, s.Root().Children, 1)

	id, ok = s.AddSibling(2)
	require.True(t, ok)
	assert.Equal(t, 3, id)
	assert.Equal(t, []int{2, 3}, collectIDs(s.Root())[1:], "sibling goes to the root, not under node 2")
	assert.Empty(t, s.Find(2).Children)

	require.True(t, s.Delete(3))
	assert.Equal(t, []int{1, 2}, collectIDs(s.Root()))
	assert.Equal(t, 1, s.SelectedID())

	for i := 0; i < 3; i++ {
		require.True(t, s.Undo(), "undo %d", i+1)
	}
	assert.Equal(t, []int{1}, collectIDs(s.Root()))
	assert.Equal(t, 2, s.NextID())
	assert.Equal(t, 1, s.SelectedID())
	assert.False(t, s.Undo())
}

func TestMutationsInheritAndSelect(t *testing.T) {
	s := New()
	require.True(t, s.Recolor(1, "#ff0000"))

	child, ok := s.AddChild(1, "", "")
	require.True(t, ok)
	assert.Equal(t, "#ff0000", s.Find(child).Color)
	assert.Equal(t, tree.NewNodeLabel, s.Find(child).Label)

	custom, ok := s.AddChild(child, "custom", "#00ff00")
	require.True(t, ok)
	assert.Equal(t, "custom", s.Find(custom).Label)
	assert.Equal(t, "#00ff00", s.Find(custom).Color)

	bad, ok := s.AddChild(child, "x", "green")
	require.True(t, ok)
	assert.Equal(t, "#ff0000", s.Find(bad).Color, "invalid color falls back to the parent's")

	require.True(t, s.Recolor(child, "#0000ff"))
	sib, ok := s.AddSibling(custom)
	require.True(t, ok)
	assert.Equal(t, "#0000ff", s.Find(sib).Color, "sibling takes the parent's color")
	assert.Equal(t, sib, s.SelectedID())
	assert.Equal(t, sib, s.Find(child).Children[2].ID, "sibling is appended last")
}

func TestNoOpsLeaveNoHistory(t *testing.T) {
	s := New()
	child, _ := s.AddChild(1, "", "")
	base := s.History().UndoLen()
	next := s.NextID()

	tests := []struct {
		name string
		op   func() bool
	}{
		{"add child to missing", func() bool { _, ok := s.AddChild(99, "", ""); return ok }},
		{"sibling of root", func() bool { _, ok := s.AddSibling(1); return ok }},
		{"sibling of missing", func() bool { _, ok := s.AddSibling(99); return ok }},
		{"delete root", func() bool { return s.Delete(1) }},
		{"delete missing", func() bool { return s.Delete(99) }},
		{"relabel unchanged", func() bool { return s.Relabel(child, tree.NewNodeLabel) }},
		{"relabel missing", func() bool { return s.Relabel(99, "x") }},
		{"recolor unchanged", func() bool { return s.Recolor(1, tree.DefaultColor) }},
		{"recolor invalid", func() bool { return s.Recolor(1, "#12") }},
		{"recolor missing", func() bool { return s.Recolor(99, "#123456") }},
		{"duplicate root", func() bool { _, ok := s.Duplicate(1); return ok }},
		{"duplicate missing", func() bool { _, ok := s.Duplicate(99); return ok }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tree.Clone(s.Root())
			selected := s.SelectedID()

			assert.False(t, tt.op())
			assert.Equal(t, before, s.Root())
			assert.Equal(t, selected, s.SelectedID())
			assert.Equal(t, next, s.NextID())
			assert.Equal(t, base, s.History().UndoLen())
		})
	}
}

func TestDeleteDiscardsSubtree(t *testing.T) {
	s := New()
	a, _ := s.AddChild(1, "a", "")
	b, _ := s.AddChild(a, "b", "")
	_, _ = s.AddChild(b, "c", "")

	require.True(t, s.Delete(a))
	assert.Equal(t, []int{1}, collectIDs(s.Root()))
	assert.Equal(t, 1, s.SelectedID())
	assert.Nil(t, s.Find(b))
}

func TestDeleteIfUntouched(t *testing.T) {
	s := New()
	fresh, _ := s.AddChild(1, "", "")
	named, _ := s.AddChild(1, "keep me", "")

	assert.False(t, s.DeleteIfUntouched(named))
	assert.False(t, s.DeleteIfUntouched(1))
	assert.True(t, s.DeleteIfUntouched(fresh))
	assert.Nil(t, s.Find(fresh))
	assert.NotNil(t, s.Find(named))
}

func TestDuplicate(t *testing.T) {
	s := New()
	a, _ := s.AddChild(1, "a", "#111111")
	a1, _ := s.AddChild(a, "a1", "")
	_, _ = s.AddChild(a1, "a1x", "")
	_, _ = s.AddChild(a, "a2", "")
	next := s.NextID()

	copyID, ok := s.Duplicate(a)
	require.True(t, ok)
	assert.Equal(t, next, copyID)
	assert.Equal(t, copyID, s.SelectedID())

	root := s.Root()
	require.Len(t, root.Children, 2)
	clone := root.Children[1]
	assert.Equal(t, "a (copy)", clone.Label)
	assert.Equal(t, "#111111", clone.Color)
	assert.Equal(t, []int{next, next + 1, next + 2, next + 3}, collectIDs(clone), "fresh ids in pre-order")
	assert.Equal(t, "a1", clone.Children[0].Label, "only the copy's root is renamed")
	assert.Equal(t, "a1x", clone.Children[0].Children[0].Label)
	assert.Equal(t, next+4, s.NextID())

	// Editing the copy leaves the original alone.
	require.True(t, s.Relabel(clone.Children[0].ID, "changed"))
	assert.Equal(t, "a1", s.Find(a1).Label)
}

func TestIDUniqueness(t *testing.T) {
	s := New()
	ids := []int{1}
	for i := 0; i < 40; i++ {
		target := ids[(i*7)%len(ids)]
		switch i % 3 {
		case 0:
			id, ok := s.AddChild(target, "", "")
			require.True(t, ok)
			ids = append(ids, id)
		case 1:
			if id, ok := s.AddSibling(target); ok {
				ids = append(ids, id)
			}
		case 2:
			if _, ok := s.Duplicate(target); ok {
				ids = collectIDs(s.Root())
			}
		}
	}

	seen := map[int]bool{}
	for _, id := range collectIDs(s.Root()) {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
		assert.Less(t, id, s.NextID())
	}
}

func TestUndoRedoInverse(t *testing.T) {
	mutations := []struct {
		name string
		op   func(s *Session, target int)
	}{
		{"add child", func(s *Session, target int) { s.AddChild(target, "", "") }},
		{"add sibling", func(s *Session, target int) { s.AddSibling(target) }},
		{"delete", func(s *Session, target int) { s.Delete(target) }},
		{"relabel", func(s *Session, target int) { s.Relabel(target, "renamed") }},
		{"recolor", func(s *Session, target int) { s.Recolor(target, "#abcdef") }},
		{"duplicate", func(s *Session, target int) { s.Duplicate(target) }},
	}

	for _, mut := range mutations {
		t.Run(mut.name, func(t *testing.T) {
			s := New()
			a, _ := s.AddChild(1, "a", "")
			_, _ = s.AddChild(a, "b", "")

			before := tree.Clone(s.Root())
			beforeNext, beforeSel := s.NextID(), s.SelectedID()

			mut.op(s, a)
			after := tree.Clone(s.Root())
			afterNext, afterSel := s.NextID(), s.SelectedID()
			require.NotEqual(t, before, after)

			require.True(t, s.Undo())
			assert.Equal(t, before, s.Root())
			assert.Equal(t, beforeNext, s.NextID())
			assert.Equal(t, beforeSel, s.SelectedID())

			require.True(t, s.Redo())
			assert.Equal(t, after, s.Root())
			assert.Equal(t, afterNext, s.NextID())
			assert.Equal(t, afterSel, s.SelectedID())
		})
	}
}

func TestRedoInvalidation(t *testing.T) {
	s := New()
	s.AddChild(1, "", "")
	require.True(t, s.Undo())
	require.True(t, s.CanRedo())

	s.Relabel(1, "fresh edit")
	assert.False(t, s.CanRedo())
	assert.False(t, s.Redo())
}

func TestHistoryBound(t *testing.T) {
	s := New()
	for i := 0; i < history.DefaultCapacity+10; i++ {
		_, ok := s.AddChild(1, "", "")
		require.True(t, ok)
	}

	undos := 0
	for s.Undo() {
		undos++
	}
	assert.Equal(t, history.DefaultCapacity, undos)
	assert.Len(t, s.Root().Children, 10)
}

func TestHistoryCapacityOption(t *testing.T) {
	s := New(WithHistoryCapacity(2))
	for i := 0; i < 5; i++ {
		s.AddChild(1, "", "")
	}
	assert.Equal(t, 2, s.History().UndoLen())
}

func TestSelect(t *testing.T) {
	s := New()
	id, _ := s.AddChild(1, "", "")
	assert.True(t, s.Select(1))
	assert.Equal(t, 1, s.SelectedID())
	assert.False(t, s.Select(99))
	assert.Equal(t, 1, s.SelectedID())
	assert.True(t, s.Select(id))
	assert.Equal(t, id, s.Selected().ID)
	assert.Equal(t, 1, s.History().UndoLen(), "selection is not an edit")
}
