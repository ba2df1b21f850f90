// Package history keeps bounded undo and redo stacks of whole-session
// snapshots.
package history

import "mindmap/internal/tree"

// DefaultCapacity is the number of undo steps kept when none is configured.
const DefaultCapacity = 50

// Snapshot is a deep copy of the editable session state.
type Snapshot struct {
	Root       *tree.Node
	NextID     int
	SelectedID int
}

// Clone returns a snapshot sharing no memory with s.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Root:       tree.Clone(s.Root),
		NextID:     s.NextID,
		SelectedID: s.SelectedID,
	}
}

// Manager holds the undo and redo stacks.
//
// Record is the only operation that clears the redo stack, and Undo/Redo are
// the only operations that push onto it.
type Manager struct {
	undoStack []Snapshot
	redoStack []Snapshot
	capacity  int
}

// New creates a Manager keeping at most capacity undo entries.
// A capacity below 1 falls back to DefaultCapacity.
func New(capacity int) *Manager {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Manager{capacity: capacity}
}

// Record stores the state as it is just before a mutation.
func (m *Manager) Record(current Snapshot) {
	m.undoStack = append(m.undoStack, current.Clone())
	if len(m.undoStack) > m.capacity {
		evict := len(m.undoStack) - m.capacity
		m.undoStack = append(m.undoStack[:0:0], m.undoStack[evict:]...)
	}
	m.redoStack = m.redoStack[:0]
}

// Undo returns the most recent recorded state and moves current onto the
// redo stack. ok is false when there is nothing to undo.
func (m *Manager) Undo(current Snapshot) (Snapshot, bool) {
	if len(m.undoStack) == 0 {
		return Snapshot{}, false
	}
	m.redoStack = append(m.redoStack, current.Clone())
	return pop(&m.undoStack), true
}

// Redo is the mirror of Undo.
func (m *Manager) Redo(current Snapshot) (Snapshot, bool) {
	if len(m.redoStack) == 0 {
		return Snapshot{}, false
	}
	m.undoStack = append(m.undoStack, current.Clone())
	return pop(&m.redoStack), true
}

func pop(stack *[]Snapshot) Snapshot {
	s := *stack
	last := s[len(s)-1]
	s[len(s)-1] = Snapshot{}
	*stack = s[:len(s)-1]
	return last
}

// CanUndo reports whether Undo would change anything.
func (m *Manager) CanUndo() bool { return len(m.undoStack) > 0 }

// CanRedo reports whether Redo would change anything.
func (m *Manager) CanRedo() bool { return len(m.redoStack) > 0 }

// UndoLen returns the number of undo entries.
func (m *Manager) UndoLen() int { return len(m.undoStack) }

// RedoLen returns the number of redo entries.
func (m *Manager) RedoLen() int { return len(m.redoStack) }

// Capacity returns the undo bound.
func (m *Manager) Capacity() int { return m.capacity }
