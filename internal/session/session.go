// Package session owns one editable mind map: the tree, the id counter, the
// selection and the undo history. Every change to the tree goes through a
// Session method.
package session

import (
	"io"
	"log/slog"

	"mindmap/internal/history"
	"mindmap/internal/tree"
)

// Session is a single editor instance. It is not safe for concurrent use;
// callers serialize access the way an event loop does.
type Session struct {
	root       *tree.Node
	nextID     int
	selectedID int
	history    *history.Manager
	logger     *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for mutation and import events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHistoryCapacity bounds the number of undo steps.
func WithHistoryCapacity(capacity int) Option {
	return func(s *Session) {
		s.history = history.New(capacity)
	}
}

// New creates a session holding a single root node.
func New(opts ...Option) *Session {
	root := tree.NewRoot()
	s := &Session{
		root:       root,
		nextID:     root.ID + 1,
		selectedID: root.ID,
		history:    history.New(history.DefaultCapacity),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the live root node. Callers must not modify it directly.
func (s *Session) Root() *tree.Node { return s.root }

// NextID returns the id the next created node will get.
func (s *Session) NextID() int { return s.nextID }

// SelectedID returns the id of the selected node.
func (s *Session) SelectedID() int { return s.selectedID }

// Selected returns the selected node.
func (s *Session) Selected() *tree.Node { return tree.Find(s.root, s.selectedID) }

// Find looks a node up by id.
func (s *Session) Find(id int) *tree.Node { return tree.Find(s.root, id) }

// Parent returns the parent of id, or nil for the root or an unknown id.
func (s *Session) Parent(id int) *tree.Node { return tree.FindParent(s.root, id) }

// IsRoot reports whether id is the root's id.
func (s *Session) IsRoot(id int) bool { return id == s.root.ID }

// Select moves the selection. Selection changes are not recorded in history.
func (s *Session) Select(id int) bool {
	if tree.Find(s.root, id) == nil {
		return false
	}
	s.selectedID = id
	return true
}

// CanUndo reports whether Undo would change anything.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether Redo would change anything.
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// History exposes the undo manager for inspection.
func (s *Session) History() *history.Manager { return s.history }

// Undo restores the state before the most recent mutation.
func (s *Session) Undo() bool {
	prev, ok := s.history.Undo(s.snapshot())
	if !ok {
		return false
	}
	s.restoreSnapshot(prev)
	s.logger.Debug("undo", "undo_left", s.history.UndoLen(), "selected", s.selectedID)
	return true
}

// Redo reapplies the most recently undone mutation.
func (s *Session) Redo() bool {
	next, ok := s.history.Redo(s.snapshot())
	if !ok {
		return false
	}
	s.restoreSnapshot(next)
	s.logger.Debug("redo", "redo_left", s.history.RedoLen(), "selected", s.selectedID)
	return true
}

// snapshot returns the live state without copying; history clones it.
func (s *Session) snapshot() history.Snapshot {
	return history.Snapshot{Root: s.root, NextID: s.nextID, SelectedID: s.selectedID}
}

func (s *Session) restoreSnapshot(snap history.Snapshot) {
	s.root = snap.Root
	s.nextID = snap.NextID
	s.selectedID = snap.SelectedID
}

// record must be called after a mutation's target is resolved and before the
// tree is touched, so that no-ops never reach the history.
func (s *Session) record() {
	s.history.Record(s.snapshot())
}

func (s *Session) mintID() int {
	id := s.nextID
	s.nextID++
	return id
}
