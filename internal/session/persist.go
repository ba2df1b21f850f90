package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"mindmap/internal/tree"
)

// ErrMalformedState indicates that a serialized session could not be parsed.
var ErrMalformedState = errors.New("malformed session state")

// state is the persisted form of a session. Field names match the blob the
// browser editor kept under its storage key.
type state struct {
	Data       json.RawMessage `json:"data"`
	NextID     int             `json:"nextId"`
	SelectedID int             `json:"selectedId,omitempty"`
}

// Import replaces the tree with a sanitized copy of raw, as decoded from
// JSON or YAML. Missing ids are minted from the session counter or from above
// the largest imported id, whichever is higher; the root becomes the
// selection.
// Import is not an undoable edit and does not touch the history.
// On error the current tree is kept.
func (s *Session) Import(raw any) error {
	root, next, err := tree.Sanitize(raw, s.nextID)
	if err != nil {
		s.logger.Warn("rejected import", "error", err)
		return err
	}
	s.install(root, next, root.ID)
	s.logger.Info("imported mind map", "nodes", tree.Count(root), "next_id", s.nextID)
	return nil
}

// ImportJSON decodes data and imports it.
func (s *Session) ImportJSON(data []byte) error {
	raw, err := decodeJSON(data)
	if err != nil {
		s.logger.Warn("rejected import", "error", err)
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return s.Import(raw)
}

// ImportYAML decodes data and imports it.
func (s *Session) ImportYAML(data []byte) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		s.logger.Warn("rejected import", "error", err)
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return s.Import(raw)
}

// ExportJSON returns the tree alone, indented, as offered for download.
func (s *Session) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(s.root, "", "  ")
}

// ExportYAML returns the tree alone as YAML.
func (s *Session) ExportYAML() ([]byte, error) {
	return yaml.Marshal(s.root)
}

// Serialize returns the tree together with the id counter and selection.
func (s *Session) Serialize() ([]byte, error) {
	data, err := json.Marshal(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tree: %w", err)
	}
	return json.Marshal(state{Data: data, NextID: s.nextID, SelectedID: s.selectedID})
}

// Restore loads a blob produced by Serialize. The tree is sanitized, the id
// counter is kept ahead of every id in it, and the stored selection is used
// if that node still exists. Malformed input fails with ErrMalformedState
// and leaves the session unchanged.
func (s *Session) Restore(blob []byte) error {
	var st state
	if err := json.Unmarshal(blob, &st); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	raw, err := decodeJSON(st.Data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedState, err)
	}

	next := st.NextID
	if next < 1 {
		next = 1
	}
	root, next, err := tree.Sanitize(raw, next)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedState, err)
	}

	selected := root.ID
	if st.SelectedID != 0 && tree.Find(root, st.SelectedID) != nil {
		selected = st.SelectedID
	}
	s.install(root, next, selected)
	s.logger.Debug("restored session", "nodes", tree.Count(root), "next_id", s.nextID)
	return nil
}

func (s *Session) install(root *tree.Node, next, selected int) {
	if floor := tree.MaxID(root) + 1; next < floor {
		next = floor
	}
	s.root = root
	s.nextID = next
	s.selectedID = selected
}

func decodeJSON(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("empty document")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}
