package main

import (
	"context"

	"mindmap/internal/layout"
	"mindmap/internal/tree"
)

// relayout recomputes geometry after the tree changed.
func (m *model) relayout() {
	m.layout = layout.Compute(m.sess.Root(), m.measurer, layout.DefaultFont)
}

// changed runs after every successful mutation: new geometry, autosave and
// the selection kept on screen.
func (m *model) changed() {
	m.relayout()
	m.save()
	m.ensureVisible(m.sess.SelectedID())
}

// save writes the session into the autosave slot.
func (m *model) save() {
	if m.store == nil {
		return
	}
	blob, err := m.sess.Serialize()
	if err == nil {
		err = m.store.Save(context.Background(), m.slot, blob)
	}
	if err != nil {
		m.logger.Error("autosave failed", "slot", m.slot, "error", err)
		m.errorMessage = "Autosave failed: " + err.Error()
	}
}

func (m *model) addChild() bool {
	if _, ok := m.sess.AddChild(m.sess.SelectedID(), "", ""); !ok {
		return false
	}
	m.changed()
	return true
}

func (m *model) addSibling() bool {
	if _, ok := m.sess.AddSibling(m.sess.SelectedID()); !ok {
		m.errorMessage = "The root has no siblings"
		return false
	}
	m.changed()
	return true
}

func (m *model) requestDelete() {
	id := m.sess.SelectedID()
	if m.sess.IsRoot(id) {
		m.errorMessage = "The root cannot be deleted"
		return
	}
	if m.config.Confirmations {
		m.confirm(ConfirmDeleteNode, id)
		return
	}
	m.deleteNode(id)
}

func (m *model) deleteNode(id int) {
	if m.sess.Delete(id) {
		m.changed()
	}
}

// deleteIfUntouched removes a freshly added node that was never named.
func (m *model) deleteIfUntouched() {
	if m.sess.DeleteIfUntouched(m.sess.SelectedID()) {
		m.changed()
	}
}

func (m *model) duplicate() {
	if _, ok := m.sess.Duplicate(m.sess.SelectedID()); !ok {
		m.errorMessage = "The root cannot be duplicated"
		return
	}
	m.changed()
	m.successMessage = "Duplicated"
}

// cycleColor moves the selected node through the palette.
func (m *model) cycleColor(step int) {
	n := m.sess.Selected()
	if n == nil {
		return
	}
	next := 0
	for i, c := range tree.Palette {
		if c == n.Color {
			next = (i + step + len(tree.Palette)) % len(tree.Palette)
			break
		}
	}
	if m.sess.Recolor(n.ID, tree.Palette[next]) {
		m.changed()
	}
}

// relabel applies text from the editor or clipboard. Blank text keeps the
// current label.
func (m *model) relabel(id int, text string) {
	if isBlank(text) {
		return
	}
	if m.sess.Relabel(id, text) {
		m.changed()
	}
}

func (m *model) startEditing() {
	n := m.sess.Selected()
	if n == nil {
		return
	}
	m.mode = ModeEditing
	m.editNodeID = n.ID
	m.setEditText([]rune(n.Label))
	m.editReplace = true
}

func (m *model) setEditText(text []rune) {
	m.editText = text
	m.editCursorPos = len(text)
	m.editReplace = false
}

func (m *model) insertEditRunes(runes []rune) {
	if m.editReplace {
		m.setEditText(nil)
	}
	room := tree.MaxLabelLength - len(m.editText)
	if room <= 0 {
		return
	}
	if len(runes) > room {
		runes = runes[:room]
	}
	text := make([]rune, 0, len(m.editText)+len(runes))
	text = append(text, m.editText[:m.editCursorPos]...)
	text = append(text, runes...)
	text = append(text, m.editText[m.editCursorPos:]...)
	m.editText = text
	m.editCursorPos += len(runes)
}

func (m *model) commitEditing() {
	m.mode = ModeNormal
	m.relabel(m.editNodeID, string(m.editText))
	m.editText = nil
	m.editCursorPos = 0
}

func (m *model) cancelEditing() {
	m.mode = ModeNormal
	m.editText = nil
	m.editCursorPos = 0
}

// newMap discards the current map and its history.
func (m *model) newMap() {
	m.sess = newSession(m.config, m.logger)
	m.view.Reset()
	m.changed()
	m.successMessage = "New map"
}
