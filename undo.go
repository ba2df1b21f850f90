package main

func (m *model) undo() {
	if !m.sess.Undo() {
		m.errorMessage = "Nothing to undo"
		return
	}
	m.changed()
	m.successMessage = "Undone"
}

func (m *model) redo() {
	if !m.sess.Redo() {
		m.errorMessage = "Nothing to redo"
		return
	}
	m.changed()
	m.successMessage = "Redone"
}
