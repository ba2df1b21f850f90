package main

import (
	"log/slog"

	"mindmap/internal/config"
	"mindmap/internal/hittest"
	"mindmap/internal/layout"
	"mindmap/internal/session"
	"mindmap/internal/store"
)

type model struct {
	width  int
	height int

	mode       Mode
	help       bool
	helpScroll int

	sess     *session.Session
	layout   *layout.Layout
	measurer layout.Measurer
	view     hittest.Viewport

	editNodeID    int
	editText      []rune
	editCursorPos int
	editReplace   bool // first typed rune replaces the whole label

	filename          string
	fileOp            FileOperation
	fileList          []string
	selectedFileIndex int

	confirmAction ConfirmAction
	confirmNodeID int

	errorMessage   string
	successMessage string

	config    *config.Config
	store     store.Store
	slot      string
	clipboard clipboardIO
	logger    *slog.Logger
}

// clipboardIO is the system clipboard; tests substitute a fake.
type clipboardIO interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}
