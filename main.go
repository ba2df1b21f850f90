package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"mindmap/internal/config"
	"mindmap/internal/hittest"
	"mindmap/internal/layout"
	"mindmap/internal/session"
	"mindmap/internal/store"
	"mindmap/internal/tree"
)

var version = "dev"

func main() {
	cmd := newRootCommand(version)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runTUI(a *app) error {
	p := tea.NewProgram(
		newModel(a.cfg, a.store, a.logger),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run editor: %w", err)
	}
	return nil
}

// newModel builds the editor and restores the autosaved map. A nil store
// disables persistence.
func newModel(cfg *config.Config, st store.Store, logger *slog.Logger) model {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = discardLogger()
	}
	m := model{
		sess:      newSession(cfg, logger),
		measurer:  layout.CellMeasurer{CellWidth: cellWidth},
		view:      hittest.NewViewport(0, 0),
		config:    cfg,
		store:     st,
		slot:      cfg.Slot,
		clipboard: systemClipboard{},
		logger:    logger,
	}
	m.restore()
	m.relayout()
	return m
}

func newSession(cfg *config.Config, logger *slog.Logger) *session.Session {
	return session.New(
		session.WithLogger(logger),
		session.WithHistoryCapacity(cfg.HistoryCapacity),
	)
}

// restore loads the autosave slot. A missing slot starts a fresh map.
func (m *model) restore() {
	if m.store == nil {
		return
	}
	blob, err := m.store.Load(context.Background(), m.slot)
	if errors.Is(err, store.ErrNotFound) {
		return
	}
	if err != nil {
		m.errorMessage = fmt.Sprintf("Load failed: %v", err)
		return
	}
	if err := m.sess.Restore(blob); err != nil {
		m.logger.Warn("discarding saved map", "slot", m.slot, "error", err)
		m.errorMessage = fmt.Sprintf("Saved map unreadable: %v", err)
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.view.Resize(float64(m.width)*cellWidth, float64(m.canvasHeight())*cellHeight)
		return m, nil

	case tea.MouseMsg:
		if m.mode == ModeNormal && !m.help {
			m.handleMouse(msg)
		}
		return m, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		switch {
		case m.help:
			m.handleHelpKey(msg)
		case m.mode == ModeEditing:
			m.handleEditKey(msg)
		case m.mode == ModeFileInput:
			cmd = m.handleFileKey(msg)
		case m.mode == ModeConfirm:
			cmd = m.handleConfirmKey(msg)
		default:
			cmd = m.handleNormalKey(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m *model) handleNormalKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	m.errorMessage = ""
	m.successMessage = ""

	switch key {
	case "ctrl+c":
		return tea.Quit
	case "q":
		if m.config.Confirmations {
			m.confirm(ConfirmQuit, 0)
			return nil
		}
		return tea.Quit
	case "?":
		m.help = true
		m.helpScroll = 0
	case "enter":
		if m.addChild() {
			m.startEditing()
		}
	case "tab":
		if m.addSibling() {
			m.startEditing()
		}
	case "backspace":
		m.deleteIfUntouched()
	case "d", "delete":
		m.requestDelete()
	case "D":
		m.duplicate()
	case "e", "f2", " ":
		m.startEditing()
	case "c":
		m.cycleColor(1)
	case "C":
		m.cycleColor(-1)
	case "u", "ctrl+z":
		m.undo()
	case "U", "ctrl+y":
		m.redo()
	case "s":
		m.startFileInput(FileOpSave)
	case "S":
		m.startFileInput(FileOpSavePNG)
	case "o":
		m.startFileInput(FileOpOpen)
	case "n":
		m.confirm(ConfirmNewMap, 0)
	case "y":
		m.copyLabel()
	case "Y":
		m.copyOutline()
	case "p":
		m.pasteLabel()
	case "+", "=":
		m.zoom(hittest.ZoomStep)
	case "-", "_":
		m.zoom(1 / hittest.ZoomStep)
	case "0":
		m.resetView()
	case "esc":
	default:
		m.handleNavigation(key)
	}
	return nil
}

func (m *model) handleEditKey(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEscape:
		m.cancelEditing()
	case tea.KeyEnter, tea.KeyCtrlS:
		m.commitEditing()
	case tea.KeyTab:
		m.commitEditing()
		if m.addSibling() {
			m.startEditing()
		}
	case tea.KeyLeft:
		m.editReplace = false
		if m.editCursorPos > 0 {
			m.editCursorPos--
		}
	case tea.KeyRight:
		m.editReplace = false
		if m.editCursorPos < len(m.editText) {
			m.editCursorPos++
		}
	case tea.KeyHome, tea.KeyCtrlA:
		m.editReplace = false
		m.editCursorPos = 0
	case tea.KeyEnd, tea.KeyCtrlE:
		m.editReplace = false
		m.editCursorPos = len(m.editText)
	case tea.KeyBackspace:
		if m.editReplace {
			m.setEditText(nil)
		} else if m.editCursorPos > 0 {
			m.editText = append(m.editText[:m.editCursorPos-1], m.editText[m.editCursorPos:]...)
			m.editCursorPos--
		}
	case tea.KeyDelete:
		if m.editReplace {
			m.setEditText(nil)
		} else if m.editCursorPos < len(m.editText) {
			m.editText = append(m.editText[:m.editCursorPos], m.editText[m.editCursorPos+1:]...)
		}
	case tea.KeySpace:
		m.insertEditRunes([]rune{' '})
	case tea.KeyRunes:
		m.insertEditRunes(msg.Runes)
	}
}

func (m *model) handleFileKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEscape:
		m.mode = ModeNormal
		m.filename = ""
		m.errorMessage = ""
	case tea.KeyEnter:
		m.submitFileInput()
	case tea.KeyUp:
		m.cycleFileList(-1)
	case tea.KeyDown:
		m.cycleFileList(1)
	case tea.KeyBackspace:
		if r := []rune(m.filename); len(r) > 0 {
			m.filename = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.filename += " "
	case tea.KeyRunes:
		m.filename += string(msg.Runes)
	}
	return nil
}

func (m *model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		m.mode = ModeNormal
		switch m.confirmAction {
		case ConfirmDeleteNode:
			m.deleteNode(m.confirmNodeID)
		case ConfirmQuit:
			return tea.Quit
		case ConfirmOverwriteFile:
			m.writeFile(m.fileOp, m.filename)
		case ConfirmNewMap:
			m.newMap()
		}
	case "n", "N", "esc":
		m.mode = ModeNormal
	}
	return nil
}

func (m *model) handleHelpKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "esc", "q", "?":
		m.help = false
		m.helpScroll = 0
	case "j", "down":
		if m.helpScroll < len(helpLines)-1 {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	}
}

func (m *model) confirm(action ConfirmAction, nodeID int) {
	m.mode = ModeConfirm
	m.confirmAction = action
	m.confirmNodeID = nodeID
}

// canvasHeight leaves the last row for the status line.
func (m model) canvasHeight() int {
	if m.height < 2 {
		return 1
	}
	return m.height - 1
}

func (m model) View() string {
	if m.help {
		return m.helpView()
	}

	width := m.width
	if width < 1 {
		width = 1
	}
	height := m.canvasHeight()

	root, l := m.displayTree()
	grid := renderCanvas(root, l, m.view, m.sess.SelectedID(), width, height)

	var result strings.Builder
	if m.mode == ModeFileInput && m.fileOp == FileOpOpen {
		result.WriteString(m.fileListView(width, height))
	} else {
		result.WriteString(strings.Join(grid.Lines(true), "\n"))
	}
	result.WriteString("\n")
	result.WriteString(m.statusLine())
	return result.String()
}

// displayTree returns the tree and layout to draw. While a label is being
// edited the draft is shown in place without touching the session.
func (m model) displayTree() (*tree.Node, *layout.Layout) {
	if m.mode != ModeEditing {
		return m.sess.Root(), m.layout
	}
	root := tree.Clone(m.sess.Root())
	if n := tree.Find(root, m.editNodeID); n != nil {
		n.Label = string(m.editText)
	}
	return root, layout.Compute(root, m.measurer, layout.DefaultFont)
}

func (m model) statusLine() string {
	switch m.mode {
	case ModeEditing:
		runes := append([]rune{}, m.editText...)
		var text string
		if m.editCursorPos >= len(runes) {
			text = string(runes) + "█"
		} else {
			runes[m.editCursorPos] = '█'
			text = string(runes)
		}
		return fmt.Sprintf("Mode: EDIT | Node %d | Text: %s | Enter=save, Tab=save+sibling, Esc=cancel", m.editNodeID, text)
	case ModeFileInput:
		var op string
		switch m.fileOp {
		case FileOpSave:
			op = "Save"
		case FileOpSavePNG:
			op = "Export PNG"
		case FileOpOpen:
			op = "Open"
		}
		if m.errorMessage != "" {
			return fmt.Sprintf("Mode: FILE | ERROR: %s | %s filename: %s█ | Enter=retry, Esc=cancel", m.errorMessage, op, m.filename)
		}
		return fmt.Sprintf("Mode: FILE | %s filename: %s█ | Enter=confirm, Esc=cancel", op, m.filename)
	case ModeConfirm:
		var message string
		switch m.confirmAction {
		case ConfirmDeleteNode:
			label := ""
			if n := m.sess.Find(m.confirmNodeID); n != nil {
				label = n.Label
			}
			message = fmt.Sprintf("Delete %q and its children? (y/n)", label)
		case ConfirmQuit:
			message = "Quit mindmap? (y/n)"
		case ConfirmOverwriteFile:
			message = fmt.Sprintf("File %s already exists. Overwrite? (y/n)", m.filename)
		case ConfirmNewMap:
			message = "Start a new map? The current one is replaced. (y/n)"
		}
		return "Mode: CONFIRM | " + message
	}

	status := fmt.Sprintf("Mode: %s", m.modeString())
	if n := m.sess.Selected(); n != nil {
		status += fmt.Sprintf(" | Node %d %q", n.ID, n.Label)
	}
	status += fmt.Sprintf(" | Zoom %d%%", int(m.view.Zoom*100+0.5))
	if m.successMessage != "" {
		status += " | " + m.successMessage
	}
	if m.errorMessage != "" {
		status += " | ERROR: " + m.errorMessage
	} else if m.successMessage == "" {
		status += " | ? for help | q to quit"
	}
	return status
}

func (m model) modeString() string {
	switch m.mode {
	case ModeNormal:
		return "NORMAL"
	case ModeEditing:
		return "EDIT"
	case ModeFileInput:
		return "FILE"
	case ModeConfirm:
		return "CONFIRM"
	default:
		return "UNKNOWN"
	}
}

var helpLines = []string{
	"Mindmap Help",
	"============",
	"",
	"Nodes:",
	"------",
	"  Enter            Add a child to the selected node and edit it",
	"  Tab              Add a sibling below the selected node and edit it",
	"  e/F2/Space       Edit the selected label",
	"  Backspace        Delete the selected node if it still has its default label",
	"  d/Delete         Delete the selected node and its children",
	"  D                Duplicate the selected subtree",
	"  c/C              Next/previous color",
	"",
	"Editing:",
	"--------",
	"  Enter            Save label",
	"  Tab              Save label and add a sibling",
	"  ←/→ Home/End     Move cursor",
	"  Esc              Cancel",
	"",
	"Navigation:",
	"-----------",
	"  h/←              Select parent",
	"  l/→              Select nearest child",
	"  k/↑ j/↓          Select node above/below at the same depth",
	"  H/J/K/L          Pan (Shift+arrows pan faster)",
	"  +/-              Zoom in/out",
	"  0                Reset pan and zoom",
	"  Mouse click      Select node; wheel zooms",
	"",
	"History:",
	"--------",
	"  u/Ctrl+Z         Undo",
	"  U/Ctrl+Y         Redo",
	"",
	"Files & clipboard:",
	"------------------",
	"  s                Save map (.json, .yaml or .txt outline)",
	"  S                Export as PNG image",
	"  o                Open a saved map",
	"  n                Start a new map",
	"  y                Copy selected label",
	"  Y                Copy outline",
	"  p                Paste clipboard into selected label",
	"",
	"General:",
	"  ?                Toggle this help screen",
	"  q/Ctrl+C         Quit",
}

func (m model) helpView() string {
	visibleHeight := m.height - 1
	if visibleHeight < 1 {
		visibleHeight = 1
	}

	startLine := m.helpScroll
	if startLine > len(helpLines)-visibleHeight {
		startLine = len(helpLines) - visibleHeight
	}
	if startLine < 0 {
		startLine = 0
	}
	endLine := startLine + visibleHeight
	if endLine > len(helpLines) {
		endLine = len(helpLines)
	}

	result := strings.Join(helpLines[startLine:endLine], "\n")
	result += fmt.Sprintf("\nHelp (%d-%d of %d lines) | j/k to scroll, Esc to close",
		startLine+1, endLine, len(helpLines))
	return result
}
