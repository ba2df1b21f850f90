package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mindmap/internal/layout"
	"mindmap/internal/render"
	"mindmap/internal/session"
)

type exportFormat string

const (
	formatJSON    exportFormat = "json"
	formatYAML    exportFormat = "yaml"
	formatPNG     exportFormat = "png"
	formatOutline exportFormat = "outline"
)

var errUnknownFormat = errors.New("unknown format")

// formatForPath picks an export format from a file extension.
func formatForPath(path string) exportFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML
	case ".png":
		return formatPNG
	case ".txt", ".md":
		return formatOutline
	default:
		return formatJSON
	}
}

func parseFormat(s string) (exportFormat, error) {
	switch f := exportFormat(strings.ToLower(s)); f {
	case formatJSON, formatYAML, formatPNG, formatOutline:
		return f, nil
	case "yml":
		return formatYAML, nil
	case "txt":
		return formatOutline, nil
	default:
		return "", fmt.Errorf("%w: %q (want json, yaml, png or outline)", errUnknownFormat, s)
	}
}

// exportMap writes the session's map to path in the given format.
func exportMap(sess *session.Session, path string, format exportFormat) error {
	var data []byte
	var err error
	switch format {
	case formatJSON:
		data, err = sess.ExportJSON()
	case formatYAML:
		data, err = sess.ExportYAML()
	case formatOutline:
		data = []byte(render.Outline(sess.Root(), render.OutlineOptions{}))
	case formatPNG:
		return exportPNG(sess, path)
	default:
		return fmt.Errorf("%w: %q", errUnknownFormat, format)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// exportPNG lays the map out with the font it is drawn in, so labels fit.
func exportPNG(sess *session.Session, path string) error {
	faces, err := render.NewFaceMeasurer()
	if err != nil {
		return err
	}
	l := layout.Compute(sess.Root(), faces, layout.DefaultFont)
	return render.SavePNG(path, sess.Root(), l, faces, render.PNGOptions{
		SelectedID: sess.SelectedID(),
		Scale:      2,
	})
}

// importMap replaces the session's map with the file at path, decoded as
// YAML for .yaml/.yml and JSON otherwise.
func importMap(sess *session.Session, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if formatForPath(path) == formatYAML {
		return sess.ImportYAML(data)
	}
	return sess.ImportJSON(data)
}

// withExtension appends ext when name has none.
func withExtension(name, ext string) string {
	if filepath.Ext(name) == "" {
		return name + ext
	}
	return name
}

// scanMapFiles lists saved maps in dir.
func scanMapFiles(dir string) []string {
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".json", ".yaml", ".yml":
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files
}

func (m *model) startFileInput(op FileOperation) {
	m.mode = ModeFileInput
	m.fileOp = op
	m.errorMessage = ""
	m.fileList = nil
	m.selectedFileIndex = -1
	switch op {
	case FileOpSave:
		m.filename = defaultFile
	case FileOpSavePNG:
		m.filename = defaultPNG
	case FileOpOpen:
		m.filename = ""
		m.fileList = scanMapFiles(m.config.SaveDirectory)
		if len(m.fileList) > 0 {
			m.selectedFileIndex = 0
			m.filename = m.fileList[0]
		}
	}
}

func (m *model) cycleFileList(step int) {
	if m.fileOp != FileOpOpen || len(m.fileList) == 0 {
		return
	}
	m.selectedFileIndex = (m.selectedFileIndex + step + len(m.fileList)) % len(m.fileList)
	m.filename = m.fileList[m.selectedFileIndex]
}

func (m *model) submitFileInput() {
	name := strings.TrimSpace(m.filename)
	if name == "" {
		m.errorMessage = "Filename required"
		return
	}
	switch m.fileOp {
	case FileOpSave:
		name = withExtension(name, ".json")
	case FileOpSavePNG:
		name = withExtension(name, ".png")
	case FileOpOpen:
		m.openFile(name)
		return
	}
	m.filename = name

	path, err := m.config.SavePath(name)
	if err != nil {
		m.errorMessage = err.Error()
		return
	}
	if _, err := os.Stat(path); err == nil && m.config.Confirmations {
		m.confirm(ConfirmOverwriteFile, 0)
		return
	}
	m.writeFile(m.fileOp, name)
}

func (m *model) writeFile(op FileOperation, name string) {
	path, err := m.config.SavePath(name)
	if err != nil {
		m.mode = ModeFileInput
		m.errorMessage = err.Error()
		return
	}
	format := formatForPath(path)
	if op == FileOpSavePNG {
		format = formatPNG
	}
	if err := exportMap(m.sess, path, format); err != nil {
		m.mode = ModeFileInput
		m.errorMessage = err.Error()
		return
	}
	m.mode = ModeNormal
	m.errorMessage = ""
	m.successMessage = "Saved " + path
	m.logger.Info("exported map", "path", path, "format", string(format))
}

func (m *model) openFile(name string) {
	path, err := m.config.SavePath(name)
	if err != nil {
		m.errorMessage = err.Error()
		return
	}
	if err := importMap(m.sess, path); err != nil {
		m.errorMessage = err.Error()
		return
	}
	m.mode = ModeNormal
	m.errorMessage = ""
	m.view.Reset()
	m.changed()
	m.successMessage = "Opened " + path
}

func (m model) fileListView(width, height int) string {
	var result strings.Builder
	result.WriteString("Select a saved map:\n")
	result.WriteString(strings.Repeat("─", width))
	result.WriteString("\n")

	rows := 3
	if len(m.fileList) == 0 {
		result.WriteString("(No .json or .yaml files found)\n")
		rows++
	} else {
		maxFiles := height - 3
		if maxFiles < 1 {
			maxFiles = 1
		}
		start := 0
		if m.selectedFileIndex >= maxFiles {
			start = m.selectedFileIndex - maxFiles + 1
		}
		end := start + maxFiles
		if end > len(m.fileList) {
			end = len(m.fileList)
		}
		for i := start; i < end; i++ {
			if i == m.selectedFileIndex {
				result.WriteString("> " + m.fileList[i] + " <\n")
			} else {
				result.WriteString("  " + m.fileList[i] + "\n")
			}
			rows++
		}
	}
	result.WriteString(strings.Repeat("─", width))
	for ; rows < height; rows++ {
		result.WriteString("\n")
	}
	return result.String()
}
