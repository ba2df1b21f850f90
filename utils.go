package main

import (
	"io"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
	"unicode"

	"github.com/atotto/clipboard"
	"golang.org/x/net/html"

	"mindmap/internal/render"
	"mindmap/internal/tree"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

func (m *model) copyLabel() {
	n := m.sess.Selected()
	if n == nil {
		return
	}
	if err := m.clipboard.WriteAll(n.Label); err != nil {
		m.errorMessage = "Copy failed: " + err.Error()
		return
	}
	m.successMessage = "Copied label"
}

func (m *model) copyOutline() {
	text := render.Outline(m.sess.Root(), render.OutlineOptions{})
	if err := m.clipboard.WriteAll(text); err != nil {
		m.errorMessage = "Copy failed: " + err.Error()
		return
	}
	m.successMessage = "Copied outline"
}

// pasteLabel relabels the selection with the first line of the clipboard.
func (m *model) pasteLabel() {
	text, err := m.clipboard.ReadAll()
	if err != nil {
		m.errorMessage = "Paste failed: " + err.Error()
		return
	}
	label := clipboardLabel(text)
	if label == "" {
		m.errorMessage = "Clipboard has no text"
		return
	}
	m.relabel(m.sess.SelectedID(), label)
}

// clipboardLabel reduces clipboard content to a single-line label.
func clipboardLabel(text string) string {
	text = cleanClipboardText(text)
	if isHTML(text) {
		text = extractTextFromHTML(text)
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.ReplaceAll(line, "\t", " "))
		if line != "" {
			return tree.TruncateLabel(line)
		}
	}
	return ""
}

func isBlank(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) < 0
}

func isHTML(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "<") &&
		(strings.Contains(text, "<html") || strings.Contains(text, "<body") || strings.Contains(text, "<div") ||
			strings.Contains(text, "<span") || strings.Contains(text, "<p"))
}

// blockTags start a new line in extracted text.
var blockTags = map[string]bool{
	"br": true, "p": true, "div": true, "li": true, "tr": true, "ul": true,
	"ol": true, "table": true, "blockquote": true, "pre": true, "h1": true,
	"h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// extractTextFromHTML returns the text of an HTML fragment with entities
// decoded. Script and style bodies are dropped.
func extractTextFromHTML(fragment string) string {
	var result strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	skip := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return result.String()
		case html.TextToken:
			if skip == 0 {
				result.Write(z.Text())
			}
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch tag := string(name); {
			case tag == "script" || tag == "style":
				if tt == html.StartTagToken {
					skip++
				} else if tt == html.EndTagToken && skip > 0 {
					skip--
				}
			case blockTags[tag]:
				result.WriteByte('\n')
			}
		}
	}
}

// cleanClipboardText drops RTF markup and control characters and
// normalizes line endings.
func cleanClipboardText(text string) string {
	if text == "" {
		return text
	}
	text = stripRTF(text)
	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\r' || r == '\t' || r >= 32 && r != 127 {
			result.WriteRune(r)
		}
	}
	normalized := strings.ReplaceAll(result.String(), "\r\n", "\n")
	return strings.ReplaceAll(normalized, "\r", "\n")
}

func stripRTF(text string) string {
	if !strings.HasPrefix(text, "{\\rtf") && !strings.Contains(text, "\\rtf") {
		return text
	}
	var result strings.Builder
	result.Grow(len(text))
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '{' || r == '}' {
			continue
		}
		if r != '\\' {
			result.WriteRune(r)
			continue
		}
		if i+1 >= len(runes) {
			continue
		}
		next := runes[i+1]
		switch {
		case unicode.IsLetter(next):
			// Control word: letters, an optional numeric parameter and one
			// delimiting space.
			j := i + 1
			for j < len(runes) && unicode.IsLetter(runes[j]) {
				j++
			}
			word := string(runes[i+1 : j])
			for j < len(runes) && (runes[j] == '-' || unicode.IsDigit(runes[j])) {
				j++
			}
			if j < len(runes) && runes[j] == ' ' {
				j++
			}
			if word == "par" || word == "line" {
				result.WriteRune('\n')
			}
			i = j - 1
		case next == '\\' || next == '{' || next == '}':
			result.WriteRune(next)
			i++
		default:
			i++
		}
	}
	return result.String()
}
