package layout

import (
	"github.com/charmbracelet/lipgloss"
)

// Font names the typeface a label is measured in.
type Font struct {
	Family string
	Size   float64
}

// DefaultFont matches the editor's node label font.
var DefaultFont = Font{Family: "sans-serif", Size: 12}

// Measurer reports the rendered width of text in world units.
type Measurer interface {
	Measure(text string, font Font) float64
}

// MeasureFunc adapts a plain function to Measurer.
type MeasureFunc func(text string, font Font) float64

// Measure calls f.
func (f MeasureFunc) Measure(text string, font Font) float64 { return f(text, font) }

// CellMeasurer measures text as terminal cells, each CellWidth world units
// wide. Wide runes count as two cells.
type CellMeasurer struct {
	CellWidth float64
}

// Measure implements Measurer. The font is ignored: a terminal has one.
func (c CellMeasurer) Measure(text string, _ Font) float64 {
	return float64(lipgloss.Width(text)) * c.CellWidth
}
