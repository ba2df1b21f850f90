// Package render draws laid-out mind maps as PNG images and text outlines.
package render

import (
	"fmt"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"mindmap/internal/layout"
)

// FaceMeasurer measures labels with the Go Regular truetype face, the same
// face PNG export draws with. Faces are cached per point size.
type FaceMeasurer struct {
	ttf   *truetype.Font
	faces map[float64]font.Face
}

// NewFaceMeasurer parses the embedded font.
func NewFaceMeasurer() (*FaceMeasurer, error) {
	ttf, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return &FaceMeasurer{ttf: ttf, faces: make(map[float64]font.Face)}, nil
}

// Face returns the face for a point size at 72 DPI, so one point is one
// world unit.
func (m *FaceMeasurer) Face(size float64) font.Face {
	if size <= 0 {
		size = layout.DefaultFont.Size
	}
	if face, ok := m.faces[size]; ok {
		return face
	}
	face := truetype.NewFace(m.ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	m.faces[size] = face
	return face
}

// Measure implements layout.Measurer. The family is ignored.
func (m *FaceMeasurer) Measure(text string, f layout.Font) float64 {
	return toFloat(font.MeasureString(m.Face(f.Size), text))
}

func toFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
