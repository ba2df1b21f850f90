package render

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"

	"github.com/fogleman/gg"

	"mindmap/internal/layout"
	"mindmap/internal/tree"
)

// ErrNothingToDraw is returned when the tree or its layout is empty.
var ErrNothingToDraw = errors.New("nothing to export")

const (
	connectorWidth = 2.0
	outlineWidth   = 2.0
	outlineColor   = "#333333"
	labelColor     = "#ffffff"
	background     = "#ffffff"
)

// PNGOptions controls image export.
type PNGOptions struct {
	// SelectedID gets a dark outline; 0 draws none.
	SelectedID int
	// Scale multiplies world units into pixels. Zero means 1.
	Scale float64
	// Margin is blank world space around the map. Zero means 40.
	Margin float64
}

// Draw paints root using geometry from l and returns the image. m supplies
// the font face, and should be the measurer l was computed with so labels
// fit their boxes.
func Draw(root *tree.Node, l *layout.Layout, m *FaceMeasurer, opts PNGOptions) (image.Image, error) {
	if root == nil || l == nil || l.Len() == 0 {
		return nil, ErrNothingToDraw
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.Margin <= 0 {
		opts.Margin = 40
	}

	bounds := l.Bounds()
	width := int(math.Ceil((bounds.Width + 2*opts.Margin) * opts.Scale))
	height := int(math.Ceil((bounds.Height + 2*opts.Margin) * opts.Scale))

	dc := gg.NewContext(width, height)
	dc.SetHexColor(background)
	dc.Clear()

	dc.Scale(opts.Scale, opts.Scale)
	dc.Translate(opts.Margin-bounds.X, opts.Margin-bounds.Y)
	dc.SetFontFace(m.Face(layout.DefaultFont.Size))

	// Connectors first so boxes sit on top of them.
	tree.Walk(root, func(n *tree.Node, _ int) bool {
		drawConnectors(dc, n, l)
		return true
	})
	tree.Walk(root, func(n *tree.Node, _ int) bool {
		if b, ok := l.Box(n.ID); ok {
			drawNode(dc, n, b, n.ID == opts.SelectedID)
		}
		return true
	})

	return dc.Image(), nil
}

// WritePNG draws the map and encodes it to w.
func WritePNG(w io.Writer, root *tree.Node, l *layout.Layout, m *FaceMeasurer, opts PNGOptions) error {
	img, err := Draw(root, l, m, opts)
	if err != nil {
		return err
	}
	if err := gg.NewContextForImage(img).EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// SavePNG draws the map into filename.
func SavePNG(filename string, root *tree.Node, l *layout.Layout, m *FaceMeasurer, opts PNGOptions) error {
	img, err := Draw(root, l, m, opts)
	if err != nil {
		return err
	}
	if err := gg.SavePNG(filename, img); err != nil {
		return fmt.Errorf("failed to save png: %w", err)
	}
	return nil
}

// drawConnectors draws a bezier from the parent's right edge to each
// child's left edge, in the child's color.
func drawConnectors(dc *gg.Context, parent *tree.Node, l *layout.Layout) {
	pb, ok := l.Box(parent.ID)
	if !ok {
		return
	}
	for _, child := range parent.Children {
		cb, ok := l.Box(child.ID)
		if !ok {
			continue
		}
		x1, y1 := pb.Right(), pb.Y
		x2, y2 := cb.X, cb.Y
		mid := (x1 + x2) / 2

		dc.NewSubPath()
		dc.MoveTo(x1, y1)
		dc.CubicTo(mid, y1, mid, y2, x2, y2)
		dc.SetHexColor(colorOr(child.Color))
		dc.SetLineWidth(connectorWidth)
		dc.Stroke()
	}
}

func drawNode(dc *gg.Context, n *tree.Node, b layout.Box, selected bool) {
	top := b.Y - layout.BoxHeight/2
	radius := layout.BoxHeight / 2

	dc.DrawRoundedRectangle(b.X, top, b.Width, layout.BoxHeight, radius)
	dc.SetHexColor(colorOr(n.Color))
	if selected {
		dc.FillPreserve()
		dc.SetHexColor(outlineColor)
		dc.SetLineWidth(outlineWidth)
		dc.Stroke()
	} else {
		dc.Fill()
	}

	dc.SetHexColor(labelColor)
	dc.DrawStringAnchored(n.Label, b.X+b.Width/2, b.Y, 0.5, 0.5)
}

func colorOr(c string) string {
	if tree.IsValidColor(c) {
		return c
	}
	return tree.DefaultColor
}
