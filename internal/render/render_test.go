package render

import (
	"bytes"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mindmap/internal/layout"
	"mindmap/internal/tree"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *tree.Node {
	return &tree.Node{ID: 1, Label: "r", Color: "#4a90d9", Children: []*tree.Node{
		{ID: 2, Label: "a", Color: "#e74c3c", Children: []*tree.Node{
			{ID: 4, Label: "deep", Color: "#2ecc71"},
		}},
		{ID: 3, Label: "b", Color: "not a color"},
	}}
}

func newMeasurer(t *testing.T) *FaceMeasurer {
	t.Helper()
	m, err := NewFaceMeasurer()
	require.NoError(t, err)
	return m
}

func TestFaceMeasurer(t *testing.T) {
	m := newMeasurer(t)

	assert.Equal(t, 0.0, m.Measure("", layout.DefaultFont))
	short := m.Measure("mind", layout.DefaultFont)
	long := m.Measure("mind map editor", layout.DefaultFont)
	assert.Greater(t, short, 0.0)
	assert.Greater(t, long, short)

	big := m.Measure("mind", layout.Font{Size: 24})
	assert.InDelta(t, 2*short, big, 6, "width scales with point size")

	assert.Same(t, m.Face(12), m.Face(12))
	assert.Same(t, m.Face(12), m.Face(0), "non-positive size uses the default")
}

func TestDraw(t *testing.T) {
	m := newMeasurer(t)
	root := sample()
	l := layout.Compute(root, m, layout.DefaultFont)

	const margin = 40.0
	img, err := Draw(root, l, m, PNGOptions{SelectedID: 1, Margin: margin})
	require.NoError(t, err)

	bounds := l.Bounds()
	assert.Equal(t, int(math.Ceil(bounds.Width+2*margin)), img.Bounds().Dx())
	assert.Equal(t, int(math.Ceil(bounds.Height+2*margin)), img.Bounds().Dy())

	toPixel := func(wx, wy float64) (int, int) {
		return int(wx - bounds.X + margin), int(wy - bounds.Y + margin)
	}

	rgba := func(x, y int) color.RGBA {
		r, g, b, a := img.At(x, y).RGBA()
		return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
	}

	assert.Equal(t, color.RGBA{255, 255, 255, 255}, rgba(0, 0), "background")

	tests := []struct {
		id   int
		want color.RGBA
	}{
		{1, color.RGBA{0x4a, 0x90, 0xd9, 0xff}},
		{2, color.RGBA{0xe7, 0x4c, 0x3c, 0xff}},
		{4, color.RGBA{0x2e, 0xcc, 0x71, 0xff}},
		{3, color.RGBA{0x4a, 0x90, 0xd9, 0xff}}, // invalid color falls back
	}
	for _, tt := range tests {
		b, ok := l.Box(tt.id)
		require.True(t, ok)
		// Inside the rounded end cap, clear of the centred label.
		x, y := toPixel(b.X+8, b.Y+6)
		assert.Equal(t, tt.want, rgba(x, y), "node %d fill", tt.id)
	}
}

func TestDrawScale(t *testing.T) {
	m := newMeasurer(t)
	root := sample()
	l := layout.Compute(root, m, layout.DefaultFont)

	one, err := Draw(root, l, m, PNGOptions{})
	require.NoError(t, err)
	two, err := Draw(root, l, m, PNGOptions{Scale: 2})
	require.NoError(t, err)

	assert.InDelta(t, 2*one.Bounds().Dx(), two.Bounds().Dx(), 2)
	assert.InDelta(t, 2*one.Bounds().Dy(), two.Bounds().Dy(), 2)
}

func TestDrawNothing(t *testing.T) {
	m := newMeasurer(t)
	_, err := Draw(nil, layout.Compute(nil, m, layout.DefaultFont), m, PNGOptions{})
	assert.ErrorIs(t, err, ErrNothingToDraw)

	_, err = Draw(sample(), nil, m, PNGOptions{})
	assert.ErrorIs(t, err, ErrNothingToDraw)
}

func TestWriteAndSavePNG(t *testing.T) {
	m := newMeasurer(t)
	root := sample()
	l := layout.Compute(root, m, layout.DefaultFont)

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, root, l, m, PNGOptions{}))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), 0)

	path := filepath.Join(t.TempDir(), "map.png")
	require.NoError(t, SavePNG(path, root, l, m, PNGOptions{}))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	saved, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), saved.Bounds())

	assert.ErrorIs(t, WritePNG(&buf, nil, l, m, PNGOptions{}), ErrNothingToDraw)
}

func TestOutlinePlain(t *testing.T) {
	got := Outline(sample(), OutlineOptions{SelectedID: 2})
	want := strings.Join([]string{
		"- r",
		"  * a",
		"    - deep",
		"  - b",
		"",
	}, "\n")
	assert.Equal(t, want, got)

	assert.Equal(t, "- r\n", Outline(&tree.Node{ID: 1, Label: "r"}, OutlineOptions{}))
	assert.Equal(t, "", Outline(nil, OutlineOptions{}))
}

func TestOutlineIndent(t *testing.T) {
	got := Outline(sample(), OutlineOptions{Indent: 4})
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "        - deep", lines[2])
}

func TestOutlineStyled(t *testing.T) {
	got := Outline(sample(), OutlineOptions{SelectedID: 1, Styled: true})
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	require.Len(t, lines, 4)
	for i, label := range []string{"r", "a", "deep", "b"} {
		assert.Contains(t, lines[i], "■")
		assert.Contains(t, lines[i], label)
	}
}
