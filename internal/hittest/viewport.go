// Package hittest maps screen positions to mind-map nodes.
package hittest

import "math"

// Zoom limits and steps.
const (
	MinZoom      = 0.3
	MaxZoom      = 3.0
	ZoomStep     = 1.2
	WheelZoomIn  = 1.1
	WheelZoomOut = 0.9
)

// Viewport is the pan/zoom transform between world space and a canvas of
// Width x Height screen units. Rendering translates by the canvas centre
// plus the pan offset, then scales by Zoom.
type Viewport struct {
	PanX, PanY    float64
	Zoom          float64
	Width, Height float64
}

// NewViewport returns an unpanned, unzoomed viewport for a canvas size.
func NewViewport(width, height float64) Viewport {
	return Viewport{Zoom: 1, Width: width, Height: height}
}

func (v Viewport) scale() float64 {
	if v.Zoom == 0 {
		return 1
	}
	return v.Zoom
}

// ScreenToWorld undoes the render transform.
func (v Viewport) ScreenToWorld(sx, sy float64) (float64, float64) {
	z := v.scale()
	return (sx - v.PanX - v.Width/2) / z, (sy - v.PanY - v.Height/2) / z
}

// WorldToScreen applies the render transform.
func (v Viewport) WorldToScreen(wx, wy float64) (float64, float64) {
	z := v.scale()
	return v.Width/2 + v.PanX + wx*z, v.Height/2 + v.PanY + wy*z
}

// Pan moves the view by a screen-space delta.
func (v *Viewport) Pan(dx, dy float64) {
	v.PanX += dx
	v.PanY += dy
}

// ZoomBy multiplies the zoom, clamped to [MinZoom, MaxZoom].
func (v *Viewport) ZoomBy(factor float64) {
	v.Zoom = math.Max(MinZoom, math.Min(MaxZoom, v.scale()*factor))
}

// ZoomIn zooms in one step.
func (v *Viewport) ZoomIn() { v.ZoomBy(ZoomStep) }

// ZoomOut zooms out one step.
func (v *Viewport) ZoomOut() { v.ZoomBy(1 / ZoomStep) }

// Reset clears pan and zoom, keeping the canvas size.
func (v *Viewport) Reset() {
	v.PanX, v.PanY = 0, 0
	v.Zoom = 1
}

// Resize changes the canvas size.
func (v *Viewport) Resize(width, height float64) {
	v.Width, v.Height = width, height
}
