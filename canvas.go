package ggedit

import "math"

// Zoom limits, in percent.
const (
	MinZoom  = 25
	MaxZoom  = 400
	ZoomStep = 25
)

// Canvas holds the view settings the controller works against.
type Canvas struct {
	Width    float64 `json:"width" yaml:"width"`
	Height   float64 `json:"height" yaml:"height"`
	GridSize float64 `json:"gridSize" yaml:"grid_size"`
	Snap     bool    `json:"snapToGrid" yaml:"snap_to_grid"`
	ShowGrid bool    `json:"showGrid" yaml:"show_grid"`
	Zoom     int     `json:"zoom" yaml:"zoom"`
}

// DefaultCanvas returns an 800×600 canvas with a visible 20px snapping
// grid at 100% zoom.
func DefaultCanvas() Canvas {
	return Canvas{Width: 800, Height: 600, GridSize: 20, Snap: true, ShowGrid: true, Zoom: 100}
}

// Snap quantizes v to the nearest multiple of grid. Halves round up, so
// -10 on a 20 grid snaps to 0.
func Snap(v, grid float64) float64 {
	if grid <= 0 {
		return v
	}
	return math.Floor(v/grid+0.5) * grid
}

// SnapPoint quantizes (x, y) when snapping is on.
func (c Canvas) SnapPoint(x, y float64) (float64, float64) {
	if !c.Snap {
		return x, y
	}
	return Snap(x, c.GridSize), Snap(y, c.GridSize)
}

// ZoomIn raises the zoom by one step, up to MaxZoom.
func (c *Canvas) ZoomIn() { c.SetZoom(c.Zoom + ZoomStep) }

// ZoomOut lowers the zoom by one step, down to MinZoom.
func (c *Canvas) ZoomOut() { c.SetZoom(c.Zoom - ZoomStep) }

// SetZoom clamps z to [MinZoom, MaxZoom].
func (c *Canvas) SetZoom(z int) { c.Zoom = max(MinZoom, min(MaxZoom, z)) }

// ScreenToCanvas converts view coordinates to canvas coordinates.
func (c Canvas) ScreenToCanvas(x, y float64) (float64, float64) {
	z := float64(c.Zoom)
	if z <= 0 {
		return x, y
	}
	return x * 100 / z, y * 100 / z
}
