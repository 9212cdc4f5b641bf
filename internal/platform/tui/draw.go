package tui

import (
	"github.com/vovakirdan/qdrive/internal/core"
	"github.com/vovakirdan/qdrive/internal/playback"
)

// Glyphs used to draw a frame.
const (
	glyphObstacle = '█'
	glyphCarBody  = '█'
	glyphCarApex  = '▲'
)

// viewport maps world coordinates onto a grid of terminal cells.
type viewport struct {
	cols, rows int // Target grid
	w, h       int // World size
}

func (v viewport) col(x int) int {
	return core.FloorDiv(x*v.cols, v.w)
}

func (v viewport) row(y int) int {
	return core.FloorDiv(y*v.rows, v.h)
}

// colEnd and rowEnd round up so a shape's far edge covers the cell it enters.
func (v viewport) colEnd(x int) int {
	return -core.FloorDiv(-x*v.cols, v.w)
}

func (v viewport) rowEnd(y int) int {
	return -core.FloorDiv(-y*v.rows, v.h)
}

// rect scales a world rectangle to cells. The result is at least one cell in
// each dimension so small shapes never vanish.
func (v viewport) rect(r core.Rect) core.Rect {
	x0, y0 := v.col(r.X), v.row(r.Y)
	x1 := core.Max(v.colEnd(r.Right()), x0+1)
	y1 := core.Max(v.rowEnd(r.Bottom()), y0+1)
	return core.NewRect(x0, y0, x1-x0, y1-y0)
}

// center returns the world coordinates of a cell's centre.
func (v viewport) center(cx, cy int) (float64, float64) {
	wx := (float64(cx) + 0.5) * float64(v.w) / float64(v.cols)
	wy := (float64(cy) + 0.5) * float64(v.h) / float64(v.rows)
	return wx, wy
}

// DrawFrame renders a playback frame onto the screen, scaling the world to
// the screen size. The screen is cleared first.
func DrawFrame(s *core.Screen, f playback.Frame) {
	s.Clear()
	if s.Width() == 0 || s.Height() == 0 || f.Width <= 0 || f.Height <= 0 {
		return
	}
	v := viewport{cols: s.Width(), rows: s.Height(), w: f.Width, h: f.Height}

	for _, o := range f.Obstacles {
		s.DrawRect(v.rect(o), glyphObstacle, f.ObstacleColor)
	}
	drawCar(s, v, f.Car, f.CarColor)

	for _, l := range f.Labels {
		n := len([]rune(l.Text))
		x := core.Clamp(v.col(l.Pos.X), 0, core.Max(s.Width()-n, 0))
		y := core.Clamp(v.row(l.Pos.Y), 0, s.Height()-1)
		c := l.Color
		if c == core.ColorDefault {
			c = f.Foreground
		}
		s.DrawTextColored(x, y, l.Text, c)
	}
}

// drawCar fills every cell whose centre lies inside the car triangle. The top
// row of the shape gets the apex glyph. A car smaller than a cell is drawn as
// a single apex glyph.
func drawCar(s *core.Screen, v viewport, tri [3]core.Point, c core.Color) {
	minX := core.Min(tri[0].X, core.Min(tri[1].X, tri[2].X))
	maxX := core.Max(tri[0].X, core.Max(tri[1].X, tri[2].X))
	minY := core.Min(tri[0].Y, core.Min(tri[1].Y, tri[2].Y))
	maxY := core.Max(tri[0].Y, core.Max(tri[1].Y, tri[2].Y))
	box := v.rect(core.NewRect(minX, minY, maxX-minX, maxY-minY))

	topRow := -1
	for cy := box.Y; cy < box.Bottom(); cy++ {
		for cx := box.X; cx < box.Right(); cx++ {
			wx, wy := v.center(cx, cy)
			if !insideTriangle(wx, wy, tri) {
				continue
			}
			if topRow < 0 {
				topRow = cy
			}
			glyph := glyphCarBody
			if cy == topRow {
				glyph = glyphCarApex
			}
			s.SetColored(cx, cy, glyph, c)
		}
	}

	if topRow < 0 {
		apex := tri[0]
		for _, p := range tri[1:] {
			if p.Y < apex.Y {
				apex = p
			}
		}
		s.SetColored(v.col(apex.X), v.row(apex.Y), glyphCarApex, c)
	}
}

// insideTriangle reports whether (x, y) lies inside or on the edge of tri.
func insideTriangle(x, y float64, tri [3]core.Point) bool {
	side := func(a, b core.Point) float64 {
		return (float64(b.X)-float64(a.X))*(y-float64(a.Y)) - (float64(b.Y)-float64(a.Y))*(x-float64(a.X))
	}
	d1 := side(tri[0], tri[1])
	d2 := side(tri[1], tri[2])
	d3 := side(tri[2], tri[0])
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}
