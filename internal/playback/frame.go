package playback

import (
	"github.com/vovakirdan/qdrive/internal/core"
	"github.com/vovakirdan/qdrive/internal/learn"
)

// Label is a line of text anchored at a world position.
type Label struct {
	Text  string
	Pos   core.Point
	Color core.Color // ColorDefault draws in the frame foreground
}

// Frame is everything a renderer needs to draw one tick, in world coordinates.
type Frame struct {
	Width, Height int

	// Car is drawn as a triangle pointing up: left base, apex, right base.
	Car       [3]core.Point
	Obstacles []core.Rect
	Labels    []Label

	Background    core.Color
	Foreground    core.Color
	ObstacleColor core.Color
	CarColor      core.Color // Depends on where the last decision came from

	Elapsed  float64 // Seconds since the current episode started
	Episode  int     // 1-based playback episode
	Decision learn.Decision
	States   int // Size of the table being played back
}

// carColor picks the car colour for a decision: cyan while the policy is
// guessing in a state it never visited.
func carColor(d learn.Decision) core.Color {
	if d.Source == learn.SourceUnknown {
		return core.ColorCyan
	}
	return core.ColorWhite
}

// carTriangle returns the car polygon inscribed in the collision box whose
// top-left corner is (x, y), so what is drawn is what collides.
func carTriangle(x, y, size int) [3]core.Point {
	return [3]core.Point{
		{X: x, Y: y + size},
		{X: x + size/2, Y: y},
		{X: x + size, Y: y + size},
	}
}
