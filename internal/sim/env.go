// Package sim implements the car-and-falling-obstacles world.
// The environment owns the car, a fixed pool of obstacles, collision detection
// and reward emission. It never resets itself: the loop that owns the episode
// boundary calls Reset after Step reports a terminal collision.
package sim

import (
	"math/rand"

	"github.com/vovakirdan/qdrive/internal/config"
	"github.com/vovakirdan/qdrive/internal/core"
)

// Rewards emitted by Step.
const (
	RewardStep      = -1.0
	RewardCollision = -100.0
)

// Obstacle is a falling square. Obstacles are recycled, never destroyed.
type Obstacle struct {
	X, Y int
}

// Pos returns the top-left corner of the obstacle.
func (o Obstacle) Pos() core.Point {
	return core.Point{X: o.X, Y: o.Y}
}

// Car is the controlled square. Only X changes during an episode.
type Car struct {
	X, Y int
}

// Pos returns the top-left corner of the car.
func (c Car) Pos() core.Point {
	return core.Point{X: c.X, Y: c.Y}
}

// StepResult is returned by Environment.Step.
type StepResult struct {
	Reward   float64
	Terminal bool // A collision happened this step
}

// Environment is the simulated world.
type Environment struct {
	cfg       config.WorldConfig
	rng       *rand.Rand
	car       Car
	obstacles []Obstacle
	ticks     int // Steps since the last Reset
}

// New creates an environment with its own RNG and performs an initial Reset.
func New(cfg config.WorldConfig, seed int64) *Environment {
	e := &Environment{
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(seed)),
		obstacles: make([]Obstacle, cfg.ObstacleCount),
	}
	e.Reset()
	return e
}

// Reset centres the car on its fixed row, respawns every obstacle above
// the screen and restarts the episode clock.
func (e *Environment) Reset() {
	e.car = Car{
		X: e.cfg.Width / 2,
		Y: e.cfg.Height - 2*e.cfg.CarSize,
	}
	for i := range e.obstacles {
		e.respawn(&e.obstacles[i])
	}
	e.ticks = 0
}

// respawn moves an obstacle to a random position above the visible area.
// Both draws are inclusive of their bounds.
func (e *Environment) respawn(o *Obstacle) {
	o.X = e.rng.Intn(e.cfg.Width-e.cfg.ObstacleSize+1)
	o.Y = -e.rng.Intn(e.cfg.Height + 1)
}

// Step applies the action, advances every obstacle by one tick and checks
// for a collision. The car is clamped to [0, width-carSize] whatever the step size.
func (e *Environment) Step(action core.Action) StepResult {
	switch action {
	case core.ActionLeft:
		e.car.X = core.Max(e.car.X-e.cfg.CarStep, 0)
	case core.ActionRight:
		e.car.X = core.Min(e.car.X+e.cfg.CarStep, e.cfg.Width-e.cfg.CarSize)
	}

	for i := range e.obstacles {
		o := &e.obstacles[i]
		o.Y += e.cfg.FallSpeed
		if o.Y > e.cfg.Height {
			e.respawn(o)
		}
	}
	e.ticks++

	if e.Collides() {
		return StepResult{Reward: RewardCollision, Terminal: true}
	}
	return StepResult{Reward: RewardStep}
}

// Collides reports whether the car overlaps any obstacle.
func (e *Environment) Collides() bool {
	carRect := e.CarRect()
	for _, o := range e.obstacles {
		if carRect.Intersects(core.Square(o.Pos(), e.cfg.ObstacleSize)) {
			return true
		}
	}
	return false
}

// CarRect returns the car's collision rectangle.
func (e *Environment) CarRect() core.Rect {
	return core.Square(e.car.Pos(), e.cfg.CarSize)
}

// ObstacleRects returns the collision rectangles of all obstacles, in pool order.
func (e *Environment) ObstacleRects() []core.Rect {
	rects := make([]core.Rect, len(e.obstacles))
	for i, o := range e.obstacles {
		rects[i] = core.Square(o.Pos(), e.cfg.ObstacleSize)
	}
	return rects
}

// Car returns the car position.
func (e *Environment) Car() Car {
	return e.car
}

// Obstacles returns a copy of the obstacle pool in list order.
func (e *Environment) Obstacles() []Obstacle {
	out := make([]Obstacle, len(e.obstacles))
	copy(out, e.obstacles)
	return out
}

// Ticks returns the number of steps since the last Reset.
func (e *Environment) Ticks() int {
	return e.ticks
}

// Config returns the world configuration.
func (e *Environment) Config() config.WorldConfig {
	return e.cfg
}
