// Package learn implements tabular Q-learning for the obstacle-avoidance task:
// state discretization, the lazily grown Q-table, the greedy playback policy
// and the epsilon-greedy learning agent.
package learn

import (
	"math"
	"sort"

	"github.com/vovakirdan/qdrive/internal/config"
	"github.com/vovakirdan/qdrive/internal/core"
	"github.com/vovakirdan/qdrive/internal/sim"
)

// Slots is the fixed number of obstacle offsets carried by a State.
const Slots = config.MaxSlots

// Offset is an obstacle position relative to the car, in obstacle-size buckets.
type Offset struct {
	DX, DY int
}

// Absent fills obstacle slots that have no obstacle behind them.
// No real offset can reach it: buckets are bounded by the world size.
var Absent = Offset{DX: math.MinInt32, DY: math.MinInt32}

// State is the discrete, hashable key of the Q-table.
// It is a comparable value type, so equality and map hashing are structural.
type State struct {
	CarX, CarY int
	Obstacles  [Slots]Offset
}

// Discretizer maps continuous world state to States.
type Discretizer struct {
	carSize      int
	obstacleSize int
	slots        int
	nearest      bool
}

// NewDiscretizer builds a discretizer from the world and discretizer settings.
func NewDiscretizer(world config.WorldConfig, d config.DiscretizerConfig) Discretizer {
	slots := d.Slots
	if slots <= 0 || slots > Slots {
		slots = Slots
	}
	return Discretizer{
		carSize:      world.CarSize,
		obstacleSize: world.ObstacleSize,
		slots:        slots,
		nearest:      d.Order == config.OrderNearest,
	}
}

// Discretize buckets the car position and the offsets of the first slots
// obstacles. Obstacles are taken in list order unless the discretizer was
// configured with the nearest order. It does not modify obstacles.
func (d Discretizer) Discretize(car sim.Car, obstacles []sim.Obstacle) State {
	if d.nearest {
		obstacles = nearestFirst(car, obstacles)
	}

	s := State{
		CarX: core.FloorDiv(car.X, d.carSize),
		CarY: core.FloorDiv(car.Y, d.carSize),
	}
	for i := range s.Obstacles {
		if i >= d.slots || i >= len(obstacles) {
			s.Obstacles[i] = Absent
			continue
		}
		o := obstacles[i]
		s.Obstacles[i] = Offset{
			DX: core.FloorDiv(o.X-car.X, d.obstacleSize),
			DY: core.FloorDiv(o.Y-car.Y, d.obstacleSize),
		}
	}
	return s
}

// DiscretizeEnv is a convenience wrapper over the environment's current state.
func (d Discretizer) DiscretizeEnv(env *sim.Environment) State {
	return d.Discretize(env.Car(), env.Obstacles())
}

// nearestFirst returns a copy of obstacles stably sorted by squared distance
// between top-left corners.
func nearestFirst(car sim.Car, obstacles []sim.Obstacle) []sim.Obstacle {
	sorted := make([]sim.Obstacle, len(obstacles))
	copy(sorted, obstacles)
	dist := func(o sim.Obstacle) int {
		dx, dy := o.X-car.X, o.Y-car.Y
		return dx*dx + dy*dy
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return dist(sorted[i]) < dist(sorted[j])
	})
	return sorted
}
