// Package playback runs the learned greedy policy frame by frame and hands
// each frame to a renderer. It owns the environment it plays in and the
// on-screen survival history; the Q-table is only read.
package playback

import (
	"fmt"

	"github.com/vovakirdan/qdrive/internal/config"
	"github.com/vovakirdan/qdrive/internal/core"
	"github.com/vovakirdan/qdrive/internal/learn"
	"github.com/vovakirdan/qdrive/internal/sim"
)

// Label layout in world units, measured from the world edges.
const (
	timeLabelInsetX    = 150
	labelInset         = 10
	historyBaseInsetY  = 40
	historyLineSpacing = 20
)

// Session is one playback run.
type Session struct {
	cfg      config.Config
	env      *sim.Environment
	disc     learn.Discretizer
	policy   *learn.Greedy
	table    *learn.QTable
	history  *History
	episode  int
	last     learn.Decision
	survived []float64 // Every playback survival time, unbounded, for the caller's stats
}

// NewSession creates a playback session over a trained table.
// seedHistory pre-fills the on-screen history, typically with training survival times.
func NewSession(cfg config.Config, table *learn.QTable, seed int64, seedHistory []float64) *Session {
	history := NewHistory(cfg.Playback.History)
	for _, t := range seedHistory {
		history.Add(t)
	}
	return &Session{
		cfg:     cfg,
		env:     sim.New(cfg.World, seed),
		disc:    learn.NewDiscretizer(cfg.World, cfg.Discretizer),
		policy:  learn.NewGreedy(table, seed+1),
		table:   table,
		history: history,
		episode: 1,
	}
}

// Step plays one tick: discretize, choose greedily, step the world. On a
// collision the survival time is recorded and the world is reset before the
// frame is built.
func (s *Session) Step() Frame {
	state := s.disc.DiscretizeEnv(s.env)
	s.last = s.policy.Decide(state)
	res := s.env.Step(s.last.Action)
	if res.Terminal {
		elapsed := s.Elapsed()
		s.history.Add(elapsed)
		s.survived = append(s.survived, elapsed)
		s.env.Reset()
		s.episode++
	}
	return s.Frame()
}

// Elapsed returns the simulated seconds since the current episode started.
func (s *Session) Elapsed() float64 {
	return float64(s.env.Ticks()) / float64(s.cfg.Playback.FPS)
}

// Frame builds the render data for the current world state.
func (s *Session) Frame() Frame {
	w := s.cfg.World
	car := s.env.Car()
	elapsed := s.Elapsed()

	labels := []Label{{
		Text:  fmt.Sprintf("Time: %.1fs", elapsed),
		Pos:   core.Point{X: w.Width - timeLabelInsetX, Y: labelInset},
		Color: core.ColorBrightWhite,
	}}
	for i, t := range s.history.Times() {
		labels = append(labels, Label{
			Text:  fmt.Sprintf("%d. %.1fs", i+1, t),
			Pos:   core.Point{X: labelInset, Y: w.Height - historyBaseInsetY - labelInset - i*historyLineSpacing},
			Color: core.ColorGray,
		})
	}

	return Frame{
		Width:         w.Width,
		Height:        w.Height,
		Car:           carTriangle(car.X, car.Y, w.CarSize),
		Obstacles:     s.env.ObstacleRects(),
		Labels:        labels,
		Background:    core.ColorBlack,
		Foreground:    core.ColorWhite,
		ObstacleColor: core.ColorRed,
		CarColor:      carColor(s.last),
		Elapsed:       elapsed,
		Episode:       s.episode,
		Decision:      s.last,
		States:        s.table.Len(),
	}
}

// History returns the on-screen survival history.
func (s *Session) History() *History {
	return s.history
}

// Survived returns every survival time recorded during this playback.
func (s *Session) Survived() []float64 {
	out := make([]float64, len(s.survived))
	copy(out, s.survived)
	return out
}

// Episode returns the 1-based index of the running playback episode.
func (s *Session) Episode() int {
	return s.episode
}

// Config returns the session configuration.
func (s *Session) Config() config.Config {
	return s.cfg
}
