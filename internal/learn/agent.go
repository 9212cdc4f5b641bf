package learn

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/qdrive/internal/config"
	"github.com/vovakirdan/qdrive/internal/core"
)

// Schedule is a per-episode geometric epsilon decay with a floor.
type Schedule struct {
	Start float64
	Decay float64
	Min   float64
}

// Next returns the epsilon to use after an episode finished with epsilon e.
func (s Schedule) Next(e float64) float64 {
	return math.Max(s.Min, e*s.Decay)
}

// Agent is the epsilon-greedy Q-learner. It owns its table and RNG.
type Agent struct {
	table    *QTable
	rng      *rand.Rand
	alpha    float64
	gamma    float64
	schedule Schedule
	epsilon  float64
}

// NewAgent creates an agent with an empty table.
func NewAgent(cfg config.LearningConfig, seed int64) *Agent {
	return NewAgentWithTable(cfg, NewQTable(), seed)
}

// NewAgentWithTable creates an agent that learns into an existing table.
func NewAgentWithTable(cfg config.LearningConfig, table *QTable, seed int64) *Agent {
	return &Agent{
		table: table,
		rng:   rand.New(rand.NewSource(seed)),
		alpha: cfg.Alpha,
		gamma: cfg.Gamma,
		schedule: Schedule{
			Start: cfg.Epsilon,
			Decay: cfg.EpsilonDecay,
			Min:   cfg.MinEpsilon,
		},
		epsilon: cfg.Epsilon,
	}
}

// Decide draws u in [0,1). Below epsilon it explores uniformly; otherwise it
// acts greedily with the unseen-state fallback.
func (a *Agent) Decide(s State) Decision {
	if a.rng.Float64() < a.epsilon {
		return Decision{Action: randomAction(a.rng), Source: SourceExplore}
	}
	return greedyDecision(a.table, a.rng, s)
}

// Act returns only the action of Decide.
func (a *Agent) Act(s State) core.Action {
	return a.Decide(s).Action
}

// Learn applies one Q-learning update for the transition (s, action, reward, next).
func (a *Agent) Learn(s State, action core.Action, reward float64, next State) float64 {
	return a.table.Update(s, action, reward, next, a.alpha, a.gamma)
}

// EndEpisode decays epsilon and returns the new value.
func (a *Agent) EndEpisode() float64 {
	a.epsilon = a.schedule.Next(a.epsilon)
	return a.epsilon
}

// Epsilon returns the current exploration rate.
func (a *Agent) Epsilon() float64 {
	return a.epsilon
}

// Table returns the agent's Q-table.
func (a *Agent) Table() *QTable {
	return a.table
}
