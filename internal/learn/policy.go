package learn

import (
	"math/rand"

	"github.com/vovakirdan/qdrive/internal/core"
)

// Source says how a policy arrived at its action.
type Source int

const (
	SourceKnown   Source = iota // argmax over a visited state's row
	SourceUnknown               // state never visited, uniform random fallback
	SourceExplore               // epsilon-greedy exploration draw
)

// String returns a human-readable name for the source.
func (s Source) String() string {
	switch s {
	case SourceKnown:
		return "known"
	case SourceUnknown:
		return "unknown"
	case SourceExplore:
		return "explore"
	default:
		return "invalid"
	}
}

// Decision is an action together with how it was chosen.
type Decision struct {
	Action core.Action
	Source Source
}

// Greedy is the exploration-free policy. It reads the table with Lookup
// only, so it never grows the table.
type Greedy struct {
	table *QTable
	rng   *rand.Rand
}

// NewGreedy creates a greedy policy over table with its own RNG.
func NewGreedy(table *QTable, seed int64) *Greedy {
	return &Greedy{table: table, rng: rand.New(rand.NewSource(seed))}
}

// Decide picks argmax for a known state and a uniform random action otherwise.
func (g *Greedy) Decide(s State) Decision {
	return greedyDecision(g.table, g.rng, s)
}

// Act returns only the action of Decide.
func (g *Greedy) Act(s State) core.Action {
	return g.Decide(s).Action
}

func greedyDecision(table *QTable, rng *rand.Rand, s State) Decision {
	row, ok := table.Lookup(s)
	if !ok {
		return Decision{Action: randomAction(rng), Source: SourceUnknown}
	}
	return Decision{Action: BestAction(row), Source: SourceKnown}
}

func randomAction(rng *rand.Rand) core.Action {
	return core.Actions[rng.Intn(core.ActionCount)]
}
