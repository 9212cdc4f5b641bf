package learn

import (
	"gonum.org/v1/gonum/floats"

	"github.com/vovakirdan/qdrive/internal/core"
)

// QTable maps discrete states to one value per action.
// Rows are created on first access through Values or Update and are never
// removed; the table grows with the number of distinct states visited.
type QTable struct {
	rows map[State][]float64
}

// NewQTable creates an empty table.
func NewQTable() *QTable {
	return &QTable{rows: make(map[State][]float64)}
}

// Values returns the row for s, inserting a zero row first if s is new.
// The returned slice aliases the table.
func (q *QTable) Values(s State) []float64 {
	row, ok := q.rows[s]
	if !ok {
		row = make([]float64, core.ActionCount)
		q.rows[s] = row
	}
	return row
}

// Lookup returns the row for s without inserting it.
// It never writes, so concurrent readers may share a table that is no longer trained.
func (q *QTable) Lookup(s State) ([]float64, bool) {
	row, ok := q.rows[s]
	return row, ok
}

// Update applies the tabular Q-learning rule to Q[s][a] and returns the new value:
//
//	Q[s][a] = (1-alpha)*Q[s][a] + alpha*(reward + gamma*max(Q[next]))
//
// Both rows are initialised before they are read.
func (q *QTable) Update(s State, a core.Action, reward float64, next State, alpha, gamma float64) float64 {
	row := q.Values(s)
	maxFuture := floats.Max(q.Values(next))
	updated := (1-alpha)*row[a] + alpha*(reward+gamma*maxFuture)
	row[a] = updated
	return updated
}

// Len returns the number of states in the table.
func (q *QTable) Len() int {
	return len(q.rows)
}

// BestAction returns the index of the largest value in row.
// Ties resolve to the first (lowest) index.
func BestAction(row []float64) core.Action {
	return core.Action(floats.MaxIdx(row))
}
