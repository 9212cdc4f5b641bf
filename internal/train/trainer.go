// Package train runs Q-learning episodes against the simulated world.
package train

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/qdrive/internal/config"
	"github.com/vovakirdan/qdrive/internal/learn"
	"github.com/vovakirdan/qdrive/internal/sim"
)

// DefaultEpisodes is used when Run is asked for zero or fewer episodes.
const DefaultEpisodes = 500

// Phase is the trainer's position in the episode state machine.
type Phase int

const (
	PhaseEpisodeStart Phase = iota
	PhaseRunning
	PhaseEpisodeEnd
	PhaseDone
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseEpisodeStart:
		return "episode-start"
	case PhaseRunning:
		return "running"
	case PhaseEpisodeEnd:
		return "episode-end"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// EpisodeSummary describes one finished training episode.
type EpisodeSummary struct {
	Episode     int     // 1-based
	TotalReward float64
	Epsilon     float64 // After the end-of-episode decay
	Steps       int
	Survival    float64 // Steps converted to seconds at the playback frame rate
	Truncated   bool    // Ended by the step cap rather than a collision
	States      int     // Q-table size when the episode ended
	Start       learn.State
}

// Options configures a Trainer.
type Options struct {
	MaxSteps  int // 0 = run until collision
	FPS       int // Frame rate used to express survival in seconds
	Logger    *log.Logger
	OnEpisode func(EpisodeSummary)
}

// Trainer owns the environment, agent and discretizer for a training run.
type Trainer struct {
	env   *sim.Environment
	agent *learn.Agent
	disc  learn.Discretizer
	opts  Options
	phase Phase
}

// New creates a trainer from its parts.
func New(env *sim.Environment, agent *learn.Agent, disc learn.Discretizer, opts Options) *Trainer {
	if opts.FPS <= 0 {
		opts.FPS = config.Default().Playback.FPS
	}
	if opts.MaxSteps < 0 {
		opts.MaxSteps = 0
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Trainer{
		env:   env,
		agent: agent,
		disc:  disc,
		opts:  opts,
		phase: PhaseEpisodeStart,
	}
}

// FromConfig builds the environment, agent and discretizer described by cfg.
// The environment and the agent get distinct RNG streams derived from seed.
func FromConfig(cfg config.Config, seed int64, opts Options) *Trainer {
	if opts.MaxSteps == 0 {
		opts.MaxSteps = cfg.Training.MaxSteps
	}
	if opts.FPS == 0 {
		opts.FPS = cfg.Playback.FPS
	}
	return New(
		sim.New(cfg.World, seed),
		learn.NewAgent(cfg.Learning, seed+1),
		learn.NewDiscretizer(cfg.World, cfg.Discretizer),
		opts,
	)
}

// Run trains for the given number of episodes and returns their summaries.
func (t *Trainer) Run(episodes int) []EpisodeSummary {
	if episodes <= 0 {
		episodes = DefaultEpisodes
	}
	t.opts.Logger.Info("training started", "episodes", episodes, "epsilon", t.agent.Epsilon())

	summaries := make([]EpisodeSummary, 0, episodes)
	for i := 1; i <= episodes; i++ {
		summaries = append(summaries, t.RunEpisode(i))
	}
	t.phase = PhaseDone

	t.opts.Logger.Info("training finished",
		"episodes", episodes,
		"states", t.agent.Table().Len(),
		"epsilon", fmt.Sprintf("%.2f", t.agent.Epsilon()),
	)
	return summaries
}

// RunEpisode drives one episode through EpisodeStart, Running and EpisodeEnd.
func (t *Trainer) RunEpisode(index int) EpisodeSummary {
	var (
		state     learn.State
		start     learn.State
		total     float64
		steps     int
		truncated bool
	)

	t.phase = PhaseEpisodeStart
	for {
		switch t.phase {
		case PhaseEpisodeStart:
			t.env.Reset()
			state = t.disc.DiscretizeEnv(t.env)
			start = state
			t.phase = PhaseRunning

		case PhaseRunning:
			action := t.agent.Act(state)
			res := t.env.Step(action)
			next := t.disc.DiscretizeEnv(t.env)
			t.agent.Learn(state, action, res.Reward, next)
			state = next
			total += res.Reward
			steps++

			switch {
			case res.Terminal:
				t.phase = PhaseEpisodeEnd
			case t.opts.MaxSteps > 0 && steps >= t.opts.MaxSteps:
				truncated = true
				t.phase = PhaseEpisodeEnd
			}

		case PhaseEpisodeEnd:
			epsilon := t.agent.EndEpisode()
			summary := EpisodeSummary{
				Episode:     index,
				TotalReward: total,
				Epsilon:     epsilon,
				Steps:       steps,
				Survival:    float64(steps) / float64(t.opts.FPS),
				Truncated:   truncated,
				States:      t.agent.Table().Len(),
				Start:       start,
			}
			t.emit(summary)
			return summary

		default:
			t.phase = PhaseEpisodeStart
		}
	}
}

func (t *Trainer) emit(s EpisodeSummary) {
	t.opts.Logger.Info("episode finished",
		"episode", s.Episode,
		"reward", s.TotalReward,
		"epsilon", fmt.Sprintf("%.2f", s.Epsilon),
		"steps", s.Steps,
		"states", s.States,
	)
	if s.Truncated {
		t.opts.Logger.Debug("episode hit the step cap", "episode", s.Episode, "max_steps", t.opts.MaxSteps)
	}
	if t.opts.OnEpisode != nil {
		t.opts.OnEpisode(s)
	}
}

// Phase returns the current state machine phase.
func (t *Trainer) Phase() Phase {
	return t.phase
}

// Agent returns the trained agent.
func (t *Trainer) Agent() *learn.Agent {
	return t.agent
}

// Table returns the learned Q-table.
func (t *Trainer) Table() *learn.QTable {
	return t.agent.Table()
}

// Survivals returns the survival times of summaries in order.
func Survivals(summaries []EpisodeSummary) []float64 {
	out := make([]float64, len(summaries))
	for i, s := range summaries {
		out[i] = s.Survival
	}
	return out
}
