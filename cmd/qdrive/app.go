package main

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/qdrive/internal/config"
	"github.com/vovakirdan/qdrive/internal/core"
	"github.com/vovakirdan/qdrive/internal/storage"
	"github.com/vovakirdan/qdrive/internal/train"
)

// app is what every command works from: the validated configuration, the
// terminal and seed it runs with, and a logger.
type app struct {
	cfg     config.Config
	runtime core.RuntimeConfig
	logger  *log.Logger
}

func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "qdrive",
	})
	switch {
	case flagVerbose:
		logger.SetLevel(log.DebugLevel)
	case flagQuiet:
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}

// setup loads the configuration, applies command-line overrides and resolves
// the seed and terminal size.
func setup() (*app, error) {
	cfg, err := loadConfig(flagConfig, flagFPS, flagEpisodes)
	if err != nil {
		return nil, err
	}

	rc := core.DefaultConfig()
	rc.TickRate = cfg.Playback.FPS
	rc.Seed = flagSeed
	if rc.Seed == 0 {
		rc.Seed = time.Now().UnixNano()
	}
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		rc.ScreenW = w
		rc.ScreenH = h
	}

	return &app{cfg: cfg, runtime: rc, logger: newLogger()}, nil
}

// loadConfig reads the configuration, applies flag overrides and validates
// the result once.
func loadConfig(path string, fps, episodes int) (config.Config, error) {
	cfg, err := config.Read(path)
	if err != nil {
		return cfg, err
	}
	cfg = applyOverrides(cfg, fps, episodes)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// applyOverrides copies positive flag values over the loaded configuration.
func applyOverrides(cfg config.Config, fps, episodes int) config.Config {
	if fps > 0 {
		cfg.Playback.FPS = fps
	}
	if episodes > 0 {
		cfg.Training.Episodes = episodes
	}
	return cfg
}

// episodeCount is the number of episodes a training run will actually play.
func episodeCount(cfg config.Config) int {
	if cfg.Training.Episodes <= 0 {
		return train.DefaultEpisodes
	}
	return cfg.Training.Episodes
}

// train runs a full training session and, when --db is set, records it in the
// run log. Run log failures are logged and never stop training.
func (a *app) train() (*train.Trainer, []train.EpisodeSummary, error) {
	var (
		store *storage.Store
		runID string
	)
	if flagDBPath != "" {
		var err error
		store, err = storage.Open(flagDBPath)
		if err != nil {
			return nil, nil, err
		}
		defer store.Close()

		runID, err = store.SaveRun(storage.Run{Seed: a.runtime.Seed, Episodes: episodeCount(a.cfg)})
		if err != nil {
			return nil, nil, err
		}
		a.logger.Debug("recording run", "id", runID, "db", flagDBPath)
	}

	opts := train.Options{
		Logger: a.logger,
		OnEpisode: func(s train.EpisodeSummary) {
			if store == nil {
				return
			}
			if err := store.SaveEpisode(episodeRecord(runID, s)); err != nil {
				a.logger.Warn("could not record episode", "episode", s.Episode, "error", err)
			}
		},
	}

	a.logger.Info("seeded", "seed", a.runtime.Seed)
	tr := train.FromConfig(a.cfg, a.runtime.Seed, opts)
	summaries := tr.Run(a.cfg.Training.Episodes)

	if store != nil {
		if err := store.FinishRun(runID, tr.Table().Len(), bestReward(summaries)); err != nil {
			a.logger.Warn("could not finish run", "id", runID, "error", err)
		}
	}
	return tr, summaries, nil
}

func episodeRecord(runID string, s train.EpisodeSummary) storage.EpisodeRecord {
	return storage.EpisodeRecord{
		RunID:       runID,
		Episode:     s.Episode,
		TotalReward: s.TotalReward,
		Steps:       s.Steps,
		Epsilon:     s.Epsilon,
		Survival:    s.Survival,
	}
}

// bestReward returns the highest episode reward, or 0 for no episodes.
func bestReward(summaries []train.EpisodeSummary) float64 {
	if len(summaries) == 0 {
		return 0
	}
	best := math.Inf(-1)
	for _, s := range summaries {
		best = math.Max(best, s.TotalReward)
	}
	return best
}

// playbackSeed keeps the playback world independent of the training streams,
// which use seed and seed+1.
func playbackSeed(seed int64) int64 {
	return seed + 2
}
