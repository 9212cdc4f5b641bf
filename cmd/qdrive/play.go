package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/vovakirdan/qdrive/internal/platform/tui"
	"github.com/vovakirdan/qdrive/internal/playback"
	"github.com/vovakirdan/qdrive/internal/train"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Train, then watch the agent play",
	Long: `Train the agent for the configured number of episodes, then play the
learned policy back until the window is closed. The survival times of the
training episodes seed the on-screen history.

Controls:
  P/Space    - Pause
  ?          - Toggle status details
  Q/Esc      - Quit

Examples:
  qdrive play
  qdrive play --episodes 100 --fps 60
  qdrive play --config ./my-world.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, _ []string) {
	a, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	tr, summaries, err := a.train()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	session := playback.NewSession(a.cfg, tr.Table(), playbackSeed(a.runtime.Seed), train.Survivals(summaries))
	if err := tui.Run(session, a.runtime); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if survived := session.Survived(); len(survived) > 0 {
		a.logger.Info("playback finished", "episodes", len(survived), "best", fmt.Sprintf("%.1fs", floats.Max(survived)))
	}
}
