package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/qdrive/internal/report"
)

var flagPlot string

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train headless and print episode summaries",
	Long: `Train the agent without opening the playback window and print one line
per episode. The learned table is discarded when the command exits.

Examples:
  qdrive train
  qdrive train --episodes 500 --seed 7
  qdrive train --plot ./curve.png
  qdrive train --db ~/.qdrive/runs.db`,
	Args: cobra.NoArgs,
	Run:  runTrain,
}

func init() {
	trainCmd.Flags().StringVar(&flagPlot, "plot", "", "Write a learning-curve image to this path (png, svg, pdf)")
}

func runTrain(_ *cobra.Command, _ []string) {
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

	fmt.Printf("  %-7s  %-8s  %-7s  %-6s  %s\n", "Episode", "Reward", "Epsilon", "Steps", "Survival")
	fmt.Printf("  %-7s  %-8s  %-7s  %-6s  %s\n", "-------", "------", "-------", "-----", "--------")
	for _, s := range summaries {
		fmt.Printf("  %-7d  %-8.0f  %-7.2f  %-6d  %.1fs\n", s.Episode, s.TotalReward, s.Epsilon, s.Steps, s.Survival)
	}
	fmt.Println()
	fmt.Printf("States learned: %d\n", tr.Table().Len())
	fmt.Printf("Best reward: %.0f\n", bestReward(summaries))

	if flagPlot != "" {
		if err := report.SaveLearningCurve(flagPlot, summaries); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Learning curve written to %s\n", flagPlot)
	}
}
