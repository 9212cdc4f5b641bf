// qdrive trains a tabular Q-learning agent to dodge falling obstacles and
// plays the learned policy back in the terminal.
//
// Usage:
//
//	qdrive                   - Train, then watch the agent play
//	qdrive train             - Train headless and print episode summaries
//	qdrive play              - Same as running qdrive without a command
//	qdrive serve             - Train once, then serve playback over SSH
//	qdrive runs              - Browse the training run log
//
// Global flags:
//
//	--config <path>   - Config YAML (default search: ~/.qdrive, ./configs, built-in)
//	--seed <value>    - RNG seed for reproducible training (0 = clock)
//	--fps <rate>      - Playback frame rate (0 = config value)
//	--episodes <n>    - Training episodes (0 = config value)
//	--db <path>       - Record runs in a SQLite log (empty = off)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig   string
	flagSeed     int64
	flagFPS      int
	flagEpisodes int
	flagDBPath   string
	flagVerbose  bool
	flagQuiet    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "qdrive",
	Short: "qdrive - a Q-learning agent that learns to dodge",
	Long: `qdrive trains a tabular Q-learning agent to steer a car left or right
away from falling obstacles, then plays the learned policy back in your
terminal. Every step costs -1 and a collision costs -100.

Available commands:
  train    - Train headless and print per-episode summaries
  play     - Train, then watch the agent (default)
  serve    - Train once, then serve playback over SSH
  runs     - Browse recorded training runs

Examples:
  qdrive
  qdrive --episodes 50 --seed 42
  qdrive train --episodes 200 --plot curve.png
  qdrive serve --ssh :2222
  qdrive runs --db ~/.qdrive/runs.db`,
	Run: runPlay,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Playback frame rate (0 = config value)")
	rootCmd.PersistentFlags().IntVar(&flagEpisodes, "episodes", 0, "Training episodes (0 = config value)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to the training run log (empty = no log)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagQuiet, "quiet", false, "Only log warnings and errors")

	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runsCmd)
}
