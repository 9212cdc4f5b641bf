package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/qdrive/internal/platform/tui"
	"github.com/vovakirdan/qdrive/internal/storage"
)

var (
	flagRunsPlain bool
	flagRunsLimit int
)

var runsCmd = &cobra.Command{
	Use:   "runs [id]",
	Short: "Browse recorded training runs",
	Long: `List training runs recorded with --db, newest first. In the interactive
browser press Enter to see a run's episodes. With a run id, print that run
and its episodes.

Examples:
  qdrive runs --db ~/.qdrive/runs.db
  qdrive runs --db ~/.qdrive/runs.db --plain --limit 5
  qdrive runs --db ~/.qdrive/runs.db 5d0c7a1e-...`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRuns,
}

func init() {
	runsCmd.Flags().BoolVar(&flagRunsPlain, "plain", false, "Print a plain list instead of the interactive browser")
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 20, "Maximum number of runs to show")
}

// runDetail is the part of the run log needed to print one run.
type runDetail interface {
	RunByID(runID string) (*storage.Run, error)
	RunEpisodes(runID string) ([]storage.EpisodeRecord, error)
}

// printRun writes a run header followed by one line per episode.
func printRun(w io.Writer, src runDetail, runID string) error {
	run, err := src.RunByID(runID)
	if errors.Is(err, storage.ErrRunNotFound) {
		return fmt.Errorf("no run with id %q", runID)
	}
	if err != nil {
		return err
	}
	episodes, err := src.RunEpisodes(runID)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Run %s\n", run.ID)
	fmt.Fprintf(w, "  seed %d, %d episodes, %d states, best reward %.0f\n",
		run.Seed, run.Episodes, run.States, run.BestReward)
	if !run.CreatedAt.IsZero() {
		fmt.Fprintf(w, "  recorded %s\n", run.CreatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Fprintln(w)

	if len(episodes) == 0 {
		fmt.Fprintln(w, "  No episodes recorded.")
		return nil
	}
	fmt.Fprintf(w, "  %-8s  %-8s  %-6s  %-8s  %s\n", "Episode", "Reward", "Steps", "Epsilon", "Survival")
	for _, e := range episodes {
		fmt.Fprintf(w, "  %-8d  %-8.0f  %-6d  %-8.2f  %.1fs\n",
			e.Episode, e.TotalReward, e.Steps, e.Epsilon, e.Survival)
	}
	return nil
}

func runRuns(_ *cobra.Command, args []string) {
	if flagDBPath == "" {
		fmt.Fprintln(os.Stderr, "Error: no run log, pass --db <path>")
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run log: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if len(args) == 1 {
		if err := printRun(os.Stdout, store, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if !flagRunsPlain {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunRuns(store, flagRunsLimit, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	runs, err := store.RecentRuns(flagRunsLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Run 'qdrive train --db <path>' to start a run log.")
		return
	}

	fmt.Printf("  %-36s  %-20s  %-8s  %-6s  %-6s  %s\n", "Run", "Seed", "Episodes", "States", "Best", "Date")
	for _, r := range runs {
		fmt.Printf("  %-36s  %-20d  %-8d  %-6d  %-6.0f  %s\n",
			r.ID, r.Seed, r.Episodes, r.States, r.BestReward, r.CreatedAt.Format("2006-01-02 15:04"))
	}
}
