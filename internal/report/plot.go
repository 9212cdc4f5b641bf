// Package report renders training summaries as charts.
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/vovakirdan/qdrive/internal/train"
)

// EpsilonScale stretches epsilon onto the reward axis.
const EpsilonScale = 100

// ErrNoEpisodes is returned when there is nothing to plot.
var ErrNoEpisodes = errors.New("report: no episodes to plot")

// LearningCurve builds the per-episode total reward and scaled epsilon lines.
func LearningCurve(summaries []train.EpisodeSummary) (reward, epsilon plotter.XYs) {
	reward = make(plotter.XYs, len(summaries))
	epsilon = make(plotter.XYs, len(summaries))
	for i, s := range summaries {
		reward[i] = plotter.XY{X: float64(s.Episode), Y: s.TotalReward}
		epsilon[i] = plotter.XY{X: float64(s.Episode), Y: s.Epsilon * EpsilonScale}
	}
	return reward, epsilon
}

// SaveLearningCurve writes an 8x5 inch chart of the training run to path.
// The image format follows the file extension (png, svg, pdf).
func SaveLearningCurve(path string, summaries []train.EpisodeSummary) error {
	if len(summaries) == 0 {
		return ErrNoEpisodes
	}

	p := plot.New()
	p.Title.Text = "Learning curve"
	p.X.Label.Text = "Episode"
	p.Y.Label.Text = "Total reward"
	p.Legend.Top = true

	reward, epsilon := LearningCurve(summaries)
	names := []string{"Total reward", fmt.Sprintf("Epsilon (x%d)", EpsilonScale)}
	for i, points := range []plotter.XYs{reward, epsilon} {
		line, err := plotter.NewLine(points)
		if err != nil {
			return fmt.Errorf("report: %s line: %w", names[i], err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(names[i], line)
	}
	p.Add(plotter.NewGrid())

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("report: cannot create directory %s: %w", dir, err)
		}
	}
	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("report: cannot save %s: %w", path, err)
	}
	return nil
}
