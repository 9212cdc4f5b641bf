package report

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/qdrive/internal/train"
)

func sampleSummaries() []train.EpisodeSummary {
	return []train.EpisodeSummary{
		{Episode: 1, TotalReward: -130, Epsilon: 0.56},
		{Episode: 2, TotalReward: -112, Epsilon: 0.392},
		{Episode: 3, TotalReward: -150, Epsilon: 0.2744},
	}
}

func TestLearningCurvePoints(t *testing.T) {
	reward, epsilon := LearningCurve(sampleSummaries())
	if len(reward) != 3 || len(epsilon) != 3 {
		t.Fatalf("expected 3 points per line, got %d and %d", len(reward), len(epsilon))
	}
	if reward[1].X != 2 || reward[1].Y != -112 {
		t.Errorf("reward point = %+v", reward[1])
	}
	eps := 0.56
	if epsilon[0].Y != eps*EpsilonScale {
		t.Errorf("epsilon point = %+v, expected scaled value", epsilon[0])
	}
}

func TestSaveLearningCurveWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plots", "curve.png")
	if err := SaveLearningCurve(path, sampleSummaries()); err != nil {
		t.Fatalf("SaveLearningCurve() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("plot not written: %v", err)
	}
	if len(data) < 8 || string(data[1:4]) != "PNG" {
		t.Error("output is not a PNG image")
	}
}

func TestSaveLearningCurveNeedsEpisodes(t *testing.T) {
	err := SaveLearningCurve(filepath.Join(t.TempDir(), "empty.png"), nil)
	if !errors.Is(err, ErrNoEpisodes) {
		t.Errorf("SaveLearningCurve(nil) = %v, expected ErrNoEpisodes", err)
	}
}
