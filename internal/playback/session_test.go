package playback

import (
	"strings"
	"testing"

	"github.com/vovakirdan/qdrive/internal/config"
	"github.com/vovakirdan/qdrive/internal/core"
	"github.com/vovakirdan/qdrive/internal/learn"
)

func TestHistoryEvictsOldest(t *testing.T) {
	h := NewHistory(3)
	for i := 1; i <= 5; i++ {
		h.Add(float64(i))
	}
	got := h.Times()
	want := []float64{3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("Times() = %v, expected %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Times()[%d] = %g, expected %g", i, got[i], want[i])
		}
	}

	got[0] = 99
	if h.Times()[0] != 3 {
		t.Error("Times() must return a copy")
	}
}

func TestHistoryZeroLimit(t *testing.T) {
	h := NewHistory(0)
	h.Add(1)
	if h.Len() != 0 {
		t.Errorf("zero-limit history stored %d entries", h.Len())
	}
	if NewHistory(-2).Len() != 0 {
		t.Error("negative limit should behave like zero")
	}
}

func TestSessionSeedHistoryIsCapped(t *testing.T) {
	cfg := config.Default()
	seed := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	s := NewSession(cfg, learn.NewQTable(), 1, seed)

	times := s.History().Times()
	if len(times) != cfg.Playback.History {
		t.Fatalf("history len = %d, expected %d", len(times), cfg.Playback.History)
	}
	if times[0] != 3 || times[len(times)-1] != 10 {
		t.Errorf("history should keep the newest entries, got %v", times)
	}
}

func TestSessionStepNeverGrowsTable(t *testing.T) {
	table := learn.NewQTable()
	s := NewSession(config.Default(), table, 4, nil)

	for i := 0; i < 2000; i++ {
		f := s.Step()
		if f.Decision.Source != learn.SourceUnknown {
			t.Fatalf("step %d: source %v on an empty table", i, f.Decision.Source)
		}
	}
	if table.Len() != 0 {
		t.Errorf("playback inserted %d rows", table.Len())
	}
}

func TestSessionCollisionRecordsAndResets(t *testing.T) {
	cfg := config.Default()
	s := NewSession(cfg, learn.NewQTable(), 9, nil)

	var last Frame
	for i := 0; i < 1_000_000 && s.Episode() == 1; i++ {
		last = s.Step()
	}
	if s.Episode() != 2 {
		t.Fatal("no collision within the step budget")
	}

	survived := s.Survived()
	if len(survived) != 1 || s.History().Len() != 1 {
		t.Fatalf("expected one recorded survival, got %v / %d", survived, s.History().Len())
	}
	if survived[0] <= 0 {
		t.Errorf("survival %g should be positive", survived[0])
	}
	if last.Elapsed != 0 || last.Episode != 2 {
		t.Errorf("frame after a collision should show a fresh episode, got elapsed %g episode %d", last.Elapsed, last.Episode)
	}
	if s.env.Car().X != cfg.World.Width/2 {
		t.Errorf("car not re-centred after reset: %+v", s.env.Car())
	}
}

func TestSessionElapsedUsesFrameRate(t *testing.T) {
	cfg := config.Default()
	cfg.World.ObstacleCount = 0
	s := NewSession(cfg, learn.NewQTable(), 1, nil)

	for i := 0; i < 45; i++ {
		s.Step()
	}
	if s.Elapsed() != 1.5 {
		t.Errorf("Elapsed() = %g after 45 ticks at 30 fps, expected 1.5", s.Elapsed())
	}
}

func TestFrameLabelsAndCar(t *testing.T) {
	cfg := config.Default()
	s := NewSession(cfg, learn.NewQTable(), 1, []float64{2.25, 4})
	f := s.Frame()

	if f.Width != 600 || f.Height != 400 {
		t.Errorf("frame size %dx%d", f.Width, f.Height)
	}
	if len(f.Labels) != 3 {
		t.Fatalf("expected time label plus 2 history labels, got %d", len(f.Labels))
	}

	timeLabel := f.Labels[0]
	if timeLabel.Text != "Time: 0.0s" || timeLabel.Pos != (core.Point{X: 450, Y: 10}) {
		t.Errorf("time label = %+v", timeLabel)
	}
	if f.Labels[1].Text != "1. 2.2s" && f.Labels[1].Text != "1. 2.3s" {
		t.Errorf("first history label = %q", f.Labels[1].Text)
	}
	if f.Labels[1].Pos != (core.Point{X: 10, Y: 350}) || f.Labels[2].Pos != (core.Point{X: 10, Y: 330}) {
		t.Errorf("history labels misplaced: %+v %+v", f.Labels[1].Pos, f.Labels[2].Pos)
	}
	if !strings.HasPrefix(f.Labels[2].Text, "2. 4.0s") {
		t.Errorf("second history label = %q", f.Labels[2].Text)
	}

	want := [3]core.Point{{X: 300, Y: 380}, {X: 310, Y: 360}, {X: 320, Y: 380}}
	if f.Car != want {
		t.Errorf("car triangle = %v, expected %v", f.Car, want)
	}
	if f.Background != core.ColorBlack || f.Foreground != core.ColorWhite || f.ObstacleColor != core.ColorRed {
		t.Error("unexpected frame colours")
	}
	if timeLabel.Color != core.ColorBrightWhite || f.Labels[1].Color != core.ColorGray {
		t.Errorf("label colours = %v, %v", timeLabel.Color, f.Labels[1].Color)
	}
	if len(f.Obstacles) != cfg.World.ObstacleCount {
		t.Errorf("frame has %d obstacles", len(f.Obstacles))
	}
}

func TestFrameCarColorFollowsDecision(t *testing.T) {
	s := NewSession(config.Default(), learn.NewQTable(), 1, nil)
	if c := s.Frame().CarColor; c != core.ColorWhite {
		t.Errorf("car colour before the first step = %v, expected white", c)
	}

	f := s.Step()
	if f.Decision.Source != learn.SourceUnknown {
		t.Fatalf("decision source = %v on an empty table", f.Decision.Source)
	}
	if f.CarColor != core.ColorCyan {
		t.Errorf("car colour for an unvisited state = %v, expected cyan", f.CarColor)
	}
}
