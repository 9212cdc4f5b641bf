package sim

import (
	"testing"

	"github.com/vovakirdan/qdrive/internal/config"
	"github.com/vovakirdan/qdrive/internal/core"
)

func testWorld() config.WorldConfig {
	return config.Default().World
}

func TestResetPlacesCarAndObstacles(t *testing.T) {
	cfg := testWorld()
	e := New(cfg, 42)

	car := e.Car()
	if car.X != 300 || car.Y != 360 {
		t.Errorf("car = (%d, %d), expected (300, 360)", car.X, car.Y)
	}

	obstacles := e.Obstacles()
	if len(obstacles) != 5 {
		t.Fatalf("expected 5 obstacles, got %d", len(obstacles))
	}
	for i, o := range obstacles {
		if o.X < 0 || o.X > cfg.Width-cfg.ObstacleSize {
			t.Errorf("obstacle %d x=%d out of [0, %d]", i, o.X, cfg.Width-cfg.ObstacleSize)
		}
		if o.Y < -cfg.Height || o.Y > 0 {
			t.Errorf("obstacle %d y=%d out of [%d, 0]", i, o.Y, -cfg.Height)
		}
	}
	if e.Ticks() != 0 {
		t.Errorf("Ticks() = %d after reset, expected 0", e.Ticks())
	}
}

func TestCarMovesRightUntilEdge(t *testing.T) {
	e := New(testWorld(), 1)
	// Keep obstacles far above the car for the whole walk
	for i := range e.obstacles {
		e.obstacles[i] = Obstacle{X: 0, Y: -4000}
	}
	e.car = Car{X: 290, Y: 360}

	prev := e.car.X
	for i := 0; i < 100; i++ {
		moving := e.car.X < 580
		res := e.Step(core.ActionRight)
		if res.Terminal {
			t.Fatalf("unexpected collision at step %d", i)
		}
		if moving && e.car.X != prev+5 {
			t.Fatalf("step %d: car.x = %d, expected %d", i, e.car.X, prev+5)
		}
		if !moving && e.car.X != prev {
			t.Fatalf("step %d: car should stay at %d, got %d", i, prev, e.car.X)
		}
		if e.car.X > 580 {
			t.Fatalf("car.x = %d exceeds width-carSize", e.car.X)
		}
		prev = e.car.X
	}
	if e.car.X != 580 {
		t.Errorf("car.x = %d, expected to settle at 580", e.car.X)
	}
	if e.car.Y != 360 {
		t.Errorf("car.y changed to %d", e.car.Y)
	}
}

func TestCarStopsAtLeftEdge(t *testing.T) {
	e := New(testWorld(), 1)
	for i := range e.obstacles {
		e.obstacles[i] = Obstacle{X: 0, Y: -4000}
	}
	e.car = Car{X: 10, Y: 360}

	e.Step(core.ActionLeft)
	e.Step(core.ActionLeft)
	e.Step(core.ActionLeft)
	if e.car.X != 0 {
		t.Errorf("car.x = %d, expected 0", e.car.X)
	}
}

func TestCarStaysInWorldForAnyStep(t *testing.T) {
	tests := []struct {
		name   string
		step   int
		action core.Action
		want   int
	}{
		{"right by 5", 5, core.ActionRight, 580},
		{"right by 6", 6, core.ActionRight, 580},
		{"right by 7", 7, core.ActionRight, 580},
		{"right by 45", 45, core.ActionRight, 580},
		{"left by 6", 6, core.ActionLeft, 0},
		{"left by 7", 7, core.ActionLeft, 0},
		{"left by 45", 45, core.ActionLeft, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			full := config.Default()
			full.World.CarStep = tt.step
			if err := full.Validate(); err != nil {
				t.Fatalf("car_step %d should be accepted: %v", tt.step, err)
			}
			cfg := full.World
			e := New(cfg, 1)
			for i := range e.obstacles {
				e.obstacles[i] = Obstacle{X: 0, Y: -4000}
			}

			for i := 0; i < 200; i++ {
				e.Step(tt.action)
				if e.car.X < 0 || e.car.X > cfg.Width-cfg.CarSize {
					t.Fatalf("step %d: car left the world at x=%d", i, e.car.X)
				}
			}
			if e.car.X != tt.want {
				t.Errorf("car.x = %d, expected to rest at %d", e.car.X, tt.want)
			}
		})
	}
}

func TestObstacleRecycle(t *testing.T) {
	cfg := testWorld()
	tests := []struct {
		name    string
		oldY    int
		recycle bool
	}{
		{"well above bottom", 395, false},
		{"lands exactly on height", 398, false},
		{"one past height", 399, true},
		{"already at height", 400, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := New(cfg, 7)
			e.car = Car{X: 500, Y: 360}
			e.obstacles = []Obstacle{{X: 100, Y: tc.oldY}}

			e.Step(core.ActionLeft)

			o := e.obstacles[0]
			if tc.oldY+cfg.FallSpeed > cfg.Height != tc.recycle {
				t.Fatalf("bad test case: recycle flag disagrees with y_old+fall > height")
			}
			if !tc.recycle {
				if o.Y != tc.oldY+cfg.FallSpeed || o.X != 100 {
					t.Errorf("obstacle = %+v, expected (100, %d)", o, tc.oldY+cfg.FallSpeed)
				}
				return
			}
			if o.Y < -cfg.Height || o.Y > 0 {
				t.Errorf("recycled y = %d, expected within [-%d, 0]", o.Y, cfg.Height)
			}
			if o.X < 0 || o.X > cfg.Width-cfg.ObstacleSize {
				t.Errorf("recycled x = %d out of range", o.X)
			}
		})
	}
}

func TestCollisionIsTerminalWithoutReset(t *testing.T) {
	e := New(testWorld(), 3)
	e.car = Car{X: 300, Y: 360}
	// Obstacle bottom edge reaches into the car row after one fall step
	e.obstacles = []Obstacle{{X: 290, Y: 330}, {X: 0, Y: -4000}}

	res := e.Step(core.ActionLeft)
	if !res.Terminal {
		t.Fatal("expected a collision")
	}
	if res.Reward != RewardCollision {
		t.Errorf("Reward = %g, expected %g", res.Reward, RewardCollision)
	}
	// Step must not reset: positions are the collision positions
	if e.car.X != 295 || e.obstacles[0].Y != 332 {
		t.Errorf("environment was reset by Step: car=%+v obstacle=%+v", e.car, e.obstacles[0])
	}
	if e.Ticks() != 1 {
		t.Errorf("Ticks() = %d, expected 1", e.Ticks())
	}

	e.Reset()
	if e.car.X != 300 || e.Ticks() != 0 {
		t.Errorf("Reset did not restore the episode start: car=%+v ticks=%d", e.car, e.Ticks())
	}
}

func TestTouchingEdgesDoNotCollide(t *testing.T) {
	e := New(testWorld(), 3)
	e.car = Car{X: 300, Y: 360}
	// After the fall step the obstacle bottom (328+2+30 = 360) touches the car top
	e.obstacles = []Obstacle{{X: 290, Y: 328}}

	res := e.Step(core.ActionRight)
	if res.Terminal {
		t.Error("touching edges should not collide")
	}
	if res.Reward != RewardStep {
		t.Errorf("Reward = %g, expected %g", res.Reward, RewardStep)
	}
}

func TestRewardsAreOnlyStepOrCollision(t *testing.T) {
	e := New(testWorld(), 99)
	collisions := 0
	for i := 0; i < 20000; i++ {
		action := core.Actions[i%core.ActionCount]
		res := e.Step(action)
		switch res.Reward {
		case RewardStep:
			if res.Terminal {
				t.Fatal("step reward must not be terminal")
			}
		case RewardCollision:
			if !res.Terminal {
				t.Fatal("collision reward must be terminal")
			}
			collisions++
			e.Reset()
		default:
			t.Fatalf("unexpected reward %g", res.Reward)
		}
	}
	if collisions == 0 {
		t.Error("expected at least one collision in 20000 steps")
	}
}

func TestEnvironmentDeterminism(t *testing.T) {
	run := func() []Obstacle {
		e := New(testWorld(), 12345)
		for i := 0; i < 500; i++ {
			if e.Step(core.Actions[(i/7)%2]).Terminal {
				e.Reset()
			}
		}
		return e.Obstacles()
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("obstacle %d differs between runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestObstaclesReturnsCopy(t *testing.T) {
	e := New(testWorld(), 5)
	obs := e.Obstacles()
	obs[0].X = -999
	if e.obstacles[0].X == -999 {
		t.Error("Obstacles() should return a copy")
	}
	if len(e.ObstacleRects()) != len(obs) {
		t.Error("ObstacleRects() should match the pool size")
	}
}
