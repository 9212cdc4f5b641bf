package learn

import (
	"testing"

	"github.com/vovakirdan/qdrive/internal/config"
	"github.com/vovakirdan/qdrive/internal/sim"
)

func defaultDiscretizer() Discretizer {
	cfg := config.Default()
	return NewDiscretizer(cfg.World, cfg.Discretizer)
}

func TestDiscretizeBuckets(t *testing.T) {
	d := defaultDiscretizer()
	car := sim.Car{X: 300, Y: 360}
	obstacles := []sim.Obstacle{
		{X: 300, Y: 360}, // same corner
		{X: 331, Y: 0},   // +31 / -360
		{X: 299, Y: -40}, // -1 / -400
		{X: 0, Y: 0},     // ignored: fourth in list
		{X: 10, Y: 10},
	}

	s := d.Discretize(car, obstacles)

	if s.CarX != 15 || s.CarY != 18 {
		t.Errorf("car buckets = (%d, %d), expected (15, 18)", s.CarX, s.CarY)
	}
	expected := [Slots]Offset{
		{DX: 0, DY: 0},
		{DX: 1, DY: -12},
		{DX: -1, DY: -14},
	}
	if s.Obstacles != expected {
		t.Errorf("offsets = %+v, expected %+v", s.Obstacles, expected)
	}
}

func TestDiscretizeIsPure(t *testing.T) {
	d := defaultDiscretizer()
	env := sim.New(config.Default().World, 11)
	for i := 0; i < 50; i++ {
		car, obstacles := env.Car(), env.Obstacles()
		before := append([]sim.Obstacle(nil), obstacles...)

		a := d.Discretize(car, obstacles)
		b := d.Discretize(car, obstacles)
		if a != b {
			t.Fatalf("Discretize is not deterministic: %+v vs %+v", a, b)
		}
		for j := range obstacles {
			if obstacles[j] != before[j] {
				t.Fatal("Discretize modified its input")
			}
		}
		if d.DiscretizeEnv(env) != a {
			t.Fatal("DiscretizeEnv should match Discretize")
		}
		env.Step(0)
	}
}

func TestDiscretizeUsesListOrder(t *testing.T) {
	d := defaultDiscretizer()
	car := sim.Car{X: 300, Y: 360}
	far := sim.Obstacle{X: 0, Y: -400}
	near := sim.Obstacle{X: 300, Y: 330}

	s := d.Discretize(car, []sim.Obstacle{far, far, far, near})
	for i, off := range s.Obstacles {
		if off != (Offset{DX: -10, DY: -26}) {
			t.Errorf("slot %d = %+v, expected the far obstacle", i, off)
		}
	}
}

func TestDiscretizeNearestOrder(t *testing.T) {
	cfg := config.Default()
	cfg.Discretizer.Order = config.OrderNearest
	d := NewDiscretizer(cfg.World, cfg.Discretizer)

	car := sim.Car{X: 300, Y: 360}
	far := sim.Obstacle{X: 0, Y: -400}
	near := sim.Obstacle{X: 300, Y: 330}
	mid := sim.Obstacle{X: 360, Y: 300}

	obstacles := []sim.Obstacle{far, far, mid, far, near}
	s := d.Discretize(car, obstacles)

	if s.Obstacles[0] != (Offset{DX: 0, DY: -1}) {
		t.Errorf("slot 0 = %+v, expected nearest obstacle", s.Obstacles[0])
	}
	if s.Obstacles[1] != (Offset{DX: 2, DY: -2}) {
		t.Errorf("slot 1 = %+v, expected second nearest obstacle", s.Obstacles[1])
	}
	if obstacles[0] != far || obstacles[4] != near {
		t.Error("nearest ordering must not reorder the caller's slice")
	}
}

func TestDiscretizePadsMissingSlots(t *testing.T) {
	d := defaultDiscretizer()
	car := sim.Car{X: 300, Y: 360}

	s := d.Discretize(car, []sim.Obstacle{{X: 300, Y: 330}})
	if s.Obstacles[0] != (Offset{DX: 0, DY: -1}) {
		t.Errorf("slot 0 = %+v", s.Obstacles[0])
	}
	if s.Obstacles[1] != Absent || s.Obstacles[2] != Absent {
		t.Errorf("missing slots should be Absent, got %+v", s.Obstacles)
	}

	empty := d.Discretize(car, nil)
	for i, off := range empty.Obstacles {
		if off != Absent {
			t.Errorf("slot %d = %+v, expected Absent", i, off)
		}
	}
}

func TestDiscretizeFewerSlots(t *testing.T) {
	cfg := config.Default()
	cfg.Discretizer.Slots = 1
	d := NewDiscretizer(cfg.World, cfg.Discretizer)

	s := d.Discretize(sim.Car{X: 300, Y: 360}, []sim.Obstacle{{X: 300, Y: 330}, {X: 0, Y: 0}})
	if s.Obstacles[0] == Absent {
		t.Error("slot 0 should be filled")
	}
	if s.Obstacles[1] != Absent || s.Obstacles[2] != Absent {
		t.Errorf("slots beyond the configured count should be Absent, got %+v", s.Obstacles)
	}
}

func TestStateIsStructuralMapKey(t *testing.T) {
	d := defaultDiscretizer()
	car := sim.Car{X: 120, Y: 360}
	obstacles := []sim.Obstacle{{X: 1, Y: 2}, {X: 3, Y: 4}, {X: 5, Y: 6}}

	m := map[State]int{}
	m[d.Discretize(car, obstacles)] = 1
	copied := append([]sim.Obstacle(nil), obstacles...)
	if m[d.Discretize(car, copied)] != 1 {
		t.Error("equal states built from different slices should hash equally")
	}
}
