package balloon

import (
	"math"
	"testing"

	"github.com/hariganeshs/money-explained/internal/sim"
)

func TestEnsembleDeterminism(t *testing.T) {
	a := NewEnsemble(DefaultParams(), 42)
	b := NewEnsemble(DefaultParams(), 42)

	for i := 0; i < 200; i++ {
		a.Step(0.008)
		b.Step(0.008)
	}

	if a.Radius() != b.Radius() {
		t.Errorf("radius diverged: %v vs %v", a.Radius(), b.Radius())
	}
	pa, pb := a.Particles(), b.Particles()
	if len(pa) != len(pb) {
		t.Fatalf("particle counts diverged: %d vs %d", len(pa), len(pb))
	}
	for i := range pa {
		if pa[i].Pos != pb[i].Pos || pa[i].Vel != pb[i].Vel {
			t.Fatalf("particle %d diverged after 200 steps", i)
		}
	}
}

func TestEnsembleContainment(t *testing.T) {
	p := DefaultParams()
	p.Count = 300
	p.Gravity = true
	e := NewEnsemble(p, 7)

	for i := 0; i < 500; i++ {
		e.Step(0.008)
	}

	for i, pt := range e.Particles() {
		if d := pt.Pos.Length(); d > e.Radius() {
			t.Errorf("particle %d outside balloon: dist %f radius %f", i, d, e.Radius())
		}
	}
}

func TestThermostatConvergence(t *testing.T) {
	p := DefaultParams()
	p.Count = 400
	p.Temperature = 300
	e := NewEnsemble(p, 1)

	for i := 0; i < 1000; i++ {
		e.Step(0.008)
	}

	want := 3 * p.Temperature / mass
	got := e.MeanSquareSpeed()
	if math.Abs(got-want)/want > 0.15 {
		t.Errorf("mean-square speed %f not within 15%% of %f", got, want)
	}
}

func TestRadiusBounds(t *testing.T) {
	tests := []struct {
		name  string
		count int
		temp  float64
	}{
		{"minimal", 1, 1},
		{"default", 200, 300},
		{"crowded", 5000, 300},
		{"scorching", 200, 5000},
		{"maxed", 5000, 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEnsemble(Params{Count: tt.count, Temperature: tt.temp}, 3)
			for i := 0; i < 300; i++ {
				e.Step(0.008)
			}
			r := e.Radius()
			if r < MinRadius || r > MaxRadius {
				t.Errorf("radius %f outside [%f, %f]", r, MinRadius, MaxRadius)
			}
		})
	}
}

func TestRadiusGrowsWithCount(t *testing.T) {
	small := NewEnsemble(Params{Count: 50, Temperature: 300}, 9)
	large := NewEnsemble(Params{Count: 3000, Temperature: 300}, 9)

	for i := 0; i < 400; i++ {
		small.Step(0.008)
		large.Step(0.008)
	}

	if large.Radius() <= small.Radius() {
		t.Errorf("expected larger supply to inflate the balloon: %f vs %f",
			large.Radius(), small.Radius())
	}
}

func TestRadiusGrowsWithTemperature(t *testing.T) {
	cold := NewEnsemble(Params{Count: 200, Temperature: 50}, 9)
	hot := NewEnsemble(Params{Count: 200, Temperature: 4000}, 9)

	for i := 0; i < 400; i++ {
		cold.Step(0.008)
		hot.Step(0.008)
	}

	if hot.Radius() <= cold.Radius() {
		t.Errorf("expected hotter gas to inflate the balloon: %f vs %f",
			hot.Radius(), cold.Radius())
	}
}

func TestWallReflection(t *testing.T) {
	e := NewEnsemble(Params{Count: 1, Temperature: 300}, 5)

	p := &Particle{
		Pos: sim.Vec3{X: e.Radius() * 1.1},
		Vel: sim.Vec3{X: 10, Y: 2},
	}
	e.reflectOffWall(p, targetRMS(300))

	if d := p.Pos.Length(); d >= e.Radius() {
		t.Errorf("particle not clamped inside: dist %f radius %f", d, e.Radius())
	}
	// Outward normal is +X; the radial component must point inward now.
	if p.Vel.X >= 0 {
		t.Errorf("expected inward radial velocity after reflection, got %f", p.Vel.X)
	}
}

func TestReflectionPreservesSpeed(t *testing.T) {
	e := NewEnsemble(Params{Count: 1, Temperature: 300}, 5)

	p := &Particle{
		Pos: sim.Vec3{X: 2, Y: 1, Z: 0.5}.Normalize().Scale(e.Radius() * 1.2),
		Vel: sim.Vec3{X: 4, Y: -3, Z: 2},
	}
	before := p.Vel.Length()

	// Zero rms kills the tangential jitter, leaving pure elastic reflection.
	e.reflectOffWall(p, 0)

	if after := p.Vel.Length(); math.Abs(after-before) > 1e-9 {
		t.Errorf("reflection changed speed: %f -> %f", before, after)
	}
}

func TestReflectionLeavesInteriorAlone(t *testing.T) {
	e := NewEnsemble(Params{Count: 1, Temperature: 300}, 5)

	p := Particle{Pos: sim.Vec3{X: 0.1}, Vel: sim.Vec3{X: 1, Y: 2, Z: 3}}
	before := p
	e.reflectOffWall(&p, targetRMS(300))

	if p != before {
		t.Error("interior particle was modified by wall check")
	}
}

func TestAsymmetricEasing(t *testing.T) {
	e := NewEnsemble(Params{Count: 200, Temperature: 300}, 1)

	// Force the radius off target, ease once, measure the move each way.
	target := e.targetRadius(3 * 300 / mass)
	e.radius = target - 0.15
	e.easeRadius(3 * 300 / mass)
	growMove := e.radius - (target - 0.15)

	e.radius = target + 0.15
	e.easeRadius(3 * 300 / mass)
	shrinkMove := (target + 0.15) - e.radius

	if growMove <= shrinkMove {
		t.Errorf("expected growth to outpace shrinking: grow %f shrink %f",
			growMove, shrinkMove)
	}
}

func TestSetCountPreservesPrefix(t *testing.T) {
	e := NewEnsemble(Params{Count: 100, Temperature: 300}, 11)
	before := make([]Particle, 50)
	copy(before, e.Particles()[:50])

	e.SetCount(200)
	if e.Count() != 200 {
		t.Fatalf("expected 200 particles, got %d", e.Count())
	}
	for i := range before {
		if e.Particles()[i] != before[i] {
			t.Fatalf("particle %d changed during grow", i)
		}
	}

	e.SetCount(50)
	if e.Count() != 50 {
		t.Fatalf("expected 50 particles, got %d", e.Count())
	}
	for i := range e.Particles() {
		if e.Particles()[i] != before[i] {
			t.Fatalf("particle %d changed during shrink", i)
		}
	}
}

func TestParamClamping(t *testing.T) {
	e := NewEnsemble(Params{Count: -5, Temperature: math.NaN()}, 1)

	if e.Count() != MinCount {
		t.Errorf("expected count clamped to %d, got %d", MinCount, e.Count())
	}
	if e.Temperature() != MinTemperature {
		t.Errorf("expected temperature clamped to %f, got %f", MinTemperature, e.Temperature())
	}

	e.SetCount(1e6)
	if e.Count() != MaxCount {
		t.Errorf("expected count clamped to %d, got %d", MaxCount, e.Count())
	}
	e.SetTemperature(1e9)
	if e.Temperature() != MaxTemperature {
		t.Errorf("expected temperature clamped to %f, got %f", MaxTemperature, e.Temperature())
	}
}

func TestPausedStep(t *testing.T) {
	e := NewEnsemble(DefaultParams(), 1)
	e.SetPaused(true)

	before := make([]Particle, e.Count())
	copy(before, e.Particles())
	e.Step(0.008)

	for i := range before {
		if e.Particles()[i] != before[i] {
			t.Fatal("paused ensemble moved")
		}
	}
}

func TestStepSanitizesNonFinite(t *testing.T) {
	e := NewEnsemble(Params{Count: 3, Temperature: 300}, 1)
	e.particles[0].Pos = sim.Vec3{X: math.NaN()}
	e.particles[1].Vel = sim.Vec3{Y: math.Inf(1)}

	e.Step(0.008)

	for i, p := range e.Particles() {
		if !p.Pos.IsFinite() || !p.Vel.IsFinite() {
			t.Errorf("particle %d still non-finite after step", i)
		}
	}
	if math.IsNaN(e.MeanSquareSpeed()) {
		t.Error("mean-square speed is NaN")
	}
}

func TestReadoutKeys(t *testing.T) {
	e := NewEnsemble(DefaultParams(), 1)
	e.Step(0.008)

	r := e.Readout()
	for _, key := range []string{"msq", "mean_speed", "radius", "count", "temperature", "gravity"} {
		if _, ok := r[key]; !ok {
			t.Errorf("readout missing key %q", key)
		}
	}
	if r["count"] != float64(e.Count()) {
		t.Errorf("readout count %f != %d", r["count"], e.Count())
	}
}

func TestSetParamUnknown(t *testing.T) {
	e := NewEnsemble(DefaultParams(), 1)
	if err := e.SetParam("viscosity", 1.0); err == nil {
		t.Error("expected error for unknown parameter")
	}
}
