package metrics

import (
	"math"
	"testing"
)

func feed(m interface {
	Observe(map[string]float64, float64)
}, key string, values ...float64) {
	for i, v := range values {
		m.Observe(map[string]float64{key: v}, float64(i))
	}
}

func TestAverage(t *testing.T) {
	a := NewAverage("price")
	feed(a, "price", 1, 2, 3, 4)

	if a.Name() != "avg_price" {
		t.Errorf("name %q", a.Name())
	}
	if a.Value() != 2.5 {
		t.Errorf("average %f, want 2.5", a.Value())
	}
}

func TestAverageSkipsNaNAndMissing(t *testing.T) {
	a := NewAverage("price")
	a.Observe(map[string]float64{"price": 2}, 0)
	a.Observe(map[string]float64{"price": math.NaN()}, 1)
	a.Observe(map[string]float64{"other": 100}, 2)
	a.Observe(map[string]float64{"price": 4}, 3)

	if a.Value() != 3 {
		t.Errorf("average %f, want 3", a.Value())
	}
}

func TestAverageEmpty(t *testing.T) {
	if v := NewAverage("x").Value(); v != 0 {
		t.Errorf("empty average %f, want 0", v)
	}
}

func TestFinal(t *testing.T) {
	f := NewFinal("radius")
	feed(f, "radius", 1, 5, 2)

	if f.Name() != "final_radius" {
		t.Errorf("name %q", f.Name())
	}
	if f.Value() != 2 {
		t.Errorf("final %f, want 2", f.Value())
	}
}

func TestPeak(t *testing.T) {
	p := NewPeak("inflation")
	feed(p, "inflation", -3, -1, -7)

	if p.Name() != "peak_inflation" {
		t.Errorf("name %q", p.Name())
	}
	if p.Value() != -1 {
		t.Errorf("peak %f, want -1", p.Value())
	}
}

func TestReset(t *testing.T) {
	a := NewAverage("x")
	p := NewPeak("x")
	feed(a, "x", 10, 20)
	feed(p, "x", 10, 20)

	a.Reset()
	p.Reset()
	feed(a, "x", 2)
	feed(p, "x", 2)

	if a.Value() != 2 {
		t.Errorf("average after reset %f, want 2", a.Value())
	}
	if p.Value() != 2 {
		t.Errorf("peak after reset %f, want 2", p.Value())
	}
}
