package sim

import (
	"fmt"
	"math"
)

// Vec3 is a position or velocity in model space.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Length() float64      { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{v.Y*o.Z - v.Z*o.Y, v.Z*o.X - v.X*o.Z, v.X*o.Y - v.Y*o.X}
}

func (v Vec3) Normalize() Vec3 {
	if l := v.Length(); l != 0 {
		return v.Scale(1 / l)
	}
	return Vec3{}
}

func (v Vec3) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}

// Simulation is one tick-driven model. Step advances by dt measured in
// frames; the caller owns scheduling. Readout exposes named scalar outputs
// consumed by charts and metrics.
type Simulation interface {
	Name() string
	Step(dt float64)
	Reset(seed int64)
	Readout() map[string]float64
}

// Tunable is implemented by simulations whose parameters can be adjusted
// while running. The TUI parameter panel drives this.
type Tunable interface {
	Params() map[string]float64
	SetParam(name string, value float64) error
}

// Metric accumulates a scalar over a run's readouts.
type Metric interface {
	Name() string
	Observe(readout map[string]float64, t float64)
	Value() float64
	Reset()
}

// Observer sees every tick of a run.
type Observer interface {
	OnTick(readout map[string]float64, t float64)
}

type Config struct {
	Dt    float64
	Ticks int
	Seed  int64
}

func DefaultConfig() Config {
	return Config{Dt: 1.0, Ticks: 600, Seed: 1}
}

func (c Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.Ticks <= 0 {
		return fmt.Errorf("ticks must be positive, got %d", c.Ticks)
	}
	return nil
}

// Result holds the per-tick readout series of a completed run.
type Result struct {
	Series  map[string][]float64
	Times   []float64
	Metrics map[string]float64
	Ticks   int
}

func (r *Result) Get(key string) []float64 { return r.Series[key] }

func (r *Result) Keys() []string {
	keys := make([]string, 0, len(r.Series))
	for k := range r.Series {
		keys = append(keys, k)
	}
	return keys
}
