// Package balloon implements the money-balloon visualization model: an
// ideal-gas particle ensemble confined to a sphere whose radius tracks
// particle count (money supply) and kinetic energy (velocity of money).
package balloon

import (
	"fmt"
	"math"

	"github.com/hariganeshs/money-explained/internal/rng"
	"github.com/hariganeshs/money-explained/internal/sim"
)

const (
	mass = 1.0

	// Per sub-step thermostat blend toward the temperature-implied rms speed.
	thermostatBlend = 0.06
	// Isotropic per-axis noise, as a fraction of the per-axis target std.
	noiseFraction = 0.02
	// Tangential jitter applied on wall contact, as a fraction of rms speed.
	wallJitterFraction = 0.05
	// Inward nudge after reflection, keeps a particle off the wall next tick.
	wallEpsilon = 1e-3

	gravityAccel = 25.0

	MinRadius = 0.8
	MaxRadius = 3.2

	MinCount = 1
	MaxCount = 5000

	MinTemperature = 1.0
	MaxTemperature = 5000.0

	// Radius mapping. These are calibration constants tuned for the visual,
	// not physical quantities: volume grows additively with supply and with
	// mean-square speed, then eases with a faster-grow-than-shrink bias.
	baseVolume    = 2.0
	volumePerUnit = 0.004
	volumePerMSQ  = 0.0015
	growEase      = 0.10
	shrinkEase    = 0.03
)

type Particle struct {
	Pos sim.Vec3
	Vel sim.Vec3
}

type Params struct {
	Count       int
	Temperature float64
	Gravity     bool
	Paused      bool
}

func DefaultParams() Params {
	return Params{Count: 200, Temperature: 300, Gravity: false}
}

// Ensemble owns the particle set and the live bounding radius. It is not
// safe for concurrent use; one goroutine steps and reads it.
type Ensemble struct {
	params    Params
	particles []Particle
	radius    float64
	speeds    []float64
	msq       float64
	seed      int64
	src       *rng.Source
}

func NewEnsemble(p Params, seed int64) *Ensemble {
	e := &Ensemble{seed: seed}
	e.params = clampParams(p)
	e.Reset(seed)
	return e
}

func clampParams(p Params) Params {
	if p.Count < MinCount {
		p.Count = MinCount
	}
	if p.Count > MaxCount {
		p.Count = MaxCount
	}
	if !(p.Temperature >= MinTemperature) { // also catches NaN
		p.Temperature = MinTemperature
	}
	if p.Temperature > MaxTemperature {
		p.Temperature = MaxTemperature
	}
	return p
}

func (e *Ensemble) Name() string { return "balloon" }

// Reset respawns the ensemble from the given seed with current parameters.
func (e *Ensemble) Reset(seed int64) {
	e.seed = seed
	e.src = rng.New(seed)
	e.radius = e.targetRadius(3 * e.params.Temperature / mass)
	e.particles = make([]Particle, 0, e.params.Count)
	for i := 0; i < e.params.Count; i++ {
		e.particles = append(e.particles, e.spawn())
	}
	e.speeds = make([]float64, e.params.Count)
	e.msq = 3 * e.params.Temperature / mass
}

// spawn places a particle uniformly inside the current radius with a
// Maxwell-distributed velocity.
func (e *Ensemble) spawn() Particle {
	dir := sim.Vec3{X: e.src.Norm(), Y: e.src.Norm(), Z: e.src.Norm()}.Normalize()
	if dir.Length() == 0 {
		dir = sim.Vec3{X: 1}
	}
	r := e.radius * 0.9 * math.Cbrt(e.src.Float64())
	std := perAxisStd(e.params.Temperature)
	return Particle{
		Pos: dir.Scale(r),
		Vel: sim.Vec3{X: e.src.Gauss(0, std), Y: e.src.Gauss(0, std), Z: e.src.Gauss(0, std)},
	}
}

func perAxisStd(temperature float64) float64 {
	return math.Sqrt(temperature / mass)
}

func targetRMS(temperature float64) float64 {
	return math.Sqrt(3 * temperature / mass)
}

// Step advances the ensemble by one sub-step of dt frames: thermostat,
// noise injection, integration, wall reflection, sanitize, then radius
// easing. Degenerate numbers are clamped, never surfaced.
func (e *Ensemble) Step(dt float64) {
	if e.params.Paused || dt <= 0 {
		return
	}

	temp := e.params.Temperature
	rms := targetRMS(temp)
	std := perAxisStd(temp)
	noiseStd := noiseFraction * std

	sumSq := 0.0
	for i := range e.particles {
		p := &e.particles[i]

		// Thermostat: pull current speed toward the rms target.
		speed := p.Vel.Length()
		if speed < 1e-9 {
			p.Vel = sim.Vec3{X: e.src.Gauss(0, std), Y: e.src.Gauss(0, std), Z: e.src.Gauss(0, std)}
		} else {
			factor := 1 + thermostatBlend*(rms/speed-1)
			p.Vel = p.Vel.Scale(factor)
		}

		// Noise keeps the ensemble from collapsing to a single shell.
		p.Vel.X += e.src.Gauss(0, noiseStd)
		p.Vel.Y += e.src.Gauss(0, noiseStd)
		p.Vel.Z += e.src.Gauss(0, noiseStd)

		if e.params.Gravity {
			p.Vel.Y -= gravityAccel * dt
		}

		p.Pos = p.Pos.Add(p.Vel.Scale(dt))

		e.reflectOffWall(p, rms)

		if !p.Pos.IsFinite() {
			p.Pos = sim.Vec3{}
		}
		if !p.Vel.IsFinite() {
			p.Vel = sim.Vec3{}
		}

		s2 := p.Vel.Dot(p.Vel)
		e.speeds[i] = math.Sqrt(s2)
		sumSq += s2
	}

	msq := 3 * temp / mass
	if n := len(e.particles); n > 0 {
		if m := sumSq / float64(n); m > 1e-9 {
			msq = m
		}
	}
	e.msq = msq

	e.easeRadius(msq)
}

// reflectOffWall clamps a particle that reached the bounding sphere just
// inside it and reflects its velocity elastically, with a tangential kick so
// the wall does not slowly cool the gas.
func (e *Ensemble) reflectOffWall(p *Particle, rms float64) {
	d := p.Pos.Length()
	if d < e.radius {
		return
	}
	n := p.Pos.Scale(1 / d)
	p.Pos = n.Scale(e.radius * (1 - wallEpsilon))
	p.Vel = p.Vel.Sub(n.Scale(2 * p.Vel.Dot(n)))
	tangent := perpendicular(n)
	p.Vel = p.Vel.Add(tangent.Scale(wallJitterFraction * rms * e.src.Norm()))
}

// perpendicular returns a unit vector orthogonal to n.
func perpendicular(n sim.Vec3) sim.Vec3 {
	ref := sim.Vec3{X: 1}
	if math.Abs(n.X) > 0.9 {
		ref = sim.Vec3{Y: 1}
	}
	return n.Cross(ref).Normalize()
}

func (e *Ensemble) targetRadius(msq float64) float64 {
	volume := baseVolume + volumePerUnit*float64(e.params.Count) + volumePerMSQ*msq
	r := math.Cbrt(3 * volume / (4 * math.Pi))
	return clamp(r, MinRadius, MaxRadius)
}

func (e *Ensemble) easeRadius(msq float64) {
	target := e.targetRadius(msq)
	ease := shrinkEase
	if target > e.radius {
		ease = growEase
	}
	e.radius = clamp(e.radius+(target-e.radius)*ease, MinRadius, MaxRadius)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SetCount resizes the live set: new particles are appended inside the
// current radius, a shrink drops the tail.
func (e *Ensemble) SetCount(n int) {
	p := e.params
	p.Count = n
	e.params = clampParams(p)
	n = e.params.Count

	for len(e.particles) < n {
		e.particles = append(e.particles, e.spawn())
	}
	if len(e.particles) > n {
		e.particles = e.particles[:n]
	}
	e.speeds = make([]float64, n)
	for i := range e.particles {
		e.speeds[i] = e.particles[i].Vel.Length()
	}
}

func (e *Ensemble) SetTemperature(t float64) {
	p := e.params
	p.Temperature = t
	e.params = clampParams(p)
}

func (e *Ensemble) SetGravity(on bool) { e.params.Gravity = on }
func (e *Ensemble) SetPaused(on bool)  { e.params.Paused = on }

func (e *Ensemble) Count() int           { return len(e.particles) }
func (e *Ensemble) Temperature() float64 { return e.params.Temperature }
func (e *Ensemble) Gravity() bool        { return e.params.Gravity }
func (e *Ensemble) Paused() bool         { return e.params.Paused }
func (e *Ensemble) Radius() float64      { return e.radius }

// Particles exposes the live set for rendering. Callers must not mutate it.
func (e *Ensemble) Particles() []Particle { return e.particles }

// Speeds returns per-particle speeds from the latest step.
func (e *Ensemble) Speeds() []float64 { return e.speeds }

// MeanSquareSpeed is the latest ensemble mean-square speed, falling back to
// the theoretical 3T/m when the ensemble average is degenerate.
func (e *Ensemble) MeanSquareSpeed() float64 { return e.msq }

func (e *Ensemble) MeanSpeed() float64 {
	if len(e.speeds) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range e.speeds {
		sum += s
	}
	return sum / float64(len(e.speeds))
}

func (e *Ensemble) Readout() map[string]float64 {
	gravity := 0.0
	if e.params.Gravity {
		gravity = 1
	}
	return map[string]float64{
		"msq":         e.msq,
		"mean_speed":  e.MeanSpeed(),
		"radius":      e.radius,
		"count":       float64(len(e.particles)),
		"temperature": e.params.Temperature,
		"gravity":     gravity,
	}
}

// Params and SetParam satisfy sim.Tunable for the TUI parameter panel.
func (e *Ensemble) Params() map[string]float64 {
	return map[string]float64{
		"count":       float64(e.params.Count),
		"temperature": e.params.Temperature,
	}
}

func (e *Ensemble) SetParam(name string, value float64) error {
	switch name {
	case "count":
		e.SetCount(int(math.Round(value)))
	case "temperature":
		e.SetTemperature(value)
	default:
		return fmt.Errorf("unknown parameter: %s", name)
	}
	return nil
}
