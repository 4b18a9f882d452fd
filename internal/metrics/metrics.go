// Package metrics provides readout-series metrics in the run report.
package metrics

import "math"

// Average accumulates the mean of one readout key over a run.
type Average struct {
	Key     string
	samples int
	sum     float64
}

func NewAverage(key string) *Average { return &Average{Key: key} }

func (a *Average) Name() string { return "avg_" + a.Key }

func (a *Average) Observe(readout map[string]float64, t float64) {
	v, ok := readout[a.Key]
	if !ok || math.IsNaN(v) {
		return
	}
	a.sum += v
	a.samples++
}

func (a *Average) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return a.sum / float64(a.samples)
}

func (a *Average) Reset() {
	a.sum = 0
	a.samples = 0
}

// Final records the last observed value of a key.
type Final struct {
	Key  string
	last float64
	seen bool
}

func NewFinal(key string) *Final { return &Final{Key: key} }

func (f *Final) Name() string { return "final_" + f.Key }

func (f *Final) Observe(readout map[string]float64, t float64) {
	if v, ok := readout[f.Key]; ok {
		f.last = v
		f.seen = true
	}
}

func (f *Final) Value() float64 { return f.last }

func (f *Final) Reset() {
	f.last = 0
	f.seen = false
}

// Peak records the maximum observed value of a key.
type Peak struct {
	Key  string
	max  float64
	seen bool
}

func NewPeak(key string) *Peak { return &Peak{Key: key} }

func (p *Peak) Name() string { return "peak_" + p.Key }

func (p *Peak) Observe(readout map[string]float64, t float64) {
	v, ok := readout[p.Key]
	if !ok || math.IsNaN(v) {
		return
	}
	if !p.seen || v > p.max {
		p.max = v
		p.seen = true
	}
}

func (p *Peak) Value() float64 { return p.max }

func (p *Peak) Reset() {
	p.max = 0
	p.seen = false
}
