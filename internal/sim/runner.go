package sim

import "context"

// Runner drives a Simulation for a fixed number of ticks, recording readout
// series and feeding metrics and observers.
type Runner struct {
	metrics   []Metric
	observers []Observer
}

func NewRunner() *Runner {
	return &Runner{
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) Run(ctx context.Context, s Simulation, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s.Reset(cfg.Seed)

	for _, m := range r.metrics {
		m.Reset()
	}

	result := &Result{
		Series:  make(map[string][]float64),
		Times:   make([]float64, 0, cfg.Ticks),
		Metrics: make(map[string]float64),
	}

	t := 0.0
	for i := 0; i < cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		s.Step(cfg.Dt)
		t += cfg.Dt
		result.Ticks++

		readout := s.Readout()
		for _, m := range r.metrics {
			m.Observe(readout, t)
		}
		for _, o := range r.observers {
			o.OnTick(readout, t)
		}

		result.Times = append(result.Times, t)
		for k, v := range readout {
			result.Series[k] = append(result.Series[k], v)
		}
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback steps the simulation until the callback returns false or
// the tick budget is exhausted. Live front ends use this to interleave
// stepping with rendering.
func (r *Runner) RunWithCallback(ctx context.Context, s Simulation, cfg Config, callback func(readout map[string]float64, t float64) bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.Reset(cfg.Seed)

	t := 0.0
	for i := 0; i < cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s.Step(cfg.Dt)
		t += cfg.Dt

		if !callback(s.Readout(), t) {
			return nil
		}
	}

	return nil
}
