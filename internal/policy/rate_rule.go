package policy

// RateRule is a PID-style policy-rate rule: the rate rises when observed
// inflation runs above target and falls when it runs below.
type RateRule struct {
	Kp       float64
	Ki       float64
	Kd       float64
	Target   float64 // inflation target, fraction per period
	Neutral  float64 // rate when inflation sits on target
	integral float64
	prevErr  float64
	prevT    float64
	first    bool
}

func NewRateRule(kp, ki, kd, target, neutral float64) *RateRule {
	return &RateRule{
		Kp:      kp,
		Ki:      ki,
		Kd:      kd,
		Target:  target,
		Neutral: neutral,
		first:   true,
	}
}

// Rate returns the policy rate for the observed inflation at time t.
// The rate never goes below zero.
func (r *RateRule) Rate(inflation, t float64) float64 {
	err := inflation - r.Target

	if r.first {
		r.prevErr = err
		r.prevT = t
		r.first = false
		return clampRate(r.Neutral + r.Kp*err)
	}

	dt := t - r.prevT
	if dt > 0 {
		r.integral += err * dt
		derivative := (err - r.prevErr) / dt
		r.prevErr = err
		r.prevT = t
		return clampRate(r.Neutral + r.Kp*err + r.Ki*r.integral + r.Kd*derivative)
	}
	return clampRate(r.Neutral + r.Kp*err)
}

func (r *RateRule) Reset() {
	r.integral = 0
	r.prevErr = 0
	r.prevT = 0
	r.first = true
}

func clampRate(rate float64) float64 {
	if rate < 0 {
		return 0
	}
	return rate
}
