// Package integrate provides small fixed-step ODE steppers used by the
// circulation price dynamics.
package integrate

// Deriv evaluates dy/dt at (t, y).
type Deriv func(t float64, y []float64) []float64

type Stepper interface {
	Step(f Deriv, t float64, y []float64, dt float64) []float64
}

type Euler struct{}

func NewEuler() *Euler { return &Euler{} }

func (e *Euler) Step(f Deriv, t float64, y []float64, dt float64) []float64 {
	dy := f(t, y)
	out := make([]float64, len(y))
	for i := range y {
		out[i] = y[i] + dt*dy[i]
	}
	return out
}

type RK4 struct{}

func NewRK4() *RK4 { return &RK4{} }

func (r *RK4) Step(f Deriv, t float64, y []float64, dt float64) []float64 {
	n := len(y)
	k1 := f(t, y)

	tmp := make([]float64, n)
	for i := range y {
		tmp[i] = y[i] + dt*0.5*k1[i]
	}
	k2 := f(t+dt*0.5, tmp)

	for i := range y {
		tmp[i] = y[i] + dt*0.5*k2[i]
	}
	k3 := f(t+dt*0.5, tmp)

	for i := range y {
		tmp[i] = y[i] + dt*k3[i]
	}
	k4 := f(t+dt, tmp)

	out := make([]float64, n)
	dt6 := dt / 6.0
	for i := range y {
		out[i] = y[i] + dt6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return out
}
