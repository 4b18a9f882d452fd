// Package circulate models money velocity: a fixed money stock moves between
// wallets each tick, and the price level relaxes toward the exchange-equation
// value M·V/Q. A policy rate rule can lean against the resulting inflation.
package circulate

import (
	"fmt"
	"math"

	"github.com/hariganeshs/money-explained/internal/integrate"
	"github.com/hariganeshs/money-explained/internal/policy"
	"github.com/hariganeshs/money-explained/internal/rng"
)

const (
	MinWallets = 2
	MaxWallets = 1000
)

type Params struct {
	Wallets         int
	MoneyStock      float64 // M, conserved across transfers
	Propensity      float64 // base fraction of a balance spent per tick
	Kappa           float64 // price adjustment speed
	RealOutput      float64 // Q, held fixed
	RateSensitivity float64 // spending damping per unit of policy rate
	UseRule         bool
	Paused          bool
}

func DefaultParams() Params {
	return Params{
		Wallets:         50,
		MoneyStock:      1000,
		Propensity:      0.30,
		Kappa:           0.05,
		RealOutput:      300,
		RateSensitivity: 8.0,
		UseRule:         true,
	}
}

type Economy struct {
	params  Params
	wallets []float64
	price   float64
	rate    float64

	velocity  float64
	inflation float64

	rule    *policy.RateRule
	stepper integrate.Stepper
	src     *rng.Source
	seed    int64
	t       float64
}

func NewEconomy(p Params, seed int64) *Economy {
	e := &Economy{
		params:  clampParams(p),
		rule:    policy.NewRateRule(2.0, 0.1, 0.0, 0.02, 0.02),
		stepper: integrate.NewRK4(),
	}
	e.Reset(seed)
	return e
}

func clampParams(p Params) Params {
	if p.Wallets < MinWallets {
		p.Wallets = MinWallets
	}
	if p.Wallets > MaxWallets {
		p.Wallets = MaxWallets
	}
	if !(p.MoneyStock > 0) {
		p.MoneyStock = 1000
	}
	if !(p.Propensity >= 0) {
		p.Propensity = 0
	}
	if p.Propensity > 1 {
		p.Propensity = 1
	}
	if !(p.Kappa > 0) {
		p.Kappa = 0.05
	}
	if !(p.RealOutput > 0) {
		p.RealOutput = 300
	}
	if !(p.RateSensitivity >= 0) {
		p.RateSensitivity = 0
	}
	return p
}

func (e *Economy) Name() string { return "circulate" }

func (e *Economy) Reset(seed int64) {
	e.seed = seed
	e.src = rng.New(seed)
	e.t = 0
	e.rule.Reset()
	e.rate = 0
	e.inflation = 0

	// Uneven but conserved initial balances.
	n := e.params.Wallets
	e.wallets = make([]float64, n)
	total := 0.0
	for i := range e.wallets {
		e.wallets[i] = 1 + e.src.Float64()
		total += e.wallets[i]
	}
	scale := e.params.MoneyStock / total
	for i := range e.wallets {
		e.wallets[i] *= scale
	}

	e.velocity = e.params.Propensity
	e.price = e.params.MoneyStock * e.velocity / e.params.RealOutput
	if e.price <= 0 || math.IsNaN(e.price) {
		e.price = 1
	}
}

// Step advances one tick: every wallet spends a propensity-driven fraction
// at a random counterparty, velocity is the tick's spending over the stock,
// and the price level follows dP/dt = kappa*(M*V/Q - P).
func (e *Economy) Step(dt float64) {
	if e.params.Paused || dt <= 0 {
		return
	}

	frac := e.params.Propensity / (1 + e.params.RateSensitivity*e.rate)
	spent := 0.0
	n := len(e.wallets)
	for i := 0; i < n; i++ {
		amount := e.wallets[i] * frac
		if amount <= 0 {
			continue
		}
		j := e.src.Intn(n - 1)
		if j >= i {
			j++
		}
		e.wallets[i] -= amount
		e.wallets[j] += amount
		spent += amount
	}

	e.velocity = spent / (e.params.MoneyStock * dt)

	prevPrice := e.price
	deriv := func(_ float64, y []float64) []float64 {
		return []float64{e.params.Kappa * (e.params.MoneyStock*e.velocity/e.params.RealOutput - y[0])}
	}
	e.price = e.stepper.Step(deriv, e.t, []float64{e.price}, dt)[0]
	if e.price < 1e-9 || math.IsNaN(e.price) || math.IsInf(e.price, 0) {
		e.price = 1e-9
	}

	e.t += dt
	if prevPrice > 1e-9 {
		e.inflation = (e.price - prevPrice) / (prevPrice * dt)
	}
	if e.params.UseRule {
		e.rate = e.rule.Rate(e.inflation, e.t)
	} else {
		e.rate = 0
	}
}

func (e *Economy) Readout() map[string]float64 {
	return map[string]float64{
		"velocity":  e.velocity,
		"price":     e.price,
		"ngdp":      e.params.MoneyStock * e.velocity,
		"rate":      e.rate,
		"inflation": e.inflation,
	}
}

func (e *Economy) Wallets() []float64 { return e.wallets }
func (e *Economy) Price() float64     { return e.price }
func (e *Economy) Velocity() float64  { return e.velocity }
func (e *Economy) Rate() float64      { return e.rate }

func (e *Economy) MoneyTotal() float64 {
	total := 0.0
	for _, w := range e.wallets {
		total += w
	}
	return total
}

func (e *Economy) SetPaused(on bool) { e.params.Paused = on }
func (e *Economy) Paused() bool      { return e.params.Paused }

func (e *Economy) Params() map[string]float64 {
	return map[string]float64{
		"wallets":     float64(e.params.Wallets),
		"money_stock": e.params.MoneyStock,
		"propensity":  e.params.Propensity,
		"kappa":       e.params.Kappa,
	}
}

func (e *Economy) SetParam(name string, value float64) error {
	switch name {
	case "wallets":
		e.setWallets(int(math.Round(value)))
	case "money_stock":
		e.setMoneyStock(value)
	case "propensity":
		p := e.params
		p.Propensity = value
		e.params = clampParams(p)
	case "kappa":
		p := e.params
		p.Kappa = value
		e.params = clampParams(p)
	default:
		return fmt.Errorf("unknown parameter: %s", name)
	}
	return nil
}

func (e *Economy) setWallets(n int) {
	p := e.params
	p.Wallets = n
	e.params = clampParams(p)
	n = e.params.Wallets

	for len(e.wallets) < n {
		e.wallets = append(e.wallets, 0)
	}
	if len(e.wallets) > n {
		// Dropped balances flow back into the survivors, conserving M.
		orphaned := 0.0
		for _, w := range e.wallets[n:] {
			orphaned += w
		}
		e.wallets = e.wallets[:n]
		e.wallets[0] += orphaned
	}
}

// setMoneyStock rescales every balance so the distribution shape survives
// the stock change.
func (e *Economy) setMoneyStock(m float64) {
	if !(m > 0) {
		return
	}
	old := e.params.MoneyStock
	e.params.MoneyStock = m
	if old > 0 {
		scale := m / old
		for i := range e.wallets {
			e.wallets[i] *= scale
		}
	}
}
