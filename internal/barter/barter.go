// Package barter implements the barter-to-money emergence model: agents on a
// plane swap goods on proximity, and a designated scarce good gradually takes
// over as the medium of exchange.
package barter

import (
	"fmt"
	"math"

	"github.com/hariganeshs/money-explained/internal/rng"
)

// GoodNames label the good kinds; the last one is the scarce good that
// becomes money.
var GoodNames = []string{"grain", "cloth", "tools", "salt"}

const (
	MinAgents = 2
	MaxAgents = 500
)

type Params struct {
	Agents      int
	TradeRadius float64 // proximity threshold for an encounter
	AcceptProb  float64 // chance of taking the scarce good as an intermediate
	ScarceBias  float64 // elevated chance of re-wanting the scarce good
	Extent      float64 // half-width of the plane
	WalkStep    float64 // random-walk step scale per frame
	Paused      bool
}

func DefaultParams() Params {
	return Params{
		Agents:      40,
		TradeRadius: 0.6,
		AcceptProb:  0.35,
		ScarceBias:  0.4,
		Extent:      5.0,
		WalkStep:    0.08,
	}
}

type Agent struct {
	X, Z   float64 // plane coordinates, rendered at constant height
	Good   int
	Want   int
	Trades int
}

// Market owns the agent set. Like every simulation here it is stepped by a
// single goroutine.
type Market struct {
	params Params
	agents []Agent
	src    *rng.Source
	seed   int64

	tradesTick     int
	tradesTotal    int
	indirectTrades int
	wantsMet       int
}

func NewMarket(p Params, seed int64) *Market {
	m := &Market{params: clampParams(p), seed: seed}
	m.Reset(seed)
	return m
}

func clampParams(p Params) Params {
	if p.Agents < MinAgents {
		p.Agents = MinAgents
	}
	if p.Agents > MaxAgents {
		p.Agents = MaxAgents
	}
	if !(p.TradeRadius > 0) {
		p.TradeRadius = 0.6
	}
	p.AcceptProb = clamp01(p.AcceptProb)
	p.ScarceBias = clamp01(p.ScarceBias)
	if !(p.Extent > 0) {
		p.Extent = 5.0
	}
	if !(p.WalkStep > 0) {
		p.WalkStep = 0.08
	}
	return p
}

func clamp01(v float64) float64 {
	if !(v >= 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (m *Market) Name() string { return "barter" }

func scarceGood() int { return len(GoodNames) - 1 }

func (m *Market) Reset(seed int64) {
	m.seed = seed
	m.src = rng.New(seed)
	m.tradesTick = 0
	m.tradesTotal = 0
	m.indirectTrades = 0
	m.wantsMet = 0

	m.agents = make([]Agent, m.params.Agents)
	for i := range m.agents {
		a := &m.agents[i]
		a.X = m.src.Range(-m.params.Extent, m.params.Extent)
		a.Z = m.src.Range(-m.params.Extent, m.params.Extent)
		a.Good = i % len(GoodNames)
		a.Want = m.pickWant(a.Good)
		a.Trades = 0
	}
}

// pickWant chooses a new want distinct from the held good, preferring the
// scarce good with the configured bias.
func (m *Market) pickWant(holding int) int {
	if holding != scarceGood() && m.src.Float64() < m.params.ScarceBias {
		return scarceGood()
	}
	want := m.src.Intn(len(GoodNames) - 1)
	if want >= holding {
		want++
	}
	return want
}

// Step advances one tick: random walk, then an O(n²) pairwise proximity scan
// with direct swaps and probabilistic scarce-good intermediation.
func (m *Market) Step(dt float64) {
	if m.params.Paused || dt <= 0 {
		return
	}

	ext := m.params.Extent
	for i := range m.agents {
		a := &m.agents[i]
		a.X = clampF(a.X+m.src.Gauss(0, m.params.WalkStep)*dt, -ext, ext)
		a.Z = clampF(a.Z+m.src.Gauss(0, m.params.WalkStep)*dt, -ext, ext)
	}

	m.tradesTick = 0
	r2 := m.params.TradeRadius * m.params.TradeRadius
	for i := range m.agents {
		for j := i + 1; j < len(m.agents); j++ {
			a, b := &m.agents[i], &m.agents[j]
			dx, dz := a.X-b.X, a.Z-b.Z
			if dx*dx+dz*dz > r2 {
				continue
			}
			m.encounter(a, b)
		}
	}
}

// encounter resolves one meeting. A double coincidence of wants swaps
// directly; otherwise a party may accept the scarce good as a stepping
// stone toward what it actually wants.
func (m *Market) encounter(a, b *Agent) {
	if a.Good == b.Want && b.Good == a.Want {
		m.swap(a, b)
		m.wantsMet += 2
		a.Want = m.pickWant(a.Good)
		b.Want = m.pickWant(b.Good)
		return
	}

	if b.Good == scarceGood() && a.Good == b.Want && a.Good != scarceGood() {
		if m.src.Float64() < m.params.AcceptProb {
			m.swap(a, b)
			m.indirectTrades++
			m.wantsMet++
		}
		return
	}
	if a.Good == scarceGood() && b.Good == a.Want && b.Good != scarceGood() {
		if m.src.Float64() < m.params.AcceptProb {
			m.swap(b, a)
			m.indirectTrades++
			m.wantsMet++
		}
	}
}

// swap exchanges holdings; goods are conserved, never created.
func (m *Market) swap(a, b *Agent) {
	a.Good, b.Good = b.Good, a.Good
	a.Trades++
	b.Trades++
	m.tradesTick++
	m.tradesTotal++
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Monetization is the fraction of agents holding or wanting the scarce good.
func (m *Market) Monetization() float64 {
	if len(m.agents) == 0 {
		return 0
	}
	n := 0
	for i := range m.agents {
		if m.agents[i].Good == scarceGood() || m.agents[i].Want == scarceGood() {
			n++
		}
	}
	return float64(n) / float64(len(m.agents))
}

// WantRate is the fraction of traded goods that landed with a party wanting
// them. Each trade moves two goods; a money trade satisfies only one side.
func (m *Market) WantRate() float64 {
	if m.tradesTotal == 0 {
		return 0
	}
	return float64(m.wantsMet) / float64(2*m.tradesTotal)
}

func (m *Market) Readout() map[string]float64 {
	return map[string]float64{
		"trades_tick":  float64(m.tradesTick),
		"trades_total": float64(m.tradesTotal),
		"money_trades": float64(m.indirectTrades),
		"monetization": m.Monetization(),
		"want_rate":    m.WantRate(),
		"agents":       float64(len(m.agents)),
	}
}

// Agents exposes the live set for rendering. Callers must not mutate it.
func (m *Market) Agents() []Agent { return m.agents }

func (m *Market) TotalTrades() int    { return m.tradesTotal }
func (m *Market) IndirectTrades() int { return m.indirectTrades }
func (m *Market) Extent() float64     { return m.params.Extent }

func (m *Market) SetAgents(n int) {
	p := m.params
	p.Agents = n
	m.params = clampParams(p)
	n = m.params.Agents

	for len(m.agents) < n {
		a := Agent{
			X:    m.src.Range(-m.params.Extent, m.params.Extent),
			Z:    m.src.Range(-m.params.Extent, m.params.Extent),
			Good: m.src.Intn(len(GoodNames)),
		}
		a.Want = m.pickWant(a.Good)
		m.agents = append(m.agents, a)
	}
	if len(m.agents) > n {
		m.agents = m.agents[:n]
	}
}

func (m *Market) SetPaused(on bool) { m.params.Paused = on }
func (m *Market) Paused() bool      { return m.params.Paused }

func (m *Market) Params() map[string]float64 {
	return map[string]float64{
		"agents":       float64(m.params.Agents),
		"trade_radius": m.params.TradeRadius,
		"accept_prob":  m.params.AcceptProb,
		"scarce_bias":  m.params.ScarceBias,
	}
}

func (m *Market) SetParam(name string, value float64) error {
	switch name {
	case "agents":
		m.SetAgents(int(math.Round(value)))
	case "trade_radius":
		if value > 0 {
			m.params.TradeRadius = value
		}
	case "accept_prob":
		m.params.AcceptProb = clamp01(value)
	case "scarce_bias":
		m.params.ScarceBias = clamp01(value)
	default:
		return fmt.Errorf("unknown parameter: %s", name)
	}
	return nil
}
