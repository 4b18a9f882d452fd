// Package registry maps simulation names to constructors and default
// metrics, so the CLI and TUI build runs from a single place.
package registry

import (
	"fmt"
	"sort"

	"github.com/hariganeshs/money-explained/internal/balloon"
	"github.com/hariganeshs/money-explained/internal/barter"
	"github.com/hariganeshs/money-explained/internal/circulate"
	"github.com/hariganeshs/money-explained/internal/config"
	"github.com/hariganeshs/money-explained/internal/metrics"
	"github.com/hariganeshs/money-explained/internal/sim"
)

// Info is the one-line description shown in menus.
var Info = map[string]string{
	"balloon":   "money supply as an inflating gas balloon",
	"barter":    "emergence of a medium of exchange",
	"circulate": "money velocity and the price level",
}

type factory func(cfg *config.Config, seed int64) sim.Simulation

type Registry struct {
	factories map[string]factory
}

func New() *Registry {
	r := &Registry{factories: make(map[string]factory)}

	r.factories["balloon"] = func(cfg *config.Config, seed int64) sim.Simulation {
		return balloon.NewEnsemble(balloon.Params{
			Count:       cfg.Balloon.Count,
			Temperature: cfg.Balloon.Temperature,
			Gravity:     cfg.Balloon.Gravity,
		}, seed)
	}
	r.factories["barter"] = func(cfg *config.Config, seed int64) sim.Simulation {
		p := barter.DefaultParams()
		p.Agents = cfg.Barter.Agents
		p.TradeRadius = cfg.Barter.TradeRadius
		p.AcceptProb = cfg.Barter.AcceptProb
		p.ScarceBias = cfg.Barter.ScarceBias
		return barter.NewMarket(p, seed)
	}
	r.factories["circulate"] = func(cfg *config.Config, seed int64) sim.Simulation {
		p := circulate.DefaultParams()
		p.Wallets = cfg.Circulate.Wallets
		p.MoneyStock = cfg.Circulate.MoneyStock
		p.Propensity = cfg.Circulate.Propensity
		p.Kappa = cfg.Circulate.Kappa
		p.UseRule = cfg.Circulate.UseRule
		return circulate.NewEconomy(p, seed)
	}

	return r
}

func (r *Registry) Get(name string, cfg *config.Config, seed int64) (sim.Simulation, error) {
	fn, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown simulation: %s", name)
	}
	return fn(cfg, seed), nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns the metrics reported for each sim's headless runs.
func (r *Registry) DefaultMetrics(name string) []sim.Metric {
	switch name {
	case "balloon":
		return []sim.Metric{
			metrics.NewAverage("msq"),
			metrics.NewFinal("radius"),
			metrics.NewPeak("radius"),
		}
	case "barter":
		return []sim.Metric{
			metrics.NewFinal("trades_total"),
			metrics.NewFinal("money_trades"),
			metrics.NewFinal("monetization"),
		}
	case "circulate":
		return []sim.Metric{
			metrics.NewAverage("velocity"),
			metrics.NewFinal("price"),
			metrics.NewPeak("inflation"),
		}
	default:
		return nil
	}
}
