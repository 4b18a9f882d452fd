package config

var Presets = map[string]map[string]*Config{
	"balloon": {
		"calm": {
			Sim: "balloon", Dt: 1.0, Ticks: 600,
			Balloon: BalloonConfig{Count: 100, Temperature: 120},
		},
		"hot": {
			Sim: "balloon", Dt: 1.0, Ticks: 600,
			Balloon: BalloonConfig{Count: 200, Temperature: 1500},
		},
		"crowded": {
			Sim: "balloon", Dt: 1.0, Ticks: 900,
			Balloon: BalloonConfig{Count: 2000, Temperature: 300},
		},
		"heavy": {
			Sim: "balloon", Dt: 1.0, Ticks: 600,
			Balloon: BalloonConfig{Count: 300, Temperature: 200, Gravity: true},
		},
	},
	"barter": {
		"village": {
			Sim: "barter", Dt: 1.0, Ticks: 1200,
			Barter: BarterConfig{Agents: 30, TradeRadius: 0.6, AcceptProb: 0.35, ScarceBias: 0.4},
		},
		"bazaar": {
			Sim: "barter", Dt: 1.0, Ticks: 1200,
			Barter: BarterConfig{Agents: 120, TradeRadius: 0.5, AcceptProb: 0.5, ScarceBias: 0.5},
		},
		"no_money": {
			Sim: "barter", Dt: 1.0, Ticks: 1200,
			Barter: BarterConfig{Agents: 40, TradeRadius: 0.6, AcceptProb: 0.0, ScarceBias: 0.0},
		},
	},
	"circulate": {
		"steady": {
			Sim: "circulate", Dt: 1.0, Ticks: 800,
			Circulate: CirculateConfig{Wallets: 50, MoneyStock: 1000, Propensity: 0.3, Kappa: 0.05, UseRule: true},
		},
		"hot_potato": {
			Sim: "circulate", Dt: 1.0, Ticks: 800,
			Circulate: CirculateConfig{Wallets: 50, MoneyStock: 1000, Propensity: 0.8, Kappa: 0.08, UseRule: false},
		},
		"tight_money": {
			Sim: "circulate", Dt: 1.0, Ticks: 800,
			Circulate: CirculateConfig{Wallets: 50, MoneyStock: 400, Propensity: 0.3, Kappa: 0.05, UseRule: true},
		},
	},
}

func GetPreset(simName, preset string) *Config {
	simPresets, ok := Presets[simName]
	if !ok {
		return nil
	}
	cfg, ok := simPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(simName string) []string {
	simPresets, ok := Presets[simName]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(simPresets))
	for name := range simPresets {
		names = append(names, name)
	}
	return names
}
