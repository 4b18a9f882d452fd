package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt    = 1.0
	DefaultTicks = 600
	DefaultSeed  = 1

	DefaultCount       = 200
	DefaultTemperature = 300.0
	DefaultAgents      = 40
	DefaultWallets     = 50
	DefaultMoneyStock  = 1000.0
)

// Config is the fully-enumerated simulation configuration. Every tunable has
// a named field; there are no free-form parameter bags.
type Config struct {
	Sim   string  `yaml:"sim"`
	Dt    float64 `yaml:"dt"`
	Ticks int     `yaml:"ticks"`
	Seed  int64   `yaml:"seed"`

	Balloon   BalloonConfig   `yaml:"balloon"`
	Barter    BarterConfig    `yaml:"barter"`
	Circulate CirculateConfig `yaml:"circulate"`
}

type BalloonConfig struct {
	Count       int     `yaml:"count"`       // particles, [1, 5000]
	Temperature float64 `yaml:"temperature"` // kinetic proxy, [1, 5000]
	Gravity     bool    `yaml:"gravity"`
}

type BarterConfig struct {
	Agents      int     `yaml:"agents"`       // [2, 500]
	TradeRadius float64 `yaml:"trade_radius"` // proximity threshold
	AcceptProb  float64 `yaml:"accept_prob"`  // [0, 1]
	ScarceBias  float64 `yaml:"scarce_bias"`  // [0, 1]
}

type CirculateConfig struct {
	Wallets    int     `yaml:"wallets"`     // [2, 1000]
	MoneyStock float64 `yaml:"money_stock"` // M > 0
	Propensity float64 `yaml:"propensity"`  // [0, 1]
	Kappa      float64 `yaml:"kappa"`       // price adjustment speed
	UseRule    bool    `yaml:"use_rule"`    // apply the policy rate rule
}

func DefaultConfig() *Config {
	return &Config{
		Sim:   "balloon",
		Dt:    DefaultDt,
		Ticks: DefaultTicks,
		Seed:  DefaultSeed,
		Balloon: BalloonConfig{
			Count:       DefaultCount,
			Temperature: DefaultTemperature,
		},
		Barter: BarterConfig{
			Agents:      DefaultAgents,
			TradeRadius: 0.6,
			AcceptProb:  0.35,
			ScarceBias:  0.4,
		},
		Circulate: CirculateConfig{
			Wallets:    DefaultWallets,
			MoneyStock: DefaultMoneyStock,
			Propensity: 0.30,
			Kappa:      0.05,
			UseRule:    true,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
