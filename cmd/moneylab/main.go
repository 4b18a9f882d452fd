package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/hariganeshs/money-explained/internal/analysis"
	"github.com/hariganeshs/money-explained/internal/config"
	"github.com/hariganeshs/money-explained/internal/export"
	"github.com/hariganeshs/money-explained/internal/ledger"
	"github.com/hariganeshs/money-explained/internal/policy"
	"github.com/hariganeshs/money-explained/internal/registry"
	"github.com/hariganeshs/money-explained/internal/sim"
	"github.com/hariganeshs/money-explained/internal/viz"
)

var (
	dt         float64
	ticks      int
	seed       int64
	configFile string
	preset     string
	theme      string

	// balloon
	count       int
	temperature float64
	gravity     bool
	// barter
	agents      int
	tradeRadius float64
	acceptProb  float64
	scarceBias  float64
	// circulate
	wallets    int
	moneyStock float64
	propensity float64
	kappa      float64
	useRule    bool

	// analyze
	seriesKey string
	// sweep
	sweepFrom  float64
	sweepTo    float64
	sweepSteps int
	workers    int
	// ledger
	deposit      float64
	reserveRatio float64
	rounds       int
	// policy
	buyAmount  float64
	sellAmount float64
	lendAmount float64
	qeAmount   float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "moneylab",
		Short: "interactive money and monetary policy lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			viz.SetTheme(theme)
			return viz.RunInteractive(buildConfig(cmd, ""))
		},
	}
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "greenback", "color theme")

	runCmd := &cobra.Command{
		Use:   "run [sim]",
		Short: "run a simulation headless and print metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  runHeadless,
	}
	addSimFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live [sim]",
		Short: "open the TUI on one simulation's chapter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := registry.Info[args[0]]; !ok {
				return fmt.Errorf("unknown simulation: %s", args[0])
			}
			viz.SetTheme(theme)
			return viz.RunLive(args[0], buildConfig(cmd, args[0]))
		},
	}
	addSimFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list available simulations",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.New()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SIM\tDESCRIPTION")
			for _, name := range reg.List() {
				fmt.Fprintf(w, "%s\t%s\n", name, registry.Info[name])
			}
			return w.Flush()
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [sim]",
		Short: "list presets for a simulation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for sim: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [sim]",
		Short: "run headless and write readout series as CSV to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, result, err := runOnce(cmd, args[0])
			if err != nil {
				return err
			}
			return export.WriteCSV(os.Stdout, result)
		},
	}
	addSimFlags(exportCSVCmd)

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [sim]",
		Short: "run headless and write the whole run as JSON to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, result, err := runOnce(cmd, args[0])
			if err != nil {
				return err
			}
			return export.WriteJSON(os.Stdout, args[0], cfg, result)
		},
	}
	addSimFlags(exportJSONCmd)

	analyzeCmd := &cobra.Command{
		Use:   "analyze [sim]",
		Short: "frequency analysis of one readout series",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeSim,
	}
	addSimFlags(analyzeCmd)
	analyzeCmd.Flags().StringVar(&seriesKey, "key", "", "readout series to analyze (default: headline)")

	sweepCmd := &cobra.Command{
		Use:   "sweep [sim] [param]",
		Short: "sweep one parameter across headless runs",
		Args:  cobra.ExactArgs(2),
		RunE:  sweepParam,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0, "first parameter value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 0, "last parameter value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 8, "number of values")
	sweepCmd.Flags().IntVar(&workers, "workers", 4, "concurrent runs")

	benchCmd := &cobra.Command{
		Use:   "bench [sim]",
		Short: "benchmark stepping throughput",
		Args:  cobra.ExactArgs(1),
		RunE:  benchSim,
	}
	addSimFlags(benchCmd)

	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "print the fractional-reserve expansion table",
		RunE:  printLedger,
	}
	ledgerCmd.Flags().Float64Var(&deposit, "deposit", 100, "initial deposit")
	ledgerCmd.Flags().Float64Var(&reserveRatio, "reserve-ratio", 0.10, "reserve ratio")
	ledgerCmd.Flags().IntVar(&rounds, "rounds", 10, "expansion rounds")

	policyCmd := &cobra.Command{
		Use:   "policy",
		Short: "apply central-bank operations and print the balance sheet",
		RunE:  printBalanceSheet,
	}
	policyCmd.Flags().Float64Var(&buyAmount, "buy", 0, "open-market purchase amount")
	policyCmd.Flags().Float64Var(&sellAmount, "sell", 0, "open-market sale amount")
	policyCmd.Flags().Float64Var(&lendAmount, "lend", 0, "discount-window lending amount")
	policyCmd.Flags().Float64Var(&qeAmount, "qe", 0, "quantitative easing amount")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, presetsCmd, exportCSVCmd,
		exportJSONCmd, analyzeCmd, sweepCmd, benchCmd, ledgerCmd, policyCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep per tick")
	cmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "number of ticks")
	cmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "named preset")

	cmd.Flags().IntVar(&count, "count", config.DefaultCount, "balloon particle count")
	cmd.Flags().Float64Var(&temperature, "temperature", config.DefaultTemperature, "balloon temperature")
	cmd.Flags().BoolVar(&gravity, "gravity", false, "balloon gravity")

	cmd.Flags().IntVar(&agents, "agents", config.DefaultAgents, "barter agents")
	cmd.Flags().Float64Var(&tradeRadius, "trade-radius", 0.6, "barter encounter radius")
	cmd.Flags().Float64Var(&acceptProb, "accept-prob", 0.35, "indirect trade acceptance")
	cmd.Flags().Float64Var(&scarceBias, "scarce-bias", 0.4, "preference for the scarce good")

	cmd.Flags().IntVar(&wallets, "wallets", config.DefaultWallets, "circulation wallets")
	cmd.Flags().Float64Var(&moneyStock, "money", config.DefaultMoneyStock, "money stock")
	cmd.Flags().Float64Var(&propensity, "propensity", 0.30, "spending propensity")
	cmd.Flags().Float64Var(&kappa, "kappa", 0.05, "price adjustment speed")
	cmd.Flags().BoolVar(&useRule, "rule", true, "apply the policy rate rule")
}

// buildConfig resolves preset, then config file, then explicit CLI flags, in
// increasing precedence.
func buildConfig(cmd *cobra.Command, simName string) *config.Config {
	cfg := config.DefaultConfig()

	if preset != "" && simName != "" {
		if p := config.GetPreset(simName, preset); p != nil {
			*cfg = *p
		}
	}

	if configFile != "" {
		if loaded, err := config.Load(configFile); err == nil {
			*cfg = *loaded
		} else {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}

	flags := cmd.Flags()
	set := func(name string) bool { return flags.Changed(name) }

	if set("dt") || cfg.Dt == 0 {
		cfg.Dt = dt
	}
	if set("ticks") || cfg.Ticks == 0 {
		cfg.Ticks = ticks
	}
	if set("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if set("count") || cfg.Balloon.Count == 0 {
		cfg.Balloon.Count = count
	}
	if set("temperature") || cfg.Balloon.Temperature == 0 {
		cfg.Balloon.Temperature = temperature
	}
	if set("gravity") {
		cfg.Balloon.Gravity = gravity
	}
	if set("agents") || cfg.Barter.Agents == 0 {
		cfg.Barter.Agents = agents
	}
	if set("trade-radius") || cfg.Barter.TradeRadius == 0 {
		cfg.Barter.TradeRadius = tradeRadius
	}
	if set("accept-prob") {
		cfg.Barter.AcceptProb = acceptProb
	}
	if set("scarce-bias") {
		cfg.Barter.ScarceBias = scarceBias
	}
	if set("wallets") || cfg.Circulate.Wallets == 0 {
		cfg.Circulate.Wallets = wallets
	}
	if set("money") || cfg.Circulate.MoneyStock == 0 {
		cfg.Circulate.MoneyStock = moneyStock
	}
	if set("propensity") || cfg.Circulate.Propensity == 0 {
		cfg.Circulate.Propensity = propensity
	}
	if set("kappa") || cfg.Circulate.Kappa == 0 {
		cfg.Circulate.Kappa = kappa
	}
	if set("rule") {
		cfg.Circulate.UseRule = useRule
	}
	if simName != "" {
		cfg.Sim = simName
	}
	return cfg
}

func runOnce(cmd *cobra.Command, simName string) (sim.Config, *sim.Result, error) {
	cfg := buildConfig(cmd, simName)

	reg := registry.New()
	s, err := reg.Get(simName, cfg, cfg.Seed)
	if err != nil {
		return sim.Config{}, nil, err
	}

	runner := sim.NewRunner()
	for _, m := range reg.DefaultMetrics(simName) {
		runner.AddMetric(m)
	}

	runCfg := sim.Config{Dt: cfg.Dt, Ticks: cfg.Ticks, Seed: cfg.Seed}
	result, err := runner.Run(context.Background(), s, runCfg)
	return runCfg, result, err
}

func runHeadless(cmd *cobra.Command, args []string) error {
	simName := args[0]

	fmt.Printf("running %s...\n", simName)
	start := time.Now()

	runCfg, result, err := runOnce(cmd, simName)
	if err != nil {
		return err
	}

	fmt.Printf("completed %d ticks in %v (dt=%.3f seed=%d)\n",
		result.Ticks, time.Since(start), runCfg.Dt, runCfg.Seed)
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	keys := result.Keys()
	sort.Strings(keys)
	for _, key := range keys {
		series := result.Series[key]
		if len(series) < 2 {
			continue
		}
		graph := asciigraph.Plot(series,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(key),
		)
		fmt.Println()
		fmt.Println(graph)
	}

	return nil
}

func analyzeSim(cmd *cobra.Command, args []string) error {
	simName := args[0]

	runCfg, result, err := runOnce(cmd, simName)
	if err != nil {
		return err
	}

	key := seriesKey
	if key == "" {
		switch simName {
		case "balloon":
			key = "radius"
		case "barter":
			key = "monetization"
		case "circulate":
			key = "price"
		}
	}
	series := result.Get(key)
	if len(series) == 0 {
		return fmt.Errorf("no series %q (available: %v)", key, result.Keys())
	}

	ps := analysis.PowerSpectrum(series)
	plotData := ps[:len(ps)/4]

	fmt.Printf("frequency analysis: %s / %s\n\n", simName, key)
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum"),
	)
	fmt.Println(graph)
	fmt.Println()

	period := analysis.DominantPeriod(series)
	if period > 0 {
		fmt.Printf("dominant period: %.3f (%.3f time units)\n", period, period*runCfg.Dt)
	} else {
		fmt.Println("no dominant period")
	}
	return nil
}

type sweepRun struct {
	value   float64
	metrics map[string]float64
	err     error
}

func sweepParam(cmd *cobra.Command, args []string) error {
	simName, param := args[0], args[1]

	if sweepSteps < 2 {
		return fmt.Errorf("sweep needs at least 2 steps")
	}
	if sweepTo == sweepFrom {
		return fmt.Errorf("sweep range is empty: set --from and --to")
	}
	if workers < 1 {
		workers = 1
	}

	cfg := buildConfig(cmd, simName)
	reg := registry.New()

	// Probe once so an unknown sim or param fails before spawning workers.
	probe, err := reg.Get(simName, cfg, cfg.Seed)
	if err != nil {
		return err
	}
	tunable, ok := probe.(sim.Tunable)
	if !ok {
		return fmt.Errorf("sim %s has no tunable parameters", simName)
	}
	if err := tunable.SetParam(param, sweepFrom); err != nil {
		return err
	}

	runs := make([]sweepRun, sweepSteps)
	step := (sweepTo - sweepFrom) / float64(sweepSteps-1)

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	for i := 0; i < sweepSteps; i++ {
		value := sweepFrom + float64(i)*step
		runs[i].value = value

		wg.Add(1)
		sem <- struct{}{}
		go func(slot int, value float64) {
			defer wg.Done()
			defer func() { <-sem }()

			s, err := reg.Get(simName, cfg, cfg.Seed)
			if err != nil {
				runs[slot].err = err
				return
			}
			if err := s.(sim.Tunable).SetParam(param, value); err != nil {
				runs[slot].err = err
				return
			}

			runner := sim.NewRunner()
			for _, m := range reg.DefaultMetrics(simName) {
				runner.AddMetric(m)
			}
			// Reset rebuilds from current params, so the swept value
			// survives the runner's initial reset.
			result, err := runner.Run(context.Background(), s,
				sim.Config{Dt: cfg.Dt, Ticks: cfg.Ticks, Seed: cfg.Seed})
			if err != nil {
				runs[slot].err = err
				return
			}
			runs[slot].metrics = result.Metrics
		}(i, value)
	}
	wg.Wait()

	var metricNames []string
	for _, r := range runs {
		if r.metrics != nil {
			metricNames = sortedKeys(r.metrics)
			break
		}
	}

	fmt.Printf("sweep %s.%s over [%g, %g]\n\n", simName, param, sweepFrom, sweepTo)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "VALUE")
	for _, name := range metricNames {
		fmt.Fprintf(w, "\t%s", name)
	}
	fmt.Fprintln(w)
	for _, r := range runs {
		if r.err != nil {
			fmt.Fprintf(w, "%.4f\terror: %v\n", r.value, r.err)
			continue
		}
		fmt.Fprintf(w, "%.4f", r.value)
		for _, name := range metricNames {
			fmt.Fprintf(w, "\t%.6f", r.metrics[name])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func benchSim(cmd *cobra.Command, args []string) error {
	simName := args[0]
	cfg := buildConfig(cmd, simName)
	reg := registry.New()

	tickGrid := []int{200, 1000, 5000}

	fmt.Printf("benchmarking %s\n\n", simName)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TICKS\tDT\tTIME\tTICKS/SEC")

	for _, n := range tickGrid {
		s, err := reg.Get(simName, cfg, cfg.Seed)
		if err != nil {
			return err
		}

		start := time.Now()
		_, err = sim.NewRunner().Run(context.Background(), s,
			sim.Config{Dt: cfg.Dt, Ticks: n, Seed: cfg.Seed})
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%d\t%.3f\t%v\t%.0f\n",
			n, cfg.Dt, elapsed, float64(n)/elapsed.Seconds())
	}
	return w.Flush()
}

func printLedger(cmd *cobra.Command, args []string) error {
	rows := ledger.Expand(deposit, reserveRatio, rounds)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ROUND\tDEPOSIT\tRESERVE\tLOAN\tCUMULATIVE")
	for _, r := range rows {
		fmt.Fprintf(w, "%d\t%.2f\t%.2f\t%.2f\t%.2f\n",
			r.Round, r.Deposit, r.Reserve, r.Loan, r.Cumulative)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nmultiplier: %.2fx\n", ledger.Multiplier(reserveRatio))
	fmt.Printf("limit: %.2f\n", ledger.TotalMoney(deposit, reserveRatio))
	return nil
}

func printBalanceSheet(cmd *cobra.Command, args []string) error {
	sheet := policy.DefaultBalanceSheet()
	if buyAmount > 0 {
		sheet.OpenMarketPurchase(buyAmount)
	}
	if sellAmount > 0 {
		sheet.OpenMarketSale(sellAmount)
	}
	if lendAmount > 0 {
		sheet.LendToBanks(lendAmount)
	}
	if qeAmount > 0 {
		sheet.QuantitativeEasing(qeAmount)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ASSETS\t\tLIABILITIES\t")
	fmt.Fprintf(w, "securities\t%.2f\tbank reserves\t%.2f\n", sheet.Securities, sheet.Reserves)
	fmt.Fprintf(w, "loans to banks\t%.2f\tcurrency\t%.2f\n", sheet.LoansToBank, sheet.Currency)
	fmt.Fprintf(w, "total\t%.2f\ttotal\t%.2f\n", sheet.Assets(), sheet.Liabilities())
	return w.Flush()
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
