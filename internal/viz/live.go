package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/hariganeshs/money-explained/internal/balloon"
	"github.com/hariganeshs/money-explained/internal/barter"
	"github.com/hariganeshs/money-explained/internal/circulate"
	"github.com/hariganeshs/money-explained/internal/config"
	"github.com/hariganeshs/money-explained/internal/ledger"
	"github.com/hariganeshs/money-explained/internal/policy"
)

const (
	canvasW         = 70
	canvasH         = 22
	historyCapacity = 600
)

// Chapter is one page of the money story, navigated like routes in a
// single-page app.
type Chapter int

const (
	ChapterBarter Chapter = iota
	ChapterBanking
	ChapterVelocity
	ChapterPolicy
	ChapterBalloon
	numChapters
)

var chapterTitles = [numChapters]string{
	"BARTER", "BANKING", "VELOCITY", "CENTRAL BANK", "BALLOON",
}

var chapterTaglines = [numChapters]string{
	"how a medium of exchange emerges",
	"fractional reserves multiply deposits",
	"money changing hands sets the price level",
	"open-market operations move the balance sheet",
	"supply and velocity inflate the money balloon",
}

type TickMsg time.Time

type paramSpec struct {
	name string
	get  func() float64
	set  func(float64)
}

// Model is the bubbletea model for the chapter TUI. All simulation stepping
// happens in Update on the frame tick; there is exactly one logical thread.
type Model struct {
	cfg     *config.Config
	chapter Chapter

	canvas *Canvas
	camera *Camera

	market *barter.Market
	econ   *circulate.Economy
	ens    *balloon.Ensemble

	sheet        policy.BalanceSheet
	opAmount     float64
	opLog        []string
	deposit      float64
	reserveRatio float64
	rounds       int
	revealed     int
	revealTick   int

	running  bool
	showHelp bool
	selected int
	history  []float64
	t        float64
	dt       float64
	seed     int64

	width, height int
}

func NewModel(cfg *config.Config) Model {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	bp := balloon.DefaultParams()
	bp.Count = cfg.Balloon.Count
	bp.Temperature = cfg.Balloon.Temperature
	bp.Gravity = cfg.Balloon.Gravity

	mp := barter.DefaultParams()
	mp.Agents = cfg.Barter.Agents
	mp.TradeRadius = cfg.Barter.TradeRadius
	mp.AcceptProb = cfg.Barter.AcceptProb
	mp.ScarceBias = cfg.Barter.ScarceBias

	ep := circulate.DefaultParams()
	ep.Wallets = cfg.Circulate.Wallets
	ep.MoneyStock = cfg.Circulate.MoneyStock
	ep.Propensity = cfg.Circulate.Propensity
	ep.Kappa = cfg.Circulate.Kappa
	ep.UseRule = cfg.Circulate.UseRule

	return Model{
		cfg:          cfg,
		chapter:      ChapterBarter,
		canvas:       NewCanvas(canvasW, canvasH),
		camera:       &Camera{Distance: 10, Zoom: 0.8},
		market:       barter.NewMarket(mp, seed),
		econ:         circulate.NewEconomy(ep, seed),
		ens:          balloon.NewEnsemble(bp, seed),
		sheet:        policy.DefaultBalanceSheet(),
		opAmount:     50,
		deposit:      100,
		reserveRatio: 0.10,
		rounds:       10,
		revealed:     1,
		running:      true,
		history:      make([]float64, 0, historyCapacity),
		dt:           cfg.Dt,
		seed:         seed,
	}
}

// NewModelAt opens the TUI on the chapter matching a simulation name.
func NewModelAt(cfg *config.Config, simName string) Model {
	m := NewModel(cfg)
	switch simName {
	case "barter":
		m.chapter = ChapterBarter
	case "circulate":
		m.chapter = ChapterVelocity
	case "balloon":
		m.chapter = ChapterBalloon
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case TickMsg:
		if m.running {
			m.step()
		}
		if m.chapter == ChapterBalloon {
			m.camera.RotY += 0.005
		}
		return m, tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "left", "h":
		m.switchChapter((m.chapter + numChapters - 1) % numChapters)
	case "right", "l":
		m.switchChapter((m.chapter + 1) % numChapters)
	case "1", "2", "3", "4", "5":
		m.switchChapter(Chapter(msg.String()[0] - '1'))
	case " ":
		m.running = !m.running
	case "r":
		m.reset()
	case "tab":
		specs := m.paramSpecs()
		if len(specs) > 0 {
			m.selected = (m.selected + 1) % len(specs)
		}
	case "up", "k":
		m.adjustParam(1.05)
	case "down", "j":
		m.adjustParam(0.95)
	case "g":
		if m.chapter == ChapterBalloon {
			m.ens.SetGravity(!m.ens.Gravity())
		}
	case "b":
		if m.chapter == ChapterPolicy {
			m.sheet.OpenMarketPurchase(m.opAmount)
			m.logOp(fmt.Sprintf("OMO purchase %+.0f", m.opAmount))
		}
	case "s":
		if m.chapter == ChapterPolicy {
			m.sheet.OpenMarketSale(m.opAmount)
			m.logOp(fmt.Sprintf("OMO sale %+.0f", -m.opAmount))
		}
	case "e":
		if m.chapter == ChapterPolicy {
			m.sheet.QuantitativeEasing(m.opAmount * 4)
			m.logOp(fmt.Sprintf("QE %+.0f", m.opAmount*4))
		}
	case "t":
		CycleTheme()
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) switchChapter(c Chapter) {
	m.chapter = c
	m.selected = 0
	m.history = m.history[:0]
}

func (m *Model) logOp(s string) {
	m.opLog = append(m.opLog, s)
	if len(m.opLog) > 6 {
		m.opLog = m.opLog[1:]
	}
}

func (m *Model) reset() {
	m.t = 0
	m.history = m.history[:0]
	switch m.chapter {
	case ChapterBarter:
		m.market.Reset(m.seed)
	case ChapterVelocity:
		m.econ.Reset(m.seed)
	case ChapterBalloon:
		m.ens.Reset(m.seed)
	case ChapterPolicy:
		m.sheet = policy.DefaultBalanceSheet()
		m.opLog = nil
	case ChapterBanking:
		m.revealed = 1
		m.revealTick = 0
	}
}

// step advances the active chapter by one frame.
func (m *Model) step() {
	switch m.chapter {
	case ChapterBarter:
		m.market.Step(m.dt)
		m.pushHistory(m.market.Monetization())
	case ChapterVelocity:
		m.econ.Step(m.dt)
		m.pushHistory(m.econ.Price())
	case ChapterBalloon:
		m.ens.Step(m.dt)
		m.pushHistory(m.ens.Radius())
	case ChapterBanking:
		// Reveal one expansion round every half second.
		m.revealTick++
		if m.revealTick >= 30 {
			m.revealTick = 0
			m.revealed++
			if m.revealed > m.rounds {
				m.revealed = 1
			}
		}
		m.pushHistory(ledger.CumulativeAfter(m.deposit, m.reserveRatio, m.revealed))
	case ChapterPolicy:
		m.pushHistory(m.sheet.Reserves)
	}
	m.t += m.dt
}

func (m *Model) pushHistory(v float64) {
	m.history = append(m.history, v)
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

func (m *Model) paramSpecs() []paramSpec {
	switch m.chapter {
	case ChapterBarter:
		return []paramSpec{
			{"agents", func() float64 { return float64(len(m.market.Agents())) }, func(v float64) { m.market.SetParam("agents", v) }},
			{"trade_radius", func() float64 { return m.market.Params()["trade_radius"] }, func(v float64) { m.market.SetParam("trade_radius", v) }},
			{"accept_prob", func() float64 { return m.market.Params()["accept_prob"] }, func(v float64) { m.market.SetParam("accept_prob", v) }},
			{"scarce_bias", func() float64 { return m.market.Params()["scarce_bias"] }, func(v float64) { m.market.SetParam("scarce_bias", v) }},
		}
	case ChapterBanking:
		return []paramSpec{
			{"deposit", func() float64 { return m.deposit }, func(v float64) {
				if v > 0 {
					m.deposit = v
				}
			}},
			{"reserve_ratio", func() float64 { return m.reserveRatio }, func(v float64) {
				m.reserveRatio = math.Min(1, math.Max(ledger.MinReserveRatio, v))
			}},
			{"rounds", func() float64 { return float64(m.rounds) }, func(v float64) {
				m.rounds = int(math.Min(float64(ledger.MaxRounds), math.Max(1, math.Round(v))))
			}},
		}
	case ChapterVelocity:
		return []paramSpec{
			{"wallets", func() float64 { return m.econ.Params()["wallets"] }, func(v float64) { m.econ.SetParam("wallets", v) }},
			{"money_stock", func() float64 { return m.econ.Params()["money_stock"] }, func(v float64) { m.econ.SetParam("money_stock", v) }},
			{"propensity", func() float64 { return m.econ.Params()["propensity"] }, func(v float64) { m.econ.SetParam("propensity", v) }},
			{"kappa", func() float64 { return m.econ.Params()["kappa"] }, func(v float64) { m.econ.SetParam("kappa", v) }},
		}
	case ChapterPolicy:
		return []paramSpec{
			{"op_amount", func() float64 { return m.opAmount }, func(v float64) {
				if v > 0 {
					m.opAmount = v
				}
			}},
		}
	case ChapterBalloon:
		return []paramSpec{
			{"count", func() float64 { return float64(m.ens.Count()) }, func(v float64) { m.ens.SetParam("count", v) }},
			{"temperature", func() float64 { return m.ens.Temperature() }, func(v float64) { m.ens.SetParam("temperature", v) }},
		}
	}
	return nil
}

func (m *Model) adjustParam(factor float64) {
	specs := m.paramSpecs()
	if len(specs) == 0 || m.selected >= len(specs) {
		return
	}
	spec := specs[m.selected]
	val := spec.get()
	next := val * factor
	// Integer-valued params need at least a whole step to move.
	if math.Round(next) == math.Round(val) {
		if factor > 1 {
			next = val + 1
		} else {
			next = val - 1
		}
	}
	spec.set(next)
}

func (m Model) View() string {
	m.draw()

	var left string
	switch m.chapter {
	case ChapterBanking:
		left = m.ledgerTable()
	case ChapterPolicy:
		left = m.balanceSheetView()
	default:
		left = m.canvas.String()
	}

	theme := CurrentTheme
	canvasStyle := lipgloss.NewStyle().Padding(1, 2)
	statsStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(theme.Muted).
		Padding(1, 2).Width(44)

	main := lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(left),
		statsStyle.Render(m.statsPanel()),
	)

	header := m.chapterBar() + "\n"
	if m.showHelp {
		return header + m.helpOverlay() + "\n" + main
	}
	return header + main
}

func (m Model) chapterBar() string {
	theme := CurrentTheme
	active := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	inactive := lipgloss.NewStyle().Foreground(theme.Muted)
	parts := make([]string, 0, int(numChapters))
	for c := Chapter(0); c < numChapters; c++ {
		label := fmt.Sprintf(" %d %s ", int(c)+1, chapterTitles[c])
		if c == m.chapter {
			parts = append(parts, active.Render("["+label+"]"))
		} else {
			parts = append(parts, inactive.Render(" "+label+" "))
		}
	}
	tagline := lipgloss.NewStyle().Foreground(theme.Secondary).Render(chapterTaglines[m.chapter])
	return strings.Join(parts, "") + "\n " + tagline
}

func (m Model) statsPanel() string {
	theme := CurrentTheme
	label := lipgloss.NewStyle().Foreground(theme.Muted).Width(14)
	value := lipgloss.NewStyle().Foreground(theme.Text)
	activeParam := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	graphStyle := lipgloss.NewStyle().Foreground(theme.Primary)

	var s strings.Builder
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(status) + "\n")
	s.WriteString(label.Render("Time") + value.Render(fmt.Sprintf("%.0f frames", m.t)) + "\n\n")

	for _, row := range m.readoutRows() {
		s.WriteString(label.Render(row[0]) + value.Render(row[1]) + "\n")
	}

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history,
			asciigraph.Height(4),
			asciigraph.Width(30),
			asciigraph.Caption(m.headlineName()),
		)
		s.WriteString("\n" + graphStyle.Render(chart) + "\n")
	}

	specs := m.paramSpecs()
	if len(specs) > 0 {
		s.WriteString("\nPARAMETERS\n")
		for i, spec := range specs {
			line := fmt.Sprintf("%-14s %10.2f", spec.name, spec.get())
			if i == m.selected {
				s.WriteString(activeParam.Render("> "+line) + "\n")
			} else {
				s.WriteString(label.Render("  ") + value.Render(line) + "\n")
			}
		}
	}

	help := "←→:Chapter SP:Pause R:Reset\nTab:Param ↑↓:Tune T:Theme ?:Help"
	switch m.chapter {
	case ChapterPolicy:
		help = "B:Buy S:Sell E:QE\n" + help
	case ChapterBalloon:
		help = "G:Gravity\n" + help
	}
	s.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Muted).Render("─────────────────────\n"+help))
	return s.String()
}

func (m Model) headlineName() string {
	switch m.chapter {
	case ChapterBarter:
		return "monetization"
	case ChapterBanking:
		return "money created"
	case ChapterVelocity:
		return "price level"
	case ChapterPolicy:
		return "reserves"
	case ChapterBalloon:
		return "radius"
	}
	return ""
}

func (m Model) readoutRows() [][2]string {
	switch m.chapter {
	case ChapterBarter:
		r := m.market.Readout()
		return [][2]string{
			{"Trades", fmt.Sprintf("%.0f", r["trades_total"])},
			{"Via money", fmt.Sprintf("%.0f", r["money_trades"])},
			{"Monetized", fmt.Sprintf("%.0f%%", 100*r["monetization"])},
		}
	case ChapterBanking:
		total := ledger.TotalMoney(m.deposit, m.reserveRatio)
		return [][2]string{
			{"Multiplier", fmt.Sprintf("%.1fx", ledger.Multiplier(m.reserveRatio))},
			{"Limit", fmt.Sprintf("%.0f", total)},
			{"Round", fmt.Sprintf("%d/%d", m.revealed, m.rounds)},
		}
	case ChapterVelocity:
		r := m.econ.Readout()
		return [][2]string{
			{"Velocity", fmt.Sprintf("%.3f", r["velocity"])},
			{"Price", fmt.Sprintf("%.3f", r["price"])},
			{"Nominal GDP", fmt.Sprintf("%.0f", r["ngdp"])},
			{"Policy rate", fmt.Sprintf("%.2f%%", 100*r["rate"])},
		}
	case ChapterPolicy:
		return [][2]string{
			{"Assets", fmt.Sprintf("%.0f", m.sheet.Assets())},
			{"Reserves", fmt.Sprintf("%.0f", m.sheet.Reserves)},
			{"Currency", fmt.Sprintf("%.0f", m.sheet.Currency)},
		}
	case ChapterBalloon:
		r := m.ens.Readout()
		gravity := "off"
		if r["gravity"] == 1 {
			gravity = "on"
		}
		return [][2]string{
			{"Particles", fmt.Sprintf("%.0f", r["count"])},
			{"Temperature", fmt.Sprintf("%.0f", r["temperature"])},
			{"Mean sq speed", fmt.Sprintf("%.0f", r["msq"])},
			{"Radius", fmt.Sprintf("%.3f", r["radius"])},
			{"Gravity", gravity},
		}
	}
	return nil
}

// draw renders the active chapter onto the canvas. Table chapters skip it.
func (m *Model) draw() {
	m.canvas.Clear()
	switch m.chapter {
	case ChapterBarter:
		m.drawBarter()
	case ChapterVelocity:
		m.drawWallets()
	case ChapterBalloon:
		m.drawBalloon()
	}
}

func (m *Model) drawBarter() {
	cw, ch := canvasW*2, canvasH*4
	m.canvas.DrawRect(0, 0, cw-1, ch-1)
	ext := m.market.Extent()
	scarce := len(barter.GoodNames) - 1
	for i := range m.market.Agents() {
		a := &m.market.Agents()[i]
		px := int((a.X + ext) / (2 * ext) * float64(cw-4))
		py := int((a.Z + ext) / (2 * ext) * float64(ch-4))
		if a.Good == scarce {
			m.canvas.FillDot(px+2, py+2, 2)
		} else {
			m.canvas.Set(px+2, py+2)
		}
	}
}

func (m *Model) drawWallets() {
	cw, ch := canvasW*2, canvasH*4
	wallets := m.econ.Wallets()
	if len(wallets) == 0 {
		return
	}
	max := wallets[0]
	for _, w := range wallets {
		if w > max {
			max = w
		}
	}
	if max <= 0 {
		max = 1
	}
	baseY := ch - 4
	m.canvas.DrawLine(0, baseY, cw-1, baseY)
	barW := cw / len(wallets)
	if barW < 1 {
		barW = 1
	}
	for i, w := range wallets {
		h := int(w / max * float64(ch-8))
		x0 := i * barW
		for x := x0; x < x0+barW-1 && x < cw; x++ {
			m.canvas.DrawLine(x, baseY, x, baseY-h)
		}
	}
}

func (m *Model) drawBalloon() {
	shell := SphereWireframe(m.ens.Radius(), 5, 6, 24)
	for i := range m.ens.Particles() {
		shell.AddPoint(m.ens.Particles()[i].Pos)
	}
	Render3D(m.canvas, shell, m.camera)
}

func (m Model) ledgerTable() string {
	theme := CurrentTheme
	head := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	row := lipgloss.NewStyle().Foreground(theme.Text)
	hot := lipgloss.NewStyle().Foreground(theme.Accent)

	var b strings.Builder
	b.WriteString(head.Render(fmt.Sprintf("%-6s %10s %10s %10s %12s", "ROUND", "DEPOSIT", "RESERVE", "LOAN", "CUMULATIVE")) + "\n")
	rows := ledger.Expand(m.deposit, m.reserveRatio, m.rounds)
	for _, r := range rows {
		line := fmt.Sprintf("%-6d %10.2f %10.2f %10.2f %12.2f", r.Round, r.Deposit, r.Reserve, r.Loan, r.Cumulative)
		if r.Round == m.revealed {
			b.WriteString(hot.Render("▸ "+line) + "\n")
		} else if r.Round < m.revealed {
			b.WriteString(row.Render("  "+line) + "\n")
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Muted).Render("  "+line) + "\n")
		}
	}
	b.WriteString("\n" + row.Render(fmt.Sprintf("limit: %.2f  (deposit × 1/reserve ratio)", ledger.TotalMoney(m.deposit, m.reserveRatio))))
	return b.String()
}

func (m Model) balanceSheetView() string {
	theme := CurrentTheme
	head := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	row := lipgloss.NewStyle().Foreground(theme.Text)
	muted := lipgloss.NewStyle().Foreground(theme.Muted)

	var b strings.Builder
	b.WriteString(head.Render(fmt.Sprintf("%-28s │ %-28s", "ASSETS", "LIABILITIES")) + "\n")
	b.WriteString(muted.Render(strings.Repeat("─", 59)) + "\n")
	lines := [][2]string{
		{fmt.Sprintf("securities     %10.2f", m.sheet.Securities), fmt.Sprintf("bank reserves  %10.2f", m.sheet.Reserves)},
		{fmt.Sprintf("loans to banks %10.2f", m.sheet.LoansToBank), fmt.Sprintf("currency       %10.2f", m.sheet.Currency)},
		{fmt.Sprintf("total          %10.2f", m.sheet.Assets()), fmt.Sprintf("total          %10.2f", m.sheet.Liabilities())},
	}
	for _, l := range lines {
		b.WriteString(row.Render(fmt.Sprintf("%-28s │ %-28s", l[0], l[1])) + "\n")
	}
	if len(m.opLog) > 0 {
		b.WriteString("\n" + head.Render("RECENT OPERATIONS") + "\n")
		for _, op := range m.opLog {
			b.WriteString(row.Render("  "+op) + "\n")
		}
	}
	b.WriteString("\n" + muted.Render("B buys securities, S sells, E runs QE"))
	return b.String()
}

func (m Model) helpOverlay() string {
	return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  ←/→ or 1-5  Switch chapter          ║
║  Space       Pause/resume            ║
║  R           Reset chapter           ║
║  Tab         Cycle parameters        ║
║  Up/K        Increase parameter      ║
║  Down/J      Decrease parameter      ║
║  G           Toggle gravity (balloon)║
║  B/S/E       Buy/Sell/QE (bank)      ║
║  T           Cycle themes            ║
║  ?           Toggle this help        ║
║  Q           Quit                    ║
╚══════════════════════════════════════╝`
}

// RunInteractive opens the full chapter TUI.
func RunInteractive(cfg *config.Config) error {
	p := tea.NewProgram(NewModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// RunLive opens the TUI on the chapter for one simulation.
func RunLive(simName string, cfg *config.Config) error {
	p := tea.NewProgram(NewModelAt(cfg, simName), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
