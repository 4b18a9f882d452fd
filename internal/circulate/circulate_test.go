package circulate

import (
	"math"
	"testing"
)

func TestMoneyConserved(t *testing.T) {
	e := NewEconomy(DefaultParams(), 13)

	if math.Abs(e.MoneyTotal()-DefaultParams().MoneyStock) > 1e-6 {
		t.Fatalf("initial total %f, want %f", e.MoneyTotal(), DefaultParams().MoneyStock)
	}

	for i := 0; i < 500; i++ {
		e.Step(1)
	}

	if math.Abs(e.MoneyTotal()-DefaultParams().MoneyStock) > 1e-6 {
		t.Errorf("money not conserved: total %f after 500 ticks", e.MoneyTotal())
	}
}

func TestEconomyDeterminism(t *testing.T) {
	a := NewEconomy(DefaultParams(), 21)
	b := NewEconomy(DefaultParams(), 21)

	for i := 0; i < 300; i++ {
		a.Step(1)
		b.Step(1)
	}

	if a.Price() != b.Price() || a.Velocity() != b.Velocity() {
		t.Errorf("economies diverged: price %f vs %f, velocity %f vs %f",
			a.Price(), b.Price(), a.Velocity(), b.Velocity())
	}
}

func TestPriceTracksExchangeEquation(t *testing.T) {
	p := DefaultParams()
	p.UseRule = false
	e := NewEconomy(p, 5)

	for i := 0; i < 2000; i++ {
		e.Step(1)
	}

	want := p.MoneyStock * e.Velocity() / p.RealOutput
	got := e.Price()
	if math.Abs(got-want)/want > 0.10 {
		t.Errorf("price %f not near M*V/Q = %f", got, want)
	}
}

func TestMoreMoneyHigherPrices(t *testing.T) {
	small := DefaultParams()
	small.MoneyStock = 500
	small.UseRule = false
	large := DefaultParams()
	large.MoneyStock = 2000
	large.UseRule = false

	a := NewEconomy(small, 5)
	b := NewEconomy(large, 5)
	for i := 0; i < 1500; i++ {
		a.Step(1)
		b.Step(1)
	}

	if b.Price() <= a.Price() {
		t.Errorf("quadrupled money stock should raise the price level: %f vs %f",
			b.Price(), a.Price())
	}
}

func TestHigherPropensityFasterVelocity(t *testing.T) {
	slow := DefaultParams()
	slow.Propensity = 0.1
	slow.UseRule = false
	fast := DefaultParams()
	fast.Propensity = 0.8
	fast.UseRule = false

	a := NewEconomy(slow, 5)
	b := NewEconomy(fast, 5)
	for i := 0; i < 200; i++ {
		a.Step(1)
		b.Step(1)
	}

	if b.Velocity() <= a.Velocity() {
		t.Errorf("hot-potato spending should raise velocity: %f vs %f",
			b.Velocity(), a.Velocity())
	}
}

func TestRuleDampensSpending(t *testing.T) {
	ruled := DefaultParams()
	ruled.UseRule = true
	free := DefaultParams()
	free.UseRule = false

	a := NewEconomy(ruled, 5)
	b := NewEconomy(free, 5)
	for i := 0; i < 50; i++ {
		a.Step(1)
		b.Step(1)
	}

	if a.Rate() < 0 {
		t.Errorf("policy rate went negative: %f", a.Rate())
	}
	if b.Rate() != 0 {
		t.Errorf("free economy should carry a zero rate, got %f", b.Rate())
	}
}

func TestWalletsNeverNegative(t *testing.T) {
	p := DefaultParams()
	p.Propensity = 1.0
	e := NewEconomy(p, 7)

	for i := 0; i < 300; i++ {
		e.Step(1)
	}

	for i, w := range e.Wallets() {
		if w < 0 {
			t.Errorf("wallet %d went negative: %f", i, w)
		}
	}
}

func TestSetWalletsConservesMoney(t *testing.T) {
	e := NewEconomy(DefaultParams(), 1)
	before := e.MoneyTotal()

	if err := e.SetParam("wallets", 10); err != nil {
		t.Fatalf("set wallets: %v", err)
	}
	if len(e.Wallets()) != 10 {
		t.Fatalf("expected 10 wallets, got %d", len(e.Wallets()))
	}
	if math.Abs(e.MoneyTotal()-before) > 1e-6 {
		t.Errorf("shrinking wallets lost money: %f -> %f", before, e.MoneyTotal())
	}

	if err := e.SetParam("wallets", 200); err != nil {
		t.Fatalf("grow wallets: %v", err)
	}
	if math.Abs(e.MoneyTotal()-before) > 1e-6 {
		t.Errorf("growing wallets minted money: %f -> %f", before, e.MoneyTotal())
	}
}

func TestSetMoneyStockRescales(t *testing.T) {
	e := NewEconomy(DefaultParams(), 1)

	if err := e.SetParam("money_stock", 2000); err != nil {
		t.Fatalf("set money stock: %v", err)
	}
	if math.Abs(e.MoneyTotal()-2000) > 1e-6 {
		t.Errorf("total %f after doubling the stock, want 2000", e.MoneyTotal())
	}

	// Non-positive stock is rejected, balances untouched.
	if err := e.SetParam("money_stock", -5); err != nil {
		t.Fatalf("negative stock errored instead of ignoring: %v", err)
	}
	if math.Abs(e.MoneyTotal()-2000) > 1e-6 {
		t.Errorf("negative stock changed balances: %f", e.MoneyTotal())
	}
}

func TestPriceStaysPositive(t *testing.T) {
	p := DefaultParams()
	p.Propensity = 0
	e := NewEconomy(p, 3)

	for i := 0; i < 1000; i++ {
		e.Step(1)
	}

	if e.Price() <= 0 {
		t.Errorf("price collapsed to %f", e.Price())
	}
}

func TestSetParamUnknown(t *testing.T) {
	e := NewEconomy(DefaultParams(), 1)
	if err := e.SetParam("tariff", 1.0); err == nil {
		t.Error("expected error for unknown parameter")
	}
}
