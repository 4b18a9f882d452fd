// Package policy models central-bank operations: balance-sheet deltas for
// open-market operations and QE, and a rate rule that steers inflation.
package policy

// BalanceSheet is the central bank's position. Assets are securities and
// loans to banks; liabilities are bank reserves and currency in circulation.
type BalanceSheet struct {
	Securities  float64
	LoansToBank float64
	Reserves    float64
	Currency    float64
}

func DefaultBalanceSheet() BalanceSheet {
	return BalanceSheet{
		Securities:  500,
		LoansToBank: 100,
		Reserves:    400,
		Currency:    200,
	}
}

func (b BalanceSheet) Assets() float64      { return b.Securities + b.LoansToBank }
func (b BalanceSheet) Liabilities() float64 { return b.Reserves + b.Currency }

// OpenMarketPurchase buys securities from banks, crediting their reserves.
// Both sides of the sheet grow by the same amount.
func (b *BalanceSheet) OpenMarketPurchase(amount float64) {
	if amount < 0 {
		amount = 0
	}
	b.Securities += amount
	b.Reserves += amount
}

// OpenMarketSale sells securities, draining reserves. The amount is clamped
// so no line goes negative.
func (b *BalanceSheet) OpenMarketSale(amount float64) {
	if amount < 0 {
		amount = 0
	}
	if amount > b.Securities {
		amount = b.Securities
	}
	if amount > b.Reserves {
		amount = b.Reserves
	}
	b.Securities -= amount
	b.Reserves -= amount
}

// QuantitativeEasing is a large-scale purchase; mechanically the same entry
// as an open-market purchase, kept separate for the narrative.
func (b *BalanceSheet) QuantitativeEasing(amount float64) {
	b.OpenMarketPurchase(amount)
}

// LendToBanks extends a discount-window loan, crediting reserves.
func (b *BalanceSheet) LendToBanks(amount float64) {
	if amount < 0 {
		amount = 0
	}
	b.LoansToBank += amount
	b.Reserves += amount
}
