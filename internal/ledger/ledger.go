// Package ledger computes the fractional-reserve deposit-expansion table:
// an initial deposit re-lent round after round with a fixed reserve ratio.
package ledger

import "math"

const (
	MinReserveRatio = 0.01
	MaxReserveRatio = 1.0
	MaxRounds       = 50
)

type Row struct {
	Round      int
	Deposit    float64
	Reserve    float64
	Loan       float64
	Cumulative float64
}

func clampRatio(rr float64) float64 {
	if !(rr >= MinReserveRatio) {
		return MinReserveRatio
	}
	if rr > MaxReserveRatio {
		return MaxReserveRatio
	}
	return rr
}

// Multiplier is the limit money multiplier 1/rr.
func Multiplier(reserveRatio float64) float64 {
	return 1 / clampRatio(reserveRatio)
}

// TotalMoney is the geometric-series limit of the expansion.
func TotalMoney(initialDeposit, reserveRatio float64) float64 {
	if initialDeposit < 0 {
		initialDeposit = 0
	}
	return initialDeposit * Multiplier(reserveRatio)
}

// Expand produces the round-by-round table: each round banks hold the
// reserve fraction and lend the rest, and the loan comes back as the next
// round's deposit.
func Expand(initialDeposit, reserveRatio float64, rounds int) []Row {
	rr := clampRatio(reserveRatio)
	if initialDeposit < 0 {
		initialDeposit = 0
	}
	if rounds < 1 {
		rounds = 1
	}
	if rounds > MaxRounds {
		rounds = MaxRounds
	}

	rows := make([]Row, 0, rounds)
	deposit := initialDeposit
	cumulative := 0.0
	for i := 0; i < rounds; i++ {
		reserve := deposit * rr
		loan := deposit - reserve
		cumulative += deposit
		rows = append(rows, Row{
			Round:      i + 1,
			Deposit:    deposit,
			Reserve:    reserve,
			Loan:       loan,
			Cumulative: cumulative,
		})
		deposit = loan
		if deposit < 1e-9 {
			break
		}
	}
	return rows
}

// CumulativeAfter is the money created after a finite number of rounds,
// in closed form.
func CumulativeAfter(initialDeposit, reserveRatio float64, rounds int) float64 {
	rr := clampRatio(reserveRatio)
	if rounds < 1 {
		return 0
	}
	return initialDeposit * (1 - math.Pow(1-rr, float64(rounds))) / rr
}
