package ledger

import (
	"math"
	"testing"
)

func TestMultiplier(t *testing.T) {
	tests := []struct {
		rr   float64
		want float64
	}{
		{0.10, 10},
		{0.20, 5},
		{0.50, 2},
		{1.00, 1},
	}
	for _, tt := range tests {
		if got := Multiplier(tt.rr); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Multiplier(%.2f) = %f, want %f", tt.rr, got, tt.want)
		}
	}
}

func TestMultiplierClampsRatio(t *testing.T) {
	if got := Multiplier(0); got != 1/MinReserveRatio {
		t.Errorf("zero ratio should clamp to %f, got %f", 1/MinReserveRatio, got)
	}
	if got := Multiplier(math.NaN()); got != 1/MinReserveRatio {
		t.Errorf("NaN ratio should clamp, got %f", got)
	}
	if got := Multiplier(3); got != 1 {
		t.Errorf("ratio above 1 should clamp to multiplier 1, got %f", got)
	}
}

func TestExpandRowArithmetic(t *testing.T) {
	rows := Expand(100, 0.10, 5)
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}

	if rows[0].Deposit != 100 || rows[0].Reserve != 10 || rows[0].Loan != 90 {
		t.Errorf("first row wrong: %+v", rows[0])
	}

	cumulative := 0.0
	deposit := 100.0
	for i, r := range rows {
		if math.Abs(r.Deposit-deposit) > 1e-9 {
			t.Errorf("round %d deposit %f, want %f", i+1, r.Deposit, deposit)
		}
		if math.Abs(r.Reserve+r.Loan-r.Deposit) > 1e-9 {
			t.Errorf("round %d reserve+loan != deposit", i+1)
		}
		cumulative += r.Deposit
		if math.Abs(r.Cumulative-cumulative) > 1e-9 {
			t.Errorf("round %d cumulative %f, want %f", i+1, r.Cumulative, cumulative)
		}
		deposit = r.Loan
	}
}

func TestExpandMatchesClosedForm(t *testing.T) {
	rows := Expand(250, 0.15, 20)
	last := rows[len(rows)-1]
	want := CumulativeAfter(250, 0.15, len(rows))
	if math.Abs(last.Cumulative-want) > 1e-6 {
		t.Errorf("table cumulative %f, closed form %f", last.Cumulative, want)
	}
}

func TestExpandApproachesLimit(t *testing.T) {
	rows := Expand(100, 0.10, MaxRounds)
	last := rows[len(rows)-1].Cumulative
	limit := TotalMoney(100, 0.10)

	if last >= limit {
		t.Errorf("finite expansion %f reached the limit %f", last, limit)
	}
	if (limit-last)/limit > 0.01 {
		t.Errorf("after %d rounds expansion %f still far from limit %f", MaxRounds, last, limit)
	}
}

func TestExpandFullReserve(t *testing.T) {
	rows := Expand(100, 1.0, 10)
	if len(rows) != 1 {
		t.Fatalf("full-reserve banking should stop after 1 round, got %d", len(rows))
	}
	if rows[0].Loan != 0 || rows[0].Cumulative != 100 {
		t.Errorf("full-reserve row wrong: %+v", rows[0])
	}
}

func TestExpandDegenerateInputs(t *testing.T) {
	if rows := Expand(-50, 0.10, 5); rows[0].Deposit != 0 {
		t.Error("negative deposit should clamp to zero")
	}
	if rows := Expand(100, 0.10, -3); len(rows) != 1 {
		t.Errorf("negative rounds should clamp to 1, got %d rows", len(rows))
	}
	if rows := Expand(100, 0.10, 500); len(rows) > MaxRounds {
		t.Errorf("rounds should clamp to %d, got %d", MaxRounds, len(rows))
	}
}

func TestCumulativeAfterZeroRounds(t *testing.T) {
	if got := CumulativeAfter(100, 0.1, 0); got != 0 {
		t.Errorf("expected 0 for zero rounds, got %f", got)
	}
}
