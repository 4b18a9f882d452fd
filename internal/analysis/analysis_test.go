package analysis

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestFFTConstantSignal(t *testing.T) {
	data := []float64{2, 2, 2, 2, 2, 2, 2, 2}
	fft := FFT(data)

	if math.Abs(cmplx.Abs(fft[0])-16) > 1e-9 {
		t.Errorf("DC bin %f, want 16", cmplx.Abs(fft[0]))
	}
	for i := 1; i < len(fft); i++ {
		if cmplx.Abs(fft[i]) > 1e-9 {
			t.Errorf("bin %d nonzero for a constant signal: %f", i, cmplx.Abs(fft[i]))
		}
	}
}

func TestFFTSingleTone(t *testing.T) {
	const n = 64
	const cycles = 4
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * cycles * float64(i) / n)
	}

	fft := FFT(data)
	// Energy concentrates in bins 4 and 60 (its mirror).
	peak := 0
	for i := 1; i < n/2; i++ {
		if cmplx.Abs(fft[i]) > cmplx.Abs(fft[peak]) {
			peak = i
		}
	}
	if peak != cycles {
		t.Errorf("peak at bin %d, want %d", peak, cycles)
	}
}

func TestFFTPanicsOnOddLength(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for non-power-of-2 length")
		}
	}()
	FFT([]float64{1, 2, 3, 4, 5, 6})
}

func TestPowerSpectrumPads(t *testing.T) {
	// 100 samples pad to 128; spectrum is the positive half.
	data := make([]float64, 100)
	ps := PowerSpectrum(data)
	if len(ps) != 64 {
		t.Errorf("spectrum length %d, want 64", len(ps))
	}
}

func TestDominantPeriod(t *testing.T) {
	const n = 256
	const period = 16.0
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Cos(2 * math.Pi * float64(i) / period)
	}

	got := DominantPeriod(data)
	if math.Abs(got-period) > 1 {
		t.Errorf("dominant period %f, want %f", got, period)
	}
}

func TestDominantPeriodFlat(t *testing.T) {
	if got := DominantPeriod(make([]float64, 64)); got != 0 {
		t.Errorf("flat series period %f, want 0", got)
	}
}

func TestMovingAverage(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5}
	out := MovingAverage(data, 3)

	want := []float64{1, 1.5, 2, 3, 4}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-9 {
			t.Errorf("out[%d] = %f, want %f", i, out[i], want[i])
		}
	}
}

func TestMovingAverageWindowOne(t *testing.T) {
	data := []float64{3, 1, 4}
	out := MovingAverage(data, 0) // clamps to 1
	for i := range data {
		if out[i] != data[i] {
			t.Errorf("window 1 should echo the series, out[%d] = %f", i, out[i])
		}
	}
}
