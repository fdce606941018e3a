package technical

import (
	"math"
	"testing"

	"github.com/markcheno/go-talib"
)

func assertClose(t *testing.T, label string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: got %.10f, want %.10f (tol=%g, diff=%g)", label, got, want, tol, math.Abs(got-want))
	}
}

func assertUndefined(t *testing.T, label string, s Series, n int) {
	t.Helper()
	if s.Len() != n {
		t.Fatalf("%s: length %d, want %d", label, s.Len(), n)
	}
	for i := 0; i < n; i++ {
		if s.Defined(i) {
			t.Errorf("%s: index %d defined, want undefined", label, i)
		}
	}
}

// waveSeries produces a deterministic, non-monotone price path.
func waveSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		x := float64(i)
		out[i] = 100 + 10*math.Sin(x/7) + 3*math.Cos(x/3) + 0.05*x
	}
	return out
}

func TestCalculateSMA_Scenario(t *testing.T) {
	sma := CalculateSMA([]float64{1, 2, 3, 4, 5}, 3)

	for i := 0; i < 2; i++ {
		if sma.Defined(i) {
			t.Errorf("index %d should be undefined", i)
		}
	}
	want := map[int]float64{2: 2, 3: 3, 4: 4}
	for i, w := range want {
		got, ok := sma.At(i)
		if !ok {
			t.Fatalf("index %d should be defined", i)
		}
		assertClose(t, "SMA(3)", got, w, 1e-12)
	}
}

func TestCalculateSMA_Alignment(t *testing.T) {
	data := waveSeries(60)
	for _, window := range []int{1, 2, 5, 20, 60} {
		sma := CalculateSMA(data, window)
		if sma.Len() != len(data) {
			t.Fatalf("window %d: length %d, want %d", window, sma.Len(), len(data))
		}
		for i := range data {
			if sma.Defined(i) != (i >= window-1) {
				t.Fatalf("window %d: Defined(%d)=%v", window, i, sma.Defined(i))
			}
			if !sma.Defined(i) {
				continue
			}
			var sum float64
			for _, v := range data[i-window+1 : i+1] {
				sum += v
			}
			assertClose(t, "SMA mean", sma.Values[i], sum/float64(window), 1e-9)
		}
	}
}

func TestCalculateSMA_FlatWindowIsExact(t *testing.T) {
	tests := []struct {
		name   string
		data   []float64
		window int
		want   map[int]float64
	}{
		{"tenths", []float64{0.1, 0.1, 0.1, 0.1}, 3, map[int]float64{2: 0.1, 3: 0.1}},
		{"cents", []float64{0.07, 0.07, 0.07, 0.07, 0.07}, 5, map[int]float64{4: 0.07}},
		{"flat after a move", []float64{43251.4, 43251.37, 43251.37, 43251.37}, 3, map[int]float64{3: 43251.37}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sma := CalculateSMA(tt.data, tt.window)
			ema := CalculateEMA(tt.data, tt.window)
			for i, w := range tt.want {
				if got, _ := sma.At(i); got != w {
					t.Errorf("SMA at %d = %v, want exactly %v", i, got, w)
				}
			}
			if i := len(tt.data) - 1; tt.data[0] == tt.data[i] {
				if got, _ := ema.At(i); got != tt.data[i] {
					t.Errorf("EMA at %d = %v, want exactly %v", i, got, tt.data[i])
				}
			}
		})
	}
}

func TestCalculateEMA_SeedAndRecurrence(t *testing.T) {
	// k = 0.5; seed = mean(1,2,3) = 2 at index 2
	ema := CalculateEMA([]float64{1, 2, 3, 4, 5, 6}, 3)
	want := []float64{0, 0, 2, 3, 4, 5}
	for i := 0; i < 2; i++ {
		if ema.Defined(i) {
			t.Errorf("index %d should be undefined", i)
		}
	}
	for i := 2; i < len(want); i++ {
		got, _ := ema.At(i)
		assertClose(t, "EMA(3)", got, want[i], 1e-12)
	}
}

func TestCalculateEMA_ConstantInput(t *testing.T) {
	data := make([]float64, 50)
	for i := range data {
		data[i] = 42.5
	}
	for _, window := range []int{1, 3, 12, 26, 50} {
		ema := CalculateEMA(data, window)
		for i := ema.Start; i < ema.Len(); i++ {
			assertClose(t, "EMA constant", ema.Values[i], 42.5, 1e-9)
		}
	}
}

func TestSeries_ShortInput(t *testing.T) {
	data := []float64{1, 2, 3}
	assertUndefined(t, "SMA", CalculateSMA(data, 5), len(data))
	assertUndefined(t, "EMA", CalculateEMA(data, 5), len(data))
	assertUndefined(t, "StdDev", CalculateStdDev(data, 5), len(data))
	assertUndefined(t, "SMA zero window", CalculateSMA(data, 0), len(data))
	assertUndefined(t, "EMA negative window", CalculateEMA(data, -1), len(data))
	assertUndefined(t, "SMA empty", CalculateSMA(nil, 3), 0)
}

func TestSeries_Accessors(t *testing.T) {
	s := CalculateSMA([]float64{2, 4, 6}, 2)
	if p := s.Ptr(0); p != nil {
		t.Errorf("Ptr(0) = %v, want nil", *p)
	}
	if p := s.Ptr(2); p == nil || *p != 5 {
		t.Errorf("Ptr(2) = %v, want 5", p)
	}
	if v, ok := s.Last(); !ok || v != 5 {
		t.Errorf("Last() = %v, %v", v, ok)
	}
	if got := s.DefinedValues(); len(got) != 2 || got[0] != 3 {
		t.Errorf("DefinedValues() = %v", got)
	}
	if _, ok := s.At(-1); ok {
		t.Error("At(-1) should be undefined")
	}
	if _, ok := s.At(3); ok {
		t.Error("At(3) should be undefined")
	}
}

func TestSeries_MatchesTalib(t *testing.T) {
	data := waveSeries(120)

	for _, window := range []int{5, 20} {
		sma := CalculateSMA(data, window)
		ref := talib.Sma(data, window)
		for i := sma.Start; i < len(data); i++ {
			assertClose(t, "SMA vs talib", sma.Values[i], ref[i], 1e-9)
		}

		ema := CalculateEMA(data, window)
		refEMA := talib.Ema(data, window)
		for i := ema.Start; i < len(data); i++ {
			assertClose(t, "EMA vs talib", ema.Values[i], refEMA[i], 1e-9)
		}
	}
}
