package technical

import (
	"fmt"
	"testing"

	"github.com/markcheno/go-talib"
)

func TestCalculateStdDev_Population(t *testing.T) {
	sd := CalculateStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}, 8)
	got, ok := sd.Last()
	if !ok {
		t.Fatal("expected a defined value")
	}
	assertClose(t, "population stddev", got, 2, 1e-12)
	if sd.Start != 7 {
		t.Errorf("Start = %d, want 7", sd.Start)
	}
}

func TestCalculateBollingerBands_Constant(t *testing.T) {
	for _, price := range []float64{100, 0.1, 0.07, 43251.37} {
		t.Run(fmt.Sprint(price), func(t *testing.T) {
			closes := make([]float64, 30)
			for i := range closes {
				closes[i] = price
			}
			bands := CalculateBollingerBands(closes, 20, 2)
			sd := CalculateStdDev(closes, 20)

			for i := 0; i < 19; i++ {
				if bands.Upper.Defined(i) || bands.Middle.Defined(i) || bands.Lower.Defined(i) {
					t.Fatalf("index %d should be undefined", i)
				}
			}
			for i := 19; i < len(closes); i++ {
				u, _ := bands.Upper.At(i)
				m, _ := bands.Middle.At(i)
				l, _ := bands.Lower.At(i)
				if u != price || m != price || l != price {
					t.Errorf("index %d: bands = %v/%v/%v, want %v on every band", i, u, m, l, price)
				}
				if d, _ := sd.At(i); d != 0 {
					t.Errorf("index %d: stddev = %v, want 0", i, d)
				}
			}
		})
	}
}

func TestCalculateBollingerBands_FlatAfterMove(t *testing.T) {
	closes := []float64{0.3, 0.2, 0.1, 0.1, 0.1, 0.1}
	bands := CalculateBollingerBands(closes, 3, 2)

	u, _ := bands.Upper.At(5)
	m, _ := bands.Middle.At(5)
	l, _ := bands.Lower.At(5)
	if u != 0.1 || m != 0.1 || l != 0.1 {
		t.Errorf("bands = %v/%v/%v, want 0.1 once the window is flat", u, m, l)
	}
	if u, _ := bands.Upper.At(3); u <= 0.1 {
		t.Errorf("upper band at 3 = %v, want above the middle while the window moves", u)
	}
}

func TestCalculateBollingerBands_Ordering(t *testing.T) {
	data := waveSeries(120)
	bands := CalculateBollingerBands(data, 20, 2)
	sma := CalculateSMA(data, 20)
	sd := CalculateStdDev(data, 20)

	for i := bands.Middle.Start; i < len(data); i++ {
		u, l, m := bands.Upper.Values[i], bands.Lower.Values[i], bands.Middle.Values[i]
		if !(l <= m && m <= u) {
			t.Fatalf("index %d: lower=%f middle=%f upper=%f", i, l, m, u)
		}
		assertClose(t, "middle is SMA", m, sma.Values[i], 1e-12)
		assertClose(t, "upper width", u-m, 2*sd.Values[i], 1e-9)
		assertClose(t, "lower width", m-l, 2*sd.Values[i], 1e-9)
	}
}

func TestCalculateBollingerBands_MatchesTalib(t *testing.T) {
	data := waveSeries(100)
	bands := CalculateBollingerBands(data, 20, 2)
	upper, middle, lower := talib.BBands(data, 20, 2, 2, talib.SMA)

	for i := bands.Middle.Start; i < len(data); i++ {
		assertClose(t, "upper vs talib", bands.Upper.Values[i], upper[i], 1e-6)
		assertClose(t, "middle vs talib", bands.Middle.Values[i], middle[i], 1e-6)
		assertClose(t, "lower vs talib", bands.Lower.Values[i], lower[i], 1e-6)
	}
}

func TestCalculateBollingerBands_ShortInput(t *testing.T) {
	bands := CalculateBollingerBands([]float64{1, 2, 3}, 20, 2)
	assertUndefined(t, "upper", bands.Upper, 3)
	assertUndefined(t, "middle", bands.Middle, 3)
	assertUndefined(t, "lower", bands.Lower, 3)
}
