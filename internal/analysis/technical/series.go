package technical

// Series is an indicator column aligned index-for-index with its input.
// Slots before Start are inside the warm-up window and hold no value.
type Series struct {
	Values []float64
	Start  int
}

// undefinedSeries returns a series of length n with no defined slot.
func undefinedSeries(n int) Series {
	return Series{Values: make([]float64, n), Start: n}
}

// Len returns the number of slots, defined or not.
func (s Series) Len() int {
	return len(s.Values)
}

// Defined reports whether slot i carries a value.
func (s Series) Defined(i int) bool {
	return i >= s.Start && i >= 0 && i < len(s.Values)
}

// At returns the value at i and whether it is defined.
func (s Series) At(i int) (float64, bool) {
	if !s.Defined(i) {
		return 0, false
	}
	return s.Values[i], true
}

// Ptr returns a pointer to a copy of the value at i, or nil when undefined.
func (s Series) Ptr(i int) *float64 {
	v, ok := s.At(i)
	if !ok {
		return nil
	}
	return &v
}

// Last returns the final value of the series and whether it is defined.
func (s Series) Last() (float64, bool) {
	return s.At(len(s.Values) - 1)
}

// DefinedValues returns the contiguous defined suffix.
func (s Series) DefinedValues() []float64 {
	if s.Start >= len(s.Values) {
		return nil
	}
	return s.Values[s.Start:]
}

// CalculateSMA computes the simple moving average with a running sum.
// Slot i is defined for i >= window-1. A window of identical values
// averages to exactly that value.
func CalculateSMA(data []float64, window int) Series {
	out := undefinedSeries(len(data))
	if window <= 0 || len(data) < window {
		return out
	}

	var sum float64
	run := 0
	for i, v := range data {
		sum += v
		if i >= window {
			sum -= data[i-window]
		}
		if i > 0 && v == data[i-1] {
			run++
		} else {
			run = 1
		}
		switch {
		case i < window-1:
		case run >= window:
			out.Values[i] = v
		default:
			out.Values[i] = sum / float64(window)
		}
	}
	out.Start = window - 1
	return out
}

// CalculateEMA computes the exponential moving average seeded with the simple
// average of the first window values, placed at index window-1.
func CalculateEMA(data []float64, window int) Series {
	out := undefinedSeries(len(data))
	if window <= 0 || len(data) < window {
		return out
	}

	ema := CalculateSMA(data[:window], window).Values[window-1]
	out.Values[window-1] = ema

	multiplier := 2.0 / float64(window+1)
	for i := window; i < len(data); i++ {
		ema += (data[i] - ema) * multiplier
		out.Values[i] = ema
	}
	out.Start = window - 1
	return out
}
