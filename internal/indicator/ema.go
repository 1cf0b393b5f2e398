package indicator

import "math"

// EMA computes the exponential moving average of values with the given
// period. The first period-1 entries are NaN; the value at index period-1
// is seeded with the simple average of the first period values.
func EMA(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if len(values) < period {
		return out
	}

	var seed float64
	for i := 0; i < period; i++ {
		seed += values[i]
	}

	seed /= float64(period)
	out[period-1] = seed

	multiplier := 2.0 / (float64(period) + 1.0)
	prev := seed

	for i := period; i < len(values); i++ {
		prev = (values[i]-prev)*multiplier + prev
		out[i] = prev
	}

	return out
}

// SMA computes the simple moving average of values with the given period.
func SMA(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if len(values) < period {
		return out
	}

	var sum float64
	for i, v := range values {
		sum += v

		if i >= period {
			sum -= values[i-period]
		}

		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}

	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}

	return out
}
