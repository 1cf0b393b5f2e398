package indicator

import "math"

// MACD computes the moving average convergence divergence line, its signal
// line, and the histogram. The MACD line is the fast EMA minus the slow
// EMA; the signal line is an EMA of the MACD line seeded once enough MACD
// values exist.
func MACD(values []float64, fastPeriod, slowPeriod, signalPeriod int) (macd, signal, hist []float64) {
	macd = nanSlice(len(values))
	signal = nanSlice(len(values))
	hist = nanSlice(len(values))

	fast := EMA(values, fastPeriod)
	slow := EMA(values, slowPeriod)

	firstValid := -1

	for i := range values {
		if !math.IsNaN(fast[i]) && !math.IsNaN(slow[i]) {
			macd[i] = fast[i] - slow[i]

			if firstValid < 0 {
				firstValid = i
			}
		}
	}

	if firstValid < 0 || len(values)-firstValid < signalPeriod {
		return macd, signal, hist
	}

	// Seed the signal line with the simple average of the first
	// signalPeriod MACD values.
	var seed float64
	for i := firstValid; i < firstValid+signalPeriod; i++ {
		seed += macd[i]
	}

	seed /= float64(signalPeriod)
	seedIdx := firstValid + signalPeriod - 1
	signal[seedIdx] = seed
	hist[seedIdx] = macd[seedIdx] - seed

	multiplier := 2.0 / (float64(signalPeriod) + 1.0)
	prev := seed

	for i := seedIdx + 1; i < len(values); i++ {
		prev = (macd[i]-prev)*multiplier + prev
		signal[i] = prev
		hist[i] = macd[i] - prev
	}

	return macd, signal, hist
}
