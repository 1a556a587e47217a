package indicator

// MACDResult holds the MACD line, signal line and histogram.
// Signal and Histogram are aligned with the tail of Line.
type MACDResult struct {
	Line      []float64
	Signal    []float64
	Histogram []float64
}

// MACD calculates Moving Average Convergence Divergence.
// Line has length len(prices) - slow + 1; Signal and Histogram have
// length len(Line) - signal + 1.
func MACD(prices []float64, fast, slow, signal int) MACDResult {
	if fast <= 0 || slow <= fast || len(prices) < slow {
		return MACDResult{}
	}

	fastEMA := EMA(prices, fast)
	slowEMA := EMA(prices, slow)

	// Align: slow EMA starts later, trim the fast EMA head
	offset := len(fastEMA) - len(slowEMA)
	line := make([]float64, len(slowEMA))
	for i := range slowEMA {
		line[i] = fastEMA[i+offset] - slowEMA[i]
	}

	sig := EMA(line, signal)
	hist := make([]float64, len(sig))
	lineOffset := len(line) - len(sig)
	for i := range sig {
		hist[i] = line[i+lineOffset] - sig[i]
	}

	return MACDResult{Line: line, Signal: sig, Histogram: hist}
}
