package indicator

// SMA computes a simple moving average over a rolling window. The
// result holds one value per full window, so its length is
// len(prices)-period+1; fewer prices than the period yields an empty
// slice.
func SMA(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < period {
		return []float64{}
	}

	out := make([]float64, 0, len(prices)-period+1)

	var window float64
	for i, p := range prices {
		window += p
		if i < period-1 {
			continue
		}
		out = append(out, window/float64(period))
		window -= prices[i-period+1]
	}

	return out
}

// EMA computes an exponential moving average with smoothing
// 2/(period+1). The first value is the SMA of the initial window, so
// the output aligns with SMA for the same period.
func EMA(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < period {
		return []float64{}
	}

	var seed float64
	for _, p := range prices[:period] {
		seed += p
	}

	out := make([]float64, 0, len(prices)-period+1)
	ema := seed / float64(period)
	out = append(out, ema)

	alpha := 2.0 / float64(period+1)
	for _, p := range prices[period:] {
		ema += (p - ema) * alpha
		out = append(out, ema)
	}

	return out
}
