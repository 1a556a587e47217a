package indicator

import "math"

// Bands holds Bollinger band values aligned with each other.
// Each slice has length: len(prices) - period + 1
type Bands struct {
	Middle []float64
	Upper  []float64
	Lower  []float64
}

// Bollinger calculates Bollinger Bands: an SMA middle band with upper
// and lower bands at stdDev standard deviations.
func Bollinger(prices []float64, period int, stdDev float64) Bands {
	if period <= 0 || len(prices) < period {
		return Bands{}
	}

	middle := SMA(prices, period)
	upper := make([]float64, len(middle))
	lower := make([]float64, len(middle))

	for i := range middle {
		window := prices[i : i+period]
		var variance float64
		for _, p := range window {
			d := p - middle[i]
			variance += d * d
		}
		sd := math.Sqrt(variance / float64(period))
		upper[i] = middle[i] + stdDev*sd
		lower[i] = middle[i] - stdDev*sd
	}

	return Bands{Middle: middle, Upper: upper, Lower: lower}
}
