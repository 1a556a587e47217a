package indicator

import "testing"

func TestMACD_Lengths(t *testing.T) {
	prices := make([]float64, 60)
	for i := range prices {
		prices[i] = 100 + float64(i%7)
	}

	res := MACD(prices, 12, 26, 9)

	wantLine := len(prices) - 26 + 1
	if len(res.Line) != wantLine {
		t.Errorf("line length = %d, want %d", len(res.Line), wantLine)
	}

	wantSignal := wantLine - 9 + 1
	if len(res.Signal) != wantSignal {
		t.Errorf("signal length = %d, want %d", len(res.Signal), wantSignal)
	}
	if len(res.Histogram) != len(res.Signal) {
		t.Errorf("histogram length = %d, want %d", len(res.Histogram), len(res.Signal))
	}
}

func TestMACD_UptrendPositive(t *testing.T) {
	// Steady uptrend keeps the fast EMA above the slow EMA
	prices := make([]float64, 50)
	for i := range prices {
		prices[i] = 100 + float64(i)*2
	}

	res := MACD(prices, 5, 10, 3)
	if len(res.Line) == 0 {
		t.Fatal("expected MACD values")
	}

	last := res.Line[len(res.Line)-1]
	if last <= 0 {
		t.Errorf("MACD line in uptrend = %f, want > 0", last)
	}
}

func TestMACD_ConstantPricesZero(t *testing.T) {
	prices := make([]float64, 40)
	for i := range prices {
		prices[i] = 100
	}

	res := MACD(prices, 12, 26, 9)
	for i, v := range res.Line {
		if !almostEqual(v, 0, 1e-9) {
			t.Errorf("line[%d] = %f, want 0", i, v)
		}
	}
	for i, v := range res.Histogram {
		if !almostEqual(v, 0, 1e-9) {
			t.Errorf("histogram[%d] = %f, want 0", i, v)
		}
	}
}

func TestMACD_NotEnoughData(t *testing.T) {
	res := MACD([]float64{1, 2, 3}, 12, 26, 9)
	if len(res.Line) != 0 {
		t.Errorf("expected empty result, got %d values", len(res.Line))
	}
}
