package indicator

import (
	"math"
	"testing"
)

func TestSMA_RollingWindow(t *testing.T) {
	prices := []float64{10, 11, 12, 13, 14, 15}

	got := SMA(prices, 3)
	want := []float64{11, 12, 13, 14}

	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if !almostEqual(got[i], want[i], 1e-9) {
			t.Errorf("sma[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestSMA_PeriodOne(t *testing.T) {
	prices := []float64{10, 11, 12}

	got := SMA(prices, 1)
	if len(got) != 3 {
		t.Fatalf("expected 3 values, got %d", len(got))
	}
	for i := range prices {
		if got[i] != prices[i] {
			t.Errorf("SMA(1) should echo prices, got %v", got)
		}
	}
}

func TestSMA_NotEnoughData(t *testing.T) {
	if got := SMA([]float64{10, 11}, 5); len(got) != 0 {
		t.Errorf("expected empty slice, got %v", got)
	}
	if got := SMA(nil, 3); len(got) != 0 {
		t.Errorf("expected empty slice for nil input, got %v", got)
	}
}

func TestEMA_SeedsWithSMA(t *testing.T) {
	prices := []float64{10, 11, 12, 13, 14, 15}

	got := EMA(prices, 3)
	if len(got) != 4 {
		t.Fatalf("expected 4 values, got %d", len(got))
	}
	if got[0] != 11 {
		t.Errorf("first EMA should equal the seed SMA, got %f", got[0])
	}
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Errorf("EMA should rise on rising prices: ema[%d]=%f <= ema[%d]=%f",
				i, got[i], i-1, got[i-1])
		}
	}
}

func TestEMA_NotEnoughData(t *testing.T) {
	if got := EMA([]float64{10, 11}, 5); len(got) != 0 {
		t.Errorf("expected empty slice, got %v", got)
	}
}

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) < tolerance
}
