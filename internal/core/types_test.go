package core

import (
	"testing"
	"time"
)

func TestBar_IsValid(t *testing.T) {
	b := Bar{
		Symbol:   "BTCUSDT",
		Interval: "1h",
		Open:     100, High: 105, Low: 99, Close: 102,
		Volume: 1500,
		Time:   time.Now(),
	}

	if !b.IsValid() {
		t.Error("expected valid bar")
	}

	invalid := Bar{Symbol: "", Close: 0}
	if invalid.IsValid() {
		t.Error("expected invalid bar")
	}

	noTime := Bar{Symbol: "BTCUSDT", Close: 100}
	if noTime.IsValid() {
		t.Error("bar without timestamp should be invalid")
	}
}

func TestSignalType_Constants(t *testing.T) {
	types := []SignalType{SignalOpenLong, SignalOpenShort, SignalClose}
	expected := []string{"open_long", "open_short", "close"}

	for i, st := range types {
		if string(st) != expected[i] {
			t.Errorf("expected %s, got %s", expected[i], st)
		}
	}
}

func TestSignalType_Side(t *testing.T) {
	tests := []struct {
		st     SignalType
		side   Side
		hasOne bool
	}{
		{SignalOpenLong, SideLong, true},
		{SignalOpenShort, SideShort, true},
		{SignalClose, "", false},
	}
	for _, tt := range tests {
		side, ok := tt.st.Side()
		if ok != tt.hasOne {
			t.Errorf("%s: ok = %v, want %v", tt.st, ok, tt.hasOne)
		}
		if side != tt.side {
			t.Errorf("%s: side = %v, want %v", tt.st, side, tt.side)
		}
	}
}
