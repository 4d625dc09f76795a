// ABOUTME: Tests for worker priority derivation
// ABOUTME: Covers default bounds, clamping and custom ranges
package backend

import "testing"

func TestDerivePriority(t *testing.T) {
	tests := []struct {
		name string
		cfg  PriorityConfig
		want int
	}{
		{"defaults", PriorityConfig{}.withDefaults(), 0x2F},
		{"base just above min", PriorityConfig{Base: 0x19, Offset: 1, Min: 0x18, Max: 0x3F}, 0x18},
		{"clamped to min", PriorityConfig{Base: 0x10, Offset: 1, Min: 0x18, Max: 0x3F}, 0x18},
		{"clamped to max", PriorityConfig{Base: 0x50, Offset: 1, Min: 0x18, Max: 0x3F}, 0x3F},
		{"custom range", PriorityConfig{Base: 20, Offset: 5, Min: 1, Max: 99}, 15},
	}

	for _, tt := range tests {
		if got := tt.cfg.Derive(); got != tt.want {
			t.Errorf("%s: Derive() = %#x, want %#x", tt.name, got, tt.want)
		}
	}
}

func TestPriorityDefaults(t *testing.T) {
	pc := PriorityConfig{}.withDefaults()

	if pc.Base != DefaultPriorityBase {
		t.Errorf("Base = %#x, want %#x", pc.Base, DefaultPriorityBase)
	}
	if pc.Offset != DefaultPriorityOffset {
		t.Errorf("Offset = %d, want %d", pc.Offset, DefaultPriorityOffset)
	}
	if pc.Min != DefaultPriorityMin || pc.Max != DefaultPriorityMax {
		t.Errorf("bounds = [%#x, %#x], want [%#x, %#x]",
			pc.Min, pc.Max, DefaultPriorityMin, DefaultPriorityMax)
	}

	// Partial configs keep what the caller set.
	pc = PriorityConfig{Base: 10, Min: 2}.withDefaults()
	if pc.Base != 10 || pc.Min != 2 {
		t.Error("withDefaults overwrote caller-set fields")
	}
	if pc.Offset != DefaultPriorityOffset || pc.Max != DefaultPriorityMax {
		t.Error("withDefaults did not fill unset fields")
	}
}
