// ABOUTME: Tests for double-buffer allocation
// ABOUTME: Verifies region size, half partitioning and geometry validation
package pcm

import (
	"errors"
	"math"
	"testing"
)

func TestBufferPairRegionSize(t *testing.T) {
	p, err := NewBufferPair(1024, 2)
	if err != nil {
		t.Fatalf("NewBufferPair: %v", err)
	}

	// 2 halves x 1024 frames x 2 channels
	if p.Samples() != 2*1024*2 {
		t.Errorf("expected %d samples, got %d", 2*1024*2, p.Samples())
	}
	if p.Frames() != 1024 || p.Channels() != 2 {
		t.Errorf("geometry not retained: frames=%d channels=%d", p.Frames(), p.Channels())
	}
}

func TestBufferPairPartition(t *testing.T) {
	p, err := NewBufferPair(8, 2)
	if err != nil {
		t.Fatalf("NewBufferPair: %v", err)
	}

	a, b := p.Desc(0), p.Desc(1)

	if len(a.Data) != 16 || len(b.Data) != 16 {
		t.Fatalf("half sizes: %d, %d", len(a.Data), len(b.Data))
	}
	if cap(a.Data) != len(a.Data) {
		t.Errorf("descriptor 0 can grow past its half: cap=%d len=%d", cap(a.Data), len(a.Data))
	}

	// Halves alias the same region but must not overlap.
	for i := range a.Data {
		a.Data[i] = 0x1111
	}
	for i := range b.Data {
		b.Data[i] = 0x2222
	}
	for i, v := range a.Data {
		if v != 0x1111 {
			t.Fatalf("half 0 sample %d clobbered by half 1 write: %#x", i, v)
		}
	}
	if &a.Data[0] != &p.region[0] {
		t.Error("descriptor 0 does not reference the start of the region")
	}
	if &b.Data[0] != &p.region[16] {
		t.Error("descriptor 1 does not reference the second half of the region")
	}
}

func TestBufferPairInitialStatus(t *testing.T) {
	p, err := NewBufferPair(16, 2)
	if err != nil {
		t.Fatalf("NewBufferPair: %v", err)
	}

	// Never-played descriptors start in the done/idle state so the first
	// two submissions look like refills.
	for i := 0; i < 2; i++ {
		if got := p.Desc(i).Status; got != StatusDone {
			t.Errorf("descriptor %d initial status: got %d, want StatusDone", i, got)
		}
		if p.Desc(i).NSamples != 0 {
			t.Errorf("descriptor %d initial NSamples: got %d, want 0", i, p.Desc(i).NSamples)
		}
	}
}

func TestBufferPairGeometryValidation(t *testing.T) {
	tests := []struct {
		name     string
		frames   int
		channels int
	}{
		{"zero frames", 0, 2},
		{"negative frames", -1, 2},
		{"zero channels", 1024, 0},
		{"overflowing region", math.MaxInt32, 2},
	}

	for _, tt := range tests {
		_, err := NewBufferPair(tt.frames, tt.channels)
		if !errors.Is(err, ErrAllocation) {
			t.Errorf("%s: expected ErrAllocation, got %v", tt.name, err)
		}
	}
}

func TestFormatSupported(t *testing.T) {
	tests := []struct {
		rate     int
		channels int
		want     bool
	}{
		{44100, 2, true},
		{48000, 2, false},
		{44100, 1, false},
		{22050, 2, false},
		{0, 0, false},
	}

	for _, tt := range tests {
		f := Format{SampleRate: tt.rate, Channels: tt.channels}
		if got := f.Supported(); got != tt.want {
			t.Errorf("Format{%d, %d}.Supported() = %v, want %v",
				tt.rate, tt.channels, got, tt.want)
		}
	}
}
