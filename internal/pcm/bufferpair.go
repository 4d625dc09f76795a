// ABOUTME: Double-buffer allocation for the playback queue
// ABOUTME: One contiguous sample region split into two fixed halves with descriptors
package pcm

import (
	"errors"
	"math"
)

// ErrAllocation is returned when the buffer region cannot be obtained for
// the requested geometry.
var ErrAllocation = errors.New("buffer region allocation failed")

// BufStatus tracks where a buffer is in the submit/complete protocol.
// The driver writes it; the producer only reads it.
type BufStatus int

const (
	StatusFree BufStatus = iota
	StatusQueued
	StatusPlaying
	// StatusDone is also the initial state: a descriptor that has never
	// been played looks exactly like one that just finished.
	StatusDone
)

// WaveBuf is a hardware-facing buffer descriptor. It references one half of
// a BufferPair region without owning it. NSamples is recorded by the
// producer at submit time; Status is written by the driver.
type WaveBuf struct {
	Data     []int16
	NSamples int
	Status   BufStatus
}

// BufferPair owns one contiguous sample region split into exactly two equal
// halves. The half boundaries are computed once at allocation and never
// move; the descriptors alias the region and do not own it.
type BufferPair struct {
	region   []int16
	bufs     [2]WaveBuf
	frames   int
	channels int
}

// NewBufferPair allocates a region of 2 x frames x channels samples and
// partitions it. The geometry is fixed for the lifetime of the pair.
func NewBufferPair(frames, channels int) (*BufferPair, error) {
	if frames <= 0 || channels <= 0 {
		return nil, ErrAllocation
	}
	if frames > math.MaxInt32/(2*channels) {
		return nil, ErrAllocation
	}

	half := frames * channels
	region := make([]int16, 2*half)

	p := &BufferPair{
		region:   region,
		frames:   frames,
		channels: channels,
	}
	for i := range p.bufs {
		// Three-index slice so a descriptor can never grow into the
		// other half.
		p.bufs[i] = WaveBuf{
			Data:   region[i*half : (i+1)*half : (i+1)*half],
			Status: StatusDone,
		}
	}

	return p, nil
}

// Desc returns the descriptor for half i (0 or 1).
func (p *BufferPair) Desc(i int) *WaveBuf {
	return &p.bufs[i]
}

// Frames returns the frame count of each half.
func (p *BufferPair) Frames() int {
	return p.frames
}

// Channels returns the interleaved channel count.
func (p *BufferPair) Channels() int {
	return p.channels
}

// Samples returns the total sample count of the region (both halves).
func (p *BufferPair) Samples() int {
	return len(p.region)
}
