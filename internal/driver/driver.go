// ABOUTME: Playback driver interface for the two-slot hardware queue
// ABOUTME: Defines the configure/submit/complete protocol used by the scheduler
package driver

import (
	"errors"

	"github.com/pingpong-audio/pingpong-go/internal/pcm"
)

var (
	// ErrUnsupportedFormat is returned by Configure for any rate/layout
	// other than the one fixed supported combination.
	ErrUnsupportedFormat = errors.New("unsupported sample rate or channel layout")

	// ErrHardwareInit is returned when the underlying audio subsystem
	// fails to come up. No partial driver state survives it.
	ErrHardwareInit = errors.New("audio hardware initialization failed")
)

// Driver owns a hardware playback channel and its two-slot submit queue.
//
// The protocol: Configure once, RegisterCompletion before the first Submit,
// then Flush+Submit filled buffers one at a time. Buffers complete in
// submission order. Submit has no error path once Configure has succeeded.
type Driver interface {
	// Configure sets up the playback channel for the given format.
	// Returns ErrUnsupportedFormat or ErrHardwareInit (wrapped).
	Configure(sampleRate, channels int) error

	// RegisterCompletion installs fn, invoked once after each submitted
	// buffer finishes playing. fn runs on the driver's completion context
	// and must not block, allocate, or touch buffer memory.
	RegisterCompletion(fn func())

	// Flush publishes the descriptor's sample memory to the hardware view.
	// The producer flushes the exact range it wrote before submitting.
	Flush(wb *pcm.WaveBuf)

	// Submit hands a filled buffer to the playback queue. The buffer must
	// not already be in flight; it stays in flight until the completion
	// callback fires for it.
	Submit(wb *pcm.WaveBuf)

	// Close stops playback and releases the channel. No completions are
	// delivered after Close returns.
	Close() error
}
