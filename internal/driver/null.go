// ABOUTME: Headless playback driver with wall-clock pacing
// ABOUTME: Completes buffers at real-time rate without touching audio hardware
package driver

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pingpong-audio/pingpong-go/internal/pcm"
)

// Null discards submitted samples but completes them at the rate real
// hardware would, so the scheduler handshake behaves identically on machines
// with no audio device.
type Null struct {
	sampleRate int

	complete atomic.Pointer[completionFn]
	queue    chan *pcm.WaveBuf
	drained  chan struct{}

	ready     bool
	closeOnce sync.Once
}

// NewNull creates an unconfigured null driver.
func NewNull() *Null {
	return &Null{
		queue:   make(chan *pcm.WaveBuf, 2),
		drained: make(chan struct{}),
	}
}

// Configure validates the format and starts the pacing consumer.
func (d *Null) Configure(sampleRate, channels int) error {
	f := pcm.Format{SampleRate: sampleRate, Channels: channels}
	if !f.Supported() {
		return ErrUnsupportedFormat
	}

	d.sampleRate = sampleRate
	d.ready = true
	go d.run()

	log.Printf("Null audio output initialized: %dHz, %d channels", sampleRate, channels)

	return nil
}

// RegisterCompletion installs the completion callback. Must be called before
// the first Submit.
func (d *Null) RegisterCompletion(fn func()) {
	d.complete.Store(&fn)
}

// Flush is a no-op; there is no hardware view to publish to.
func (d *Null) Flush(wb *pcm.WaveBuf) {}

// Submit enqueues a filled buffer.
func (d *Null) Submit(wb *pcm.WaveBuf) {
	wb.Status = pcm.StatusQueued
	d.queue <- wb
}

func (d *Null) run() {
	defer close(d.drained)

	for wb := range d.queue {
		wb.Status = pcm.StatusPlaying
		time.Sleep(time.Duration(wb.NSamples) * time.Second / time.Duration(d.sampleRate))
		wb.Status = pcm.StatusDone

		if fn := d.complete.Load(); fn != nil {
			(*fn)()
		}
	}
}

// Close stops the pacing consumer. Safe to call more than once.
func (d *Null) Close() error {
	d.closeOnce.Do(func() {
		close(d.queue)
		if d.ready {
			<-d.drained
			d.ready = false
		}
	})
	return nil
}
