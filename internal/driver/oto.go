// ABOUTME: Oto-backed playback driver
// ABOUTME: Emulates the two-slot hardware queue on top of an oto player pipe
package driver

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"

	"github.com/pingpong-audio/pingpong-go/internal/pcm"
)

type completionFn = func()

// Oto plays submitted buffers through an oto player. A capacity-2 channel
// stands in for the hardware submit queue; a consumer goroutine encodes each
// buffer and blocks on the player pipe, so completions pace the producer the
// same way a fixed-latency hardware queue would.
type Oto struct {
	otoCtx   *oto.Context
	player   *oto.Player
	pr       *io.PipeReader
	pw       *io.PipeWriter
	channels int

	complete atomic.Pointer[completionFn]
	queue    chan *pcm.WaveBuf
	drained  chan struct{}
	scratch  []byte

	ready     bool
	closeOnce sync.Once
	closeErr  error
}

// NewOto creates an unconfigured oto driver.
func NewOto() *Oto {
	return &Oto{
		queue:   make(chan *pcm.WaveBuf, 2),
		drained: make(chan struct{}),
	}
}

// Configure sets up the oto context for the fixed playback format and starts
// the queue consumer.
func (d *Oto) Configure(sampleRate, channels int) error {
	f := pcm.Format{SampleRate: sampleRate, Channels: channels}
	if !f.Supported() {
		return ErrUnsupportedFormat
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrHardwareInit, err)
	}

	<-readyChan

	d.otoCtx = ctx
	d.channels = channels

	// Persistent player fed from a pipe, so writes block until the device
	// side has consumed the data.
	d.pr, d.pw = io.Pipe()
	d.player = d.otoCtx.NewPlayer(d.pr)
	d.player.Play()

	d.ready = true
	go d.run()

	log.Printf("Audio output initialized: %dHz, %d channels", sampleRate, channels)

	return nil
}

// RegisterCompletion installs the completion callback. Must be called before
// the first Submit.
func (d *Oto) RegisterCompletion(fn func()) {
	d.complete.Store(&fn)
}

// Flush is a no-op: buffer memory is shared in-process with the queue
// consumer, and handing the descriptor across the submit channel already
// publishes the written range.
func (d *Oto) Flush(wb *pcm.WaveBuf) {}

// Submit enqueues a filled buffer for playback.
func (d *Oto) Submit(wb *pcm.WaveBuf) {
	wb.Status = pcm.StatusQueued
	d.queue <- wb
}

// run consumes the submit queue in order: encode, block on the player pipe,
// mark done, fire the completion callback.
func (d *Oto) run() {
	defer close(d.drained)

	for wb := range d.queue {
		wb.Status = pcm.StatusPlaying

		n := wb.NSamples * d.channels * pcm.SampleBytes
		if len(d.scratch) < n {
			d.scratch = make([]byte, n)
		}
		buf := d.scratch[:n]
		for i, s := range wb.Data[:wb.NSamples*d.channels] {
			binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
		}

		if _, err := d.pw.Write(buf); err != nil {
			// Pipe closed mid-teardown; drain remaining descriptors
			// without playing them.
			wb.Status = pcm.StatusDone
			continue
		}

		wb.Status = pcm.StatusDone
		if fn := d.complete.Load(); fn != nil {
			(*fn)()
		}
	}
}

// Close stops the consumer and releases the oto player. Safe to call more
// than once.
func (d *Oto) Close() error {
	d.closeOnce.Do(func() {
		close(d.queue)
		if !d.ready {
			return
		}

		<-d.drained

		if err := d.pw.Close(); err != nil {
			d.closeErr = err
		}
		if err := d.player.Close(); err != nil && d.closeErr == nil {
			d.closeErr = err
		}
		d.otoCtx.Suspend()
		d.ready = false
	})
	return d.closeErr
}
