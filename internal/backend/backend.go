// ABOUTME: Double-buffered mixing scheduler and shared playback state
// ABOUTME: Owns the worker goroutine that alternates two buffers between mixer and driver
package backend

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/pingpong-audio/pingpong-go/internal/driver"
	"github.com/pingpong-audio/pingpong-go/internal/pcm"
)

// Mixer is the sample producer the scheduler pulls from. MixSigned16 fills
// dst with frames interleaved samples per channel; it is a synchronous,
// bounded computation and is never called from the completion context.
type Mixer interface {
	MixSigned16(dst []int16, frames int)
}

// Sink receives a copy of every submitted buffer. Feed must not block the
// producer; implementations drop rather than stall.
type Sink interface {
	Feed(samples []int16)
}

// Config holds backend configuration.
type Config struct {
	// SampleRate and Channels must match the one supported combination
	// (pcm.SampleRate, pcm.Channels).
	SampleRate int
	Channels   int

	// FramesPerBuffer is the frame count of each half of the double
	// buffer.
	FramesPerBuffer int

	// Flags is passed through from the owning engine and retained
	// untouched; the scheduler assigns it no meaning.
	Flags uint32

	// Priority configures the worker priority hint; zero values take
	// defaults.
	Priority PriorityConfig

	// Monitor, if non-nil, receives a copy of every submitted buffer.
	Monitor Sink
}

// Backend is the shared playback state: the buffer pair, the driver, the
// wake signal and the worker lifecycle. Exactly one worker goroutine exists
// per Backend; it is joined exactly once by Close.
type Backend struct {
	id    string
	cfg   Config
	mixer Mixer
	drv   driver.Driver
	bufs  *pcm.BufferPair
	prio  int

	// wake is a binary event: the completion handler releases exactly one
	// waiter with a non-blocking send, which is safe from a restricted
	// callback context.
	wake     chan struct{}
	shutdown atomic.Bool
	done     chan struct{}

	closeOnce sync.Once
	closeErr  error
}

// Open validates the format, allocates the buffer pair, configures the
// driver and spawns the worker. Initialization is all-or-nothing: on any
// error no goroutine is running and no state is retained.
func Open(cfg Config, mixer Mixer, drv driver.Driver) (*Backend, error) {
	if mixer == nil {
		return nil, fmt.Errorf("nil mixer")
	}
	if drv == nil {
		return nil, fmt.Errorf("nil driver")
	}

	f := pcm.Format{SampleRate: cfg.SampleRate, Channels: cfg.Channels}
	if !f.Supported() {
		return nil, driver.ErrUnsupportedFormat
	}

	bufs, err := pcm.NewBufferPair(cfg.FramesPerBuffer, cfg.Channels)
	if err != nil {
		return nil, fmt.Errorf("allocate buffer pair: %w", err)
	}

	if err := drv.Configure(cfg.SampleRate, cfg.Channels); err != nil {
		return nil, fmt.Errorf("configure playback channel: %w", err)
	}

	b := &Backend{
		id:    uuid.New().String(),
		cfg:   cfg,
		mixer: mixer,
		drv:   drv,
		bufs:  bufs,
		prio:  cfg.Priority.withDefaults().Derive(),
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
	}

	drv.RegisterCompletion(b.onBufferDone)

	go b.run()

	log.Printf("Playback backend %s started: %dHz, %d channels, %d frames/buffer, priority %#x",
		b.id, cfg.SampleRate, cfg.Channels, cfg.FramesPerBuffer, b.prio)

	return b, nil
}

// onBufferDone is the driver completion handler. It runs on the driver's
// completion context, so it only checks the shutdown latch and releases one
// waiter. The check is an optimization; the loop-top check in run is the
// authoritative stop condition.
func (b *Backend) onBufferDone() {
	if b.shutdown.Load() {
		return
	}
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// run is the worker loop: fill the free half, submit it, toggle, then
// suspend until a buffer finishes playing. Strict alternation starting at 0
// means the producer never writes into a buffer that is still in flight.
func (b *Backend) run() {
	defer close(b.done)

	frames := b.bufs.Frames()
	bufID := 0

	for !b.shutdown.Load() {
		wb := b.bufs.Desc(bufID)

		b.mixer.MixSigned16(wb.Data, frames)
		wb.NSamples = frames

		if b.cfg.Monitor != nil {
			b.cfg.Monitor.Feed(wb.Data)
		}

		b.drv.Flush(wb)
		b.drv.Submit(wb)

		bufID ^= 1

		<-b.wake
	}
}

// Close requests shutdown, wakes the worker, and blocks without timeout
// until it has exited, then releases the driver. Safe to call more than
// once; teardown itself cannot fail, the returned error is the driver's.
func (b *Backend) Close() error {
	b.closeOnce.Do(func() {
		b.shutdown.Store(true)
		select {
		case b.wake <- struct{}{}:
		default:
			// A completion signal is already pending; the worker will
			// wake from it and observe the latch.
		}

		<-b.done
		b.closeErr = b.drv.Close()

		log.Printf("Playback backend %s stopped", b.id)
	})
	return b.closeErr
}

// ID returns the backend instance identifier used in log correlation.
func (b *Backend) ID() string {
	return b.id
}

// Flags returns the engine feature flags the backend was opened with.
func (b *Backend) Flags() uint32 {
	return b.cfg.Flags
}

// FramesPerBuffer returns the frame count of each buffer half.
func (b *Backend) FramesPerBuffer() int {
	return b.bufs.Frames()
}

// WorkerPriority returns the derived priority hint for the worker.
func (b *Backend) WorkerPriority() int {
	return b.prio
}
