// ABOUTME: Public Player wrapper around the internal backend
// ABOUTME: Wires driver selection, optional monitor tap and mDNS advertisement
package pingpong

import (
	"fmt"
	"log"

	"github.com/pingpong-audio/pingpong-go/internal/backend"
	"github.com/pingpong-audio/pingpong-go/internal/discovery"
	"github.com/pingpong-audio/pingpong-go/internal/driver"
	"github.com/pingpong-audio/pingpong-go/internal/monitor"
	"github.com/pingpong-audio/pingpong-go/internal/pcm"
	"github.com/pingpong-audio/pingpong-go/internal/version"
)

// Fixed playback format.
const (
	SampleRate = pcm.SampleRate
	Channels   = pcm.Channels
)

// Error kinds surfaced by Open. All are detected before the producer thread
// exists, so a failed Open leaves nothing running.
var (
	ErrUnsupportedFormat = driver.ErrUnsupportedFormat
	ErrHardwareInit      = driver.ErrHardwareInit
	ErrAllocation        = pcm.ErrAllocation
)

// Mixer is the sample producer pulled by the backend.
type Mixer = backend.Mixer

// Config holds player configuration.
type Config struct {
	// FramesPerBuffer is the frame count of each half of the double
	// buffer (default: 1024).
	FramesPerBuffer int

	// Driver selects the output: "oto" (default) plays through the system
	// audio device, "null" paces playback without hardware.
	Driver string

	// Flags is passed through from the owning engine untouched.
	Flags uint32

	// SampleRate and Channels may be set to request a format explicitly;
	// zero values take the fixed supported format. Anything else fails
	// with ErrUnsupportedFormat.
	SampleRate int
	Channels   int

	// MonitorAddr, if non-empty, starts a websocket PCM tap listening
	// there (e.g. ":8931").
	MonitorAddr string

	// MonitorName names the tap in logs and discovery (default: the
	// backend instance ID).
	MonitorName string

	// AdvertiseMonitor announces the tap via mDNS.
	AdvertiseMonitor bool
}

// Player is a running playback backend.
type Player struct {
	backend   *backend.Backend
	monitor   *monitor.Server
	discovery *discovery.Manager
}

// Open starts a playback backend pulling from mixer. Initialization is
// all-or-nothing: on error, no goroutine is left running and no resources
// are retained.
func Open(cfg Config, mixer Mixer) (*Player, error) {
	log.Printf("%s %s starting", version.Product, version.Version)

	if cfg.FramesPerBuffer == 0 {
		cfg.FramesPerBuffer = 1024
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = SampleRate
	}
	if cfg.Channels == 0 {
		cfg.Channels = Channels
	}

	var drv driver.Driver
	switch cfg.Driver {
	case "", "oto":
		drv = driver.NewOto()
	case "null":
		drv = driver.NewNull()
	default:
		return nil, fmt.Errorf("unknown driver %q", cfg.Driver)
	}

	p := &Player{}

	tapName := cfg.MonitorName
	if tapName == "" {
		tapName = "pingpong-tap"
	}

	if cfg.MonitorAddr != "" {
		p.monitor = monitor.New(monitor.Config{Addr: cfg.MonitorAddr, Name: tapName})
		if err := p.monitor.Start(); err != nil {
			return nil, fmt.Errorf("start monitor tap: %w", err)
		}
	}

	bcfg := backend.Config{
		SampleRate:      cfg.SampleRate,
		Channels:        cfg.Channels,
		FramesPerBuffer: cfg.FramesPerBuffer,
		Flags:           cfg.Flags,
	}
	if p.monitor != nil {
		bcfg.Monitor = p.monitor
	}

	b, err := backend.Open(bcfg, mixer, drv)
	if err != nil {
		if p.monitor != nil {
			p.monitor.Stop()
		}
		return nil, err
	}
	p.backend = b

	if cfg.AdvertiseMonitor && p.monitor != nil {
		p.discovery = discovery.NewManager(discovery.Config{
			ServiceName: tapName,
			Port:        p.monitor.Port(),
		})
		if err := p.discovery.Advertise(); err != nil {
			// Playback works without discovery; keep going.
			log.Printf("Failed to advertise monitor tap: %v", err)
		}
	}

	return p, nil
}

// ID returns the backend instance identifier.
func (p *Player) ID() string {
	return p.backend.ID()
}

// MonitorAddr returns the bound monitor tap address, or "" if no tap was
// configured.
func (p *Player) MonitorAddr() string {
	if p.monitor == nil {
		return ""
	}
	return p.monitor.Addr()
}

// Close stops the producer thread, the driver, and any monitor tap. It
// blocks until the producer has fully exited. Safe to call more than once.
func (p *Player) Close() error {
	err := p.backend.Close()

	if p.discovery != nil {
		p.discovery.Stop()
	}
	if p.monitor != nil {
		p.monitor.Stop()
	}

	return err
}
