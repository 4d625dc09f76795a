// ABOUTME: High-level playback backend API
// ABOUTME: Opens a double-buffered PCM pipeline from a mixer to an output driver
// Package pingpong provides a double-buffered PCM playback backend.
//
// A Player bridges a software mixer producing interleaved signed 16-bit
// samples to a fixed-latency output driver that consumes two alternating
// buffers. The backend owns the producer thread and the wait/complete
// handshake; the caller supplies the mixer.
//
// Example:
//
//	player, err := pingpong.Open(pingpong.Config{
//	    FramesPerBuffer: 1024,
//	}, mixer)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer player.Close()
//
// The supported format is fixed: 44.1kHz stereo signed 16-bit. Requests for
// any other format fail with ErrUnsupportedFormat.
package pingpong
