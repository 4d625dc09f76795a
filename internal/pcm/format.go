// ABOUTME: PCM format definitions and sample geometry
// ABOUTME: The backend plays exactly one fixed rate and channel layout
package pcm

const (
	// SampleRate is the only playback rate the backend supports.
	SampleRate = 44100

	// Channels is the only channel layout the backend supports (stereo).
	Channels = 2

	// SampleBytes is the width of one signed 16-bit sample.
	SampleBytes = 2
)

// Format describes a requested playback format.
type Format struct {
	SampleRate int
	Channels   int
}

// Supported reports whether f is the one fixed rate/layout combination.
// Anything else is rejected up front rather than negotiated.
func (f Format) Supported() bool {
	return f.SampleRate == SampleRate && f.Channels == Channels
}
