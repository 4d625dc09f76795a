// ABOUTME: Version constants for the playback backend
// ABOUTME: Reported in logs and by the monitor tap
package version

const (
	// Version is the backend version.
	Version = "0.1.0"

	// Product is the product name.
	Product = "PingPong Playback Backend"

	// Manufacturer identifies the project.
	Manufacturer = "PingPong Audio"
)
