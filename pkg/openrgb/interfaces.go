package openrgb

import "context"

// Controller represents a lighting device controller interface for
// testing and abstraction
type Controller interface {
	// Connect establishes a connection to the SDK server and locates
	// the motherboard lighting device
	Connect(ctx context.Context) error

	// Clear turns the device's lighting off (all LEDs black)
	Clear() error

	// SetColor sets every LED on the device to one RGB color
	SetColor(red, green, blue uint8) error

	// IsConnected returns whether the client is currently connected
	IsConnected() bool

	// Close closes the connection to the SDK server
	Close() error
}
