// Package openrgb is a minimal client for the OpenRGB SDK server
// (https://openrgb.org/), covering exactly what a single-device color
// pusher needs: enumerate controllers, find the motherboard, update
// its LEDs. Device discovery, permissions and per-vendor protocol
// handling all live in the OpenRGB server.
package openrgb

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/SymenMulders/cputemp2rgb/pkg/config"
)

// client implements the Controller interface over a TCP connection
// to the OpenRGB SDK server
type client struct {
	cfg    *config.Config
	logger *slog.Logger

	mu          sync.Mutex
	conn        net.Conn
	deviceIndex uint32
	ledCount    int
	deviceName  string
}

// NewController creates a new OpenRGB controller client with the
// given configuration
func NewController(cfg *config.Config, logger *slog.Logger) Controller {
	return &client{
		cfg:    cfg,
		logger: logger,
	}
}

// Connect dials the SDK server, registers the client name and
// locates the first motherboard-type controller.
func (c *client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	addr := c.cfg.OpenRGBAddress()
	c.logger.Info("Connecting to OpenRGB SDK server", "address", addr)

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to OpenRGB server at %s: %w", addr, err)
	}
	c.conn = conn

	// Client name is informational; it shows up in the server UI.
	name := append([]byte(c.cfg.ServiceName), 0)
	if err := writePacket(c.conn, 0, cmdSetClientName, name); err != nil {
		c.closeLocked()
		return err
	}

	if err := c.findMotherboard(); err != nil {
		c.closeLocked()
		return err
	}

	// Put the device in its custom/direct mode so LED updates take
	// effect immediately.
	if err := writePacket(c.conn, c.deviceIndex, cmdSetCustomMode, nil); err != nil {
		c.closeLocked()
		return err
	}

	c.logger.Info("Connected to OpenRGB device",
		"device", c.deviceName,
		"device_index", c.deviceIndex,
		"led_count", c.ledCount)

	return nil
}

// findMotherboard enumerates controllers and records the first one
// of motherboard type.
func (c *client) findMotherboard() error {
	if err := writePacket(c.conn, 0, cmdRequestControllerCount, nil); err != nil {
		return err
	}
	h, payload, err := readPacket(c.conn)
	if err != nil {
		return err
	}
	if h.PacketID != cmdRequestControllerCount || len(payload) < 4 {
		return fmt.Errorf("unexpected controller count response (packet %d, %d bytes)", h.PacketID, len(payload))
	}
	count := binary.LittleEndian.Uint32(payload)

	if count == 0 {
		return fmt.Errorf("OpenRGB server reports no controllers")
	}

	for i := uint32(0); i < count; i++ {
		if err := writePacket(c.conn, i, cmdRequestControllerData, nil); err != nil {
			return err
		}
		_, data, err := readPacket(c.conn)
		if err != nil {
			return err
		}
		info, err := parseControllerData(data)
		if err != nil {
			return fmt.Errorf("controller %d: %w", i, err)
		}
		c.logger.Debug("Found controller",
			"index", i,
			"name", info.Name,
			"type", info.Type,
			"led_count", info.LEDCount)

		if info.Type == deviceTypeMotherboard {
			c.deviceIndex = i
			c.ledCount = info.LEDCount
			c.deviceName = info.Name
			return nil
		}
	}

	return fmt.Errorf("no motherboard-type controller among %d controllers", count)
}

// Clear turns the device's lighting off (all LEDs black)
func (c *client) Clear() error {
	return c.SetColor(0, 0, 0)
}

// SetColor sets every LED on the device to one RGB color
func (c *client) SetColor(red, green, blue uint8) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("not connected to OpenRGB server")
	}

	payload := updateLEDsPayload(c.ledCount, red, green, blue)
	if err := writePacket(c.conn, c.deviceIndex, cmdUpdateLEDs, payload); err != nil {
		return fmt.Errorf("failed to update LEDs on %s: %w", c.deviceName, err)
	}

	c.logger.Debug("Updated device color",
		"device", c.deviceName,
		"red", red,
		"green", green,
		"blue", blue)

	return nil
}

// IsConnected returns whether the client is currently connected
func (c *client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Close closes the connection to the SDK server
func (c *client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *client) closeLocked() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}
