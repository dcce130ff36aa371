package openrgb

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// OpenRGB SDK protocol framing. Every packet is a 16-byte
// little-endian header (magic, device index, packet id, payload
// size) followed by the payload. This client speaks protocol
// version 0: it never negotiates a version, which the SDK server
// takes to mean all controller data is serialized in the original
// layout.

const headerMagic = "ORGB"

// Packet IDs used by this client.
const (
	cmdRequestControllerCount uint32 = 0
	cmdRequestControllerData  uint32 = 1
	cmdSetClientName          uint32 = 50
	cmdUpdateLEDs             uint32 = 1050
	cmdSetCustomMode          uint32 = 1100
)

// deviceTypeMotherboard is the OpenRGB device type enum value for
// motherboard lighting.
const deviceTypeMotherboard int32 = 0

type header struct {
	DeviceIndex uint32
	PacketID    uint32
	Size        uint32
}

// writePacket frames and sends a single SDK packet.
func writePacket(w io.Writer, deviceIndex, packetID uint32, payload []byte) error {
	buf := bytes.NewBuffer(make([]byte, 0, 16+len(payload)))
	buf.WriteString(headerMagic)
	binary.Write(buf, binary.LittleEndian, deviceIndex)
	binary.Write(buf, binary.LittleEndian, packetID)
	binary.Write(buf, binary.LittleEndian, uint32(len(payload)))
	buf.Write(payload)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write packet %d: %w", packetID, err)
	}
	return nil
}

// readPacket reads one SDK packet header and its payload.
func readPacket(r io.Reader) (header, []byte, error) {
	raw := make([]byte, 16)
	if _, err := io.ReadFull(r, raw); err != nil {
		return header{}, nil, fmt.Errorf("failed to read packet header: %w", err)
	}
	if string(raw[:4]) != headerMagic {
		return header{}, nil, fmt.Errorf("bad packet magic %q", raw[:4])
	}

	h := header{
		DeviceIndex: binary.LittleEndian.Uint32(raw[4:8]),
		PacketID:    binary.LittleEndian.Uint32(raw[8:12]),
		Size:        binary.LittleEndian.Uint32(raw[12:16]),
	}

	payload := make([]byte, h.Size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return header{}, nil, fmt.Errorf("failed to read packet payload: %w", err)
	}
	return h, payload, nil
}

// updateLEDsPayload builds the UpdateLEDs payload: total size, LED
// count, then one RGBA color per LED (alpha unused).
func updateLEDsPayload(ledCount int, red, green, blue uint8) []byte {
	size := 4 + 2 + 4*ledCount
	buf := bytes.NewBuffer(make([]byte, 0, size))
	binary.Write(buf, binary.LittleEndian, uint32(size))
	binary.Write(buf, binary.LittleEndian, uint16(ledCount))
	for i := 0; i < ledCount; i++ {
		buf.Write([]byte{red, green, blue, 0})
	}
	return buf.Bytes()
}

// controllerInfo is the slice of controller data this client cares
// about; the rest of the blob is parsed only to keep the cursor
// aligned.
type controllerInfo struct {
	Type     int32
	Name     string
	LEDCount int
}

// parseControllerData decodes a protocol version 0 controller data
// blob.
func parseControllerData(data []byte) (controllerInfo, error) {
	r := &blobReader{data: data}

	r.u32() // data size, already framed
	devType := int32(r.u32())
	name := r.str()
	r.str() // description
	r.str() // firmware version
	r.str() // serial
	r.str() // location

	numModes := int(r.u16())
	r.u32() // active mode
	for i := 0; i < numModes; i++ {
		r.str() // mode name
		r.u32() // value
		r.u32() // flags
		r.u32() // speed min
		r.u32() // speed max
		r.u32() // colors min
		r.u32() // colors max
		r.u32() // speed
		r.u32() // direction
		r.u32() // color mode
		n := int(r.u16())
		r.skip(4 * n) // mode colors
	}

	numZones := int(r.u16())
	for i := 0; i < numZones; i++ {
		r.str()           // zone name
		r.u32()           // zone type
		r.u32()           // leds min
		r.u32()           // leds max
		r.u32()           // leds count
		n := int(r.u16()) // matrix length in bytes
		r.skip(n)
	}

	ledCount := int(r.u16())

	if r.err != nil {
		return controllerInfo{}, fmt.Errorf("malformed controller data: %w", r.err)
	}

	return controllerInfo{
		Type:     devType,
		Name:     name,
		LEDCount: ledCount,
	}, nil
}

// blobReader walks a controller data blob, latching the first error.
type blobReader struct {
	data []byte
	pos  int
	err  error
}

func (r *blobReader) skip(n int) {
	if r.err != nil {
		return
	}
	if r.pos+n > len(r.data) {
		r.err = io.ErrUnexpectedEOF
		return
	}
	r.pos += n
}

func (r *blobReader) u16() uint16 {
	if r.err != nil {
		return 0
	}
	if r.pos+2 > len(r.data) {
		r.err = io.ErrUnexpectedEOF
		return 0
	}
	v := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v
}

func (r *blobReader) u32() uint32 {
	if r.err != nil {
		return 0
	}
	if r.pos+4 > len(r.data) {
		r.err = io.ErrUnexpectedEOF
		return 0
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v
}

// str reads a length-prefixed, null-terminated SDK string.
func (r *blobReader) str() string {
	n := int(r.u16())
	if r.err != nil {
		return ""
	}
	if r.pos+n > len(r.data) {
		r.err = io.ErrUnexpectedEOF
		return ""
	}
	s := r.data[r.pos : r.pos+n]
	r.pos += n
	return string(bytes.TrimRight(s, "\x00"))
}
