package openrgb

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blobWriter builds controller data blobs the way the SDK server
// serializes them (protocol version 0).
type blobWriter struct {
	buf bytes.Buffer
}

func (w *blobWriter) u16(v uint16) { binary.Write(&w.buf, binary.LittleEndian, v) }
func (w *blobWriter) u32(v uint32) { binary.Write(&w.buf, binary.LittleEndian, v) }

func (w *blobWriter) str(s string) {
	w.u16(uint16(len(s) + 1))
	w.buf.WriteString(s)
	w.buf.WriteByte(0)
}

func buildControllerBlob(devType int32, name string, ledCount int) []byte {
	w := &blobWriter{}
	w.u32(0) // data size placeholder, framing already carries it
	w.u32(uint32(devType))
	w.str(name)
	w.str("test device")
	w.str("1.0")
	w.str("serial-1")
	w.str("/dev/test")

	// One mode with two mode colors.
	w.u16(1)
	w.u32(0) // active mode
	w.str("Direct")
	w.u32(0)          // value
	w.u32(0x20)       // flags
	w.u32(0)          // speed min
	w.u32(0)          // speed max
	w.u32(0)          // colors min
	w.u32(0)          // colors max
	w.u32(0)          // speed
	w.u32(0)          // direction
	w.u32(0)          // color mode
	w.u16(2)          // mode color count
	w.u32(0x00FF0000) // mode colors
	w.u32(0x0000FF00)

	// One zone with a 4-byte matrix payload.
	w.u16(1)
	w.str("Mainboard")
	w.u32(0) // zone type
	w.u32(0) // leds min
	w.u32(uint32(ledCount))
	w.u32(uint32(ledCount))
	w.u16(4)
	w.u32(0) // matrix bytes

	// LEDs.
	w.u16(uint16(ledCount))

	return w.buf.Bytes()
}

func TestParseControllerData(t *testing.T) {
	blob := buildControllerBlob(deviceTypeMotherboard, "ASUS Aura", 12)

	info, err := parseControllerData(blob)
	require.NoError(t, err)
	assert.Equal(t, deviceTypeMotherboard, info.Type)
	assert.Equal(t, "ASUS Aura", info.Name)
	assert.Equal(t, 12, info.LEDCount)
}

func TestParseControllerData_Truncated(t *testing.T) {
	blob := buildControllerBlob(deviceTypeMotherboard, "ASUS Aura", 12)

	for _, n := range []int{0, 4, 10, len(blob) / 2} {
		_, err := parseControllerData(blob[:n])
		assert.Error(t, err, "expected error for %d-byte blob", n)
	}
}

func TestWriteAndReadPacket(t *testing.T) {
	var wire bytes.Buffer
	payload := []byte{1, 2, 3, 4, 5}

	require.NoError(t, writePacket(&wire, 3, cmdUpdateLEDs, payload))

	h, got, err := readPacket(&wire)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), h.DeviceIndex)
	assert.Equal(t, cmdUpdateLEDs, h.PacketID)
	assert.Equal(t, payload, got)
}

func TestReadPacket_BadMagic(t *testing.T) {
	wire := bytes.NewBuffer(append([]byte("NOPE"), make([]byte, 12)...))

	_, _, err := readPacket(wire)
	assert.Error(t, err)
}

func TestUpdateLEDsPayload(t *testing.T) {
	payload := updateLEDsPayload(3, 255, 128, 0)

	require.Len(t, payload, 4+2+4*3)
	assert.Equal(t, uint32(len(payload)), binary.LittleEndian.Uint32(payload[0:4]))
	assert.Equal(t, uint16(3), binary.LittleEndian.Uint16(payload[4:6]))
	for i := 0; i < 3; i++ {
		off := 6 + 4*i
		assert.Equal(t, []byte{255, 128, 0, 0}, payload[off:off+4])
	}
}
