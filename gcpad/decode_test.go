package gcpad

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// portBlock writes a port block into a raw report under test.
func portBlock(raw *RawReport, port int, b [portBlockSize]byte) {
	copy(raw[portBlockStart+portBlockSize*port:], b[:])
}

func TestDecodeZeroReport(t *testing.T) {
	state := Decode(RawReport{})

	require.Len(t, state.Ports, NumPorts)
	for i, p := range state.Ports {
		assert.Equal(t, Disconnected, p.Connection, "port %d", i)
		assert.False(t, state.Connected(i))
	}
}

func TestDecodeAllOnesReport(t *testing.T) {
	var raw RawReport
	for i := range raw {
		raw[i] = 0xff
	}
	state := Decode(raw)

	// Connection nibble 0xf is not a known type; the port decodes as
	// disconnected but every analog field stays populated.
	for i, p := range state.Ports {
		assert.Equal(t, Disconnected, p.Connection, "port %d", i)
		assert.Equal(t, uint8(0xff), p.StickX, "port %d", i)
		assert.Equal(t, uint8(0xff), p.TriggerRight, "port %d", i)
		assert.True(t, p.A, "port %d", i)
	}
}

func TestDecodeConnectionNibble(t *testing.T) {
	tests := []struct {
		status byte
		want   Connection
	}{
		{0x00, Disconnected},
		{0x10, Wired},
		{0x14, Wired},
		{0x20, Wireless},
		{0x04, Disconnected},
		{0x30, Disconnected},
	}
	for _, test := range tests {
		var raw RawReport
		portBlock(&raw, 0, [portBlockSize]byte{test.status})
		state := Decode(raw)
		assert.Equal(t, test.want, state.Port(0).Connection, "status %#02x", test.status)
	}
}

func TestDecodeButtons(t *testing.T) {
	tests := []struct {
		name    string
		b1, b2  byte
		pressed func(p PortState) bool
	}{
		{"a", 0x01, 0, func(p PortState) bool { return p.A }},
		{"b", 0x02, 0, func(p PortState) bool { return p.B }},
		{"x", 0x04, 0, func(p PortState) bool { return p.X }},
		{"y", 0x08, 0, func(p PortState) bool { return p.Y }},
		{"dpad-left", 0x10, 0, func(p PortState) bool { return p.DPadLeft }},
		{"dpad-right", 0x20, 0, func(p PortState) bool { return p.DPadRight }},
		{"dpad-down", 0x40, 0, func(p PortState) bool { return p.DPadDown }},
		{"dpad-up", 0x80, 0, func(p PortState) bool { return p.DPadUp }},
		{"start", 0, 0x01, func(p PortState) bool { return p.Start }},
		{"z", 0, 0x02, func(p PortState) bool { return p.Z }},
		{"r", 0, 0x04, func(p PortState) bool { return p.R }},
		{"l", 0, 0x08, func(p PortState) bool { return p.L }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var raw RawReport
			portBlock(&raw, 2, [portBlockSize]byte{0x10, test.b1, test.b2})
			state := Decode(raw)

			assert.True(t, test.pressed(state.Port(2)))

			// No other port picks up the press.
			for _, other := range []int{0, 1, 3} {
				assert.False(t, test.pressed(state.Port(other)), "port %d", other)
			}
		})
	}
}

func TestDecodeAnalog(t *testing.T) {
	var raw RawReport
	portBlock(&raw, 1, [portBlockSize]byte{0x10, 0, 0, 12, 34, 56, 78, 90, 123})
	p := Decode(raw).Port(1)

	assert.Equal(t, uint8(12), p.StickX)
	assert.Equal(t, uint8(34), p.StickY)
	assert.Equal(t, uint8(56), p.SubstickX)
	assert.Equal(t, uint8(78), p.SubstickY)
	assert.Equal(t, uint8(90), p.TriggerLeft)
	assert.Equal(t, uint8(123), p.TriggerRight)
}

func TestDecodePortZeroScenario(t *testing.T) {
	// Wired controller on port 0: A held, centered stick, left trigger pulled.
	var raw RawReport
	raw[0] = 0x21
	portBlock(&raw, 0, [portBlockSize]byte{0x10, 0x01, 0x00, 128, 128, 128, 128, 200, 0})
	state := Decode(raw)

	p := state.Port(0)
	require.True(t, p.Connected())
	assert.Equal(t, Wired, p.Connection)
	assert.True(t, p.A)
	assert.False(t, p.B)
	assert.Equal(t, uint8(128), p.StickX)
	assert.Equal(t, uint8(128), p.StickY)
	assert.Equal(t, uint8(200), p.TriggerLeft)
}

func TestDecodeDisconnectedIgnoresNothing(t *testing.T) {
	// A disconnected port still decodes its button/analog bytes; consumers are
	// expected to consult Connection before trusting them.
	var raw RawReport
	portBlock(&raw, 3, [portBlockSize]byte{0x00, 0xff, 0x0f, 1, 2, 3, 4, 5, 6})
	p := Decode(raw).Port(3)

	assert.False(t, p.Connected())
	assert.True(t, p.A)
	assert.Equal(t, uint8(1), p.StickX)
}
