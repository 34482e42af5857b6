package n64

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gcbridge/gcbridge/gcpad"
)

// wired returns a connected port with centered sticks and nothing pressed.
func wired() gcpad.PortState {
	return gcpad.PortState{
		Connection: gcpad.Wired,
		StickX:     128,
		StickY:     128,
		SubstickX:  128,
		SubstickY:  128,
	}
}

func TestMapDisconnected(t *testing.T) {
	p := wired()
	p.Connection = gcpad.Disconnected
	p.A = true
	p.TriggerLeft = 255

	assert.Equal(t, Mapped{}, Map(p))
}

func TestMapDigitalButtons(t *testing.T) {
	tests := []struct {
		name  string
		press func(p *gcpad.PortState)
		want  Buttons
	}{
		{"a", func(p *gcpad.PortState) { p.A = true }, A},
		{"b", func(p *gcpad.PortState) { p.B = true }, B},
		{"start", func(p *gcpad.PortState) { p.Start = true }, Start},
		{"dpad-up", func(p *gcpad.PortState) { p.DPadUp = true }, DPadUp},
		{"dpad-down", func(p *gcpad.PortState) { p.DPadDown = true }, DPadDown},
		{"dpad-left", func(p *gcpad.PortState) { p.DPadLeft = true }, DPadLeft},
		{"dpad-right", func(p *gcpad.PortState) { p.DPadRight = true }, DPadRight},
		// The GC L button provides N64 Z and the GC Z button N64 L.
		{"l-to-z", func(p *gcpad.PortState) { p.L = true }, Z},
		{"z-to-l", func(p *gcpad.PortState) { p.Z = true }, L},
		{"r", func(p *gcpad.PortState) { p.R = true }, R},
		// X and Y double as C-right and C-left.
		{"x-to-c-right", func(p *gcpad.PortState) { p.X = true }, CRight},
		{"y-to-c-left", func(p *gcpad.PortState) { p.Y = true }, CLeft},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p := wired()
			test.press(&p)
			assert.Equal(t, test.want, Map(p).Buttons)
		})
	}
}

func TestMapTriggerThreshold(t *testing.T) {
	p := wired()
	p.TriggerLeft = 148
	assert.Zero(t, Map(p).Buttons, "148 is not above the threshold")

	p.TriggerLeft = 149
	assert.Equal(t, Z, Map(p).Buttons)

	p = wired()
	p.TriggerRight = 148
	assert.Zero(t, Map(p).Buttons)
	p.TriggerRight = 149
	assert.Equal(t, R, Map(p).Buttons)
}

func TestMapSubstickBands(t *testing.T) {
	tests := []struct {
		value uint8
		horiz Buttons
		vert  Buttons
	}{
		{87, CLeft, CDown},
		{88, 0, 0},
		{128, 0, 0},
		{168, 0, 0},
		{169, CRight, CUp},
	}
	for _, test := range tests {
		p := wired()
		p.SubstickX = test.value
		assert.Equal(t, test.horiz, Map(p).Buttons, "substickX=%d", test.value)

		p = wired()
		p.SubstickY = test.value
		assert.Equal(t, test.vert, Map(p).Buttons, "substickY=%d", test.value)
	}
}

func TestMapDeadzoneRadial(t *testing.T) {
	tests := []struct {
		x, y         int8
		wantX, wantY int8
	}{
		{0, 0, 0, 0},
		{30, 20, 0, 0},       // 900+400 = 1300, inside
		{40, 0, 40, 0},       // exactly 1600, boundary passes through
		{0, -40, 0, -40},
		{-28, -28, 0, 0},     // 784+784 = 1568, inside
		{39, 0, 0, 0},        // 1521, inside even though |x| almost 40
		{-128, 0, -128, 0},
		{100, 100, 100, 100},
	}
	for _, test := range tests {
		p := wired()
		p.StickX = uint8(int16(test.x) + 128)
		p.StickY = uint8(int16(test.y) + 128)
		m := Map(p)
		assert.Equal(t, test.wantX, m.StickX, "x=%d y=%d", test.x, test.y)
		assert.Equal(t, test.wantY, m.StickY, "x=%d y=%d", test.x, test.y)
	}
}

func TestMapEndToEndScenario(t *testing.T) {
	// Port with A held, centered stick and a pulled left trigger: A bit set,
	// trigger promotes N64 Z, axes dead-centered to zero.
	p := wired()
	p.A = true
	p.TriggerLeft = 200

	m := Map(p)
	assert.Equal(t, A|Z, m.Buttons)
	assert.Zero(t, m.StickX)
	assert.Zero(t, m.StickY)
}

func TestMappedValuePacking(t *testing.T) {
	m := Mapped{Buttons: A | Start, StickX: -3, StickY: 127}
	v := m.Value()

	assert.Equal(t, uint32(A|Start), v&0xffff)
	assert.Equal(t, int8(-3), int8(uint8(v>>16)))
	assert.Equal(t, int8(127), int8(uint8(v>>24)))
}
