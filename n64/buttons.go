// Package n64 translates decoded GameCube controller state into the Nintendo
// 64 controller's button mask and stick axes.
package n64

// Buttons is the N64 button mask. Bit positions match the low 16 bits of the
// host emulator's BUTTONS word.
type Buttons uint16

const (
	DPadRight Buttons = 1 << iota
	DPadLeft
	DPadDown
	DPadUp
	Start
	Z
	B
	A
	CRight
	CLeft
	CDown
	CUp
	R
	L
)

// Mapped is the translated state of one port: the digital button mask plus
// the main stick as two signed axes. It is recomputed on every query and
// never cached.
type Mapped struct {
	Buttons Buttons
	StickX  int8
	StickY  int8
}

// Value packs the mapped state into the host's 32-bit BUTTONS word: button
// bits 0-15, X axis in bits 16-23, Y axis in bits 24-31.
func (m Mapped) Value() uint32 {
	return uint32(m.Buttons) | uint32(uint8(m.StickX))<<16 | uint32(uint8(m.StickY))<<24
}
