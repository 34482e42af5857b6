package n64

import "github.com/gcbridge/gcbridge/gcpad"

// Calibration values inherited from the adapter. These encode controller
// behavior, not implementation detail; do not re-derive them.
const (
	// deadzoneRadius is the radius of the circular main-stick deadzone.
	deadzoneRadius = 40
	// triggerThreshold is the analog trigger value above which the
	// corresponding digital shoulder bit is set.
	triggerThreshold = 148
	// substickLow and substickHigh bound the C-stick dead band: values below
	// substickLow press the low direction, values above substickHigh press the
	// high direction, values in between press neither.
	substickLow  = 88
	substickHigh = 168
)

// Map translates one port's state into N64 terms. A disconnected port maps to
// the zero value.
//
// The GC pad has no C buttons, so X and Y double as C-right and C-left, and
// the single Z button stands in for N64 L while the GC L trigger provides
// N64 Z.
func Map(s gcpad.PortState) Mapped {
	if !s.Connected() {
		return Mapped{}
	}

	cLeft := s.Y || s.SubstickX < substickLow
	cRight := s.X || s.SubstickX > substickHigh
	cDown := s.SubstickY < substickLow
	cUp := s.SubstickY > substickHigh

	x := int32(int8(s.StickX - 0x80))
	y := int32(int8(s.StickY - 0x80))
	if x*x+y*y < deadzoneRadius*deadzoneRadius {
		x, y = 0, 0
	}

	var m Mapped
	if s.DPadRight {
		m.Buttons |= DPadRight
	}
	if s.DPadLeft {
		m.Buttons |= DPadLeft
	}
	if s.DPadDown {
		m.Buttons |= DPadDown
	}
	if s.DPadUp {
		m.Buttons |= DPadUp
	}
	if s.Start {
		m.Buttons |= Start
	}
	if s.L || s.TriggerLeft > triggerThreshold {
		m.Buttons |= Z
	}
	if s.B {
		m.Buttons |= B
	}
	if s.A {
		m.Buttons |= A
	}
	if cRight {
		m.Buttons |= CRight
	}
	if cLeft {
		m.Buttons |= CLeft
	}
	if cDown {
		m.Buttons |= CDown
	}
	if cUp {
		m.Buttons |= CUp
	}
	if s.R || s.TriggerRight > triggerThreshold {
		m.Buttons |= R
	}
	if s.Z {
		m.Buttons |= L
	}

	m.StickX = int8(x)
	m.StickY = int8(y)
	return m
}
