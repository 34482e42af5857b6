package gcpad

// Layout of one 9-byte port block, dictated by the adapter hardware:
//
//	0    connection/type nibble in the high 4 bits (1 wired, 2 wireless)
//	1    buttons: A, B, X, Y, dpad-left, dpad-right, dpad-down, dpad-up (LSB first)
//	2    buttons: start, Z, R, L (LSB first)
//	3,4  main stick X, Y (center 128)
//	5,6  C-stick X, Y (center 128)
//	7,8  left, right analog trigger (0 unpressed)
//
// Blocks start at offset 1; byte 0 is the message type (0x21 for port status).
const (
	portBlockStart = 1
	portBlockSize  = 9
)

// Decode parses a raw adapter report. It is total: every byte pattern decodes
// to a defined InputState. Unknown connection nibbles are treated as
// disconnected ports, with the remaining bytes decoded as usual.
func Decode(raw RawReport) InputState {
	var state InputState
	for i := range state.Ports {
		b := raw[portBlockStart+portBlockSize*i:]
		p := &state.Ports[i]

		switch b[0] >> 4 {
		case 1:
			p.Connection = Wired
		case 2:
			p.Connection = Wireless
		default:
			p.Connection = Disconnected
		}

		p.A = b[1]&0x01 != 0
		p.B = b[1]&0x02 != 0
		p.X = b[1]&0x04 != 0
		p.Y = b[1]&0x08 != 0
		p.DPadLeft = b[1]&0x10 != 0
		p.DPadRight = b[1]&0x20 != 0
		p.DPadDown = b[1]&0x40 != 0
		p.DPadUp = b[1]&0x80 != 0

		p.Start = b[2]&0x01 != 0
		p.Z = b[2]&0x02 != 0
		p.R = b[2]&0x04 != 0
		p.L = b[2]&0x08 != 0

		p.StickX = b[3]
		p.StickY = b[4]
		p.SubstickX = b[5]
		p.SubstickY = b[6]
		p.TriggerLeft = b[7]
		p.TriggerRight = b[8]
	}
	return state
}
