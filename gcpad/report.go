// Package gcpad decodes the raw USB reports of the Nintendo GameCube
// controller adapter (057e:0337) into per-port controller state.
package gcpad

import (
	"encoding/json"
	"fmt"
)

// ReportSize is the fixed length of one interrupt transfer from the adapter:
// a message type byte followed by four 9-byte port blocks.
const ReportSize = 37

// NumPorts is the number of physical controller ports on the adapter.
const NumPorts = 4

// RawReport is the payload of a single transfer. It is owned by the device
// session for the duration of one read.
type RawReport [ReportSize]byte

// Connection classifies what is plugged into a port.
type Connection uint8

const (
	Disconnected Connection = iota
	Wired
	Wireless
)

func (c Connection) String() string {
	switch c {
	case Wired:
		return "wired"
	case Wireless:
		return "wireless"
	default:
		return "disconnected"
	}
}

func (c Connection) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Connection) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "wired":
		*c = Wired
	case "wireless":
		*c = Wireless
	case "disconnected":
		*c = Disconnected
	default:
		return fmt.Errorf("invalid connection: %q", s)
	}
	return nil
}

// PortState is the decoded state of a single adapter port. Analog fields are
// populated even when the port is disconnected; consumers must check
// Connection before trusting them.
type PortState struct {
	Connection Connection `json:"connection"`

	A     bool `json:"a"`
	B     bool `json:"b"`
	X     bool `json:"x"`
	Y     bool `json:"y"`
	Start bool `json:"start"`
	L     bool `json:"l"`
	R     bool `json:"r"`
	Z     bool `json:"z"`

	DPadUp    bool `json:"dpadUp"`
	DPadDown  bool `json:"dpadDown"`
	DPadLeft  bool `json:"dpadLeft"`
	DPadRight bool `json:"dpadRight"`

	StickX       uint8 `json:"stickX"`
	StickY       uint8 `json:"stickY"`
	SubstickX    uint8 `json:"substickX"`
	SubstickY    uint8 `json:"substickY"`
	TriggerLeft  uint8 `json:"triggerLeft"`
	TriggerRight uint8 `json:"triggerRight"`
}

// Connected reports whether a controller is plugged into the port.
func (p PortState) Connected() bool {
	return p.Connection != Disconnected
}

// InputState is the decoded state of all four adapter ports. It is replaced
// wholesale on every poll cycle, never mutated field by field.
type InputState struct {
	Ports [NumPorts]PortState `json:"ports"`
}

// Port returns the state of port i (0-3).
func (s InputState) Port(i int) PortState {
	return s.Ports[i]
}

// Connected reports whether port i holds a connected controller. Out-of-range
// ports report false.
func (s InputState) Connected(i int) bool {
	return i >= 0 && i < NumPorts && s.Ports[i].Connected()
}
