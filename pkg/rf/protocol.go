package rf

import "time"

// Pair is a high period followed by a low period, in pulse units.
type Pair struct {
	High int
	Low  int
}

// Protocol describes an RCSwitch style line coding.
type Protocol struct {
	Sync Pair
	Zero Pair
	One  Pair
	// RepeatTransmit is the number of times a frame is repeated per code.
	RepeatTransmit int
}

// Protocol1 is RCSwitch protocol 1, understood by most 433MHz outlets.
var Protocol1 = Protocol{
	Sync:           Pair{High: 1, Low: 31},
	Zero:           Pair{High: 1, Low: 3},
	One:            Pair{High: 3, Low: 1},
	RepeatTransmit: 10,
}

// Pulse is a period the line is held at a level.
type Pulse struct {
	High     bool
	Duration time.Duration
}

// Encode renders a single frame: bitLength bits of code, most significant
// first, followed by the sync pair.
func (p Protocol) Encode(code Code, bitLength int, pulse time.Duration) []Pulse {
	frame := make([]Pulse, 0, 2*bitLength+2)
	for i := bitLength - 1; i >= 0; i-- {
		pair := p.Zero
		if code&(1<<uint(i)) != 0 {
			pair = p.One
		}
		frame = pair.appendTo(frame, pulse)
	}
	return p.Sync.appendTo(frame, pulse)
}

func (p Pair) appendTo(frame []Pulse, pulse time.Duration) []Pulse {
	return append(frame,
		Pulse{High: true, Duration: time.Duration(p.High) * pulse},
		Pulse{High: false, Duration: time.Duration(p.Low) * pulse})
}
