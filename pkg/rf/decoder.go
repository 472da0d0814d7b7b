package rf

import "time"

// Decoder defaults.
const (
	DefaultSeparationLimit = 4300 * time.Microsecond
	DefaultTolerance       = 60
	DefaultMinBits         = 8
	maxBits                = 64
)

// Received is a code decoded from the air.
type Received struct {
	Code        Code
	BitLength   int
	PulseLength time.Duration
}

// Decoder decodes codes from the durations between line edges.
type Decoder struct {
	Protocol Protocol
	// SeparationLimit is the shortest gap treated as a sync.
	SeparationLimit time.Duration
	// Tolerance is the accepted deviation in percent of a pulse.
	Tolerance int
	MinBits   int

	timings []time.Duration
}

// NewDecoder creates a Decoder for protocol 1.
func NewDecoder() *Decoder {
	return &Decoder{
		Protocol:        Protocol1,
		SeparationLimit: DefaultSeparationLimit,
		Tolerance:       DefaultTolerance,
		MinBits:         DefaultMinBits,
	}
}

// Feed adds the duration between two consecutive edges. A code is returned
// when a sync gap terminates a valid frame.
func (d *Decoder) Feed(duration time.Duration) (Received, bool) {
	if duration <= d.SeparationLimit {
		if len(d.timings) >= 2*maxBits+1 {
			// noise, start over.
			d.timings = d.timings[:0]
		}
		d.timings = append(d.timings, duration)
		return Received{}, false
	}
	timings := d.timings
	d.timings = d.timings[:0]
	return d.decode(timings, duration)
}

// Reset discards buffered timings.
func (d *Decoder) Reset() {
	d.timings = d.timings[:0]
}

func (d *Decoder) decode(timings []time.Duration, gap time.Duration) (rcv Received, ok bool) {
	if d.Protocol.Sync.Low <= 0 {
		return
	}
	// the high period of the sync pair precedes the gap.
	if len(timings)%2 == 1 {
		timings = timings[:len(timings)-1]
	}
	bits := len(timings) / 2
	if bits < d.MinBits || bits < 1 || bits > maxBits {
		return
	}
	pulse := gap / time.Duration(d.Protocol.Sync.Low)
	tolerance := pulse * time.Duration(d.Tolerance) / 100
	var code uint64
	for i := 0; i < len(timings); i += 2 {
		code <<= 1
		high, low := timings[i], timings[i+1]
		switch {
		case d.Protocol.One.matches(high, low, pulse, tolerance):
			code |= 1
		case d.Protocol.Zero.matches(high, low, pulse, tolerance):
		default:
			return
		}
	}
	if code > uint64(MaxCode) {
		return
	}
	return Received{Code: Code(code), BitLength: bits, PulseLength: pulse}, true
}

func (p Pair) matches(high, low, pulse, tolerance time.Duration) bool {
	return within(high, time.Duration(p.High)*pulse, tolerance) &&
		within(low, time.Duration(p.Low)*pulse, tolerance)
}

func within(v, expect, tolerance time.Duration) bool {
	diff := v - expect
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance
}
