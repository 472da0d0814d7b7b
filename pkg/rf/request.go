// Package rf encodes and decodes 433MHz remote-control codes.
package rf

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Code is an RF code sent as a fixed on/off pulse pattern.
type Code uint32

// MaxCode is the largest code accepted, matching the 32-bit signed word
// of RCSwitch compatible encoders.
const MaxCode Code = math.MaxInt32

// Defaults of a Request.
const (
	DefaultRepeat      = 3
	DefaultPin         = 17
	DefaultPulseLength = 190
	DefaultBitLength   = 24
)

// Limits of a Request. They bound the rendered waveform to about a million
// pulses.
const (
	MaxCodes       = 32
	MaxRepeat      = 50
	MaxPulseLength = 10000
	// MaxPin is the highest BCM GPIO number of a Raspberry Pi.
	MaxPin = 53
)

// Request is a transmission of codes on a GPIO pin.
type Request struct {
	Codes []Code
	// Repeat is the number of times the whole code list is sent.
	Repeat int
	// Pin is the BCM GPIO number.
	Pin int
	// PulseLength is in microseconds.
	PulseLength int
	BitLength   int
}

// NewRequest creates a Request with default parameters.
func NewRequest(codes ...Code) Request {
	return Request{
		Codes:       codes,
		Repeat:      DefaultRepeat,
		Pin:         DefaultPin,
		PulseLength: DefaultPulseLength,
		BitLength:   DefaultBitLength,
	}
}

// Validate checks the invariants of the request.
func (r Request) Validate() error {
	switch {
	case len(r.Codes) == 0:
		return &ArgumentError{Arg: "codes", Reason: "at least one code is required"}
	case len(r.Codes) > MaxCodes:
		return &ArgumentError{Arg: "codes", Reason: fmt.Sprintf("at most %d codes are allowed", MaxCodes)}
	}
	for _, code := range r.Codes {
		if code > MaxCode {
			return &ArgumentError{Arg: "code", Reason: fmt.Sprintf("%d exceeds %d", code, MaxCode)}
		}
	}
	switch {
	case r.Repeat < 1 || r.Repeat > MaxRepeat:
		return &ArgumentError{Arg: "repeat", Reason: fmt.Sprintf("must be within [1, %d]", MaxRepeat)}
	case r.Pin < 0 || r.Pin > MaxPin:
		return &ArgumentError{Arg: "pin", Reason: fmt.Sprintf("must be within [0, %d]", MaxPin)}
	case r.PulseLength <= 0 || r.PulseLength > MaxPulseLength:
		return &ArgumentError{Arg: "pulse length", Reason: fmt.Sprintf("must be within [1, %d]", MaxPulseLength)}
	case r.BitLength < 1 || r.BitLength > 32:
		return &ArgumentError{Arg: "bit length", Reason: "must be within [1, 32]"}
	}
	return nil
}

// Pulse returns the pulse length as a duration.
func (r Request) Pulse() time.Duration {
	return time.Duration(r.PulseLength) * time.Microsecond
}

// Waveform renders the whole transmission. Repetitions are the outer loop
// so a timing glitch hits one copy of each code rather than all copies of
// one code.
func (r Request) Waveform(p Protocol) []Pulse {
	var frames [][]Pulse
	for _, code := range r.Codes {
		frames = append(frames, p.Encode(code, r.BitLength, r.Pulse()))
	}
	repeat := p.RepeatTransmit
	if repeat < 1 {
		repeat = 1
	}
	var size int
	for _, f := range frames {
		size += len(f)
	}
	waveform := make([]Pulse, 0, size*repeat*r.Repeat)
	for i := 0; i < r.Repeat; i++ {
		for _, f := range frames {
			for n := 0; n < repeat; n++ {
				waveform = append(waveform, f...)
			}
		}
	}
	return waveform
}

// ParseCode parses a decimal code.
func ParseCode(s string) (Code, error) {
	v, err := strconv.ParseUint(s, 10, 31)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			return 0, &ArgumentError{Arg: "code", Reason: fmt.Sprintf("%q exceeds %d", s, MaxCode)}
		}
		return 0, &ArgumentError{Arg: "code", Reason: fmt.Sprintf("%q is not a decimal number", s)}
	}
	return Code(v), nil
}

// ParseCodes parses a list of decimal codes.
func ParseCodes(args []string) ([]Code, error) {
	codes := make([]Code, 0, len(args))
	for _, arg := range args {
		code, err := ParseCode(arg)
		if err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, nil
}

// ParseCodeList parses white space separated codes.
func ParseCodeList(s string) ([]Code, error) {
	return ParseCodes(strings.Fields(s))
}

// Binary formats the code with exactly bitLength binary digits.
func (c Code) Binary(bitLength int) string {
	s := strconv.FormatUint(uint64(c), 2)
	if len(s) >= bitLength {
		return s[len(s)-bitLength:]
	}
	return strings.Repeat("0", bitLength-len(s)) + s
}
