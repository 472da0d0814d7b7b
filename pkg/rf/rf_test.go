package rf

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(*Request)
		arg    string
	}{
		{"defaults", func(*Request) {}, ""},
		{"no codes", func(r *Request) { r.Codes = nil }, "codes"},
		{"code too large", func(r *Request) { r.Codes = []Code{MaxCode + 1} }, "code"},
		{"max codes", func(r *Request) { r.Codes = make([]Code, MaxCodes) }, ""},
		{"too many codes", func(r *Request) { r.Codes = make([]Code, MaxCodes+1) }, "codes"},
		{"zero repeat", func(r *Request) { r.Repeat = 0 }, "repeat"},
		{"max repeat", func(r *Request) { r.Repeat = MaxRepeat }, ""},
		{"repeat too large", func(r *Request) { r.Repeat = 1 << 30 }, "repeat"},
		{"negative pin", func(r *Request) { r.Pin = -1 }, "pin"},
		{"max pin", func(r *Request) { r.Pin = MaxPin }, ""},
		{"pin beyond bcm range", func(r *Request) { r.Pin = 54 }, "pin"},
		{"pin wrapping to 17", func(r *Request) { r.Pin = 256 + 17 }, "pin"},
		{"zero pulse", func(r *Request) { r.PulseLength = 0 }, "pulse length"},
		{"pulse too long", func(r *Request) { r.PulseLength = MaxPulseLength + 1 }, "pulse length"},
		{"bit length too large", func(r *Request) { r.BitLength = 33 }, "bit length"},
		{"bit length zero", func(r *Request) { r.BitLength = 0 }, "bit length"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := NewRequest(12345, MaxCode)
			tc.modify(&req)
			err := req.Validate()
			if tc.arg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidArgument))
			var argErr *ArgumentError
			require.True(t, errors.As(err, &argErr))
			assert.Equal(t, tc.arg, argErr.Arg)
		})
	}
}

func TestWaveformOfLargestRequest(t *testing.T) {
	req := NewRequest(make([]Code, MaxCodes)...)
	req.Repeat = MaxRepeat
	req.BitLength = 32
	require.NoError(t, req.Validate())
	frame := len(Protocol1.Encode(0, 32, req.Pulse()))
	assert.Len(t, req.Waveform(Protocol1), frame*MaxCodes*Protocol1.RepeatTransmit*MaxRepeat)
}

func TestNewRequestDefaults(t *testing.T) {
	req := NewRequest(1)
	assert.Equal(t, 3, req.Repeat)
	assert.Equal(t, 17, req.Pin)
	assert.Equal(t, 190, req.PulseLength)
	assert.Equal(t, 24, req.BitLength)
	assert.Equal(t, 190*time.Microsecond, req.Pulse())
}

func TestParseCodes(t *testing.T) {
	codes, err := ParseCodes([]string{"12345", "0", "2147483647"})
	require.NoError(t, err)
	assert.Equal(t, []Code{12345, 0, MaxCode}, codes)

	codes, err = ParseCodeList("  1 2\t3 ")
	require.NoError(t, err)
	assert.Equal(t, []Code{1, 2, 3}, codes)

	for _, bad := range []string{"abc", "-1", "1.5", "2147483648", ""} {
		_, err := ParseCodes([]string{"1", bad})
		assert.True(t, errors.Is(err, ErrInvalidArgument), "%q", bad)
	}
}

func TestEncode(t *testing.T) {
	pulse := 100 * time.Microsecond
	frame := Protocol1.Encode(5, 4, pulse)
	us := func(n int) time.Duration { return time.Duration(n) * pulse }
	require.Equal(t, []Pulse{
		{true, us(1)}, {false, us(3)}, // 0
		{true, us(3)}, {false, us(1)}, // 1
		{true, us(1)}, {false, us(3)}, // 0
		{true, us(3)}, {false, us(1)}, // 1
		{true, us(1)}, {false, us(31)}, // sync
	}, frame)
}

func TestWaveformOrdering(t *testing.T) {
	p := Protocol{Sync: Pair{1, 31}, Zero: Pair{1, 3}, One: Pair{3, 1}, RepeatTransmit: 2}
	req := NewRequest(1, 0)
	req.BitLength = 1
	req.Repeat = 2
	req.PulseLength = 1
	wf := req.Waveform(p)
	// each frame: 1 bit pair + sync pair = 4 pulses.
	require.Len(t, wf, 2*2*2*4)
	var firstHighs []time.Duration
	for i := 0; i < len(wf); i += 4 {
		firstHighs = append(firstHighs, wf[i].Duration)
	}
	one, zero := 3*time.Microsecond, time.Microsecond
	assert.Equal(t, []time.Duration{one, one, zero, zero, one, one, zero, zero}, firstHighs)
}

func TestDecoderRoundTrip(t *testing.T) {
	testCases := []struct {
		code  Code
		bits  int
		pulse time.Duration
	}{
		{12345, 24, 190 * time.Microsecond},
		{54321, 24, 350 * time.Microsecond},
		{0xaa, 8, 190 * time.Microsecond},
		{MaxCode, 32, 130 * time.Microsecond},
	}
	for _, tc := range testCases {
		d := NewDecoder()
		var got []Received
		// the receiver sees the gap preceding the first frame as well.
		d.Feed(10 * time.Millisecond)
		for _, pulse := range Protocol1.Encode(tc.code, tc.bits, tc.pulse) {
			// jitter of 10%.
			if rcv, ok := d.Feed(pulse.Duration + pulse.Duration/10); ok {
				got = append(got, rcv)
			}
		}
		require.Len(t, got, 1)
		assert.Equal(t, tc.code, got[0].Code)
		assert.Equal(t, tc.bits, got[0].BitLength)
		assert.InDelta(t, float64(tc.pulse), float64(got[0].PulseLength), float64(tc.pulse)/5)
	}
}

func TestDecoderRejectsNoise(t *testing.T) {
	d := NewDecoder()
	for i := 0; i < 5; i++ {
		d.Feed(190 * time.Microsecond)
	}
	_, ok := d.Feed(6 * time.Millisecond)
	assert.False(t, ok, "too few bits")

	for i := 0; i < 20; i++ {
		d.Feed(400 * time.Microsecond)
	}
	_, ok = d.Feed(6 * time.Millisecond)
	assert.False(t, ok, "pairs match neither zero nor one")
}

func TestCodeBinary(t *testing.T) {
	assert.Equal(t, "00101", Code(5).Binary(5))
	assert.Equal(t, "01", Code(5).Binary(2))
}
