package msgs

import (
	"github.com/golang/protobuf/proto"

	"github.com/robotalks/rfsend/pkg/rf"
)

// CommandErr is the reply of a failed command.
type CommandErr struct {
	Message string `protobuf:"bytes,1,opt,name=message,proto3" json:"message,omitempty"`
}

// NewCommandErr creates a CommandErr from an error.
func NewCommandErr(err error) *CommandErr {
	return &CommandErr{Message: err.Error()}
}

// TypeID implements Message.
func (m *CommandErr) TypeID() uint32 { return CommandErrTypeID }

// ProtoMessage implements proto.Message.
func (m *CommandErr) ProtoMessage() {}

// Reset implements proto.Message.
func (m *CommandErr) Reset() { *m = CommandErr{} }

// String implements proto.Message.
func (m *CommandErr) String() string { return proto.CompactTextString(m) }

// Error implements error.
func (m *CommandErr) Error() string { return m.Message }

// SendCodes asks to transmit codes. Zero parameters take the daemon
// defaults.
type SendCodes struct {
	Codes       []uint32 `protobuf:"varint,1,rep,packed,name=codes,proto3" json:"codes,omitempty"`
	Repeat      uint32   `protobuf:"varint,2,opt,name=repeat,proto3" json:"repeat,omitempty"`
	Pin         uint32   `protobuf:"varint,3,opt,name=pin,proto3" json:"pin,omitempty"`
	PulseLength uint32   `protobuf:"varint,4,opt,name=pulse_length,proto3" json:"pulse_length,omitempty"`
	BitLength   uint32   `protobuf:"varint,5,opt,name=bit_length,proto3" json:"bit_length,omitempty"`
}

// SendCodesFrom creates SendCodes from a request.
func SendCodesFrom(req rf.Request) *SendCodes {
	m := &SendCodes{
		Codes:       make([]uint32, len(req.Codes)),
		Repeat:      uint32(req.Repeat),
		Pin:         uint32(req.Pin),
		PulseLength: uint32(req.PulseLength),
		BitLength:   uint32(req.BitLength),
	}
	for n, code := range req.Codes {
		m.Codes[n] = uint32(code)
	}
	return m
}

// Request overrides defaults with the non-zero parameters.
func (m *SendCodes) Request(defaults rf.Request) rf.Request {
	req := defaults
	req.Codes = make([]rf.Code, len(m.Codes))
	for n, code := range m.Codes {
		req.Codes[n] = rf.Code(code)
	}
	if m.Repeat != 0 {
		req.Repeat = int(m.Repeat)
	}
	if m.Pin != 0 {
		req.Pin = int(m.Pin)
	}
	if m.PulseLength != 0 {
		req.PulseLength = int(m.PulseLength)
	}
	if m.BitLength != 0 {
		req.BitLength = int(m.BitLength)
	}
	return req
}

// TypeID implements Message.
func (m *SendCodes) TypeID() uint32 { return SendCodesTypeID }

// ProtoMessage implements proto.Message.
func (m *SendCodes) ProtoMessage() {}

// Reset implements proto.Message.
func (m *SendCodes) Reset() { *m = SendCodes{} }

// String implements proto.Message.
func (m *SendCodes) String() string { return proto.CompactTextString(m) }

// SendResult is the reply of SendCodes.
type SendResult struct {
	Elevation  string `protobuf:"bytes,1,opt,name=elevation,proto3" json:"elevation,omitempty"`
	DurationUs uint64 `protobuf:"varint,2,opt,name=duration_us,proto3" json:"duration_us,omitempty"`
}

// TypeID implements Message.
func (m *SendResult) TypeID() uint32 { return SendResultTypeID }

// ProtoMessage implements proto.Message.
func (m *SendResult) ProtoMessage() {}

// Reset implements proto.Message.
func (m *SendResult) Reset() { *m = SendResult{} }

// String implements proto.Message.
func (m *SendResult) String() string { return proto.CompactTextString(m) }

// Transmitted is an event emitted after every transmission attempt.
type Transmitted struct {
	Codes     []uint32 `protobuf:"varint,1,rep,packed,name=codes,proto3" json:"codes,omitempty"`
	Pin       uint32   `protobuf:"varint,2,opt,name=pin,proto3" json:"pin,omitempty"`
	Elevation string   `protobuf:"bytes,3,opt,name=elevation,proto3" json:"elevation,omitempty"`
	Error     string   `protobuf:"bytes,4,opt,name=error,proto3" json:"error,omitempty"`
}

// TypeID implements Message.
func (m *Transmitted) TypeID() uint32 { return TransmittedEventTypeID }

// ProtoMessage implements proto.Message.
func (m *Transmitted) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Transmitted) Reset() { *m = Transmitted{} }

// String implements proto.Message.
func (m *Transmitted) String() string { return proto.CompactTextString(m) }

// TypeID Groups
const (
	GroupCommand uint32 = 0x00000000
	GroupRF      uint32 = 0x00010000
)

// TypeIDs
const (
	CommandErrTypeID       uint32 = GroupCommand | TypeIDMaskReply | 0x0001
	SendCodesTypeID        uint32 = GroupRF | 0x0000
	SendResultTypeID       uint32 = SendCodesTypeID | TypeIDMaskReply
	TransmittedEventTypeID uint32 = GroupRF | TypeIDKindEvent | 0x0000
)
