package packet

import (
	"errors"
	"fmt"

	"github.com/fatedier/pktgen/pkg/byteorder"
)

const (
	// MaxDataBytes is the largest payload carried by one data frame.
	MaxDataBytes = 59

	HeaderLen    = 4
	StartLen     = HeaderLen + 4
	DataLenMin   = HeaderLen + 1
	StopLen      = HeaderLen + 1
	MaxFrameSize = DataLenMin + MaxDataBytes
)

type Type uint8

const (
	TypeStart Type = 1
	TypeData  Type = 2
	TypeStop  Type = 3
)

func (t Type) String() string {
	switch t {
	case TypeStart:
		return "StartDataTransfer"
	case TypeData:
		return "Data"
	case TypeStop:
		return "StopDataTransfer"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(t))
	}
}

const (
	FlagReboot uint8 = 1 << 0
	FlagVerify uint8 = 1 << 1
	FlagTest   uint8 = 1 << 2

	flagMask = FlagReboot | FlagVerify | FlagTest
)

// Flags is the end-of-transfer status carried by a stop frame.
type Flags struct {
	Test   bool
	Verify bool
	Reboot bool
}

func (f Flags) Pack() uint8 {
	var b uint8
	if f.Reboot {
		b |= FlagReboot
	}
	if f.Verify {
		b |= FlagVerify
	}
	if f.Test {
		b |= FlagTest
	}
	return b
}

func UnpackFlags(b uint8) Flags {
	return Flags{
		Reboot: byteorder.ReadBit(b, 0),
		Verify: byteorder.ReadBit(b, 1),
		Test:   byteorder.ReadBit(b, 2),
	}
}

var (
	ErrShortFrame   = errors.New("packet: short frame")
	ErrUnknownType  = errors.New("packet: unknown packet type")
	ErrPayloadSize  = errors.New("packet: payload size out of range")
	ErrTrailingData = errors.New("packet: trailing bytes after frame")
	ErrReservedBits = errors.New("packet: reserved flag bits set")
)

// Frame is one of *StartFrame, *DataFrame or *StopFrame. The set is closed:
// consumers switch on the concrete type without a default case.
type Frame interface {
	FrameHeader() Header
	// Len is the serialized size in bytes.
	Len() int
	// Bytes serializes the frame in wire order.
	Bytes() []byte

	isFrame()
}

// Header is the common frame prefix. SequenceID holds the two wire
// components of the 16-bit sequence id in the order they are sent.
type Header struct {
	SoftwareID uint8
	SequenceID [2]uint8
	Type       Type
}

func (h Header) FrameHeader() Header {
	return h
}

// Sequence decodes the sequence id using the generator's swap decision.
func (h Header) Sequence(swap bool) uint16 {
	return byteorder.ComposeField16(h.SequenceID[0], h.SequenceID[1], swap)
}

func (h Header) appendTo(b []byte) []byte {
	return append(b, h.SoftwareID, h.SequenceID[0], h.SequenceID[1], uint8(h.Type))
}

type StartFrame struct {
	Header
	TotalPayloadSize [4]uint8
}

func (f *StartFrame) Total(swap bool) uint32 {
	s := f.TotalPayloadSize
	return byteorder.ComposeField32(s[0], s[1], s[2], s[3], swap)
}

func (f *StartFrame) Len() int { return StartLen }

func (f *StartFrame) Bytes() []byte {
	b := make([]byte, 0, StartLen)
	b = f.appendTo(b)
	return append(b, f.TotalPayloadSize[:]...)
}

func (*StartFrame) isFrame() {}

type DataFrame struct {
	Header
	PayloadSize uint8
	Payload     []byte
}

func (f *DataFrame) Len() int { return DataLenMin + len(f.Payload) }

func (f *DataFrame) Bytes() []byte {
	b := make([]byte, 0, f.Len())
	b = f.appendTo(b)
	b = append(b, f.PayloadSize)
	return append(b, f.Payload...)
}

func (*DataFrame) isFrame() {}

type StopFrame struct {
	Header
	Flags uint8
}

func (f *StopFrame) Status() Flags {
	return UnpackFlags(f.Flags)
}

func (f *StopFrame) Len() int { return StopLen }

func (f *StopFrame) Bytes() []byte {
	b := make([]byte, 0, StopLen)
	b = f.appendTo(b)
	return append(b, f.Flags)
}

func (*StopFrame) isFrame() {}

// ParseFrame decodes exactly one serialized frame. It is the inverse of
// Frame.Bytes and does not reassemble transfers.
func ParseFrame(b []byte) (Frame, error) {
	if len(b) < HeaderLen {
		return nil, ErrShortFrame
	}
	h := Header{
		SoftwareID: b[0],
		SequenceID: [2]uint8{b[1], b[2]},
		Type:       Type(b[3]),
	}
	body := b[HeaderLen:]

	switch h.Type {
	case TypeStart:
		if len(body) < 4 {
			return nil, ErrShortFrame
		}
		if len(body) > 4 {
			return nil, ErrTrailingData
		}
		f := &StartFrame{Header: h}
		copy(f.TotalPayloadSize[:], body)
		return f, nil
	case TypeData:
		if len(body) < 1 {
			return nil, ErrShortFrame
		}
		size := body[0]
		if size == 0 || size > MaxDataBytes {
			return nil, fmt.Errorf("%w: %d", ErrPayloadSize, size)
		}
		payload := body[1:]
		if len(payload) < int(size) {
			return nil, ErrShortFrame
		}
		if len(payload) > int(size) {
			return nil, ErrTrailingData
		}
		return &DataFrame{
			Header:      h,
			PayloadSize: size,
			Payload:     append([]byte(nil), payload...),
		}, nil
	case TypeStop:
		if len(body) < 1 {
			return nil, ErrShortFrame
		}
		if len(body) > 1 {
			return nil, ErrTrailingData
		}
		if body[0]&^flagMask != 0 {
			return nil, fmt.Errorf("%w: 0x%02X", ErrReservedBits, body[0])
		}
		return &StopFrame{Header: h, Flags: body[0]}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, uint8(h.Type))
	}
}
