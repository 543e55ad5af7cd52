package packet

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/fatedier/pktgen/pkg/byteorder"
)

type Option func(*Generator)

// WithWireOrder sets the configured wire byte order. Default is little.
func WithWireOrder(e byteorder.Endianness) Option {
	return func(g *Generator) {
		g.wireOrder = e
	}
}

// WithSequence sets the id given to the next emitted frame.
func WithSequence(seq uint16) Option {
	return func(g *Generator) {
		g.seq = seq
	}
}

// Generator turns buffers into start/data/stop frame trains. It owns the
// running sequence counter, which persists and wraps across Encode calls.
//
// A Generator is not safe for concurrent use; share one through
// LockedGenerator when several goroutines encode on the same session.
type Generator struct {
	softwareID uint8
	wireOrder  byteorder.Endianness
	swap       bool
	seq        uint16
}

func NewGenerator(softwareID uint8, opts ...Option) *Generator {
	g := &Generator{
		softwareID: softwareID,
		wireOrder:  byteorder.Little,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.swap = byteorder.Host() != g.wireOrder
	return g
}

func (g *Generator) SoftwareID() uint8 {
	return g.softwareID
}

func (g *Generator) WireOrder() byteorder.Endianness {
	return g.wireOrder
}

// SwapsByteOrder reports whether multi-byte fields are written high byte
// first. Decoders need the same value.
func (g *Generator) SwapsByteOrder() bool {
	return g.swap
}

// NextSequence returns the id the next frame will carry.
func (g *Generator) NextSequence() uint16 {
	return g.seq
}

// FrameCount is the number of frames Encode emits for a buffer of n bytes.
func FrameCount(n int) int {
	return 2 + (n+MaxDataBytes-1)/MaxDataBytes
}

// Encode emits one start frame, ceil(len(buf)/59) data frames and one stop
// frame, each consuming one sequence id. Payloads are copied out of buf.
func (g *Generator) Encode(buf []byte, flags Flags) []Frame {
	size := len(buf)
	if uint64(size) > math.MaxUint32 {
		panic(fmt.Sprintf("packet: buffer of %d bytes does not fit the 32-bit size field", size))
	}

	want := FrameCount(size)
	frames := make([]Frame, 0, want)
	frames = append(frames, g.startFrame(uint32(size)))

	// offset and remaining advance together; their sum is always size
	remaining := size
	for offset := 0; offset < size; offset += MaxDataBytes {
		if offset+remaining != size {
			panic(fmt.Sprintf("packet: chunk cursor out of sync: offset %d remaining %d size %d", offset, remaining, size))
		}
		n := MaxDataBytes
		if remaining <= MaxDataBytes {
			n = remaining
		}
		if n < 1 || n > MaxDataBytes {
			panic(fmt.Sprintf("packet: chunk of %d bytes at offset %d", n, offset))
		}
		frames = append(frames, g.dataFrame(buf[offset:offset+n]))
		remaining -= n
	}
	if remaining != 0 {
		panic(fmt.Sprintf("packet: %d bytes left unchunked", remaining))
	}

	frames = append(frames, g.stopFrame(flags))
	if len(frames) != want {
		panic(fmt.Sprintf("packet: emitted %d frames for %d bytes, want %d", len(frames), size, want))
	}
	return frames
}

func (g *Generator) header(t Type) Header {
	id := g.seq
	if g.seq == math.MaxUint16 {
		g.seq = 0
	} else {
		g.seq++
	}

	h := Header{
		SoftwareID: g.softwareID,
		Type:       t,
	}
	if g.swap {
		binary.BigEndian.PutUint16(h.SequenceID[:], id)
	} else {
		binary.LittleEndian.PutUint16(h.SequenceID[:], id)
	}
	return h
}

func (g *Generator) startFrame(total uint32) *StartFrame {
	f := &StartFrame{Header: g.header(TypeStart)}
	if g.swap {
		binary.BigEndian.PutUint32(f.TotalPayloadSize[:], total)
	} else {
		binary.LittleEndian.PutUint32(f.TotalPayloadSize[:], total)
	}
	return f
}

func (g *Generator) dataFrame(chunk []byte) *DataFrame {
	return &DataFrame{
		Header:      g.header(TypeData),
		PayloadSize: uint8(len(chunk)),
		Payload:     append([]byte(nil), chunk...),
	}
}

func (g *Generator) stopFrame(flags Flags) *StopFrame {
	return &StopFrame{
		Header: g.header(TypeStop),
		Flags:  flags.Pack(),
	}
}
