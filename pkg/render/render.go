// Package render turns generated frames into human readable text and hands
// it to a Sink, one block per frame.
package render

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/fatedier/pktgen/pkg/packet"
)

type Option func(*Renderer)

// WithByteSwap must match the generator's SwapsByteOrder so multi-byte
// fields decode to their real values.
func WithByteSwap(swap bool) Option {
	return func(r *Renderer) {
		r.swap = swap
	}
}

// WithHexDump appends a hex dump of the frame's wire bytes to each block.
func WithHexDump(enabled bool) Option {
	return func(r *Renderer) {
		r.hexDump = enabled
	}
}

type Renderer struct {
	sink    Sink
	swap    bool
	hexDump bool
}

func New(sink Sink, opts ...Option) *Renderer {
	r := &Renderer{sink: sink}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Renderer) Render(frames []packet.Frame) {
	for _, f := range frames {
		r.sink.Accept(r.Format(f))
	}
}

func (r *Renderer) Format(f packet.Frame) string {
	var sb strings.Builder
	h := f.FrameHeader()
	fmt.Fprintf(&sb, "softwareId: 0x%02X\n", h.SoftwareID)
	fmt.Fprintf(&sb, "sequenceId: 0x%04X\n", h.Sequence(r.swap))
	fmt.Fprintf(&sb, "packetType: %s\n", h.Type)

	switch v := f.(type) {
	case *packet.StartFrame:
		fmt.Fprintf(&sb, "totalPayloadSize: %d\n", v.Total(r.swap))
	case *packet.DataFrame:
		fmt.Fprintf(&sb, "payloadSize: %d\n", v.PayloadSize)
	case *packet.StopFrame:
		st := v.Status()
		fmt.Fprintf(&sb, "test: %t\n", st.Test)
		fmt.Fprintf(&sb, "verify: %t\n", st.Verify)
		fmt.Fprintf(&sb, "reboot: %t\n", st.Reboot)
	}

	if r.hexDump {
		sb.WriteString(hex.Dump(f.Bytes()))
	}
	return sb.String()
}
