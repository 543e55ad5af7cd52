package packet

import (
	"github.com/fatedier/pktgen/internal/syncutil"
)

// LockedGenerator serializes Encode calls on one shared Generator so the
// sequence ids of concurrent transfers never interleave inside a train.
type LockedGenerator struct {
	mu  syncutil.Mutex
	gen *Generator
}

func NewLockedGenerator(gen *Generator) *LockedGenerator {
	return &LockedGenerator{gen: gen}
}

func (lg *LockedGenerator) Encode(buf []byte, flags Flags) []Frame {
	lg.mu.Lock()
	defer lg.mu.Unlock()
	return lg.gen.Encode(buf, flags)
}

func (lg *LockedGenerator) NextSequence() uint16 {
	lg.mu.Lock()
	defer lg.mu.Unlock()
	return lg.gen.NextSequence()
}

// SoftwareID and SwapsByteOrder are fixed at construction and need no lock.
func (lg *LockedGenerator) SoftwareID() uint8 {
	return lg.gen.SoftwareID()
}

func (lg *LockedGenerator) SwapsByteOrder() bool {
	return lg.gen.SwapsByteOrder()
}
