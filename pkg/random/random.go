// Package random produces the throwaway buffers and status flags fed to the
// generator by the console loop.
package random

import (
	"math/rand"
	"time"

	"github.com/fatedier/pktgen/pkg/packet"
)

// Source is not safe for concurrent use.
type Source struct {
	r *rand.Rand
}

// New returns a Source seeded with seed, or with the current time when seed
// is 0.
func New(seed int64) *Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Source{r: rand.New(rand.NewSource(seed))}
}

func (s *Source) Buffer(n int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte(s.r.Intn(256))
	}
	return buf
}

func (s *Source) Flags() packet.Flags {
	return packet.UnpackFlags(uint8(s.r.Intn(8)))
}
