// Package byteorder holds the small byte-order helpers used by the packet
// encoder: host endianness detection, byte swaps and field composition from
// 8-bit wire components.
package byteorder

import (
	"encoding/binary"
	"fmt"
	"math/bits"
	"strings"
)

type Endianness uint8

const (
	Little Endianness = iota
	Big
)

var host = detect()

func detect() Endianness {
	if binary.NativeEndian.Uint16([]byte{0x01, 0x00}) == 0x0001 {
		return Little
	}
	return Big
}

// Host returns the native byte order of the running machine.
func Host() Endianness {
	return host
}

func (e Endianness) Opposite() Endianness {
	if e == Big {
		return Little
	}
	return Big
}

func (e Endianness) String() string {
	switch e {
	case Little:
		return "little"
	case Big:
		return "big"
	default:
		return fmt.Sprintf("endianness(%d)", uint8(e))
	}
}

// Parse accepts "little"/"le" and "big"/"be", case insensitive.
func Parse(s string) (Endianness, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "little", "le", "little-endian":
		return Little, nil
	case "big", "be", "big-endian":
		return Big, nil
	default:
		return Little, fmt.Errorf("unknown byte order %q", s)
	}
}

func Swap16(x uint16) uint16 {
	return bits.ReverseBytes16(x)
}

func Swap32(x uint32) uint32 {
	return bits.ReverseBytes32(x)
}

// ComposeField16 rebuilds a 16-bit field from its two wire components taken
// low byte first, then swaps the result when swap is set.
func ComposeField16(b0, b1 uint8, swap bool) uint16 {
	v := uint16(b0) | uint16(b1)<<8
	if swap {
		return Swap16(v)
	}
	return v
}

// ComposeField32 is the 32-bit counterpart of ComposeField16.
func ComposeField32(b0, b1, b2, b3 uint8, swap bool) uint32 {
	v := uint32(b0) | uint32(b1)<<8 | uint32(b2)<<16 | uint32(b3)<<24
	if swap {
		return Swap32(v)
	}
	return v
}

// ReadBit reports whether bit position of b is set, 0 being the least
// significant bit. Positions past 7 are never set.
func ReadBit(b uint8, position uint) bool {
	if position > 7 {
		return false
	}
	return b&(1<<position) != 0
}
