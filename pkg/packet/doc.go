// Package packet encodes a byte buffer into a train of framing packets for
// channels with a small maximum payload per frame.
//
// Every train is one start frame, zero or more data frames and one stop
// frame:
//
//	Start: [SW][SEQ0][SEQ1][0x01][SIZE0][SIZE1][SIZE2][SIZE3]
//	Data:  [SW][SEQ0][SEQ1][0x02][LEN][PAYLOAD(LEN <= 59)]
//	Stop:  [SW][SEQ0][SEQ1][0x03][FLAGS]
//
// Multi-byte fields are written low byte first unless the configured wire
// order differs from the host's, in which case they are written high byte
// first. The generator resolves that decision once, at construction.
//
// FLAGS packs reboot in bit 0, verify in bit 1 and test in bit 2.
//
// A train for a buffer of n bytes always has 2 + ceil(n/59) frames, and the
// sequence counter wraps from 0xFFFF back to 0x0000.
package packet
