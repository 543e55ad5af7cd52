package packet

import (
	"bytes"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fatedier/pktgen/pkg/byteorder"
)

func testBuffer(t *testing.T, n int) []byte {
	t.Helper()
	buf := make([]byte, n)
	r := rand.New(rand.NewSource(int64(n) + 1))
	_, err := r.Read(buf)
	require.NoError(t, err)
	return buf
}

// nativeGenerator never swaps, whatever the host is.
func nativeGenerator(softwareID uint8, opts ...Option) *Generator {
	opts = append([]Option{WithWireOrder(byteorder.Host())}, opts...)
	return NewGenerator(softwareID, opts...)
}

func TestDefaultWireOrderIsLittle(t *testing.T) {
	t.Parallel()

	g := NewGenerator(69)
	assert.Equal(t, byteorder.Little, g.WireOrder())
	assert.Equal(t, byteorder.Host() == byteorder.Big, g.SwapsByteOrder())
	assert.Equal(t, uint16(0), g.NextSequence())
	assert.Equal(t, uint8(69), g.SoftwareID())
}

func TestEncodeOneByteBuffer(t *testing.T) {
	t.Parallel()

	g := nativeGenerator(52)
	buf := testBuffer(t, 1)

	frames := g.Encode(buf, Flags{Test: true, Verify: true, Reboot: true})
	require.Len(t, frames, 3)

	start, ok := frames[0].(*StartFrame)
	require.True(t, ok)
	assert.Equal(t, uint8(0x34), start.SoftwareID)
	assert.Equal(t, [2]uint8{0x00, 0x00}, start.SequenceID)
	assert.Equal(t, TypeStart, start.Type)
	assert.Equal(t, [4]uint8{0x01, 0x00, 0x00, 0x00}, start.TotalPayloadSize)

	data, ok := frames[1].(*DataFrame)
	require.True(t, ok)
	assert.Equal(t, uint8(0x34), data.SoftwareID)
	assert.Equal(t, [2]uint8{0x01, 0x00}, data.SequenceID)
	assert.Equal(t, TypeData, data.Type)
	assert.Equal(t, uint8(1), data.PayloadSize)
	assert.Equal(t, buf, data.Payload)

	stop, ok := frames[2].(*StopFrame)
	require.True(t, ok)
	assert.Equal(t, uint8(0x34), stop.SoftwareID)
	assert.Equal(t, [2]uint8{0x02, 0x00}, stop.SequenceID)
	assert.Equal(t, TypeStop, stop.Type)
	assert.Equal(t, uint8(0b00000111), stop.Flags)
}

func TestEncodeOneKilobyteBuffer(t *testing.T) {
	t.Parallel()

	g := nativeGenerator(255)
	buf := testBuffer(t, 1000)

	frames := g.Encode(buf, Flags{Test: false, Verify: true, Reboot: true})
	require.Len(t, frames, 19)

	start, ok := frames[0].(*StartFrame)
	require.True(t, ok)
	assert.Equal(t, uint8(0xFF), start.SoftwareID)
	assert.Equal(t, [4]uint8{0xE8, 0x03, 0x00, 0x00}, start.TotalPayloadSize)
	assert.Equal(t, uint32(1000), start.Total(false))

	var payload []byte
	for i := 1; i <= 16; i++ {
		data, ok := frames[i].(*DataFrame)
		require.True(t, ok, "frame %d", i)
		assert.Equal(t, [2]uint8{uint8(i), 0x00}, data.SequenceID)
		assert.Equal(t, uint8(59), data.PayloadSize)
		assert.Len(t, data.Payload, 59)
		payload = append(payload, data.Payload...)
	}

	last, ok := frames[17].(*DataFrame)
	require.True(t, ok)
	assert.Equal(t, [2]uint8{17, 0x00}, last.SequenceID)
	assert.Equal(t, uint8(56), last.PayloadSize)
	assert.Len(t, last.Payload, 56)
	payload = append(payload, last.Payload...)
	assert.Equal(t, buf, payload)

	stop, ok := frames[18].(*StopFrame)
	require.True(t, ok)
	assert.Equal(t, [2]uint8{0x12, 0x00}, stop.SequenceID)
	assert.Equal(t, uint8(0b00000110), stop.Flags)
}

func TestEncodeSwapsWhenWireOrderDiffersFromHost(t *testing.T) {
	t.Parallel()

	g := NewGenerator(1, WithWireOrder(byteorder.Host().Opposite()))
	require.True(t, g.SwapsByteOrder())

	frames := g.Encode(testBuffer(t, 291), Flags{})
	require.Len(t, frames, 7)

	start := frames[0].(*StartFrame)
	assert.Equal(t, [2]uint8{0x00, 0x00}, start.SequenceID)
	assert.Equal(t, [4]uint8{0x00, 0x00, 0x01, 0x23}, start.TotalPayloadSize)
	assert.Equal(t, uint32(291), start.Total(true))

	data := frames[1].(*DataFrame)
	assert.Equal(t, [2]uint8{0x00, 0x01}, data.SequenceID)
	assert.Equal(t, uint16(1), data.Sequence(true))

	stop := frames[6].(*StopFrame)
	assert.Equal(t, [2]uint8{0x00, 0x06}, stop.SequenceID)
	assert.Equal(t, uint8(0), stop.Flags)
}

func TestTotalPayloadSizeByteOrder(t *testing.T) {
	t.Parallel()

	buf := testBuffer(t, 1000)

	native := nativeGenerator(7).Encode(buf, Flags{})[0].(*StartFrame)
	assert.Equal(t, [4]uint8{0xE8, 0x03, 0x00, 0x00}, native.TotalPayloadSize)

	swapped := NewGenerator(7, WithWireOrder(byteorder.Host().Opposite())).Encode(buf, Flags{})[0].(*StartFrame)
	assert.Equal(t, [4]uint8{0x00, 0x00, 0x03, 0xE8}, swapped.TotalPayloadSize)
}

func TestEncodeFrameShape(t *testing.T) {
	t.Parallel()

	lengths := []int{0, 1, 2, 58, 59, 60, 117, 118, 119, 177, 590, 1000, 4096}
	for _, n := range lengths {
		g := nativeGenerator(9)
		buf := testBuffer(t, n)
		frames := g.Encode(buf, Flags{Verify: true})

		chunks := (n + 58) / 59
		require.Len(t, frames, 2+chunks, "length %d", n)
		assert.Equal(t, FrameCount(n), len(frames))

		_, isStart := frames[0].(*StartFrame)
		assert.True(t, isStart, "length %d: first frame", n)
		_, isStop := frames[len(frames)-1].(*StopFrame)
		assert.True(t, isStop, "length %d: last frame", n)

		var rebuilt []byte
		for i, f := range frames[1 : len(frames)-1] {
			data, ok := f.(*DataFrame)
			require.True(t, ok, "length %d: frame %d", n, i+1)
			assert.Equal(t, int(data.PayloadSize), len(data.Payload))

			// every chunk is full except the last, which takes L - 59*(count-1)
			want := 59
			if i == chunks-1 {
				want = n - 59*(chunks-1)
			}
			assert.Equal(t, want, len(data.Payload), "length %d: chunk %d", n, i)
			rebuilt = append(rebuilt, data.Payload...)
		}
		if n == 0 {
			assert.Empty(t, rebuilt)
		} else {
			assert.Equal(t, buf, rebuilt, "length %d", n)
		}

		for i, f := range frames {
			assert.Equal(t, uint16(i), f.FrameHeader().Sequence(false), "length %d: frame %d", n, i)
		}
	}
}

func TestEncodeEmptyBuffer(t *testing.T) {
	t.Parallel()

	g := nativeGenerator(3)
	frames := g.Encode(nil, Flags{Reboot: true})
	require.Len(t, frames, 2)

	start := frames[0].(*StartFrame)
	assert.Equal(t, uint32(0), start.Total(false))
	stop := frames[1].(*StopFrame)
	assert.Equal(t, uint8(0b00000001), stop.Flags)
	assert.Equal(t, uint16(2), g.NextSequence())
}

func TestSequenceContinuesAcrossCalls(t *testing.T) {
	t.Parallel()

	g := nativeGenerator(1)
	var seqs []uint16
	for _, n := range []int{0, 10, 59, 200} {
		for _, f := range g.Encode(testBuffer(t, n), Flags{}) {
			seqs = append(seqs, f.FrameHeader().Sequence(false))
		}
	}
	for i, s := range seqs {
		assert.Equal(t, uint16(i), s)
	}
	assert.Equal(t, uint16(len(seqs)), g.NextSequence())
}

func TestSequenceWrapsAfterFFFF(t *testing.T) {
	t.Parallel()

	g := nativeGenerator(52)

	// 65534 full data frames plus start and stop make 65536 frames
	frames := g.Encode(testBuffer(t, 65534*59), Flags{})
	require.Len(t, frames, 0x10000)

	last, ok := frames[len(frames)-1].(*StopFrame)
	require.True(t, ok)
	assert.Equal(t, [2]uint8{0xFF, 0xFF}, last.SequenceID)
	assert.Equal(t, uint16(0), g.NextSequence())

	frames = g.Encode(testBuffer(t, 59), Flags{})
	require.Len(t, frames, 3)
	assert.Equal(t, [2]uint8{0x00, 0x00}, frames[0].FrameHeader().SequenceID)
	assert.Equal(t, [2]uint8{0x01, 0x00}, frames[1].FrameHeader().SequenceID)
	assert.Equal(t, [2]uint8{0x02, 0x00}, frames[2].FrameHeader().SequenceID)
}

func TestSequenceWrapsMidTrain(t *testing.T) {
	t.Parallel()

	g := nativeGenerator(1, WithSequence(0xFFFE))
	frames := g.Encode(testBuffer(t, 60), Flags{})
	require.Len(t, frames, 4)

	want := []uint16{0xFFFE, 0xFFFF, 0x0000, 0x0001}
	for i, f := range frames {
		assert.Equal(t, want[i], f.FrameHeader().Sequence(false))
	}
}

func TestEncodeCopiesPayload(t *testing.T) {
	t.Parallel()

	buf := []byte{1, 2, 3}
	frames := nativeGenerator(1).Encode(buf, Flags{})
	buf[0] = 0xAA

	assert.Equal(t, []byte{1, 2, 3}, frames[1].(*DataFrame).Payload)
}

func TestLockedGeneratorSerializesTrains(t *testing.T) {
	t.Parallel()

	lg := NewLockedGenerator(nativeGenerator(5))
	const workers = 8
	results := make([][]Frame, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = lg.Encode(bytes.Repeat([]byte{byte(i)}, 100*(i+1)), Flags{})
		}(i)
	}
	wg.Wait()

	seen := make(map[uint16]bool)
	total := 0
	for _, frames := range results {
		first := frames[0].FrameHeader().Sequence(false)
		for j, f := range frames {
			s := f.FrameHeader().Sequence(false)
			assert.Equal(t, first+uint16(j), s, "train ids must be contiguous")
			assert.False(t, seen[s], "duplicate id %d", s)
			seen[s] = true
		}
		total += len(frames)
	}
	assert.Equal(t, uint16(total), lg.NextSequence())
	assert.Equal(t, uint8(5), lg.SoftwareID())
	assert.False(t, lg.SwapsByteOrder())
}
