// Package deliver moves serialized frame trains onto a byte channel: a
// writer, a file, a TCP socket or a serial port. Frames are written in
// emission order and nothing is read back.
package deliver

import (
	"context"
	"errors"
	"fmt"
	"io"

	fio "github.com/fatedier/pktgen/pkg/io"
	"github.com/fatedier/pktgen/pkg/log"
	"github.com/fatedier/pktgen/pkg/packet"

	"golang.org/x/time/rate"
)

var ErrUnsupportedScheme = errors.New("deliver: unsupported target scheme")

type Deliverer interface {
	Deliver(ctx context.Context, frames []packet.Frame) error
	Close() error
}

type Options struct {
	// RateBytesPerSec paces writes when > 0.
	RateBytesPerSec int
	// OnWrite receives the byte count of every write.
	OnWrite func(n int)
	// Stdout receives frames for the "-" target, os.Stdout when nil.
	Stdout io.Writer
}

// Writer delivers frames to an io.Writer, closing it on Close when it is
// also an io.Closer.
type Writer struct {
	name    string
	w       io.Writer
	opts    Options
	limiter *rate.Limiter
	log     *log.PrefixLogger
}

func NewWriter(name string, w io.Writer, opts Options) *Writer {
	dw := &Writer{
		name: name,
		w:    w,
		opts: opts,
		log:  log.NewPrefixLogger(name),
	}
	if opts.RateBytesPerSec > 0 {
		dw.limiter = fio.NewBytesLimiter(opts.RateBytesPerSec, packet.MaxFrameSize)
	}
	return dw
}

func (dw *Writer) Name() string {
	return dw.name
}

func (dw *Writer) Deliver(ctx context.Context, frames []packet.Frame) error {
	var w io.Writer = dw.w
	if dw.limiter != nil {
		w = fio.NewRateWriter(ctx, w, dw.limiter)
	}
	if dw.opts.OnWrite != nil {
		w = fio.NewCallbackWriter(w, dw.opts.OnWrite)
	}

	written := 0
	for i, f := range frames {
		select {
		case <-ctx.Done():
			return fmt.Errorf("deliver stopped after %d of %d frames: %w", i, len(frames), ctx.Err())
		default:
		}

		n, err := w.Write(f.Bytes())
		written += n
		if err != nil {
			return fmt.Errorf("write frame %d (%s): %w", i, f.FrameHeader().Type, err)
		}
	}
	dw.log.Debug("delivered %d frames, %d bytes", len(frames), written)
	return nil
}

func (dw *Writer) Close() error {
	if c, ok := dw.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
