package io

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// RateWriter paces writes to the limiter's byte rate. Writes larger than the
// limiter's burst are split so WaitN never rejects them.
type RateWriter struct {
	ctx        context.Context
	underlying io.Writer
	limiter    *rate.Limiter
}

func NewRateWriter(ctx context.Context, w io.Writer, limiter *rate.Limiter) *RateWriter {
	return &RateWriter{
		ctx:        ctx,
		underlying: w,
		limiter:    limiter,
	}
}

// NewBytesLimiter allows bytesPerSec with a burst of at least one frame.
func NewBytesLimiter(bytesPerSec int, burst int) *rate.Limiter {
	if burst < bytesPerSec {
		burst = bytesPerSec
	}
	return rate.NewLimiter(rate.Limit(bytesPerSec), burst)
}

func (rw *RateWriter) Write(p []byte) (n int, err error) {
	burst := rw.limiter.Burst()
	for len(p) > 0 {
		chunk := p
		if len(chunk) > burst {
			chunk = chunk[:burst]
		}
		if err = rw.limiter.WaitN(rw.ctx, len(chunk)); err != nil {
			return
		}

		var m int
		m, err = rw.underlying.Write(chunk)
		n += m
		if err != nil {
			return
		}
		p = p[len(chunk):]
	}
	return
}
