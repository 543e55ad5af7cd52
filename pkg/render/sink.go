package render

import (
	"io"
	"strings"

	"github.com/fatedier/pktgen/pkg/log"
)

// Sink accepts one rendered text block per frame.
type Sink interface {
	Accept(text string)
}

type SinkFunc func(text string)

func (f SinkFunc) Accept(text string) {
	f(text)
}

// WriterSink writes each block followed by a blank line. Write errors are
// dropped; diagnostics never fail an encode.
type WriterSink struct {
	w io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (ws *WriterSink) Accept(text string) {
	_, _ = io.WriteString(ws.w, text+"\n")
}

// LogSink sends each block to the logger at debug level, one line per
// field.
type LogSink struct {
	logger log.Logger
}

func NewLogSink(logger log.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (ls *LogSink) Accept(text string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		ls.logger.Debug("%s", line)
	}
}
