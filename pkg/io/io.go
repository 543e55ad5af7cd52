package io

import (
	"io"
)

// CallbackWriter reports the byte count of every write, successful or not,
// to callback. The client feeds it into its progress bar.
type CallbackWriter struct {
	w        io.Writer
	callback func(n int)
}

func NewCallbackWriter(w io.Writer, callback func(n int)) *CallbackWriter {
	return &CallbackWriter{
		w:        w,
		callback: callback,
	}
}

func (cw *CallbackWriter) Write(p []byte) (n int, err error) {
	n, err = cw.w.Write(p)
	if n > 0 {
		cw.callback(n)
	}
	return
}
