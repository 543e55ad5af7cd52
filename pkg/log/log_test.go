package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelWarn, ParseLevel("warn"))
	assert.Equal(t, LevelInfo, ParseLevel(" INFO "))
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelTrace, ParseLevel("trace"))
	assert.Equal(t, LevelWarn, ParseLevel("loud"))
}

func TestPrefixLogger(t *testing.T) {
	pl := NewPrefixLogger("tcp://127.0.0.1:9000", "", "session 3")
	assert.Equal(t, "[tcp://127.0.0.1:9000] [session 3] ", pl.GetPrefixStr())
	assert.Equal(t, []string{"tcp://127.0.0.1:9000", "session 3"}, pl.GetAllPrefix())

	var _ Logger = pl
}
