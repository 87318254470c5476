package rsfec

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestDebugLevelGatesCorrectionReports(t *testing.T) {
	var oldLogger = Logger()
	var oldLevel = DebugLevel()
	defer func() {
		SetLogger(oldLogger)
		SetDebugLevel(oldLevel)
	}()

	var buf bytes.Buffer
	SetLogger(log.New(&buf))

	var received = []Symbol{1, 2, 3, 4, 5, 6, 13, 11}
	var out = make([]Symbol, 6)

	SetDebugLevel(1)
	var _, err = Decode(received, 2, 4, out)
	assert.NoError(t, err)
	assert.Empty(t, buf.String())

	SetDebugLevel(2)
	_, err = Decode(received, 2, 4, out)
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "RS decode corrected errors")
	assert.Equal(t, 2, DebugLevel())
}
