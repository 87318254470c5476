package rsfec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHexDump(t *testing.T) {
	assert.Empty(t, HexDump(nil))

	assert.Equal(t, "  000:  52 53 00 ff                                      RS..\n", HexDump([]byte{'R', 'S', 0, 0xff}))

	var long = make([]byte, 17)
	long[16] = 'z'
	var want = "  000:  00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00  ................\n" +
		"  010:  7a                                               z\n"
	assert.Equal(t, want, HexDump(long))
}
