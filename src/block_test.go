package rsfec

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeBlockLayout(t *testing.T) {
	var ps = NewProfileSet()
	var p, err = ps.ByNumber(0x04)
	require.NoError(t, err)

	var block, encErr = EncodeBlock(p, []byte("hello"))
	require.NoError(t, encErr)
	require.Len(t, block, TAG_SIZE+48)

	assert.Equal(t, p.Tag, binary.LittleEndian.Uint64(block))
	assert.Equal(t, []byte("hello"), block[TAG_SIZE:TAG_SIZE+5])
	assert.Equal(t, make([]byte, 27), block[TAG_SIZE+5:TAG_SIZE+32])

	var codec, _ = p.Codec()
	assert.True(t, codec.Check(block[TAG_SIZE:]))

	_, encErr = EncodeBlock(p, make([]byte, 33))
	assert.ErrorIs(t, encErr, ErrInvalidMessageLength)
}

func TestEncodeBlockSmallSymbols(t *testing.T) {
	var ps = NewProfileSet()
	var p, err = ps.Add(Profile{Name: "nibbles", M: 4, T: 4, K: 11})
	require.NoError(t, err)

	var block, encErr = EncodeBlock(p, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11})
	require.NoError(t, encErr)
	assert.Equal(t, []byte{3, 3, 12, 12}, block[TAG_SIZE+11:])

	_, encErr = EncodeBlock(p, []byte{16})
	assert.ErrorIs(t, encErr, ErrInvalidSymbolsUsed)
}

func TestBlockScanner(t *testing.T) {
	var ps = NewProfileSet()
	var p1, _ = ps.ByNumber(0x04)
	var p2, _ = ps.ByNumber(0x08)

	var b1, _ = EncodeBlock(p1, []byte("first"))
	var b2, _ = EncodeBlock(p2, []byte("second"))

	// Noise before, between and after.  A tag with a few bits wrong, and
	// symbol errors in the second block.
	b1[0] ^= 0x81
	b1[5] ^= 0x10
	b2[TAG_SIZE+3] ^= 0x55
	b2[TAG_SIZE+40] ^= 0xFF

	var stream bytes.Buffer
	stream.WriteString("noise")
	stream.Write(b1)
	stream.Write([]byte{0, 0, 0})
	stream.Write(b2)
	stream.Write(b1[:20]) // Cut short.

	var blocks []Block
	var scanner = NewBlockScanner(ps)
	require.NoError(t, scanner.Scan(&stream, func(b Block) error {
		blocks = append(blocks, b)
		return nil
	}))
	assert.True(t, scanner.Busy())

	require.Len(t, blocks, 2)

	assert.Equal(t, p1, blocks[0].Profile)
	assert.Equal(t, 3, blocks[0].TagErrors)
	assert.Equal(t, int64(5), blocks[0].Offset)

	var data, corrected, err = blocks[0].Decode()
	require.NoError(t, err)
	assert.Equal(t, 0, corrected)
	assert.Equal(t, []byte("first"), data[:5])

	assert.Equal(t, p2, blocks[1].Profile)
	assert.Equal(t, 0, blocks[1].TagErrors)
	assert.Equal(t, int64(5+len(b1)+3), blocks[1].Offset)

	data, corrected, err = blocks[1].Decode()
	require.NoError(t, err)
	assert.Equal(t, 2, corrected)
	assert.Equal(t, []byte("second"), data[:6])
}

func TestBlockScannerPut(t *testing.T) {
	var ps = NewProfileSet()
	var p, _ = ps.ByNumber(0x0B)
	var block, _ = EncodeBlock(p, nil)

	var scanner = NewBlockScanner(nil)
	for i, ch := range block {
		var b, ok = scanner.Put(ch)
		if i < len(block)-1 {
			require.False(t, ok)
			assert.Equal(t, i >= TAG_SIZE-1, scanner.Busy(), "byte %d", i)
		} else {
			require.True(t, ok)
			assert.Equal(t, block[TAG_SIZE:], b.Codeword)
		}
	}
	assert.False(t, scanner.Busy())
}

func TestBlockDecodeUncorrectable(t *testing.T) {
	var ps = NewProfileSet()
	var p, _ = ps.ByNumber(0x04)
	var block, _ = EncodeBlock(p, []byte("x"))

	var ch = NewChannel(3)
	ch.CorruptWeight(block[TAG_SIZE:], 8, 12)

	var b = Block{Profile: p, Codeword: block[TAG_SIZE:]}
	var _, _, err = b.Decode()
	assert.ErrorIs(t, err, ErrUncorrectable)

	b.Codeword = b.Codeword[:10]
	_, _, err = b.Decode()
	assert.ErrorIs(t, err, ErrBadBlock)
}
