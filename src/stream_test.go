package rsfec

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func writeStream(t require.TestingT, p Profile, compress bool, payload []byte) []byte {
	var out bytes.Buffer

	var sw, err = NewStreamWriter(&out, p, compress)
	require.NoError(t, err)

	_, err = sw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, sw.Close())

	return out.Bytes()
}

func TestStreamRoundTrip(t *testing.T) {
	var ps = NewProfileSet()

	rapid.Check(t, func(t *rapid.T) {
		var number = rapid.IntRange(TAG_MIN, TAG_MAX).Draw(t, "profile")
		var compress = rapid.Bool().Draw(t, "compress")
		var payload = rapid.SliceOfN(rapid.Byte(), 0, 2000).Draw(t, "payload")
		var workers = rapid.IntRange(0, 4).Draw(t, "workers")

		var p, err = ps.ByNumber(number)
		require.NoError(t, err)

		var stream = writeStream(t, p, compress, payload)

		var got, report, readErr = ReadStream(bytes.NewReader(stream), ReadOptions{Profiles: ps, Workers: workers})
		require.NoError(t, readErr)
		assert.Equal(t, compress, report.Compressed)
		assert.Equal(t, 0, report.Failed)
		assert.Equal(t, len(payload), len(got))
		if len(payload) > 0 {
			assert.Equal(t, payload, got)
		}
	})
}

func TestStreamBlockCount(t *testing.T) {
	var ps = NewProfileSet()
	var p, _ = ps.ByNumber(0x04) // 31 payload bytes per block

	var out bytes.Buffer
	var sw, err = NewStreamWriter(&out, p, false)
	require.NoError(t, err)

	_, err = sw.Write(bytes.Repeat([]byte{'a'}, 62))
	require.NoError(t, err)
	assert.Equal(t, 2, sw.Blocks())

	_, err = sw.Write([]byte{'b'})
	require.NoError(t, err)
	assert.Equal(t, 2, sw.Blocks())

	require.NoError(t, sw.Close())
	assert.Equal(t, 3, sw.Blocks())
	assert.Equal(t, 3*(TAG_SIZE+48), out.Len())

	require.NoError(t, sw.Close())
	_, err = sw.Write([]byte{'c'})
	assert.Error(t, err)
}

func TestStreamWriterRejectsSmallSymbols(t *testing.T) {
	var _, err = NewStreamWriter(io.Discard, Profile{Name: "nibbles", M: 4, T: 4, K: 11}, false)
	assert.ErrorIs(t, err, ErrUnsupportedParameters)
}

func TestStreamCorrectsErrors(t *testing.T) {
	var ps = NewProfileSet()
	var p, _ = ps.ByNumber(0x06) // t=32, 16 errors per block

	var payload = []byte(strings.Repeat("The quick brown fox jumps over the lazy dog. ", 20))
	var stream = writeStream(t, p, true, payload)

	var ch = NewChannel(11)
	var blockLen = TAG_SIZE + p.N()
	require.Zero(t, len(stream)%blockLen)

	var damaged = 0
	for off := 0; off < len(stream); off += blockLen {
		damaged += len(ch.CorruptWeight(stream[off+TAG_SIZE:off+blockLen], 8, 16))
	}

	var stats = NewStats()
	var seen []BlockResult
	var got, report, err = ReadStream(bytes.NewReader(stream), ReadOptions{
		Profiles: ps,
		Workers:  2,
		Stats:    stats,
		OnBlock:  func(r BlockResult) { seen = append(seen, r) },
	})
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.True(t, report.Compressed)
	assert.Equal(t, damaged, report.Corrected)
	assert.Equal(t, len(stream)/blockLen, report.Blocks)

	require.Len(t, seen, report.Blocks)
	for i, r := range seen {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, int64(i*blockLen), r.Offset)
	}

	assert.InDelta(t, float64(report.Blocks), testutil.ToFloat64(stats.blocks.WithLabelValues(p.Name)), 0)
	assert.InDelta(t, float64(damaged), testutil.ToFloat64(stats.corrected.WithLabelValues(p.Name)), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(stats.failed.WithLabelValues(p.Name)), 0)
}

func TestStreamLoss(t *testing.T) {
	var ps = NewProfileSet()
	var p, _ = ps.ByNumber(0x04)

	var payload = bytes.Repeat([]byte("0123456789"), 10) // 4 blocks
	var stream = writeStream(t, p, false, payload)

	var blockLen = TAG_SIZE + p.N()
	var ch = NewChannel(5)
	ch.CorruptWeight(stream[blockLen+TAG_SIZE:2*blockLen], 8, 20)

	var _, _, err = ReadStream(bytes.NewReader(stream), ReadOptions{Profiles: ps})
	require.ErrorIs(t, err, ErrUncorrectable)
	assert.Contains(t, err.Error(), "block 1")

	var stats = NewStats()
	var got, report, lossErr = ReadStream(bytes.NewReader(stream), ReadOptions{Profiles: ps, AllowLoss: true, Stats: stats})
	require.NoError(t, lossErr)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, append(append([]byte(nil), payload[:31]...), payload[62:]...), got)
	assert.InDelta(t, 1, testutil.ToFloat64(stats.failed.WithLabelValues(p.Name)), 0)

	var path = filepath.Join(t.TempDir(), "rsfec.prom")
	require.NoError(t, stats.WriteTextfile(path))

	var text, readErr = os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Contains(t, string(text), `rsfec_blocks_failed_total{profile="RS(48,32)"} 1`)
	assert.Contains(t, string(text), `rsfec_blocks_total{profile="RS(48,32)"} 4`)
}

func TestReadStreamEmpty(t *testing.T) {
	var got, report, err = ReadStream(strings.NewReader("no blocks in here"), ReadOptions{})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 0, report.Blocks)
}
