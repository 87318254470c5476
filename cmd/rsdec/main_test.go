package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rsfec "github.com/doismellburning/rsfec/src"
)

func encodeStream(t *testing.T, payload string, number int) ([]byte, rsfec.Profile) {
	t.Helper()

	var p, err = rsfec.NewProfileSet().ByNumber(number)
	require.NoError(t, err)

	var out bytes.Buffer
	sw, err := rsfec.NewStreamWriter(&out, p, false)
	require.NoError(t, err)
	_, err = sw.Write([]byte(payload))
	require.NoError(t, err)
	require.NoError(t, sw.Close())

	return out.Bytes(), p
}

func Test_run(t *testing.T) {
	var payload = strings.Repeat("Reed-Solomon ", 30)
	var stream, p = encodeStream(t, payload, 0x03)

	// A few symbol errors in the first block.
	stream[8] ^= 0xFF
	stream[20] ^= 0x01

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run([]string{"-v", "-T", "%Y", "-w", "2"}, bytes.NewReader(stream), &stdout, &stderr))
	assert.Equal(t, payload, stdout.String())
	assert.Contains(t, stderr.String(), "block 0 at 0, "+p.Name+": 2 corrected")
	assert.Regexp(t, `^\d{4} block`, stderr.String())
}

func Test_runLoss(t *testing.T) {
	var payload = strings.Repeat("x", 100)
	var stream, p = encodeStream(t, payload, 0x04)

	var blockLen = 8 + p.N()
	for i := 0; i < 20; i++ {
		stream[blockLen+8+i] ^= byte(i + 1)
	}

	var dir = t.TempDir()
	var metrics = filepath.Join(dir, "rsdec.prom")
	var out = filepath.Join(dir, "out")

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run([]string{"-M", metrics}, bytes.NewReader(stream), &stdout, &stderr))
	assert.Contains(t, stderr.String(), "block 1 at 56, RS(48,32): FAILED")
	assert.Empty(t, stdout.String())

	stderr.Reset()
	assert.Equal(t, 3, run([]string{"--allow-loss", "-M", metrics, "-o", out}, bytes.NewReader(stream), &stdout, &stderr))

	var got, err = os.ReadFile(out)
	require.NoError(t, err)
	assert.Len(t, got, 100-31)

	text, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(text), `rsfec_blocks_failed_total{profile="RS(48,32)"} 1`)
}

func Test_runHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, run([]string{"--help"}, nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "--timestamp-format")

	assert.Equal(t, 2, run([]string{"--no-such-flag"}, nil, &stdout, &stderr))
}

func Test_closeOutput(t *testing.T) {
	assert.NoError(t, closeOutput(nil))

	var f, err = os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	assert.NoError(t, closeOutput(f))

	// A second close fails like a lost final write would.
	assert.ErrorIs(t, closeOutput(f), os.ErrClosed)
}
