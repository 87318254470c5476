package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseConfigs(t *testing.T) {
	var cfgs, err = parseConfigs(" 4,2; 8,16 ;")
	require.NoError(t, err)
	assert.Equal(t, []config{{M: 4, T: 2}, {M: 8, T: 16}}, cfgs)

	_, err = parseConfigs("4")
	assert.Error(t, err)

	_, err = parseConfigs(";")
	assert.Error(t, err)
}

func Test_parseWeights(t *testing.T) {
	var w, err = parseWeights("")
	require.NoError(t, err)
	assert.Nil(t, w)

	w, err = parseWeights("0, 1,3")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 3}, w)

	_, err = parseWeights("1,x")
	assert.Error(t, err)
}

func Test_runRandom(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run([]string{"--configs", "4,4", "--runs", "200", "-w", "0,1,2"}, &stdout, &stderr), stderr.String())

	var report = stdout.String()
	assert.Contains(t, report, "## RS(15,11) over GF(2^4)")
	assert.Contains(t, report, "| 0 | 200 | 100.00 | 0.00 | 0.00 |")
	assert.Contains(t, report, "| 2 | 200 | 100.00 | 0.00 | 0.00 |")
}

func Test_runExhaustive(t *testing.T) {
	var out = filepath.Join(t.TempDir(), "report.md")

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run([]string{"--configs", "3,2", "--k", "5", "--exhaustive", "-w", "1,2", "-o", out}, &stdout, &stderr), stderr.String())
	assert.Empty(t, stdout.String())

	var text, err = os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(text), "## RS(7,5) over GF(2^3)")
	assert.Contains(t, string(text), "| 1 | 49 | 100.00 | 0.00 | 0.00 |")
	assert.Contains(t, string(text), "| 2 | 1029 | 0.00 | 28.57 | 71.43 |")
}

func Test_runErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run([]string{"--configs", "x"}, &stdout, &stderr))
	assert.Equal(t, 1, run([]string{"--configs", "9,2"}, &stdout, &stderr))
	assert.Equal(t, 1, run([]string{"--configs", "8,16", "--exhaustive"}, &stdout, &stderr))
	assert.Equal(t, 0, run([]string{"--help"}, &stdout, &stderr))
}

func Test_closeOutput(t *testing.T) {
	assert.NoError(t, closeOutput(nil))

	var f, err = os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	assert.NoError(t, closeOutput(f))

	// A second close fails like a lost final write would.
	assert.ErrorIs(t, closeOutput(f), os.ErrClosed)
}
