package rsfec

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestChannelCorruptWeight(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var m = rapid.IntRange(1, MaxSymbolBits).Draw(t, "m")
		var n = rapid.IntRange(0, 255).Draw(t, "n")
		var weight = rapid.IntRange(0, 300).Draw(t, "weight")
		var seed = rapid.Uint64().Draw(t, "seed")

		var cw = make([]Symbol, n)
		var positions = NewChannel(seed).CorruptWeight(cw, m, weight)

		assert.Len(t, positions, min(n, weight))
		assert.True(t, slices.IsSorted(positions))

		var changed = 0
		for i, s := range cw {
			if s != 0 {
				changed++
				assert.Contains(t, positions, i)
				assert.Less(t, int(s), 1<<m)
			}
		}
		assert.Equal(t, len(positions), changed)
	})
}

func TestChannelRepeatable(t *testing.T) {
	var a = make([]Symbol, 100)
	var b = make([]Symbol, 100)

	NewChannel(42).CorruptRate(a, 8, 0.1)
	NewChannel(42).CorruptRate(b, 8, 0.1)
	assert.Equal(t, a, b)

	var none = make([]Symbol, 100)
	assert.Empty(t, NewChannel(1).CorruptRate(none, 8, 0))
	assert.Len(t, NewChannel(1).CorruptRate(none, 8, 1), 100)
}
