package rsfec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrecomputedGenerators(t *testing.T) {
	for _, p := range precomputedGenerators {
		var f, err = FieldFor(p.m)
		require.NoError(t, err)

		var computed = computeGenerator(f, p.t)
		require.Len(t, computed, p.t+1)

		for i, c := range p.coeffs {
			assert.Equal(t, computed[p.t-i], c, "m=%d t=%d coefficient of x**%d", p.m, p.t, p.t-i)
		}
	}
}

func TestGeneratorCoefficients(t *testing.T) {
	var f, _ = FieldFor(8)
	var g, err = NewGenerator(f, 10)
	require.NoError(t, err)

	assert.Equal(t, 10, g.Degree())
	assert.Same(t, f, g.Field())
	assert.Equal(t, []Symbol{1, 216, 194, 159, 111, 199, 94, 95, 113, 157, 193}, g.Coefficients())

	f, _ = FieldFor(4)
	g, err = NewGenerator(f, 2)
	require.NoError(t, err)
	assert.Equal(t, []Symbol{1, 3, 2}, g.Coefficients())
}

func TestGeneratorRoots(t *testing.T) {
	for m := 2; m <= MaxSymbolBits; m++ {
		var f, _ = FieldFor(m)
		for _, tt := range []int{1, 2, 3, f.Order() / 2, f.Order() - 1} {
			if tt < 1 || tt >= f.Order() {
				continue
			}
			var g, err = NewGenerator(f, tt)
			require.NoError(t, err)

			var coeffs = g.Coefficients()
			assert.Equal(t, Symbol(1), coeffs[0], "monic")

			for i := 0; i < tt; i++ {
				assert.Equal(t, f.Exp(i), g.Root(i))
				assert.Equal(t, Symbol(0), f.EvalPoly(coeffs, g.Root(i)), "m=%d t=%d root %d", m, tt, i)
			}
		}
	}
}

func TestGeneratorUnsupported(t *testing.T) {
	var f, _ = FieldFor(4)

	for _, tt := range []int{-1, 0, 15, 16} {
		var _, err = NewGenerator(f, tt)
		assert.ErrorIs(t, err, ErrUnsupportedParameters, "t=%d", tt)
	}

	var _, err = NewGenerator(f, 14)
	assert.NoError(t, err)
}
