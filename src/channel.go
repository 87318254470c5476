package rsfec

import (
	"math/rand/v2"
	"slices"
)

// Channel damages codewords with random symbol errors.  Not safe for
// concurrent use.
type Channel struct {
	rng *rand.Rand
}

// NewChannel returns a channel whose errors are repeatable for a given seed.
func NewChannel(seed uint64) *Channel {
	return &Channel{rng: rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))}
}

// Symbol returns a random symbol of m bits.
func (ch *Channel) Symbol(m int) Symbol {
	return Symbol(ch.rng.IntN(1 << m))
}

// Fill sets every element of p to a random m bit symbol.
func (ch *Channel) Fill(p []Symbol, m int) {
	for i := range p {
		p[i] = ch.Symbol(m)
	}
}

func (ch *Channel) nonZero(m int) Symbol {
	return Symbol(1 + ch.rng.IntN((1<<m)-1))
}

// CorruptWeight changes exactly weight symbols of cw, each to a different
// m bit value.  Returns the positions changed, in increasing order.
func (ch *Channel) CorruptWeight(cw []Symbol, m int, weight int) []int {
	weight = min(weight, len(cw))

	var positions = ch.rng.Perm(len(cw))[:weight]
	slices.Sort(positions)

	for _, p := range positions {
		cw[p] ^= ch.nonZero(m)
	}

	return positions
}

// CorruptRate changes each symbol of cw with probability rate.
func (ch *Channel) CorruptRate(cw []Symbol, m int, rate float64) []int {
	var positions []int

	for p := range cw {
		if ch.rng.Float64() < rate {
			cw[p] ^= ch.nonZero(m)
			positions = append(positions, p)
		}
	}

	return positions
}
