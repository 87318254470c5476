package rsfec

// SPDX-FileCopyrightText: 2002 Phil Karn, KA9Q
// SPDX-FileCopyrightText: The Samoyed Authors

import (
	"github.com/pkg/errors"
)

// The code generator polynomial has the consecutive roots
// alpha**firstRoot ... alpha**(firstRoot+t-1).  FX.25 starts at 1,
// IL2P and this package start at 0.
const firstRoot = 0

// Generator is the RS code generator polynomial for one (m, t),
//
//	g(x) = (x - alpha**0)(x - alpha**1)...(x - alpha**(t-1))
//
// It never changes after construction.
type Generator struct {
	field *Field
	t     int
	poly  []Symbol // Coefficient of x**i at [i], poly form.
	index []Symbol // Same in index form, for quicker encoding.
}

// NewGenerator returns the degree t generator over f.
// It fails for t <= 0 or when no message symbols would be left in a block.
func NewGenerator(f *Field, t int) (*Generator, error) {
	if t <= 0 {
		return nil, errors.Wrapf(ErrUnsupportedParameters, "%d parity symbols", t)
	}
	if f.nn-t <= 0 {
		return nil, errors.Wrapf(ErrUnsupportedParameters, "%d parity symbols leaves no room for data in GF(2^%d)", t, f.mm)
	}

	var g = &Generator{
		field: f,
		t:     t,
	}

	if coeffs, ok := precomputedGenerator(f.Bits(), t); ok {
		g.poly = make([]Symbol, t+1)
		for i, c := range coeffs {
			g.poly[t-i] = c
		}
	} else {
		g.poly = computeGenerator(f, t)
	}

	g.index = make([]Symbol, t+1)
	for i, c := range g.poly {
		g.index[i] = f.indexOf[c]
	}

	return g, nil
}

// Form RS code generator polynomial from its roots.
func computeGenerator(f *Field, t int) []Symbol {
	var genpoly = make([]Symbol, t+1)

	genpoly[0] = 1
	for i, root := 0, firstRoot; i < t; i, root = i+1, root+1 {
		genpoly[i+1] = 1

		// Multiply genpoly[] by  @**(root + x)
		for j := i; j > 0; j-- {
			if genpoly[j] != 0 {
				genpoly[j] = genpoly[j-1] ^ f.alphaTo[f.modnn(int(f.indexOf[genpoly[j]])+root)]
			} else {
				genpoly[j] = genpoly[j-1]
			}
		}
		// genpoly[0] can never be zero
		genpoly[0] = f.alphaTo[f.modnn(int(f.indexOf[genpoly[0]])+root)]
	}

	return genpoly
}

// Degree is the number of parity symbols the generator produces.
func (g *Generator) Degree() int {
	return g.t
}

func (g *Generator) Field() *Field {
	return g.field
}

// Coefficients returns the t+1 coefficients of g(x), leading coefficient
// first.  The leading coefficient is always 1.
func (g *Generator) Coefficients() []Symbol {
	var out = make([]Symbol, g.t+1)
	for i, c := range g.poly {
		out[g.t-i] = c
	}
	return out
}

// Root returns the i-th root, alpha**(firstRoot+i), for 0 <= i < t.
func (g *Generator) Root(i int) Symbol {
	return g.field.Exp(firstRoot + i)
}
