package rsfec

// SPDX-FileCopyrightText: 2002 Phil Karn, KA9Q
// SPDX-FileCopyrightText: The Samoyed Authors

/*------------------------------------------------------------------
 *
 * Purpose:	Arithmetic over GF(2^m) for symbol widths of 1 to 8 bits.
 *
 * Description:	Elements are held in "polynomial form", i.e. the bits
 *		of the symbol are the coefficients of a polynomial in
 *		alpha over GF(2).  Multiplication goes through "index
 *		form", the discrete log of the element.
 *
 *		alphaTo[i] = alpha**i		(antilog)
 *		indexOf[e] = i, alpha**i == e	(log)
 *
 *		Log of zero is minus infinity.  As in Phil Karn's code it
 *		is represented by nn (called A0 there) and alphaTo[nn] is 0.
 *
 *		Tables for every width are built once at start up and are
 *		never written again, so a Field can be shared freely
 *		between goroutines.
 *
 *---------------------------------------------------------------*/

import (
	"github.com/pkg/errors"
)

// Symbol is an element of GF(2^m).  It always occupies one byte, whatever m is.
type Symbol = byte

// MaxSymbolBits is the widest supported symbol.
const MaxSymbolBits = 8

// Field generator polynomials, indexed by symbol width.
// These are the defaults of MATLAB's gfprimdp and of most published codes.
var primitivePolys = [MaxSymbolBits + 1]uint{
	0,
	0x3,   // x + 1
	0x7,   // x^2 + x + 1
	0xb,   // x^3 + x + 1
	0x13,  // x^4 + x + 1
	0x25,  // x^5 + x^2 + 1
	0x43,  // x^6 + x + 1
	0x89,  // x^7 + x^3 + 1
	0x11d, // x^8 + x^4 + x^3 + x^2 + 1
}

type Field struct {
	mm      uint // Bits per symbol.
	nn      int  // Symbols per full length block, 2**mm - 1.
	alphaTo [1 << MaxSymbolBits]Symbol
	indexOf [1 << MaxSymbolBits]Symbol
}

var fields [MaxSymbolBits + 1]*Field

func init() {
	for m := 1; m <= MaxSymbolBits; m++ {
		var f, err = NewField(m)
		if err != nil {
			panic(err) // Table of polynomials above is wrong.
		}
		fields[m] = f
	}
}

// NewField builds the log and antilog tables for GF(2^m) from the fixed
// primitive polynomial for m.
func NewField(m int) (*Field, error) {
	if m < 1 || m > MaxSymbolBits {
		return nil, errors.Wrapf(ErrUnsupportedParameters, "symbol size %d bits, must be 1 to %d", m, MaxSymbolBits)
	}

	var f = new(Field)

	f.mm = uint(m)
	f.nn = (1 << m) - 1

	var gfpoly = int(primitivePolys[m])

	f.indexOf[0] = Symbol(f.nn) // log(zero) = -inf
	f.alphaTo[f.nn] = 0         // alpha**-inf = 0

	var sr = 1
	for i := 0; i < f.nn; i++ {
		f.indexOf[sr] = Symbol(i)
		f.alphaTo[i] = Symbol(sr)
		sr <<= 1
		if sr&(1<<m) != 0 {
			sr ^= gfpoly
		}
		sr &= f.nn
	}
	if sr != 1 {
		return nil, errors.Wrapf(ErrUnsupportedParameters, "field generator polynomial 0x%x is not primitive", gfpoly)
	}

	return f, nil
}

// FieldFor returns the shared field for symbol width m.
func FieldFor(m int) (*Field, error) {
	if m < 1 || m > MaxSymbolBits {
		return nil, errors.Wrapf(ErrUnsupportedParameters, "symbol size %d bits, must be 1 to %d", m, MaxSymbolBits)
	}
	return fields[m], nil
}

// Bits is the symbol width m.
func (f *Field) Bits() int {
	return int(f.mm)
}

// Order is the size of the multiplicative group, 2^m - 1.  It is also the
// longest possible codeword.
func (f *Field) Order() int {
	return f.nn
}

// Valid reports whether s is an element of the field.
func (f *Field) Valid(s Symbol) bool {
	return int(s) <= f.nn
}

// x % nn for x >= 0, without a division.
func (f *Field) modnn(x int) int {
	for x >= f.nn {
		x -= f.nn
		x = (x >> f.mm) + (x & f.nn)
	}
	return x
}

func (f *Field) Add(a, b Symbol) Symbol {
	return a ^ b
}

func (f *Field) Multiply(a, b Symbol) Symbol {
	if a == 0 || b == 0 {
		return 0
	}
	return f.alphaTo[f.modnn(int(f.indexOf[a])+int(f.indexOf[b]))]
}

func (f *Field) Inverse(a Symbol) (Symbol, error) {
	if a == 0 {
		return 0, errors.Wrap(ErrDivisionByZero, "inverse of zero")
	}
	return f.alphaTo[f.modnn(f.nn-int(f.indexOf[a]))], nil
}

func (f *Field) Divide(a, b Symbol) (Symbol, error) {
	if b == 0 {
		return 0, errors.Wrapf(ErrDivisionByZero, "%d / 0", a)
	}
	if a == 0 {
		return 0, nil
	}
	return f.alphaTo[f.modnn(int(f.indexOf[a])+f.nn-int(f.indexOf[b]))], nil
}

// Power returns a**n.  n may be negative for non-zero a.
// Zero to any non-zero power is zero and anything to the power 0 is 1.
func (f *Field) Power(a Symbol, n int) Symbol {
	if n == 0 {
		return 1
	}
	if a == 0 {
		return 0
	}
	var e = (int(f.indexOf[a]) * (n % f.nn)) % f.nn
	if e < 0 {
		e += f.nn
	}
	return f.alphaTo[e]
}

// Exp returns alpha**i for any i.
func (f *Field) Exp(i int) Symbol {
	i %= f.nn
	if i < 0 {
		i += f.nn
	}
	return f.alphaTo[i]
}

// Log returns i such that alpha**i == a.  The log of zero is reported as
// Order(), the minus infinity marker of the index form tables.
func (f *Field) Log(a Symbol) int {
	return int(f.indexOf[a])
}

// EvalPoly evaluates p at x by Horner's method.  p[0] is the highest degree
// coefficient, which matches the layout of a codeword.
func (f *Field) EvalPoly(p []Symbol, x Symbol) Symbol {
	var acc Symbol
	for _, c := range p {
		acc = f.Multiply(acc, x) ^ c
	}
	return acc
}
