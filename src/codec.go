package rsfec

import (
	"sync"

	"github.com/pkg/errors"
)

/*-------------------------------------------------------------
 *
 * Name:	Codec
 *
 * Purpose:	Binds the field and generator polynomial for one
 *		(symbol size, parity symbols) combination.
 *
 * Description:	Construction is the only step with a setup cost.
 *		After that every encode and decode is table lookups on
 *		caller owned buffers, so one Codec may be used from any
 *		number of goroutines at once.
 *
 *		The largest message is 2**m - 1 - t symbols.  Anything
 *		shorter is a "shortened" code: conceptually the message
 *		is padded in front with zeros up to full length, which
 *		contributes nothing, so the padding never exists.
 *
 *--------------------------------------------------------------*/

type Codec struct {
	field *Field
	gen   *Generator
	t     int
}

// NewCodec builds a codec for m bit symbols and t parity symbols.
func NewCodec(m, t int) (*Codec, error) {
	var f, err = FieldFor(m)
	if err != nil {
		return nil, err
	}

	var g, genErr = NewGenerator(f, t)
	if genErr != nil {
		return nil, genErr
	}

	return &Codec{field: f, gen: g, t: t}, nil
}

func (c *Codec) Field() *Field {
	return c.field
}

func (c *Codec) Generator() *Generator {
	return c.gen
}

// Bits is the symbol size m.
func (c *Codec) Bits() int {
	return c.field.Bits()
}

// Parity is the number of parity symbols t.
func (c *Codec) Parity() int {
	return c.t
}

// MaxMessageLen is the message length of the unshortened code, 2^m - 1 - t.
func (c *Codec) MaxMessageLen() int {
	return c.field.nn - c.t
}

// MaxCorrectable is the number of symbol errors that can always be corrected.
func (c *Codec) MaxCorrectable() int {
	return c.t / 2
}

func (c *Codec) checkMessageLength(k int) error {
	if k < 1 || k > c.MaxMessageLen() {
		return errors.Wrapf(ErrInvalidMessageLength, "%d message symbols, RS(%d,%d) allows 1 to %d",
			k, c.field.nn, c.MaxMessageLen(), c.MaxMessageLen())
	}
	return nil
}

func (c *Codec) checkSymbols(what string, p []Symbol) error {
	for i, s := range p {
		if !c.field.Valid(s) {
			return errors.Wrapf(ErrInvalidSymbolsUsed, "%s symbol %d at offset %d does not fit in %d bits", what, s, i, c.field.mm)
		}
	}
	return nil
}

// Codecs are immutable so one per combination is plenty.

type codecKey struct {
	m, t int
}

var codecCache = struct {
	sync.Mutex
	codecs map[codecKey]*Codec
}{
	codecs: make(map[codecKey]*Codec),
}

func codecFor(m, t int) (*Codec, error) {
	codecCache.Lock()
	defer codecCache.Unlock()

	var key = codecKey{m: m, t: t}
	if c, ok := codecCache.codecs[key]; ok {
		return c, nil
	}

	var c, err = NewCodec(m, t)
	if err != nil {
		return nil, err
	}
	codecCache.codecs[key] = c
	return c, nil
}

// Encode is Codec.Encode for a codec with m bit symbols and t parity symbols.
func Encode(message []Symbol, t int, m int, codeword []Symbol) error {
	var c, err = codecFor(m, t)
	if err != nil {
		return err
	}
	return c.Encode(message, codeword)
}

// Decode is Codec.Decode for a codec with m bit symbols and t parity symbols.
func Decode(received []Symbol, t int, m int, messageOut []Symbol) (int, error) {
	var c, err = codecFor(m, t)
	if err != nil {
		return 0, err
	}
	return c.Decode(received, messageOut)
}
