package rsfec

// SPDX-FileCopyrightText: 2002 Phil Karn, KA9Q
// SPDX-FileCopyrightText: 2007 Jim McGuire KB3MPL
// SPDX-FileCopyrightText: The Samoyed Authors

import (
	"github.com/pkg/errors"
)

// Largest possible t (GF(256), one message symbol) and the most errors it can fix.
// Working storage in the decoder is sized by these, never by the block length.
const (
	maxParity  = (1 << MaxSymbolBits) - 2
	maxCorrect = maxParity / 2
)

/*-------------------------------------------------------------
 *
 * Name:	Syndromes
 *
 * Purpose:	Evaluate the received word at each root of g(x).
 *
 * Inputs:	received	- Codeword, first symbol is the highest
 *				  degree coefficient.  Symbols must fit
 *				  in m bits; they are not checked here.
 *
 * Outputs:	s		- t syndromes, s[i] = r(alpha**(firstRoot+i)).
 *				  Must have room for Parity() symbols.
 *
 * Returns:	true if any syndrome is non-zero, i.e. received is not
 *		a codeword.
 *
 *--------------------------------------------------------------*/

func (c *Codec) Syndromes(received []Symbol, s []Symbol) bool {
	var rs = c.field
	var nroots = c.t

	if len(received) == 0 {
		for i := 0; i < nroots; i++ {
			s[i] = 0
		}
		return false
	}

	for i := 0; i < nroots; i++ {
		s[i] = received[0]
	}

	for j := 1; j < len(received); j++ {
		for i := 0; i < nroots; i++ {
			if s[i] == 0 {
				s[i] = received[j]
			} else {
				s[i] = received[j] ^ rs.alphaTo[rs.modnn(int(rs.indexOf[s[i]])+firstRoot+i)]
			}
		}
	}

	var synError Symbol
	for i := 0; i < nroots; i++ {
		synError |= s[i]
	}

	return synError != 0
}

// Check reports whether received is a valid codeword.  A word of the
// wrong length or with symbols outside the field is not.
func (c *Codec) Check(received []Symbol) bool {
	if c.checkReceived(received) != nil {
		return false
	}

	var s [maxParity]Symbol
	return !c.Syndromes(received, s[:c.t])
}

// Locations and magnitudes of the errors found in one block.
type errorSet struct {
	count int
	loc   [maxCorrect]int // Index into the received block.
	mag   [maxCorrect]Symbol
}

/*-------------------------------------------------------------
 *
 * Name:	locate
 *
 * Purpose:	Find the errors in a received block without changing it.
 *
 * Returns:	Errors found in E.  E.count is 0 for a valid codeword.
 *
 * Errors:	ErrUncorrectable	- More than t/2 errors, or the
 *					  error locator does not have as
 *					  many roots inside the block as
 *					  its degree, or it does not
 *					  generate all the syndromes.
 *		ErrDivisionByZero	- Formal derivative vanished at a
 *					  root.  Not expected with distinct
 *					  roots.
 *
 * Description:	Berlekamp-Massey for the error locator lambda(x),
 *		Chien search for its roots, Forney for the values.
 *
 *		A root outside the block, i.e. in the zero padding of a
 *		shortened code, is simply never found, which shows up as
 *		a root count mismatch.
 *
 *--------------------------------------------------------------*/

func (c *Codec) locate(received []Symbol, E *errorSet) error {
	var rs = c.field
	var nroots = c.t
	var n = len(received)

	var s [maxParity]Symbol // Syndrome poly, s[i] is the coefficient of x**i.
	var lambda [maxParity + 1]Symbol
	var b [maxParity + 1]Symbol
	var t [maxParity + 1]Symbol
	var omega [maxParity]Symbol

	E.count = 0

	// Form the syndromes; i.e., evaluate received(x) at roots of g(x)
	if !c.Syndromes(received, s[:nroots]) {
		// received is a codeword and there are no errors to correct.
		return nil
	}

	// Begin Berlekamp-Massey algorithm to determine error locator polynomial
	lambda[0] = 1
	b[0] = 1
	var el = 0
	for r := 1; r <= nroots; r++ {
		// Compute discrepancy at the r-th step
		var discr Symbol
		for i := 0; i < r; i++ {
			discr ^= rs.Multiply(lambda[i], s[r-i-1])
		}

		if discr == 0 {
			// B(x) <-- x*B(x)
			copy(b[1:nroots+1], b[:nroots])
			b[0] = 0
			continue
		}

		// T(x) <-- lambda(x) - discr*x*b(x)
		t[0] = lambda[0]
		for i := 0; i < nroots; i++ {
			t[i+1] = lambda[i+1] ^ rs.Multiply(discr, b[i])
		}

		if 2*el <= r-1 {
			el = r - el

			// B(x) <-- inv(discr) * lambda(x)
			var inv, err = rs.Inverse(discr)
			if err != nil {
				return err
			}
			for i := 0; i <= nroots; i++ {
				b[i] = rs.Multiply(lambda[i], inv)
			}
		} else {
			// B(x) <-- x*B(x)
			copy(b[1:nroots+1], b[:nroots])
			b[0] = 0
		}

		copy(lambda[:nroots+1], t[:nroots+1])
	}

	var degLambda = 0
	for i := 0; i <= nroots; i++ {
		if lambda[i] != 0 {
			degLambda = i
		}
	}

	if degLambda == 0 || degLambda > nroots/2 {
		return errors.Wrapf(ErrUncorrectable, "error locator degree %d, at most %d errors can be corrected", degLambda, nroots/2)
	}

	// Find roots of the error locator polynomial by Chien search.
	// Position j counts back from the end of the block, so the
	// symbol there is received[n-1-j] and its locator is alpha**j.
	var count = 0
	for j := 0; j < n && count < degLambda; j++ {
		var xinv = rs.Exp(-j)

		var q Symbol
		for i := degLambda; i >= 0; i-- {
			q = rs.Multiply(q, xinv) ^ lambda[i]
		}
		if q != 0 {
			continue // Not a root
		}

		E.loc[count] = n - 1 - j
		count++
	}

	if count != degLambda {
		// deg(lambda) unequal to number of roots => uncorrectable error detected
		return errors.Wrapf(ErrUncorrectable, "error locator degree %d but %d roots in block", degLambda, count)
	}

	// Compute error evaluator poly omega(x) = s(x)*lambda(x) (modulo x**nroots).
	for i := 0; i < nroots; i++ {
		var tmp Symbol
		for j := min(degLambda, i); j >= 0; j-- {
			tmp ^= rs.Multiply(s[i-j], lambda[j])
		}
		omega[i] = tmp
	}

	// omega has no terms at or above deg(lambda) when lambda generates all
	// the syndromes.  Otherwise BM's register was longer than deg(lambda)
	// and correcting at the roots would not give a codeword.
	for i := degLambda; i < nroots; i++ {
		if omega[i] != 0 {
			return errors.Wrapf(ErrUncorrectable, "error locator of degree %d does not fit the syndromes", degLambda)
		}
	}

	// Compute error values.  num1 = omega(inv(X)), num2 = X**(1-firstRoot)
	// and den = lambda_pr(inv(X)).
	for l := 0; l < count; l++ {
		var j = n - 1 - E.loc[l]
		var xinv = rs.Exp(-j)

		var num1 Symbol
		for i := degLambda - 1; i >= 0; i-- {
			num1 = rs.Multiply(num1, xinv) ^ omega[i]
		}

		var num2 = rs.Exp(j * (1 - firstRoot))

		// lambda[i+1] for i even is the formal derivative lambda_pr of lambda[i]
		var den Symbol
		for i := min(degLambda, nroots-1) &^ 1; i >= 0; i -= 2 {
			if lambda[i+1] != 0 {
				den ^= rs.Multiply(lambda[i+1], rs.Power(xinv, i))
			}
		}

		var dinv, err = rs.Inverse(den)
		if err != nil {
			return errors.Wrapf(err, "error locator derivative at block position %d", E.loc[l])
		}

		var mag = rs.Multiply(rs.Multiply(num1, num2), dinv)
		if mag == 0 {
			return errors.Wrapf(ErrUncorrectable, "zero error value at block position %d", E.loc[l])
		}
		E.mag[l] = mag
	}

	E.count = count
	return nil
}

func (c *Codec) checkReceived(received []Symbol) error {
	var n = len(received)
	if n > c.field.nn || n-c.t < 1 {
		return errors.Wrapf(ErrInvalidMessageLength, "%d symbols received, RS(%d,%d) blocks are %d to %d symbols",
			n, c.field.nn, c.MaxMessageLen(), c.t+1, c.field.nn)
	}
	return c.checkSymbols("received", received)
}

/*-------------------------------------------------------------
 *
 * Name:	Decode
 *
 * Purpose:	Recover the message from a possibly damaged codeword.
 *
 * Inputs:	received	- k + t symbols, message then parity.
 *				  Not modified.
 *
 * Outputs:	messageOut	- First k symbols get the corrected
 *				  message.  Untouched on failure.
 *
 * Returns:	Number of symbols corrected, parity included.
 *
 * Errors:	ErrInvalidMessageLength, ErrMessageBufferTooSmall,
 *		ErrInvalidSymbolsUsed, ErrUncorrectable, ErrDivisionByZero.
 *
 *--------------------------------------------------------------*/

func (c *Codec) Decode(received []Symbol, messageOut []Symbol) (int, error) {
	if err := c.checkReceived(received); err != nil {
		return 0, err
	}

	var dataLen = len(received) - c.t
	if len(messageOut) < dataLen {
		return 0, errors.Wrapf(ErrMessageBufferTooSmall, "need %d symbols, have %d", dataLen, len(messageOut))
	}

	var E errorSet
	if err := c.locate(received, &E); err != nil {
		if DebugLevel() >= 2 {
			Logger().Debug("RS decode failed", "m", c.field.mm, "n", len(received), "t", c.t, "err", err)
		}
		return 0, err
	}

	copy(messageOut[:dataLen], received[:dataLen])
	for l := 0; l < E.count; l++ {
		if E.loc[l] < dataLen {
			messageOut[E.loc[l]] ^= E.mag[l]
		}
	}

	if DebugLevel() >= 2 && E.count > 0 {
		Logger().Debug("RS decode corrected errors", "count", E.count, "positions", append([]int(nil), E.loc[:E.count]...))
	}

	return E.count, nil
}

/*-------------------------------------------------------------
 *
 * Name:	Correct
 *
 * Purpose:	Fix up a whole codeword in place, parity included.
 *
 * Inputs:	codeword	- k + t symbols.
 *
 *		errLocs		- Optional.  Gets the block positions
 *				  that were changed, as many as fit.
 *
 * Returns:	Number of symbols corrected.  The codeword is not
 *		modified when an error is returned.
 *
 *--------------------------------------------------------------*/

func (c *Codec) Correct(codeword []Symbol, errLocs []int) (int, error) {
	if err := c.checkReceived(codeword); err != nil {
		return 0, err
	}

	var E errorSet
	if err := c.locate(codeword, &E); err != nil {
		return 0, err
	}

	for l := 0; l < E.count; l++ {
		codeword[E.loc[l]] ^= E.mag[l]
		if l < len(errLocs) {
			errLocs[l] = E.loc[l]
		}
	}

	return E.count, nil
}
