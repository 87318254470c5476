package rsfec

// SPDX-FileCopyrightText: 2002 Phil Karn, KA9Q
// SPDX-FileCopyrightText: 2007 Jim McGuire KB3MPL
// SPDX-FileCopyrightText: The Samoyed Authors

import (
	"github.com/pkg/errors"
)

/*-------------------------------------------------------------
 *
 * Name:	Encode
 *
 * Purpose:	Systematic encoding of a message.
 *
 * Inputs:	message		- k symbols, 1 <= k <= 2**m - 1 - t.
 *
 *		codeword	- At least k + t symbols, all zero.
 *				  The parity calculation runs in here,
 *				  so no other buffer is needed.
 *
 * Outputs:	codeword	- [0, k) message, [k, k+t) parity.
 *				  Anything after k+t is left alone.
 *
 * Errors:	Checked in this order.
 *		ErrCodewordBufferTooSmall
 *		ErrInvalidSymbolsUsed
 *		ErrUninitialisedCodewordBuffer
 *		ErrInvalidMessageLength
 *
 * Description:	The parity is message(x) * x**t mod g(x), formed by
 *		the usual shift register division.  The register is the
 *		parity part of the codeword itself.
 *
 *--------------------------------------------------------------*/

func (c *Codec) Encode(message []Symbol, codeword []Symbol) error {
	var dataLen = len(message)
	var nroots = c.t

	if len(codeword) < dataLen+nroots {
		return errors.Wrapf(ErrCodewordBufferTooSmall, "need %d symbols, have %d", dataLen+nroots, len(codeword))
	}

	if err := c.checkSymbols("message", message); err != nil {
		return err
	}

	for i, s := range codeword {
		if s != 0 {
			return errors.Wrapf(ErrUninitialisedCodewordBuffer, "symbol at offset %d is %d", i, s)
		}
	}

	if err := c.checkMessageLength(dataLen); err != nil {
		return err
	}

	copy(codeword, message)

	var rs = c.field
	var genpoly = c.gen.index
	var nn = Symbol(rs.nn)
	var bb = codeword[dataLen : dataLen+nroots]

	for i := 0; i < dataLen; i++ {
		var feedback = rs.indexOf[message[i]^bb[0]]

		if feedback != nn { // feedback term is non-zero
			for j := 1; j < nroots; j++ {
				bb[j] ^= rs.alphaTo[rs.modnn(int(feedback)+int(genpoly[nroots-j]))]
			}
		}

		// Shift
		copy(bb, bb[1:])

		if feedback != nn {
			bb[nroots-1] = rs.alphaTo[rs.modnn(int(feedback)+int(genpoly[0]))]
		} else {
			bb[nroots-1] = 0
		}
	}

	if DebugLevel() >= 3 {
		Logger().Debug("RS encode", "m", rs.mm, "k", dataLen, "t", nroots, "codeword", "\n"+HexDump(codeword[:dataLen+nroots]))
	}

	return nil
}
