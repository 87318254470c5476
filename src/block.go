package rsfec

// SPDX-FileCopyrightText: 2007 Jim McGuire KB3MPL
// SPDX-FileCopyrightText: The Samoyed Authors

/********************************************************************************
 *
 * Purpose:     Tagged blocks: a correlation tag followed by one codeword.
 *
 *		<- 8 bytes -> <- - - - - - - - - N = K + T symbols - - - - - - - ->
 *		+------------+-------------------------------+-------------------+
 *		|  tag, LSB  |  K data symbols               |  T check symbols  |
 *		+------------+-------------------------------+-------------------+
 *
 *		One byte per symbol.  Shortened codes are padded in
 *		front, conceptually, so nothing is sent for the padding.
 *
 *******************************************************************************/

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

const TAG_SIZE = 8

// EncodeBlock returns the tag and codeword for data, which is zero filled
// up to the profile's K.
func EncodeBlock(p Profile, data []byte) ([]byte, error) {
	if len(data) > p.K {
		return nil, errors.Wrapf(ErrInvalidMessageLength, "%d data bytes, %s holds %d", len(data), p.Name, p.K)
	}

	var codec, err = p.Codec()
	if err != nil {
		return nil, err
	}

	var msg = make([]byte, p.K)
	copy(msg, data)

	var out = make([]byte, TAG_SIZE+p.N())
	binary.LittleEndian.PutUint64(out, p.Tag)

	if err := codec.Encode(msg, out[TAG_SIZE:]); err != nil {
		return nil, err
	}

	if DebugLevel() >= 3 {
		Logger().Debug("Block encoded", "profile", p.Name, "tag", p.Number, "block", "\n"+HexDump(out))
	}

	return out, nil
}

type Block struct {
	Profile   Profile
	Codeword  []byte // K data then T check symbols, as received.
	TagErrors int    // Bits wrong in the correlation tag.
	Offset    int64  // Position of the tag in the input.
}

// Decode corrects a copy of the codeword and returns the K data symbols.
func (b Block) Decode() ([]byte, int, error) {
	var codec, err = b.Profile.Codec()
	if err != nil {
		return nil, 0, err
	}

	if len(b.Codeword) != b.Profile.N() {
		return nil, 0, errors.Wrapf(ErrBadBlock, "%d symbols for %s", len(b.Codeword), b.Profile.Name)
	}

	var data = make([]byte, b.Profile.K)
	var corrected, decErr = codec.Decode(b.Codeword, data)
	if decErr != nil {
		return nil, 0, decErr
	}
	return data, corrected, nil
}

type scanState int

const (
	SCAN_TAG scanState = iota
	SCAN_DATA
	SCAN_CHECK
)

/***********************************************************************************
 *
 * Name:        BlockScanner
 *
 * Purpose:     Extract tagged blocks from a stream of bytes.
 *
 * Description: State machine to identify correlation tag then gather
 *		appropriate number of data and check bytes.  Anything
 *		between blocks is skipped over.
 *
 ***********************************************************************************/

type BlockScanner struct {
	profiles  *ProfileSet
	state     scanState
	accum     uint64 // Accumulate bytes for matching to correlation tag.
	seen      int    // Bytes in accum, up to TAG_SIZE.
	offset    int64  // Bytes consumed so far.
	profile   Profile
	tagErrors int
	tagOffset int64
	block     []byte
	dlen      int // Accumulated length of data part.
	clen      int // Accumulated length of check part.
}

func NewBlockScanner(profiles *ProfileSet) *BlockScanner {
	if profiles == nil {
		profiles = NewProfileSet()
	}
	return &BlockScanner{profiles: profiles}
}

// Busy reports whether a block is partly received.
func (bs *BlockScanner) Busy() bool {
	return bs.state != SCAN_TAG
}

// Put takes one byte and returns a block when one is complete.
func (bs *BlockScanner) Put(ch byte) (Block, bool) {
	bs.offset++

	switch bs.state {
	case SCAN_TAG:
		bs.accum >>= 8
		bs.accum |= uint64(ch) << 56
		if bs.seen < TAG_SIZE {
			bs.seen++
			if bs.seen < TAG_SIZE {
				return Block{}, false
			}
		}

		var p, d, ok = bs.profiles.MatchTag(bs.accum)
		if ok {
			if DebugLevel() >= 2 {
				Logger().Debug("Matched correlation tag", "tag", p.Number, "bit_errors", d, "data", p.K, "check", p.T)
			}

			bs.profile = p
			bs.tagErrors = d
			bs.tagOffset = bs.offset - TAG_SIZE
			bs.block = make([]byte, p.N())
			bs.dlen = 0
			bs.clen = 0
			bs.state = SCAN_DATA
		}

	case SCAN_DATA:
		bs.block[bs.dlen] = ch
		bs.dlen++
		if bs.dlen >= bs.profile.K {
			bs.state = SCAN_CHECK
		}

	case SCAN_CHECK:
		bs.block[bs.profile.K+bs.clen] = ch
		bs.clen++
		if bs.clen >= bs.profile.T {
			var b = Block{
				Profile:   bs.profile,
				Codeword:  bs.block,
				TagErrors: bs.tagErrors,
				Offset:    bs.tagOffset,
			}

			bs.block = nil
			bs.accum = 0
			bs.seen = 0
			bs.state = SCAN_TAG

			return b, true
		}
	}

	return Block{}, false
}

// Scan feeds all of r through the scanner and calls fn for each block.
// A block cut short by the end of input is dropped.
func (bs *BlockScanner) Scan(r io.Reader, fn func(Block) error) error {
	var br = bufio.NewReader(r)
	for {
		var ch, err = br.ReadByte()
		if errors.Is(err, io.EOF) {
			if bs.Busy() {
				Logger().Warn("Input ended inside a block", "profile", bs.profile.Name, "offset", bs.tagOffset)
			}
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "reading blocks")
		}

		if b, ok := bs.Put(ch); ok {
			if err := fn(b); err != nil {
				return err
			}
		}
	}
}
