package rsfec

/*------------------------------------------------------------------
 *
 * Purpose:	Carry an arbitrary byte stream in tagged blocks.
 *
 * Description:	Each block's data part starts with a length byte:
 *
 *			0 .. K-1	That many payload bytes follow.
 *			0xFF		Stream header.  The next byte holds
 *					flags, STREAM_SNAPPY if the payload
 *					is snappy compressed.
 *
 *		Unused data bytes are zero.  Only 8 bit profiles can be
 *		used because payload bytes go straight into symbols.
 *
 *------------------------------------------------------------------*/

import (
	"bytes"
	"io"
	"runtime"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	STREAM_HEADER = 0xFF

	STREAM_SNAPPY = 0x01
)

// Chunks whatever it is given into blocks of one profile.
type blockWriter struct {
	w       io.Writer
	profile Profile
	pending []byte
	blocks  int
}

func (bw *blockWriter) Write(p []byte) (int, error) {
	var room = bw.profile.K - 1
	var n = 0

	for len(p) > 0 {
		var take = min(room-len(bw.pending), len(p))
		bw.pending = append(bw.pending, p[:take]...)
		p = p[take:]
		n += take

		if len(bw.pending) == room {
			if err := bw.flush(); err != nil {
				return n, err
			}
		}
	}

	return n, nil
}

func (bw *blockWriter) flush() error {
	if len(bw.pending) == 0 {
		return nil
	}

	var data = make([]byte, 1+len(bw.pending))
	data[0] = byte(len(bw.pending))
	copy(data[1:], bw.pending)
	bw.pending = bw.pending[:0]

	return bw.emit(data)
}

func (bw *blockWriter) emit(data []byte) error {
	var block, err = EncodeBlock(bw.profile, data)
	if err != nil {
		return err
	}

	if _, err := bw.w.Write(block); err != nil {
		return errors.Wrap(err, "writing block")
	}

	bw.blocks++

	return nil
}

// StreamWriter splits everything written to it into blocks.  Close must be
// called to send the final partial block.  The underlying writer is not
// closed.
type StreamWriter struct {
	bw     *blockWriter
	sw     *snappy.Writer
	closed bool
}

func NewStreamWriter(w io.Writer, p Profile, compress bool) (*StreamWriter, error) {
	if p.M != 8 {
		return nil, errors.Wrapf(ErrUnsupportedParameters, "%s: streams need 8 bit symbols", p.Name)
	}
	if p.K < 2 {
		return nil, errors.Wrapf(ErrUnsupportedParameters, "%s: no room for payload", p.Name)
	}

	var s = &StreamWriter{
		bw: &blockWriter{w: w, profile: p, pending: make([]byte, 0, p.K-1)},
	}

	if compress {
		if err := s.bw.emit([]byte{STREAM_HEADER, STREAM_SNAPPY}); err != nil {
			return nil, err
		}
		s.sw = snappy.NewBufferedWriter(s.bw)
	}

	return s, nil
}

func (s *StreamWriter) Write(p []byte) (int, error) {
	if s.closed {
		return 0, errors.New("write to closed stream")
	}

	if s.sw != nil {
		var n, err = s.sw.Write(p)
		return n, errors.WithStack(err)
	}

	return s.bw.Write(p)
}

// Blocks is the number of blocks sent so far.
func (s *StreamWriter) Blocks() int {
	return s.bw.blocks
}

func (s *StreamWriter) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if s.sw != nil {
		if err := s.sw.Close(); err != nil {
			return errors.WithStack(err)
		}
	}

	return s.bw.flush()
}

type ReadOptions struct {
	Profiles  *ProfileSet       // nil for the built in profiles.
	Workers   int               // Blocks decoded at once.  0 for one per CPU.
	AllowLoss bool              // Skip blocks that cannot be corrected.
	Stats     *Stats            // Optional.
	OnBlock   func(BlockResult) // Optional, called in block order.
}

type BlockResult struct {
	Index     int
	Offset    int64
	Profile   Profile
	Corrected int
	TagErrors int
	Err       error
}

type Report struct {
	Blocks     int
	Failed     int
	Corrected  int // Symbols, over all blocks.
	TagErrors  int
	Compressed bool
}

/*------------------------------------------------------------------
 *
 * Name:	ReadStream
 *
 * Purpose:	Recover a payload sent with StreamWriter.
 *
 * Description:	All blocks are gathered first, then decoded in
 *		parallel.  Payload is put back together in block order.
 *
 * Errors:	A block that could not be corrected, wrapped with
 *		its index, unless AllowLoss is set.  With AllowLoss the
 *		payload just has a hole where the block was.
 *
 *------------------------------------------------------------------*/

func ReadStream(r io.Reader, opts ReadOptions) ([]byte, *Report, error) {
	var blocks []Block
	var scanner = NewBlockScanner(opts.Profiles)
	var err = scanner.Scan(r, func(b Block) error {
		blocks = append(blocks, b)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	var workers = opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var results = make([]BlockResult, len(blocks))
	var datas = make([][]byte, len(blocks))

	var g errgroup.Group
	g.SetLimit(workers)

	for i, b := range blocks {
		g.Go(func() error {
			var data, corrected, decErr = b.Decode()

			results[i] = BlockResult{
				Index:     i,
				Offset:    b.Offset,
				Profile:   b.Profile,
				Corrected: corrected,
				TagErrors: b.TagErrors,
				Err:       decErr,
			}
			datas[i] = data

			if opts.Stats != nil {
				opts.Stats.Observe(results[i])
			}

			if decErr != nil && !opts.AllowLoss {
				return errors.Wrapf(decErr, "block %d at offset %d", i, b.Offset)
			}
			return nil
		})
	}

	var waitErr = g.Wait()

	var report = &Report{Blocks: len(blocks)}
	var payload bytes.Buffer

	for i := range results {
		var res = results[i]

		if opts.OnBlock != nil {
			opts.OnBlock(res)
		}

		report.TagErrors += res.TagErrors
		if res.Err != nil {
			report.Failed++
			continue
		}
		report.Corrected += res.Corrected

		var data = datas[i]
		if data[0] == STREAM_HEADER {
			if len(data) < 2 {
				return nil, report, errors.Wrapf(ErrBadBlock, "block %d: short stream header", i)
			}
			report.Compressed = data[1]&STREAM_SNAPPY != 0
			continue
		}

		var l = int(data[0])
		if l > len(data)-1 {
			return nil, report, errors.Wrapf(ErrBadBlock, "block %d: length %d, room for %d", i, l, len(data)-1)
		}
		payload.Write(data[1 : 1+l])
	}

	if waitErr != nil {
		return nil, report, waitErr
	}

	if !report.Compressed {
		return payload.Bytes(), report, nil
	}

	var out, readErr = io.ReadAll(snappy.NewReader(&payload))
	if readErr != nil {
		return nil, report, errors.Wrap(readErr, "decompressing payload")
	}

	return out, report, nil
}
