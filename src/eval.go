package rsfec

/*------------------------------------------------------------------
 *
 * Purpose:	Measure how a code behaves as the number of symbol
 *		errors grows.
 *
 * Description:	Each trial ends up in one of three classes:
 *
 *		Corrected	Decoder returned the original message.
 *		Detected	Decoder gave up with ErrUncorrectable.
 *		Miscorrected	Decoder returned some other message.
 *
 *		Up to t/2 errors every trial must be Corrected.  Beyond
 *		that a good code mostly Detects.
 *
 *------------------------------------------------------------------*/

import (
	"bytes"

	"github.com/pkg/errors"
)

// Largest number of patterns EvaluateExhaustive will try.
const exhaustiveLimit = 1 << 22

type EvalConfig struct {
	M       int
	T       int
	K       int    // Message length.  0 for the longest possible.
	Weights []int  // Errors per trial.  nil for 0 through T.
	Runs    int    // Trials per weight.
	Seed    uint64 // Same seed, same trials.
}

type EvalRow struct {
	Weight       int
	Runs         int
	Corrected    int
	Detected     int
	Miscorrected int
}

type EvalResult struct {
	Config EvalConfig
	N      int
	Rows   []EvalRow
}

func (r *EvalRow) classify(decErr error, ok bool) error {
	r.Runs++

	switch {
	case decErr == nil && ok:
		r.Corrected++
	case decErr == nil:
		r.Miscorrected++
	case errors.Is(decErr, ErrUncorrectable), errors.Is(decErr, ErrDivisionByZero):
		r.Detected++
	default:
		return decErr
	}

	return nil
}

func evalCodec(m int, t int, k int) (*Codec, int, error) {
	var codec, err = codecFor(m, t)
	if err != nil {
		return nil, 0, err
	}

	if k == 0 {
		k = codec.MaxMessageLen()
	}
	if err := codec.checkMessageLength(k); err != nil {
		return nil, 0, err
	}

	return codec, k, nil
}

// Evaluate runs random trials: random message, cfg.Weights[i] random
// symbol errors, decode.
func Evaluate(cfg EvalConfig) (EvalResult, error) {
	var codec, k, err = evalCodec(cfg.M, cfg.T, cfg.K)
	if err != nil {
		return EvalResult{}, err
	}
	cfg.K = k

	var n = k + cfg.T

	if cfg.Weights == nil {
		for w := 0; w <= cfg.T; w++ {
			cfg.Weights = append(cfg.Weights, w)
		}
	}

	if cfg.Runs <= 0 {
		return EvalResult{}, errors.Errorf("%d runs", cfg.Runs)
	}

	var ch = NewChannel(cfg.Seed)

	var msg = make([]Symbol, k)
	var cw = make([]Symbol, n)
	var out = make([]Symbol, k)

	var result = EvalResult{Config: cfg, N: n}

	for _, w := range cfg.Weights {
		if w < 0 || w > n {
			return result, errors.Errorf("cannot put %d errors in %d symbols", w, n)
		}

		var row = EvalRow{Weight: w}

		for run := 0; run < cfg.Runs; run++ {
			ch.Fill(msg, cfg.M)
			clear(cw)

			if err := codec.Encode(msg, cw); err != nil {
				return result, err
			}

			ch.CorruptWeight(cw, cfg.M, w)

			var _, decErr = codec.Decode(cw, out)
			if err := row.classify(decErr, bytes.Equal(out, msg)); err != nil {
				return result, err
			}
		}

		result.Rows = append(result.Rows, row)
	}

	return result, nil
}

/*------------------------------------------------------------------
 *
 * Name:	EvaluateExhaustive
 *
 * Purpose:	Try every error pattern of one weight on a small code.
 *
 * Description:	The code is linear so the decoder's behaviour depends
 *		only on the error pattern.  The all zero codeword is
 *		used and every choice of positions and non-zero values
 *		is tried.
 *
 *------------------------------------------------------------------*/

func EvaluateExhaustive(m int, t int, k int, weight int) (EvalRow, error) {
	var codec, kk, err = evalCodec(m, t, k)
	if err != nil {
		return EvalRow{}, err
	}
	k = kk

	var n = k + t
	if weight < 0 || weight > n {
		return EvalRow{}, errors.Errorf("cannot put %d errors in %d symbols", weight, n)
	}

	var patterns = 1.0
	for i := 0; i < weight; i++ {
		patterns *= float64(n-i) / float64(i+1) * float64(int(1)<<m-1)
	}
	if patterns > exhaustiveLimit {
		return EvalRow{}, errors.Wrapf(ErrUnsupportedParameters, "%.0f error patterns, limit is %d", patterns, exhaustiveLimit)
	}

	var rx = make([]Symbol, n)
	var out = make([]Symbol, k)
	var zero = make([]Symbol, k)
	var row = EvalRow{Weight: weight}

	var walk func(start int, left int) error
	walk = func(start int, left int) error {
		if left == 0 {
			var _, decErr = codec.Decode(rx, out)
			return row.classify(decErr, bytes.Equal(out, zero))
		}

		for p := start; p <= n-left; p++ {
			for v := 1; v < 1<<m; v++ {
				rx[p] = Symbol(v)
				if err := walk(p+1, left-1); err != nil {
					return err
				}
			}
			rx[p] = 0
		}
		return nil
	}

	if err := walk(0, weight); err != nil {
		return row, err
	}

	return row, nil
}
