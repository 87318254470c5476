package main

/*------------------------------------------------------------------
 *
 * Purpose:	Tabulate how Reed-Solomon codes cope with symbol errors.
 *
 * Usage:	rseval [options]
 *
 *		For each m,t pair, random messages are encoded, hit with
 *		a fixed number of symbol errors and decoded.  The
 *		result is a markdown report of how many were corrected,
 *		detected as uncorrectable or silently miscorrected.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	rsfec "github.com/doismellburning/rsfec/src"
)

type config struct {
	M int
	T int
}

func parseConfigs(s string) ([]config, error) {
	var parts = strings.Split(s, ";")
	var out = make([]config, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		var a, b int
		if _, err := fmt.Sscanf(p, "%d,%d", &a, &b); err != nil {
			return nil, errors.Wrapf(err, "bad config %q", p)
		}
		out = append(out, config{M: a, T: b})
	}
	if len(out) == 0 {
		return nil, errors.New("no configs")
	}
	return out, nil
}

func parseWeights(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var out []int
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		var w int
		if _, err := fmt.Sscanf(p, "%d", &w); err != nil {
			return nil, errors.Wrapf(err, "bad weight %q", p)
		}
		out = append(out, w)
	}
	return out, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout io.Writer, stderr io.Writer) int {
	var flags = pflag.NewFlagSet("rseval", pflag.ContinueOnError)
	flags.SetOutput(stderr)

	var cfgStr = flags.String("configs", "4,4;8,16;8,32", "Semicolon separated list of m,t pairs.")
	var k = flags.Int("k", 0, "Message length in symbols.  0 for the longest possible.")
	var runs = flags.IntP("runs", "r", 10000, "Trials per number of errors.")
	var seed = flags.Uint64("seed", 42, "Random seed.")
	var weightStr = flags.StringP("weights", "w", "", "Comma separated numbers of errors to try.  Default 0 through t.")
	var exhaustive = flags.Bool("exhaustive", false, "Try every error pattern instead of random ones.  Small codes only.")
	var outPath = flags.StringP("out", "o", "", "Write the markdown report here instead of standard output.")
	var help = flags.Bool("help", false, "Display help text.")

	flags.Usage = func() {
		fmt.Fprintf(stderr, "rseval - Reed-Solomon error correction statistics.\n")
		fmt.Fprintf(stderr, "\n")
		fmt.Fprintf(stderr, "Usage: rseval [options]\n")
		fmt.Fprintf(stderr, "\n")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return 2
	}

	if *help {
		flags.Usage()
		return 0
	}

	var cfgs, err = parseConfigs(*cfgStr)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 2
	}

	weights, err := parseWeights(*weightStr)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 2
	}

	var results []rsfec.EvalResult
	for _, c := range cfgs {
		var res rsfec.EvalResult
		var evalErr error
		if *exhaustive {
			res, evalErr = evaluateExhaustive(c, *k, weights)
		} else {
			res, evalErr = rsfec.Evaluate(rsfec.EvalConfig{M: c.M, T: c.T, K: *k, Weights: weights, Runs: *runs, Seed: *seed})
		}
		if evalErr != nil {
			fmt.Fprintf(stderr, "m=%d t=%d: %v\n", c.M, c.T, evalErr)
			return 1
		}
		results = append(results, res)
	}

	var out = stdout
	var outF *os.File
	if *outPath != "" {
		var f, createErr = os.Create(*outPath)
		if createErr != nil {
			fmt.Fprintf(stderr, "%v\n", createErr)
			return 1
		}
		out = f
		outF = f
	}

	writeMarkdown(out, results, *exhaustive)

	if err := closeOutput(outF); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	return 0
}

func evaluateExhaustive(c config, k int, weights []int) (rsfec.EvalResult, error) {
	if weights == nil {
		for w := 0; w <= c.T; w++ {
			weights = append(weights, w)
		}
	}

	var res = rsfec.EvalResult{Config: rsfec.EvalConfig{M: c.M, T: c.T, K: k, Weights: weights}}

	for _, w := range weights {
		var row, err = rsfec.EvaluateExhaustive(c.M, c.T, k, w)
		if err != nil {
			return res, errors.Wrapf(err, "%d errors", w)
		}
		res.Rows = append(res.Rows, row)
	}

	if k == 0 {
		res.Config.K = (1 << c.M) - 1 - c.T
	}
	res.N = res.Config.K + c.T

	return res, nil
}

func percent(n int, d int) float64 {
	if d == 0 {
		return 0
	}
	return 100 * float64(n) / float64(d)
}

func writeMarkdown(w io.Writer, results []rsfec.EvalResult, exhaustive bool) {
	fmt.Fprintf(w, "# Reed-Solomon Evaluation Report\n\n")
	fmt.Fprintf(w, "Generated: %s\n\n", time.Now().Format(time.RFC3339))

	for _, r := range results {
		var c = r.Config
		fmt.Fprintf(w, "## RS(%d,%d) over GF(2^%d)\n\n", r.N, c.K, c.M)
		if exhaustive {
			fmt.Fprintf(w, "Every error pattern, corrects up to %d.\n\n", c.T/2)
		} else {
			fmt.Fprintf(w, "Seed %d, corrects up to %d.\n\n", c.Seed, c.T/2)
		}

		fmt.Fprintf(w, "| Errors | Runs | Corrected (%%) | Detected (%%) | Miscorrected (%%) |\n")
		fmt.Fprintf(w, "|---:|---:|---:|---:|---:|\n")
		for _, row := range r.Rows {
			fmt.Fprintf(w, "| %d | %d | %.2f | %.2f | %.2f |\n", row.Weight, row.Runs,
				percent(row.Corrected, row.Runs), percent(row.Detected, row.Runs), percent(row.Miscorrected, row.Runs))
		}
		fmt.Fprintf(w, "\n")
	}
}

// closeOutput closes the output file, if one was opened.  Data that did not
// make it to the file only shows up as a Close error.
func closeOutput(f *os.File) error {
	if f == nil {
		return nil
	}
	return errors.Wrap(f.Close(), "closing output")
}
