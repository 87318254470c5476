package main

/*------------------------------------------------------------------
 *
 * Purpose:	Encode or decode a single Reed-Solomon codeword given
 *		as symbols on the command line.
 *
 * Usage:	rscodec [options] encode  sym ...
 *		rscodec [options] decode  sym ...
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	rsfec "github.com/doismellburning/rsfec/src"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout io.Writer, stderr io.Writer) int {
	var flags = pflag.NewFlagSet("rscodec", pflag.ContinueOnError)
	flags.SetOutput(stderr)

	var m = flags.IntP("bits", "m", 8, "Bits per symbol, 1 to 8.")
	var t = flags.IntP("parity", "t", 2, "Number of parity symbols.")
	var hexSymbols = flags.BoolP("hex", "x", false, "Symbols are hexadecimal, in and out.")
	var debug = flags.CountP("debug", "d", "Increase debug level.  Repeat for more.")
	var version = flags.Bool("version", false, "Print version and exit.")
	var help = flags.Bool("help", false, "Display help text.")

	flags.Usage = func() {
		fmt.Fprintf(stderr, "rscodec - Reed-Solomon encode or decode one codeword.\n")
		fmt.Fprintf(stderr, "\n")
		fmt.Fprintf(stderr, "Usage: rscodec [options] encode|decode sym ...\n")
		fmt.Fprintf(stderr, "\n")
		flags.PrintDefaults()
		fmt.Fprintf(stderr, "\n")
		fmt.Fprintf(stderr, "Example:\n")
		fmt.Fprintf(stderr, "\trscodec -m 4 -t 2 encode 1 2 3 4 5 6\n")
	}

	if err := flags.Parse(args); err != nil {
		return 2
	}

	if *help {
		flags.Usage()
		return 0
	}

	if *version {
		rsfec.PrintVersion(stdout, "rscodec", *debug > 0)
		return 0
	}

	rsfec.SetDebugLevel(1 + *debug)

	if flags.NArg() < 2 {
		flags.Usage()
		return 2
	}

	var symbols, err = parseSymbols(flags.Args()[1:], *hexSymbols)
	if err != nil {
		rsfec.Logger().Error("Bad symbol", "err", err)
		return 1
	}

	switch flags.Arg(0) {
	case "encode":
		var codeword = make([]rsfec.Symbol, len(symbols)+*t)
		if err := rsfec.Encode(symbols, *t, *m, codeword); err != nil {
			rsfec.Logger().Error("Encode failed", "err", err)
			return 1
		}
		fmt.Fprintln(stdout, formatSymbols(codeword, *hexSymbols))

	case "decode":
		var message = make([]rsfec.Symbol, max(len(symbols)-*t, 0))
		var corrected, err = rsfec.Decode(symbols, *t, *m, message)
		if err != nil {
			rsfec.Logger().Error("Decode failed", "err", err)
			return 1
		}
		fmt.Fprintln(stdout, formatSymbols(message, *hexSymbols))
		fmt.Fprintf(stdout, "%d %s corrected\n", corrected, rsfec.IfThenElse(corrected == 1, "symbol", "symbols"))

	default:
		fmt.Fprintf(stderr, "Unknown operation %q, expected encode or decode.\n", flags.Arg(0))
		return 2
	}

	return 0
}

func parseSymbols(args []string, hexSymbols bool) ([]rsfec.Symbol, error) {
	var base = 10
	if hexSymbols {
		base = 16
	}

	var symbols = make([]rsfec.Symbol, 0, len(args))
	for _, a := range args {
		var v, err = strconv.ParseUint(a, base, 8)
		if err != nil {
			return nil, err
		}
		symbols = append(symbols, rsfec.Symbol(v))
	}
	return symbols, nil
}

func formatSymbols(symbols []rsfec.Symbol, hexSymbols bool) string {
	var parts = make([]string, len(symbols))
	for i, s := range symbols {
		if hexSymbols {
			parts[i] = fmt.Sprintf("%02x", s)
		} else {
			parts[i] = strconv.Itoa(int(s))
		}
	}
	return strings.Join(parts, " ")
}
