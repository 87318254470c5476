package main

/*------------------------------------------------------------------
 *
 * Purpose:	Recover a file from Reed-Solomon tagged blocks.
 *
 * Usage:	rsdec [options] [ infile ]
 *
 *		Reads standard input when no file is given.  Recovered
 *		data goes to standard output unless -o is used.  Block
 *		reports go to standard error.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lestrrat-go/strftime"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	rsfec "github.com/doismellburning/rsfec/src"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) int {
	var flags = pflag.NewFlagSet("rsdec", pflag.ContinueOnError)
	flags.SetOutput(stderr)

	var workers = flags.IntP("workers", "w", 0, "Blocks to decode at once.  0 for one per CPU.")
	var allowLoss = flags.Bool("allow-loss", false, "Leave out blocks that can't be corrected instead of failing.")
	var timestampFormat = flags.StringP("timestamp-format", "T", "", "Precede block reports with 'strftime' format time stamp.")
	var metricsFile = flags.StringP("metrics-file", "M", "", "Write Prometheus metrics here, for the node exporter textfile collector.")
	var profilesFile = flags.StringP("profiles", "c", "", "YAML file with more profiles.")
	var outFile = flags.StringP("output", "o", "", "Write recovered data here instead of standard output.")
	var verbose = flags.BoolP("verbose", "v", false, "Report every block, not just failures.")
	var debug = flags.CountP("debug", "d", "Increase debug level.  Repeat for more.")
	var quiet = flags.BoolP("quiet", "q", false, "Only report errors.")
	var version = flags.Bool("version", false, "Print version and exit.")
	var help = flags.Bool("help", false, "Display help text.")

	flags.Usage = func() {
		fmt.Fprintf(stderr, "rsdec - Recover a file from Reed-Solomon protected blocks.\n")
		fmt.Fprintf(stderr, "\n")
		fmt.Fprintf(stderr, "Usage: rsdec [options] [ infile ]\n")
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

	if *version {
		rsfec.PrintVersion(stdout, "rsdec", *debug > 0)
		return 0
	}

	rsfec.SetDebugLevel(rsfec.IfThenElse(*quiet, 0, 1+*debug))

	var ps = rsfec.NewProfileSet()
	if *profilesFile != "" {
		if err := loadProfiles(ps, *profilesFile); err != nil {
			rsfec.Logger().Error("Can't load profiles", "err", err)
			return 1
		}
	}

	var in = stdin
	if flags.NArg() > 0 && flags.Arg(0) != "-" {
		var f, err = os.Open(flags.Arg(0))
		if err != nil {
			rsfec.Logger().Error("Can't open input", "err", err)
			return 1
		}
		defer f.Close()
		in = f
	}

	var stats = rsfec.NewStats()

	var report = func(r rsfec.BlockResult) {
		if r.Err == nil && (!*verbose || *quiet) {
			return
		}

		var prefix = ""
		if *timestampFormat != "" {
			var formattedTime, _ = strftime.Format(*timestampFormat, time.Now())
			prefix = formattedTime + " "
		}

		if r.Err != nil {
			fmt.Fprintf(stderr, "%sblock %d at %d, %s: FAILED, %s\n", prefix, r.Index, r.Offset, r.Profile.Name, r.Err)
		} else {
			fmt.Fprintf(stderr, "%sblock %d at %d, %s: %d corrected, %d tag bit errors\n", prefix, r.Index, r.Offset, r.Profile.Name, r.Corrected, r.TagErrors)
		}
	}

	var payload, summary, err = rsfec.ReadStream(in, rsfec.ReadOptions{
		Profiles:  ps,
		Workers:   *workers,
		AllowLoss: *allowLoss,
		Stats:     stats,
		OnBlock:   report,
	})

	if *metricsFile != "" {
		if err := stats.WriteTextfile(*metricsFile); err != nil {
			rsfec.Logger().Error("Can't write metrics", "err", err)
		}
	}

	if err != nil {
		rsfec.Logger().Error("Decode failed", "err", err)
		return 1
	}

	var out = stdout
	var outF *os.File
	if *outFile != "" {
		var f, createErr = os.Create(*outFile)
		if createErr != nil {
			rsfec.Logger().Error("Can't create output", "err", createErr)
			return 1
		}
		defer f.Close()
		out = f
		outF = f
	}

	if _, err := out.Write(payload); err != nil {
		rsfec.Logger().Error("Can't write output", "err", err)
		return 1
	}

	if err := closeOutput(outF); err != nil {
		rsfec.Logger().Error("Can't write output", "err", err)
		return 1
	}

	rsfec.Logger().Info("Decoded", "bytes", len(payload), "blocks", summary.Blocks, "failed", summary.Failed,
		"corrected", summary.Corrected, "compressed", summary.Compressed)

	if summary.Failed > 0 {
		return 3
	}

	return 0
}

func loadProfiles(ps *rsfec.ProfileSet, path string) error {
	var f, err = os.Open(path)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	var _, loadErr = ps.LoadProfiles(f)
	return loadErr
}

// closeOutput closes the output file, if one was opened.  Data that did not
// make it to the file only shows up as a Close error.
func closeOutput(f *os.File) error {
	if f == nil {
		return nil
	}
	return errors.Wrap(f.Close(), "closing output")
}
