package main

/*------------------------------------------------------------------
 *
 * Purpose:	Protect a file with Reed-Solomon tagged blocks.
 *
 * Usage:	rsenc [options] [ infile ]
 *
 *		Reads standard input when no file is given.  The blocks
 *		go to standard output unless -o is used.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	rsfec "github.com/doismellburning/rsfec/src"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) int {
	var flags = pflag.NewFlagSet("rsenc", pflag.ContinueOnError)
	flags.SetOutput(stderr)

	var profileName = flags.StringP("profile", "p", "", "Use this profile by name, e.g. \"RS(255,223)\".  Overrides -X.")
	var fxMode = flags.IntP("fx-mode", "X", 1, `Profile choice when -p is not used:
1 = automatic, 16, 32 or 64 = that many check bytes, 100+n = tag n.`)
	var compress = flags.BoolP("compress", "z", false, "Compress with snappy before encoding.")
	var profilesFile = flags.StringP("profiles", "c", "", "YAML file with more profiles.")
	var outFile = flags.StringP("output", "o", "", "Write blocks here instead of standard output.")
	var debug = flags.CountP("debug", "d", "Increase debug level.  Repeat for more.")
	var quiet = flags.BoolP("quiet", "q", false, "Only report errors.")
	var list = flags.BoolP("list", "l", false, "List available profiles and exit.")
	var version = flags.Bool("version", false, "Print version and exit.")
	var help = flags.Bool("help", false, "Display help text.")

	flags.Usage = func() {
		fmt.Fprintf(stderr, "rsenc - Split a file into Reed-Solomon protected blocks.\n")
		fmt.Fprintf(stderr, "\n")
		fmt.Fprintf(stderr, "Usage: rsenc [options] [ infile ]\n")
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
		rsfec.PrintVersion(stdout, "rsenc", *debug > 0)
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

	if *list {
		for _, p := range ps.All() {
			fmt.Fprintln(stdout, p)
		}
		return 0
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

	var payload, err = io.ReadAll(in)
	if err != nil {
		rsfec.Logger().Error("Can't read input", "err", err)
		return 1
	}

	p, err := chooseProfile(ps, *profileName, *fxMode, len(payload))
	if err != nil {
		rsfec.Logger().Error("No suitable profile", "err", err)
		return 1
	}

	var out = stdout
	var outF *os.File
	if *outFile != "" {
		var f, err = os.Create(*outFile)
		if err != nil {
			rsfec.Logger().Error("Can't create output", "err", err)
			return 1
		}
		defer f.Close()
		out = f
		outF = f
	}

	sw, err := rsfec.NewStreamWriter(out, p, *compress)
	if err != nil {
		rsfec.Logger().Error("Can't encode", "profile", p.Name, "err", err)
		return 1
	}

	if _, err := sw.Write(payload); err != nil {
		rsfec.Logger().Error("Encode failed", "err", err)
		return 1
	}

	if err := sw.Close(); err != nil {
		rsfec.Logger().Error("Encode failed", "err", err)
		return 1
	}

	if err := closeOutput(outF); err != nil {
		rsfec.Logger().Error("Can't write output", "err", err)
		return 1
	}

	rsfec.Logger().Info("Encoded", "bytes", len(payload), "blocks", sw.Blocks(), "profile", p.Name, "compressed", *compress)

	return 0
}

func loadProfiles(ps *rsfec.ProfileSet, path string) error {
	var f, err = os.Open(path)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	var added, loadErr = ps.LoadProfiles(f)
	for _, p := range added {
		rsfec.Logger().Debug("Loaded profile", "profile", p)
	}
	return loadErr
}

// Longer payloads span several blocks so only ask for as much room as the
// larger blocks have.
func chooseProfile(ps *rsfec.ProfileSet, name string, mode int, size int) (rsfec.Profile, error) {
	if name != "" {
		return ps.ByName(name)
	}

	if mode >= 100 {
		return ps.ByNumber(mode - 100)
	}

	return ps.Pick(mode, min(size+1, 191))
}

// closeOutput closes the output file, if one was opened.  Data that did not
// make it to the file only shows up as a Close error.
func closeOutput(f *os.File) error {
	if f == nil {
		return nil
	}
	return errors.Wrap(f.Close(), "closing output")
}
