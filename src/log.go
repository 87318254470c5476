package rsfec

/*------------------------------------------------------------------
 *
 * Purpose:	Diagnostic output for the codec and tools.
 *
 * Description:	Like the rest of the family there is a debug level:
 *
 *			0		Only errors.
 *			1 (default)	Block summaries.
 *			2 		Corrections made, decode failures.
 *			3		Dump data going in and out.
 *
 *		Use -d to increase level or -q for quiet in the tools.
 *
 *------------------------------------------------------------------*/

import (
	"os"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

var debugLevel atomic.Int32

var logger atomic.Pointer[log.Logger]

func init() {
	debugLevel.Store(1)
	logger.Store(log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "rsfec",
		Level:  log.InfoLevel,
	}))
}

func Logger() *log.Logger {
	return logger.Load()
}

// SetLogger replaces the package logger.  Its level is left alone.
func SetLogger(l *log.Logger) {
	logger.Store(l)
}

func DebugLevel() int {
	return int(debugLevel.Load())
}

// SetDebugLevel sets the debug level and the matching logger level.
func SetDebugLevel(level int) {
	debugLevel.Store(int32(level))

	switch {
	case level <= 0:
		Logger().SetLevel(log.ErrorLevel)
	case level == 1:
		Logger().SetLevel(log.InfoLevel)
	default:
		Logger().SetLevel(log.DebugLevel)
	}
}
