package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Debug is set to true when the application runs in verbose mode.
var Debug bool

func init() {
	Set(false)
	CliNoColorLogger()
}

// Set configures the global log level.
func Set(debug bool) {
	Debug = debug
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// SetWriter configures a log writer for the global logger.
func SetWriter(w io.Writer) {
	log.Logger = log.Output(w)
}

// UseJSONLogging switches to machine-readable output on stderr.
func UseJSONLogging() {
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func CliLogger() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

func CliNoColorLogger() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true})
}
