package terradraw

import (
	"os"

	"github.com/rs/zerolog"
)

// log is the package-level logger. The store and coordinator log at debug
// level on every create/update/delete/mode-switch, and modes log at warn
// level when a mutation is
// silently suppressed (self-intersection during drag, an invalid
// right-click deletion) — recoverable situations are logged, not failed.
var log zerolog.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

// SetLogger replaces the package-level logger, e.g. to route output to a
// structured JSON sink in production instead of the default console writer.
func SetLogger(l zerolog.Logger) {
	log = l
}
