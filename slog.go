package parsley

import (
	"fmt"
	"log"
)

// SLogger is the parsley internal logging interface. The standard library logger implements this interface
type SLogger interface {
	Printf(format string, v ...interface{})

	Debugf(format string, v ...interface{})
}

type sLogger struct {
	logger *log.Logger
	debug  bool
	scope  string
}

// NewSLogger creates a new parsley logger provided with an interface logger and a debug flag
func NewSLogger(log *log.Logger, debug bool) (l SLogger) {
	sl := new(sLogger)
	sl.debug = debug
	sl.logger = log
	return sl
}

// NewScopedSLogger creates a parsley logger that prefixes every line with the scope in brackets (i.e. "[nlp] "). Plugins
// get one scoped with their name
func NewScopedSLogger(log *log.Logger, debug bool, scope string) (l SLogger) {
	sl := new(sLogger)
	sl.debug = debug
	sl.logger = log
	sl.scope = fmt.Sprintf("[%s] ", scope)
	return sl
}

// Debugf logs a debug line after checking if the configuration is in debug mode
func (sl *sLogger) Debugf(format string, v ...interface{}) {
	if sl.debug {
		sl.logger.Output(2, sl.scope+fmt.Sprintf(format, v...))
	}
}

// Printf logs a line by delegating the call to Output
func (sl *sLogger) Printf(format string, v ...interface{}) {
	sl.logger.Output(2, sl.scope+fmt.Sprintf(format, v...))
}
