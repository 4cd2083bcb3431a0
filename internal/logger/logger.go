// Package logger owns the process-wide gommon logger so every package
// writes with the same header and level as Echo's own logger.
package logger

import (
	"os"
	"strings"

	"github.com/labstack/gommon/log"
)

// Header is shared with the Echo instance in cmd/server.
const Header = "${time_rfc3339} ${level} ${short_file}:${line} -"

var defaultLogger = New("signal")

// New builds a named logger honouring LOG_LEVEL (DEBUG, INFO, WARN, ERROR, OFF).
func New(prefix string) *log.Logger {
	l := log.New(prefix)
	l.SetLevel(ParseLevel(os.Getenv("LOG_LEVEL")))
	l.SetHeader(Header)
	return l
}

// ParseLevel maps a level name to a gommon level, defaulting to INFO.
func ParseLevel(s string) log.Lvl {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return log.DEBUG
	case "WARN":
		return log.WARN
	case "ERROR":
		return log.ERROR
	case "OFF":
		return log.OFF
	default:
		return log.INFO
	}
}

// L returns the default logger.
func L() *log.Logger { return defaultLogger }
