// Package logging builds the logrus loggers used by the harness and the CLI.
package logging

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// textFormatter prints "[time] [LEVL] message key=value ...".
type textFormatter struct{}

func (f *textFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] [%s] %s",
		entry.Time.Format(time.RFC3339),
		strings.ToUpper(entry.Level.String()[:4]),
		entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

// New returns a logger writing to w at the given level
// (panic, fatal, error, warn, info, debug or trace).
// With json set, entries are emitted as JSON objects.
func New(w io.Writer, level string, json bool) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	log := logrus.New()
	log.Out = w
	log.Level = lvl
	if json {
		log.Formatter = new(logrus.JSONFormatter)
	} else {
		log.Formatter = new(textFormatter)
	}
	return log, nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.Out = io.Discard
	log.Level = logrus.PanicLevel
	return log
}
