// Package logging provides the shared structured logger used for the
// timestamped progress lines and skip diagnostics spec.md §7 requires.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the package-wide logger: text-formatted, full timestamps, stdout.
var Log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetOutput(os.Stdout)
	l.SetLevel(logrus.InfoLevel)
	return l
}
