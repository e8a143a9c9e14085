// Package logger wraps logrus setup the way the raid-simulator and
// math-game CLIs in this project family do: a level string from config, a
// text formatter with full timestamps, and a log file with a stdout
// fallback if the file cannot be opened.
package logger

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// InitLogger sets the global logrus level according to levelStr
// (debug/info/warn/error), a full-timestamp text formatter, and stdout as
// the output.
func InitLogger(levelStr string) error {
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		return errors.Wrapf(err, "logger: invalid log level %q", levelStr)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.SetOutput(os.Stdout)
	return nil
}

// InitFileLogger behaves like InitLogger but then redirects output to
// filePath (not to stdout as well), creating parent directories as needed.
// If filePath is empty or the file cannot be opened, output stays on stdout.
func InitFileLogger(levelStr, filePath string) error {
	if err := InitLogger(levelStr); err != nil {
		return err
	}
	if filePath == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		logrus.Warnf("logger: could not create log directory for %s: %v", filePath, err)
		return nil
	}

	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logrus.Warnf("logger: could not open log file %s, logging to stdout only: %v", filePath, err)
		return nil
	}

	logrus.SetOutput(f)
	return nil
}
