package observe

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// SetupLogging configures the standard logrus logger. format is "text" or
// "json"; an empty level or format keeps info and text.
func SetupLogging(w io.Writer, level, format string) error {
	lvl := logrus.InfoLevel

	if level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return err
		}

		lvl = parsed
	}

	var formatter logrus.Formatter

	switch strings.ToLower(format) {
	case "", "text":
		formatter = &logrus.TextFormatter{FullTimestamp: true}
	case "json":
		formatter = &logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"}
	default:
		return fmt.Errorf("unknown log format %q", format)
	}

	if w != nil {
		logrus.SetOutput(w)
	}

	logrus.SetLevel(lvl)
	logrus.SetFormatter(formatter)

	return nil
}
