package log

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// ParseLevels returns the given level and every more severe one.
func ParseLevels(level string) ([]logrus.Level, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		// logrus' own error quotes the level and talks about the logrus type
		return nil, fmt.Errorf("unknown log level %s", level)
	}
	n := sort.Search(len(logrus.AllLevels), func(i int) bool {
		return logrus.AllLevels[i] > lvl
	})
	return logrus.AllLevels[:n], nil
}

// ParseFormatter returns the formatter for a `text`, `json` or `raw` log
// format. Text output is never colored.
func ParseFormatter(format string) (logrus.Formatter, error) {
	switch format {
	case "text":
		return &logrus.TextFormatter{DisableColors: true}, nil
	case "json":
		return &logrus.JSONFormatter{}, nil
	case "raw":
		return RawFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown log format %s", format)
	}
}
