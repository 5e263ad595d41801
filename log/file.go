package log

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"go.k6.io/typedview/lib/fsext"
)

// fileHookBufferSize is how many lines may be pending before Fire blocks.
const fileHookBufferSize = 100

// fileConfig is a parsed `file=path[,level=lvl][,format=fmt]` line.
type fileConfig struct {
	path      string
	levels    []logrus.Level
	formatter logrus.Formatter
}

// fileHook writes log entries to a file from its own goroutine.
type fileHook struct {
	fileConfig

	fallbackLogger logrus.FieldLogger
	lines          chan []byte
	w              io.WriteCloser
	bw             *bufio.Writer
}

var _ AsyncHook = &fileHook{}

// FileHookFromConfigLine returns a hook writing to the file described by a
// `file=path[,level=lvl][,format=text|json|raw]` log output line. Relative
// paths are resolved against getCwd. Without a format the entries are
// formatted by the logger they come from.
func FileHookFromConfigLine(
	afs fsext.Fs, getCwd func() (string, error),
	fallbackLogger logrus.FieldLogger, line string,
) (AsyncHook, error) {
	if key, _, _ := strings.Cut(line, "="); key != "file" {
		return nil, fmt.Errorf("logfile configuration should be in the form `file=path-to-local-file` but is `%s`", line)
	}
	conf, err := parseFileConfig(line)
	if err != nil {
		return nil, err
	}
	w, err := openLogFile(afs, getCwd, conf.path)
	if err != nil {
		return nil, err
	}
	return &fileHook{
		fileConfig:     conf,
		fallbackLogger: fallbackLogger,
		lines:          make(chan []byte, fileHookBufferSize),
		w:              w,
		bw:             bufio.NewWriter(w),
	}, nil
}

func parseFileConfig(line string) (fileConfig, error) {
	tokens, err := tokenize(line)
	if err != nil {
		return fileConfig{}, fmt.Errorf("error while parsing logfile configuration %w", err)
	}

	conf := fileConfig{levels: logrus.AllLevels}
	for _, tok := range tokens {
		switch tok.key {
		case "file":
			if tok.value == "" {
				return fileConfig{}, errors.New("filepath must not be empty")
			}
			conf.path = tok.value
		case "level":
			if conf.levels, err = ParseLevels(tok.value); err != nil {
				return fileConfig{}, err
			}
		case "format":
			if conf.formatter, err = ParseFormatter(tok.value); err != nil {
				return fileConfig{}, err
			}
		default:
			return fileConfig{}, fmt.Errorf("unknown logfile config key %s", tok.key)
		}
	}
	return conf, nil
}

func openLogFile(afs fsext.Fs, getCwd func() (string, error), path string) (io.WriteCloser, error) {
	if !filepath.IsAbs(path) {
		cwd, err := getCwd()
		if err != nil {
			return nil, fmt.Errorf("'%s' is a relative path but could not determine CWD: %w", path, err)
		}
		path = filepath.Join(cwd, path)
	}

	dir := filepath.Dir(path)
	if _, err := afs.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("provided directory '%s' does not exist", dir)
	}
	file, err := fsext.OpenAppend(afs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open logfile %s: %w", path, err)
	}
	return file, nil
}

// Listen writes the pending lines until ctx is done. Nothing is fired after
// that, so whatever is still buffered in the channel is written before the
// file is flushed and closed.
func (h *fileHook) Listen(ctx context.Context) {
	for {
		select {
		case line := <-h.lines:
			h.write(line)
		case <-ctx.Done():
			h.drain()
			if err := h.bw.Flush(); err != nil {
				h.fallbackLogger.Errorf("failed to flush buffer: %s", err)
			}
			if err := h.w.Close(); err != nil {
				h.fallbackLogger.Errorf("failed to close logfile: %s", err)
			}
			return
		}
	}
}

func (h *fileHook) drain() {
	for {
		select {
		case line := <-h.lines:
			h.write(line)
		default:
			return
		}
	}
}

func (h *fileHook) write(line []byte) {
	if _, err := h.bw.Write(line); err != nil {
		h.fallbackLogger.Errorf("failed to write a log message to a logfile: %s", err)
	}
}

// Fire formats the entry and queues it for Listen.
func (h *fileHook) Fire(entry *logrus.Entry) error {
	var (
		line []byte
		err  error
	)
	if h.formatter != nil {
		line, err = h.formatter.Format(entry)
	} else {
		line, err = entry.Bytes()
	}
	if err != nil {
		return fmt.Errorf("failed to get a log entry bytes: %w", err)
	}

	h.lines <- line
	return nil
}

// Levels returns the levels written to the file.
func (h *fileHook) Levels() []logrus.Level {
	return h.levels
}

type token struct {
	key   string
	value string
}

// tokenize splits a `key=value,key=value` line. A key without `=` is kept
// with an empty value; a key with `=` but nothing after it is an error.
func tokenize(line string) ([]token, error) {
	var tokens []token
	for _, part := range strings.Split(line, ",") {
		if part == "" {
			continue
		}
		key, value, hasValue := strings.Cut(part, "=")
		if hasValue && value == "" && key != "file" {
			return nil, fmt.Errorf("key `%s=` with no value", key)
		}
		tokens = append(tokens, token{key: key, value: value})
	}
	return tokens, nil
}
