package log

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestFileHookFromConfigLine(t *testing.T) {
	t.Parallel()

	tests := [...]struct {
		line       string
		err        bool
		errMessage string
		path       string
		levels     []logrus.Level
	}{
		{
			line: "file",
			err:  true,
		},
		{
			line:   "file=/typedview.log,level=info",
			path:   "/typedview.log",
			levels: logrus.AllLevels[:5],
		},
		{
			line:   "file=typedview.log",
			path:   "typedview.log",
			levels: logrus.AllLevels,
		},
		{
			line: "file=/a/c/",
			err:  true,
		},
		{
			line:       "file=,level=info",
			err:        true,
			errMessage: "filepath must not be empty",
		},
		{
			line: "file=/tmp/typedview.log,level=tea",
			err:  true,
		},
		{
			line: "file=/tmp/typedview.log,level=",
			err:  true,
		},
		{
			line:       "file=/tmp/typedview.log,unknown=something",
			err:        true,
			errMessage: "unknown logfile config key unknown",
		},
		{
			line:       "file=/tmp/typedview.log,format=yaml",
			err:        true,
			errMessage: "unknown log format yaml",
		},
		{
			line:   "file=/typedview.log,format=json,level=warning",
			path:   "/typedview.log",
			levels: logrus.AllLevels[:4],
		},
		{
			line:       "unknown=something",
			err:        true,
			errMessage: "logfile configuration should be in the form `file=path-to-local-file` but is `unknown=something`",
		},
	}

	for _, test := range tests {
		t.Run(test.line, func(t *testing.T) {
			t.Parallel()

			getCwd := func() (string, error) {
				return "/", nil
			}

			res, err := FileHookFromConfigLine(afero.NewMemMapFs(), getCwd, logrus.New(), test.line)
			if test.err {
				require.Error(t, err)
				if test.errMessage != "" {
					require.Equal(t, test.errMessage, err.Error())
				}
				return
			}

			require.NoError(t, err)
			hook, ok := res.(*fileHook)
			require.True(t, ok)
			assert.NotNil(t, hook.w)
			assert.Equal(t, test.path, hook.path)
			assert.Equal(t, test.levels, hook.Levels())
		})
	}
}

func TestFileHookListen(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	hook, err := FileHookFromConfigLine(fs, nil, logrus.New(), "file=/out.log,level=warning")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		hook.Listen(ctx)
	}()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetFormatter(RawFormatter{})
	logger.AddHook(hook)

	logger.Info("not written")
	logger.Warn("first line")
	logger.Error("second line")

	cancel()
	wg.Wait()

	data, err := afero.ReadFile(fs, "/out.log")
	require.NoError(t, err)
	assert.Equal(t, "first line\nsecond line\n", string(data))
}

func TestFileHookFormat(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	hook, err := FileHookFromConfigLine(fs, nil, logrus.New(), "file=/out.json,format=json")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		hook.Listen(ctx)
	}()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetFormatter(RawFormatter{})
	logger.AddHook(hook)
	logger.WithField("source", "console").Info("resized")

	cancel()
	<-done

	data, err := afero.ReadFile(fs, "/out.json")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"resized"`)
	assert.Contains(t, string(data), `"source":"console"`)
}

func TestParseFormatter(t *testing.T) {
	t.Parallel()

	for _, format := range []string{"text", "json", "raw"} {
		f, err := ParseFormatter(format)
		require.NoError(t, err, format)
		assert.NotNil(t, f)
	}
	_, err := ParseFormatter("xml")
	assert.EqualError(t, err, "unknown log format xml")
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	tokens, err := tokenize("file=/x.log,level=debug,flag")
	require.NoError(t, err)
	assert.Equal(t, []token{
		{key: "file", value: "/x.log"},
		{key: "level", value: "debug"},
		{key: "flag"},
	}, tokens)

	_, err = tokenize("empty=")
	assert.EqualError(t, err, "key `empty=` with no value")
}

func TestParseLevels(t *testing.T) {
	t.Parallel()

	levels, err := ParseLevels("error")
	require.NoError(t, err)
	assert.Equal(t, []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel}, levels)

	_, err = ParseLevels("loud")
	assert.EqualError(t, err, "unknown log level loud")
}
