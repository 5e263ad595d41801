package js

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/dop251/goja"
	"github.com/sirupsen/logrus"

	"go.k6.io/typedview/lib/fsext"
)

// console represents a JS console implemented as a logrus.FieldLogger.
type console struct {
	logger logrus.FieldLogger
}

// Creates a console with the standard logrus logger.
func newConsole(logger logrus.FieldLogger) *console {
	return &console{logger.WithField("source", "console")}
}

// Creates a console logger with its output appended to the file at filepath.
func newFileConsole(fs fsext.Fs, filepath string, formatter logrus.Formatter, level logrus.Level) (*console, error) {
	f, err := fsext.OpenAppend(fs, filepath)
	if err != nil {
		return nil, err
	}

	l := logrus.New()
	l.SetLevel(level)
	l.SetOutput(f)
	l.SetFormatter(formatter)

	return &console{l}, nil
}

func (c console) log(level logrus.Level, args ...goja.Value) {
	var strs strings.Builder
	for i := 0; i < len(args); i++ {
		if i > 0 {
			strs.WriteString(" ")
		}
		strs.WriteString(c.valueString(args[i]))
	}
	c.write(level, strs.String())
}

func (c console) write(level logrus.Level, msg string) {
	switch level { //nolint:exhaustive
	case logrus.DebugLevel:
		c.logger.Debug(msg)
	case logrus.InfoLevel:
		c.logger.Info(msg)
	case logrus.WarnLevel:
		c.logger.Warn(msg)
	case logrus.ErrorLevel:
		c.logger.Error(msg)
	}
}

func (c console) Log(args ...goja.Value) {
	c.Info(args...)
}

func (c console) Debug(args ...goja.Value) {
	c.log(logrus.DebugLevel, args...)
}

func (c console) Info(args ...goja.Value) {
	c.log(logrus.InfoLevel, args...)
}

func (c console) Warn(args ...goja.Value) {
	c.log(logrus.WarnLevel, args...)
}

func (c console) Error(args ...goja.Value) {
	c.log(logrus.ErrorLevel, args...)
}

const defaultAssertMsg = "Assertion failed"

// Assert logs an error message if the assertion is false.
// https://console.spec.whatwg.org/#assert
//
// A string first argument is appended to the generic message after a colon,
// anything else is logged after it. Since logrus doesn't support an "assert"
// level, we log at Error level.
func (c console) Assert(condition bool, data ...goja.Value) {
	if condition {
		return
	}

	msg := defaultAssertMsg
	if len(data) > 0 {
		if first, isString := data[0].Export().(string); isString {
			msg += ": " + first
			data = data[1:]
		}
	}

	var strs strings.Builder
	strs.WriteString(msg)
	for _, v := range data {
		strs.WriteString(" ")
		strs.WriteString(c.valueString(v))
	}
	c.write(logrus.ErrorLevel, strs.String())
}

const functionLog = "[object Function]"

// errorType is used to check if a [goja.Value] implements the [error] interface.
//
//nolint:gochecknoglobals
var errorType = reflect.TypeOf((*error)(nil)).Elem()

func (c console) valueString(v goja.Value) string {
	if v == nil {
		return "undefined"
	}
	if _, isFunction := goja.AssertFunction(v); isFunction {
		return functionLog
	}

	if exportType := v.ExportType(); exportType != nil && exportType.Implements(errorType) {
		if exported := v.Export(); exported != nil {
			if err, isError := exported.(error); isError {
				return err.Error()
			}
		}
	}

	if gojaObj, isObj := v.(*goja.Object); isObj {
		if gojaObj.ClassName() == "Error" {
			return v.String()
		}
	}

	mv, ok := v.(json.Marshaler)
	if !ok {
		return v.String()
	}

	b, err := json.Marshal(mv)
	if err != nil {
		return v.String()
	}
	return string(b)
}
