package errext

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.k6.io/typedview/errext/exitcodes"
)

type testException struct {
	error
	stack string
}

func (e testException) StackTrace() string {
	return e.stack
}

func TestErrextHelpers(t *testing.T) {
	t.Parallel()

	const testExitCode exitcodes.ExitCode = 13
	assert.Nil(t, WithHint(nil, "test hint"))
	assert.Nil(t, WithExitCodeIfNone(nil, testExitCode))

	errBase := errors.New("base error")
	errBaseWithCode := WithExitCodeIfNone(errBase, testExitCode)
	assertHasExitCode(t, errBaseWithCode, testExitCode)
	errBaseWithTwoCodes := WithExitCodeIfNone(errBaseWithCode, 27)
	assertHasExitCode(t, errBaseWithTwoCodes, testExitCode)

	errWrapperWithCode := fmt.Errorf("wrapper error: %w", errBaseWithTwoCodes)
	assertHasExitCode(t, errWrapperWithCode, testExitCode)

	errWithHint := WithHint(errWrapperWithCode, "hint one")
	assertHasHint(t, errWithHint, "hint one")
	errWithTwoHints := WithHint(errWithHint, "hint two")
	assertHasHint(t, errWithTwoHints, "hint two (hint one)")
	assertHasExitCode(t, errWithTwoHints, testExitCode)
	require.ErrorIs(t, errWithTwoHints, errBase)
	assertHasHint(t, WithHint(WithHint(errBase, ""), "outer"), "outer")

	assert.Equal(t, exitcodes.GenericEngine, ExitCodeOf(errBase, exitcodes.GenericEngine))
	assert.Equal(t, testExitCode, ExitCodeOf(errWithTwoHints, exitcodes.GenericEngine))
}

func TestFormat(t *testing.T) {
	t.Parallel()

	msg, fields := Format(nil)
	assert.Empty(t, msg)
	assert.Nil(t, fields)

	msg, fields = Format(errors.New("plain"))
	assert.Equal(t, "plain", msg)
	assert.Empty(t, fields)

	err := WithHint(testException{errors.New("TypeError: boom"), "TypeError: boom\n\tat script.js:1:1"}, "resize less")
	msg, fields = Format(fmt.Errorf("wrapped: %w", err))
	assert.Equal(t, "TypeError: boom\n\tat script.js:1:1", msg)
	assert.Equal(t, map[string]interface{}{"hint": "resize less"}, fields)
}

func assertHasHint(t *testing.T, err error, hint string) {
	t.Helper()
	var typederr HasHint
	require.ErrorAs(t, err, &typederr)
	assert.Equal(t, typederr.Hint(), hint)
	assert.Contains(t, err.Error(), typederr.Error())
}

func assertHasExitCode(t *testing.T, err error, exitcode exitcodes.ExitCode) {
	t.Helper()
	var typederr HasExitCode
	require.ErrorAs(t, err, &typederr)
	assert.Equal(t, typederr.ExitCode(), exitcode)
	assert.Contains(t, err.Error(), typederr.Error())
}
