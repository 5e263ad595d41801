package conformance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.k6.io/typedview/lib"
	"go.k6.io/typedview/lib/fsext"
	"go.k6.io/typedview/lib/testutils"
)

func newTestRunner(t *testing.T, fs fsext.Fs) *Runner {
	t.Helper()
	logger, _ := testutils.NewLogger(t)
	return NewRunner(logger, fs, lib.Options{})
}

func TestRunDirFixtures(t *testing.T) {
	t.Parallel()

	r := newTestRunner(t, fsext.NewReadOnlyFs(fsext.NewOsFs()))
	report, err := r.RunDir(context.Background(), "testdata")
	require.NoError(t, err)

	for _, res := range report.Failures() {
		t.Errorf("%s (strict: %v): %s", res.Name, res.Strict, res.Reason)
	}
	assert.True(t, report.OK())
	assert.Equal(t, 1, report.Count(Skipped))
	assert.Equal(t, 21, report.Count(Passed))
	assert.Len(t, report.Results, 22)

	for i := 1; i < len(report.Results); i++ {
		assert.LessOrEqual(t, report.Results[i-1].Name, report.Results[i].Name)
	}
}

func writeFixture(t *testing.T, fs fsext.Fs, name, src string) {
	t.Helper()
	require.NoError(t, fsext.WriteFile(fs, name, []byte(src), 0o644))
}

func TestRunFileOutcomes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		src    string
		status Status
		reason string
	}{
		{
			name:   "passing",
			src:    "/*---\nflags: [noStrict]\n---*/\nassert.sameValue(new Uint8Array(2).length, 2);",
			status: Passed,
		},
		{
			name:   "failed assertion",
			src:    "/*---\nflags: [noStrict]\n---*/\nassert.sameValue(new Uint8Array(2).length, 3);",
			status: Failed,
			reason: "Expected SameValue(«2», «3») to be true",
		},
		{
			name:   "negative without error",
			src:    "/*---\nflags: [noStrict]\nnegative:\n  phase: runtime\n  type: TypeError\n---*/\n1;",
			status: Failed,
			reason: "expected a TypeError to be thrown during runtime",
		},
		{
			name:   "wrong error type",
			src:    "/*---\nflags: [noStrict]\nnegative:\n  phase: runtime\n  type: TypeError\n---*/\nnew ResizableBuffer(1, { maxByteLength: 2 }).resize(3);",
			status: Failed,
			reason: "unexpected error type (RangeError), expected (TypeError)",
		},
		{
			name:   "wrong phase",
			src:    "/*---\nflags: [noStrict]\nnegative:\n  phase: runtime\n  type: SyntaxError\n---*/\nvar = ;",
			status: Failed,
			reason: "happened at the wrong phase (expected runtime)",
		},
		{
			name:   "unknown include",
			src:    "/*---\nflags: [noStrict]\nincludes: [nope.js]\n---*/\n1;",
			status: Failed,
			reason: `unknown include "nope.js"`,
		},
		{
			name:   "raw",
			src:    "/*---\nflags: [raw]\n---*/\nif (typeof assert !== 'undefined') throw new Error('harness loaded');",
			status: Passed,
		},
		{
			name:   "blocked feature",
			src:    "/*---\nfeatures: [Atomics]\n---*/\nAtomics.wait();",
			status: Skipped,
			reason: "blocked feature Atomics",
		},
		{
			name:   "invalid front matter",
			src:    "1;",
			status: Failed,
			reason: "invalid file format",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			fs := fsext.NewMemMapFs()
			writeFixture(t, fs, "/fixture.js", tc.src)

			results := newTestRunner(t, fs).RunFile(context.Background(), "/fixture.js")
			require.Len(t, results, 1)
			assert.Equal(t, tc.status, results[0].Status, results[0].Reason)
			assert.Contains(t, results[0].Reason, tc.reason)
		})
	}
}

func TestRunFileModes(t *testing.T) {
	t.Parallel()

	fs := fsext.NewMemMapFs()
	writeFixture(t, fs, "/both.js", "/*---\n---*/\nprint((function () { return this === undefined; })());")
	writeFixture(t, fs, "/strict.js", "/*---\nflags: [onlyStrict]\n---*/\n1;")

	r := newTestRunner(t, fs)
	results := r.RunFile(context.Background(), "/both.js")
	require.Len(t, results, 2)
	assert.False(t, results[0].Strict)
	assert.True(t, results[1].Strict)

	results = r.RunFile(context.Background(), "/strict.js")
	require.Len(t, results, 1)
	assert.True(t, results[0].Strict)
}

func TestRunFileTimeout(t *testing.T) {
	t.Parallel()

	fs := fsext.NewMemMapFs()
	writeFixture(t, fs, "/loop.js", "/*---\nflags: [noStrict]\n---*/\nwhile (true) {}")

	r := newTestRunner(t, fs)
	r.Timeout = 50 * time.Millisecond
	results := r.RunFile(context.Background(), "/loop.js")
	require.Len(t, results, 1)
	assert.Equal(t, Failed, results[0].Status)
	assert.Contains(t, results[0].Reason, "script interrupted")
}

func TestRunDirHarnessDirectory(t *testing.T) {
	t.Parallel()

	fs := fsext.NewMemMapFs()
	writeFixture(t, fs, "/fixtures/harness/double.js", "function double(n) { return 2 * n; }")
	writeFixture(t, fs, "/fixtures/uses-harness.js",
		"/*---\nincludes: [double.js]\n---*/\nassert.sameValue(double(new Int16Array(3).length), 6);")

	r := newTestRunner(t, fs)
	r.Concurrency = 1
	report, err := r.RunDir(context.Background(), "/fixtures")
	require.NoError(t, err)
	require.Len(t, report.Results, 2)
	assert.True(t, report.OK(), report.Failures())
	assert.Equal(t, "/fixtures/uses-harness.js", report.Results[0].Name)
}

func TestRunDirErrors(t *testing.T) {
	t.Parallel()

	r := newTestRunner(t, fsext.NewMemMapFs())
	_, err := r.RunDir(context.Background(), "/missing")
	require.ErrorContains(t, err, `couldn't list fixtures in "/missing"`)

	fs := fsext.NewMemMapFs()
	writeFixture(t, fs, "/fixtures/a.js", "/*---\n---*/\n1;")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = newTestRunner(t, fs).RunDir(ctx, "/fixtures")
	require.ErrorIs(t, err, context.Canceled)
}

func TestReport(t *testing.T) {
	t.Parallel()

	report := &Report{Results: []Result{
		{Name: "a", Status: Passed},
		{Name: "b", Status: Failed, Reason: "nope"},
		{Name: "c", Status: Skipped},
		{Name: "d", Status: Failed},
	}}
	assert.Equal(t, 1, report.Count(Passed))
	assert.Equal(t, 2, report.Count(Failed))
	assert.Equal(t, 1, report.Count(Skipped))
	assert.False(t, report.OK())
	assert.Equal(t, []string{"b", "d"}, []string{report.Failures()[0].Name, report.Failures()[1].Name})
	assert.Equal(t, "skipped", Skipped.String())
}
