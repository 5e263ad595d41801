package state

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildEnvMap(t *testing.T) {
	t.Parallel()

	env := BuildEnvMap([]string{"A=1", "B=x=y", "EMPTY=", "NOVALUE"})
	assert.Equal(t, map[string]string{"A": "1", "B": "x=y", "EMPTY": "", "NOVALUE": ""}, env)
}

func TestConsolidateGlobalFlags(t *testing.T) {
	t.Parallel()

	defaults := GetDefaultGlobalOptions("/home/user/.config")
	assert.Equal(t, filepath.Join("/home/user/.config", "typedview", "config.json"), defaults.ConfigFilePath)
	assert.Equal(t, "stderr", defaults.LogOutput)

	tests := map[string]struct {
		env      map[string]string
		expected func(GlobalOptions) GlobalOptions
	}{
		"no env": {
			env:      map[string]string{},
			expected: func(o GlobalOptions) GlobalOptions { return o },
		},
		"config, log output and format": {
			env: map[string]string{
				"TYPEDVIEW_CONFIG":     "/etc/typedview.json",
				"TYPEDVIEW_LOG_OUTPUT": "none",
				"TYPEDVIEW_LOG_FORMAT": "json",
			},
			expected: func(o GlobalOptions) GlobalOptions {
				o.ConfigFilePath = "/etc/typedview.json"
				o.LogOutput = "none"
				o.LogFormat = "json"
				return o
			},
		},
		"empty NO_COLOR": {
			env:      map[string]string{"NO_COLOR": ""},
			expected: func(o GlobalOptions) GlobalOptions { o.NoColor = true; return o },
		},
		"empty TYPEDVIEW_NO_COLOR": {
			env:      map[string]string{"TYPEDVIEW_NO_COLOR": ""},
			expected: func(o GlobalOptions) GlobalOptions { return o },
		},
		"verbose": {
			env:      map[string]string{"TYPEDVIEW_VERBOSE": "1", "TYPEDVIEW_NO_COLOR": "true"},
			expected: func(o GlobalOptions) GlobalOptions { o.Verbose = true; o.NoColor = true; return o },
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected(defaults), consolidateGlobalFlags(defaults, tc.env))
		})
	}
}
