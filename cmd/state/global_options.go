package state

import "path/filepath"

const defaultConfigFileName = "config.json"

// GlobalOptions contains global config values that apply for all typedview
// sub-commands.
type GlobalOptions struct {
	ConfigFilePath string
	NoColor        bool
	LogOutput      string
	LogFormat      string
	Verbose        bool
}

// GetDefaultGlobalOptions returns the default global flags.
func GetDefaultGlobalOptions(homeDir string) GlobalOptions {
	return GlobalOptions{
		ConfigFilePath: filepath.Join(homeDir, "typedview", defaultConfigFileName),
		LogOutput:      "stderr",
	}
}

func consolidateGlobalFlags(defaultFlags GlobalOptions, env map[string]string) GlobalOptions {
	result := defaultFlags

	if val, ok := env["TYPEDVIEW_CONFIG"]; ok {
		result.ConfigFilePath = val
	}
	if val, ok := env["TYPEDVIEW_LOG_OUTPUT"]; ok {
		result.LogOutput = val
	}
	if val, ok := env["TYPEDVIEW_LOG_FORMAT"]; ok {
		result.LogFormat = val
	}
	if env["TYPEDVIEW_NO_COLOR"] != "" {
		result.NoColor = true
	}
	// Support https://no-color.org/, even an empty value should disable the
	// color output.
	if _, ok := env["NO_COLOR"]; ok {
		result.NoColor = true
	}
	if env["TYPEDVIEW_VERBOSE"] != "" {
		result.Verbose = true
	}
	return result
}
