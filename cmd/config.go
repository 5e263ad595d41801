package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/mstoykov/envconfig"
	"github.com/spf13/pflag"
	"gopkg.in/guregu/null.v3"

	"go.k6.io/typedview/cmd/state"
	"go.k6.io/typedview/errext"
	"go.k6.io/typedview/errext/exitcodes"
	"go.k6.io/typedview/lib"
	"go.k6.io/typedview/lib/fsext"
)

func optionFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", 0)
	flags.SortFlags = false
	flags.Int64("max-byte-length", lib.DefaultMaxByteLength,
		"`maxByteLength` of buffers created with `new ResizableBuffer(n)` and no options")
	flags.Bool("log-resizes", false, "log every buffer resize and detach at debug level")
	return flags
}

func configFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", 0)
	flags.SortFlags = false
	flags.String("console-output", "", "redirects the console logging to the provided output file")
	return flags
}

// Config is the run configuration: the options handed to scripts and the
// settings of the command itself.
type Config struct {
	lib.Options

	ConsoleOutput null.String `json:"consoleOutput" envconfig:"TYPEDVIEW_CONSOLE_OUTPUT"`
}

// Apply returns the result of overwriting c with every valid field of cfg.
func (c Config) Apply(cfg Config) Config {
	c.Options = c.Options.Apply(cfg.Options)
	if cfg.ConsoleOutput.Valid {
		c.ConsoleOutput = cfg.ConsoleOutput
	}
	return c
}

// Gets configuration from CLI flags.
func getConfig(flags *pflag.FlagSet) Config {
	conf := Config{
		Options: lib.Options{
			MaxByteLength: getNullInt64(flags, "max-byte-length"),
			LogResizes:    getNullBool(flags, "log-resizes"),
		},
	}
	// not every command writes to the console
	if flags.Lookup("console-output") != nil {
		conf.ConsoleOutput = getNullString(flags, "console-output")
	}
	return conf
}

// Reads the configuration file from the supplied filesystem and returns it or
// an error. The only situation in which an error won't be returned is if the
// user didn't explicitly specify a config file path and the default config file
// doesn't exist.
func readDiskConfig(gs *state.GlobalState) (Config, error) {
	// Try to see if the file exists in the supplied filesystem
	if _, err := gs.FS.Stat(gs.Flags.ConfigFilePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) && gs.Flags.ConfigFilePath == gs.DefaultFlags.ConfigFilePath {
			// If the file doesn't exist, but it was the default config file (i.e. the user
			// didn't specify anything), silence the error
			err = nil
		}
		return Config{}, err
	}

	data, err := fsext.ReadFile(gs.FS, gs.Flags.ConfigFilePath)
	if err != nil {
		return Config{}, fmt.Errorf("couldn't load the configuration from %q: %w", gs.Flags.ConfigFilePath, err)
	}
	var conf Config
	if err = json.Unmarshal(data, &conf); err != nil {
		return Config{}, fmt.Errorf("couldn't parse the configuration from %q: %w", gs.Flags.ConfigFilePath, err)
	}
	return conf, nil
}

func readEnvConfig(envMap map[string]string) (Config, error) {
	conf := Config{}
	err := envconfig.Process("", &conf, func(key string) (string, bool) {
		v, ok := envMap[key]
		return v, ok
	})
	return conf, err
}

// Assemble the final consolidated configuration from all of the different
// sources:
//   - start with the defaults
//   - add the disk (file) config
//   - add the environment variables
//   - add the CLI flags
//   - validate the result
func getConsolidatedConfig(gs *state.GlobalState, cliConf Config) (Config, error) {
	fileConf, err := readDiskConfig(gs)
	if err != nil {
		return Config{}, errext.WithExitCodeIfNone(err, exitcodes.InvalidConfig)
	}
	envConf, err := readEnvConfig(gs.Env)
	if err != nil {
		return Config{}, errext.WithExitCodeIfNone(err, exitcodes.InvalidConfig)
	}

	conf := Config{Options: lib.DefaultOptions()}.Apply(fileConf).Apply(envConf).Apply(cliConf)
	if err = conf.ValidationError(); err != nil {
		return Config{}, errext.WithExitCodeIfNone(
			errext.WithHint(err, "check the config file, the TYPEDVIEW_* environment variables and the flags"),
			exitcodes.InvalidConfig,
		)
	}
	return conf, nil
}
