package conformance

import (
	"bytes"
	"errors"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"go.k6.io/typedview/lib/fsext"
)

var errInvalidFormat = errors.New("invalid file format")

// Negative describes the error a fixture is expected to throw.
type Negative struct {
	Phase string `yaml:"phase"`
	Type  string `yaml:"type"`
}

// Meta is the YAML front matter of a fixture, between `/*---` and `---*/`.
type Meta struct {
	Description string   `yaml:"description"`
	Negative    Negative `yaml:"negative"`
	Includes    []string `yaml:"includes"`
	Flags       []string `yaml:"flags"`
	Features    []string `yaml:"features"`
	Esid        string   `yaml:"esid"`
}

// HasFlag reports whether flag is set on the fixture.
func (m *Meta) HasFlag(flag string) bool {
	return slices.Contains(m.Flags, flag)
}

// ParseMeta extracts the front matter of a fixture.
func ParseMeta(src []byte) (*Meta, error) {
	metaStart := bytes.Index(src, []byte("/*---"))
	if metaStart == -1 {
		return nil, errInvalidFormat
	}

	metaStart += 5
	metaEnd := bytes.Index(src, []byte("---*/"))
	if metaEnd == -1 || metaEnd <= metaStart {
		return nil, errInvalidFormat
	}

	var meta Meta
	if err := yaml.Unmarshal(src[metaStart:metaEnd], &meta); err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidFormat, err)
	}

	if meta.Negative.Type != "" && meta.Negative.Phase == "" {
		return nil, errors.New("negative type is set, but phase isn't")
	}
	switch meta.Negative.Phase {
	case "early":
		meta.Negative.Phase = "parse"
	case "", "parse", "runtime":
	default:
		return nil, fmt.Errorf("unknown negative phase %q", meta.Negative.Phase)
	}

	return &meta, nil
}

// ParseFile reads a fixture and its front matter from fs.
func ParseFile(fs fsext.Fs, name string) (*Meta, string, error) {
	b, err := fsext.ReadFile(fs, name)
	if err != nil {
		return nil, "", err
	}
	meta, err := ParseMeta(b)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", name, err)
	}
	return meta, string(b), nil
}
