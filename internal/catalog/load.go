package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML or TOML rule file and overlays it on DefaultRules.
// A field present in the file replaces the default entirely.
func LoadFile(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("reading rule file: %w", err)
	}

	var over Rules
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&over); err != nil && !errors.Is(err, io.EOF) {
			return Rules{}, &ConfigError{Source: path, Problems: []string{err.Error()}}
		}
	case ".toml":
		md, err := toml.Decode(string(data), &over)
		if err != nil {
			return Rules{}, &ConfigError{Source: path, Problems: []string{err.Error()}}
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			problems := make([]string, 0, len(undecoded))
			for _, key := range undecoded {
				problems = append(problems, fmt.Sprintf("unknown key %q", key.String()))
			}
			return Rules{}, &ConfigError{Source: path, Problems: problems}
		}
	default:
		return Rules{}, fmt.Errorf("rule file %s: unsupported extension %q (want .yaml, .yml or .toml)", path, ext)
	}

	return Overlay(DefaultRules(), over), nil
}

// MarshalYAML renders rules the way LoadFile reads them.
func MarshalYAML(r Rules) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("encoding rules: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding rules: %w", err)
	}
	return buf.Bytes(), nil
}
