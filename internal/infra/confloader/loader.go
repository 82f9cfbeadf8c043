package confloader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the environment variable prefix.
const DefaultEnvPrefix = "KEVA_"

// Loader merges configuration sources into one koanf tree.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
	filePath  string
}

// Option configures a Loader.
type Option func(*Loader)

// WithEnvPrefix overrides the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) { l.envPrefix = prefix }
}

// WithConfigFile names the YAML file to load. Empty means no file.
func WithConfigFile(path string) Option {
	return func(l *Loader) { l.filePath = path }
}

// NewLoader returns a loader reading KEVA_* environment variables.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k:         koanf.New("."),
		envPrefix: DefaultEnvPrefix,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load merges the configuration file (when one is set) and the
// environment, the environment winning, and unmarshals the result into
// target. Fields no source mentions keep the values already on target,
// so the caller's defaults survive. Flag overrides land afterwards via
// LoadMap and Unmarshal.
func (l *Loader) Load(target any) error {
	if l.filePath != "" {
		if err := l.loadFile(l.filePath); err != nil {
			return err
		}
	}
	if err := l.loadEnv(); err != nil {
		return err
	}
	return l.Unmarshal(target)
}

// LoadMap merges an in-memory map of dotted keys, overriding every
// earlier source. Used for flag overrides and in tests.
func (l *Loader) LoadMap(data map[string]any) error {
	if err := l.k.Load(overrides(data), nil); err != nil {
		return fmt.Errorf("confloader: load overrides: %w", err)
	}
	return nil
}

// Unmarshal decodes the merged tree into target along koanf struct
// tags.
func (l *Loader) Unmarshal(target any) error {
	if err := l.k.Unmarshal("", target); err != nil {
		return fmt.Errorf("confloader: unmarshal: %w", err)
	}
	return nil
}

func (l *Loader) loadFile(path string) error {
	if err := l.k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("confloader: load %s: %w", path, err)
	}
	return nil
}

// loadEnv merges variables of the form PREFIX_SECTION_KEY. Only the
// first underscore after the prefix splits section from key, so
// multi-word keys keep theirs: KEVA_STORE_MAX_KEY_LENGTH becomes
// store.max_key_length.
func (l *Loader) loadEnv() error {
	toKey := func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, l.envPrefix))
		return strings.Replace(s, "_", ".", 1)
	}

	if err := l.k.Load(env.Provider(l.envPrefix, ".", toKey), nil); err != nil {
		return fmt.Errorf("confloader: load environment: %w", err)
	}
	return nil
}

// overrides is an in-memory koanf provider. File and env providers
// implement ReadBytes for parsing; map-backed providers implement Read
// and are loaded without a parser.
type overrides map[string]any

func (o overrides) ReadBytes() ([]byte, error) {
	return nil, errors.New("confloader: map provider has no byte form")
}

func (o overrides) Read() (map[string]any, error) {
	return o, nil
}
