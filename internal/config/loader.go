package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

// overrides are the settings taken from the environment.
type overrides struct {
	Mode     string `env:"EVENTPLAY_MODE"`
	LogLevel string `env:"EVENTPLAY_LOG_LEVEL"`
}

// Load reads the playbook at path, resolves listener files relative to it
// and applies environment overrides from the process environment.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, nil)
}

// LoadWithEnv is Load with an explicit environment. A nil environ means
// the process environment.
func LoadWithEnv(path string, environ map[string]string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg, err := decode(path, data, environ)
	if err != nil {
		return nil, err
	}

	baseDir := filepath.Dir(path)
	for i := range cfg.Listeners {
		l := &cfg.Listeners[i]
		if l.File == "" {
			continue
		}
		file := l.File
		if !filepath.IsAbs(file) {
			file = filepath.Join(baseDir, file)
		}
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("loading listener %s: %w", l.Name, err)
		}
		l.Source = string(src)
		l.File = file
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes and validates a playbook. Listener files are not read, so
// every listener must carry inline source.
func Parse(data []byte, environ map[string]string) (*Config, error) {
	cfg, err := decode("<input>", data, environ)
	if err != nil {
		return nil, err
	}
	for _, l := range cfg.Listeners {
		if l.File != "" {
			return nil, fmt.Errorf("%w: listener %q: file is not supported here", ErrInvalidConfig, l.Name)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(source string, data []byte, environ map[string]string) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		perr := &ParseError{
			Path:    source,
			Message: err.Error(),
			Err:     err,
		}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return nil, perr
	}

	for _, l := range cfg.Listeners {
		if l.Source != "" && l.File != "" {
			return nil, fmt.Errorf("%w: listener %q: source and file are mutually exclusive", ErrInvalidConfig, l.Name)
		}
	}

	var ov overrides
	if err := env.ParseWithOptions(&ov, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if ov.Mode != "" {
		cfg.Mode = ov.Mode
	}
	if ov.LogLevel != "" {
		cfg.LogLevel = ov.LogLevel
	}

	cfg.applyDefaults()
	return &cfg, nil
}
