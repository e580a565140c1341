// Package config loads the diagnostic-rule severity configuration that
// feeds internal/binder's FileInfo.Rules: a YAML file for the base
// configuration, overridable per rule by environment variables, mirroring
// the flag/env layering internal/maincmd already uses for its own CLI
// flags.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"

	"github.com/mna/pybind/internal/binder"
)

// Severity is the YAML/env-facing spelling of binder.Severity.
type Severity string

// Recognized Severity values in configuration files.
const (
	SeverityError       Severity = "error"
	SeverityWarning     Severity = "warning"
	SeverityInformation Severity = "information"
	SeverityNone        Severity = "none"
)

func (s Severity) toBinder() (binder.Severity, error) {
	switch s {
	case SeverityError, "":
		return binder.SeverityError, nil
	case SeverityWarning:
		return binder.SeverityWarning, nil
	case SeverityInformation:
		return binder.SeverityInformation, nil
	case SeverityNone:
		return binder.SeverityNone, nil
	default:
		return binder.SeverityError, fmt.Errorf("unrecognized severity %q", s)
	}
}

// FileConfig is the shape of the YAML configuration file.
type FileConfig struct {
	// LanguageVersion governs version-gated surface syntax, e.g. whether a
	// bare "TypeAlias" annotation outside a stub file is recognized.
	LanguageVersion string `yaml:"languageVersion"`

	// Rules maps a binder.Rule name to its configured severity. A rule
	// absent from the map keeps its default (error).
	Rules map[string]Severity `yaml:"rules"`
}

// EnvOverrides captures the environment-variable overlay applied on top
// of a loaded FileConfig. Only the handful of settings that make sense as
// a single process-wide override (rather than per-rule) are here; rule
// severities are overridden individually via PYBIND_RULE_<NAME>.
type EnvOverrides struct {
	LanguageVersion string `env:"PYBIND_LANGUAGE_VERSION"`
}

// Config is the fully resolved configuration, ready to produce a
// binder.RuleConfig.
type Config struct {
	LanguageVersion string
	Rules           map[string]Severity
}

// Load reads the YAML configuration at path (if path is non-empty and the
// file exists), then applies any PYBIND_* environment variable overrides,
// including per-rule PYBIND_RULE_<NAME> severity overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{Rules: make(map[string]Severity)}

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			var fc FileConfig
			if err := yaml.Unmarshal(b, &fc); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
			cfg.LanguageVersion = fc.LanguageVersion
			for rule, sev := range fc.Rules {
				cfg.Rules[rule] = sev
			}
		case os.IsNotExist(err):
			// no file at path is not an error: defaults apply throughout.
		default:
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	var overrides EnvOverrides
	if err := env.Parse(&overrides); err != nil {
		return nil, fmt.Errorf("parsing environment overrides: %w", err)
	}
	if overrides.LanguageVersion != "" {
		cfg.LanguageVersion = overrides.LanguageVersion
	}

	for rule := range binder.RuleNames {
		if v, ok := os.LookupEnv("PYBIND_RULE_" + rule); ok {
			cfg.Rules[rule] = Severity(v)
		}
	}

	return cfg, nil
}

// RuleConfig converts the resolved configuration into the binder.RuleConfig
// the binder package consumes directly.
func (c *Config) RuleConfig() (binder.RuleConfig, error) {
	rc := make(binder.RuleConfig, len(c.Rules))
	for name, sev := range c.Rules {
		rule := binder.Rule(name)
		if !binder.RuleNames[name] {
			return nil, fmt.Errorf("unrecognized rule %q", name)
		}
		bs, err := sev.toBinder()
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", name, err)
		}
		rc[rule] = bs
	}
	return rc, nil
}
