// Package config loads the optional .mdmeta.yaml tool configuration.
package config

import (
	"os"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/mdmeta/internal/errors"
)

// DefaultFile is the configuration file consulted when none is specified.
const DefaultFile = ".mdmeta.yaml"

// Config is the optional per-tree tool configuration. Everything has a
// sensible zero default; an absent file yields Default().
type Config struct {
	// IgnorePatterns extends the built-in ignore list.
	IgnorePatterns []string `yaml:"ignore_patterns"`
	// IgnoreFile overrides the ignore file path (default .gitignore).
	IgnoreFile string `yaml:"ignore_file"`
	// AutoAuthor toggles author auto-detection. Enabled by default.
	AutoAuthor *bool `yaml:"auto_author"`
	// Author pins the author for every document, bypassing detection.
	Author string `yaml:"author"`
	// Fields are default metadata fields applied to every update, overridden
	// by --set flags on collision.
	Fields map[string]string `yaml:"fields"`
	// AuthorTimeout bounds each author-resolution provider.
	AuthorTimeout time.Duration `yaml:"author_timeout"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{}
}

// AutoAuthorEnabled resolves the tri-state toggle.
func (c *Config) AutoAuthorEnabled() bool {
	return c.AutoAuthor == nil || *c.AutoAuthor
}

var fieldKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Validate checks field constraints.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.AuthorTimeout, validation.Min(time.Duration(0))),
		validation.Field(&c.Fields, validation.By(validFieldKeys)),
	)
	if err != nil {
		return errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "invalid configuration")
	}
	return nil
}

func validFieldKeys(value any) error {
	fields, _ := value.(map[string]string)
	for key := range fields {
		if !fieldKeyPattern.MatchString(key) {
			return validation.NewError("validation_field_key", "metadata field keys must be alphanumeric with ._- only")
		}
	}
	return nil
}

// Load reads and validates the configuration at path. A missing file at the
// default location is not an error; a missing file at an explicit path is.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return nil, errors.ConfigInvalid(path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.ConfigInvalid(path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
