package config

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/a8m/envsubst"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

// Read reads a config from the given file. Environment variables written as ${NAME} are expanded
// before the JSON is decoded.
func Read(filePath string) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return FromReader(filePath, bytes.NewReader(buf))
}

// FromReader reads a config from the given reader. originalPath names the source in validation errors.
func FromReader(originalPath string, r io.Reader) (*Config, error) {
	var cfg Config
	if err := json.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, errors.Wrapf(err, "cannot parse config %q", originalPath)
	}
	return finish(originalPath, &cfg)
}

// FromAttributes decodes a config from a generic attribute map, such as one embedded in a larger
// configuration. Values are converted weakly, so "10" is accepted for a number and "true" for a bool.
func FromAttributes(attrs map[string]interface{}) (*Config, error) {
	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(attrs); err != nil {
		return nil, errors.Wrap(err, "cannot decode config attributes")
	}
	return finish("attributes", &cfg)
}

func finish(path string, cfg *Config) (*Config, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(path); err != nil {
		return nil, err
	}
	return cfg, nil
}
