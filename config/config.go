// Package config loads the command configuration from an optional YAML file and
// SHEETORM_* environment variables, the latter taking precedence.
package config

import (
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/kan/sheetorm/sheet"
)

const envPrefix = "sheetorm"

type Config struct {
	CredentialFile  string `yaml:"credential_file" split_words:"true"`
	ApplicationName string `yaml:"application_name" split_words:"true"`
	SpreadsheetID   string `yaml:"spreadsheet_id" split_words:"true"`

	LogLevel   string `yaml:"log_level" split_words:"true"`
	LogConsole bool   `yaml:"log_console" split_words:"true"`

	ClientID     string `yaml:"fitbit_client_id" envconfig:"FITBIT_CLIENT_ID"`
	ClientSecret string `yaml:"fitbit_client_secret" envconfig:"FITBIT_CLIENT_SECRET"`
	TokenFile    string `yaml:"fitbit_token_file" envconfig:"FITBIT_TOKEN_FILE"`

	BskyHost     string `yaml:"bsky_host" split_words:"true"`
	BskyHandle   string `yaml:"bsky_handle" split_words:"true"`
	BskyPassword string `yaml:"bsky_password" split_words:"true"`
}

// Default returns the settings used when neither file nor environment set them.
func Default() Config {
	return Config{
		ApplicationName: "sheetorm",
		LogLevel:        "info",
		TokenFile:       ".token",
		BskyHost:        "https://bsky.social",
	}
}

// Load applies the YAML file at path (when not empty) and then the environment
// on top of the defaults.
func Load(path string) (*Config, error) {
	c := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, errors.Wrapf(err, "parse %s", path)
		}
	}

	if err := envconfig.Process(envPrefix, &c); err != nil {
		return nil, errors.WithStack(err)
	}

	return &c, nil
}

// Sheet returns the spreadsheet part of the configuration.
func (c *Config) Sheet() sheet.Config {
	return sheet.Config{
		CredentialFile:  c.CredentialFile,
		ApplicationName: c.ApplicationName,
		SpreadsheetID:   c.SpreadsheetID,
	}
}
