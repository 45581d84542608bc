// Package config loads the sniper bot settings from the environment and an
// optional local credential file.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultName is the bot user name used when none is configured.
const DefaultName = "sniper"

// Config holds the bot settings.
type Config struct {
	// Token is the Slack bot token, from
	// https://<yourorganization>.slack.com/services/new/bot
	Token     string `env:"BOT_API_KEY"`
	Name      string `env:"BOT_NAME"`
	TokenFile string `env:"BOT_TOKEN_FILE" envDefault:".token"`

	DevMode     bool          `env:"BOT_DEV_MODE"`
	HealthAddr  string        `env:"BOT_HEALTH_ADDR" envDefault:":8080"`
	VersionURL  string        `env:"BOT_VERSION_URL" envDefault:"http://www.getdota.com"`
	HTTPTimeout time.Duration `env:"BOT_HTTP_TIMEOUT" envDefault:"15s"`
}

// credentials is the layout of the credential file. A file holding only the
// token string is accepted as well.
type credentials struct {
	Token string `yaml:"token"`
	Name  string `yaml:"name"`
}

// Load reads the configuration from the environment. Values missing from the
// environment are taken from the credential file when it exists.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.Wrap(err, "parsing environment")
	}

	if cfg.Token == "" {
		creds, err := readCredentials(cfg.TokenFile)
		if err != nil {
			return nil, err
		}
		cfg.Token = creds.Token
		if cfg.Name == "" {
			cfg.Name = creds.Name
		}
	}

	if cfg.Token == "" {
		return nil, errors.Errorf("slack token must be set in the BOT_API_KEY environment variable or in %s", cfg.TokenFile)
	}

	cfg.Name = strings.TrimPrefix(cfg.Name, "@")
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}

	return &cfg, nil
}

func readCredentials(path string) (credentials, error) {
	var creds credentials
	if path == "" {
		return creds, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return creds, nil
	}
	if err != nil {
		return creds, errors.Wrapf(err, "reading credential file %s", path)
	}

	// A YAML mapping is taken as is, even without a token; Load reports
	// the missing token.
	if err := yaml.Unmarshal(data, &creds); err == nil {
		return creds, nil
	}

	var token string
	if err := yaml.Unmarshal(data, &token); err != nil {
		return creds, errors.Wrapf(err, "parsing credential file %s", path)
	}
	return credentials{Token: strings.TrimSpace(token)}, nil
}
