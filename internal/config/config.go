// Package config loads the gistapi server configuration from an optional
// YAML file, overridable through the CONFIG environment variable.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Version is the gistapi release version.
var Version = "0.1.0"

// Config holds the server configuration. Not using nested structs so that
// flat dot keys stay usable from the CONFIG environment variable.
type Config struct {
	LogLevel  string `yaml:"log-level"`
	LogPretty bool   `yaml:"log-pretty"`

	HttpHost string `yaml:"http.host"`
	HttpPort string `yaml:"http.port"`

	GithubApiUrl         string `yaml:"github.api-url"`
	GithubUserAgent      string `yaml:"github.user-agent"`
	GithubTimeoutSeconds int    `yaml:"github.timeout-seconds"`

	// ScanConcurrency bounds in-flight file fetches per gist.
	// Zero means one in-flight fetch per file of the gist being scanned.
	ScanConcurrency int `yaml:"scan.concurrency"`

	MetricsEnabled bool `yaml:"metrics.enabled"`
}

func configWithDefaults() *Config {
	return &Config{
		LogLevel:  "info",
		LogPretty: false,

		HttpHost: "0.0.0.0",
		HttpPort: "9876",

		GithubApiUrl:         "https://api.github.com",
		GithubUserAgent:      "gistapi/" + Version,
		GithubTimeoutSeconds: 30,

		ScanConcurrency: 0,

		MetricsEnabled: true,
	}
}

// Load reads configuration with defaults, overridden by the YAML file at
// configPath (when it exists), overridden by YAML in the CONFIG environment
// variable.
func Load(configPath string) (*Config, error) {
	c := configWithDefaults()

	if configPath != "" {
		file, err := os.Open(configPath)
		if err == nil {
			defer file.Close()
			if err = yaml.NewDecoder(file).Decode(c); err != nil {
				return nil, fmt.Errorf("parse config file %s: %w", configPath, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("open config file %s: %w", configPath, err)
		}
	}

	if configEnv := os.Getenv("CONFIG"); configEnv != "" {
		if err := yaml.NewDecoder(strings.NewReader(configEnv)).Decode(c); err != nil {
			return nil, fmt.Errorf("parse CONFIG environment variable: %w", err)
		}
	}

	return c, nil
}
