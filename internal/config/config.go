// Package config loads the runtime configuration for the control server.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Listen  string `yaml:"listen"`
	DataDir string `yaml:"data_dir"`

	Serial  Serial `yaml:"serial"`
	Oracle  Oracle `yaml:"oracle"`
	Journal bool   `yaml:"journal"`
	Index   bool   `yaml:"index"`
}

type Serial struct {
	Port      string `yaml:"port"`
	Baud      int    `yaml:"baud"`
	TimeoutMs int    `yaml:"timeout_ms"`
	Simulate  bool   `yaml:"simulate"`
}

type Oracle struct {
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	TimeoutS    int     `yaml:"timeout_s"`
}

func Defaults() Config {
	return Config{
		Listen:  ":8080",
		DataDir: "./data",
		Serial: Serial{
			Port:      "/dev/ttyUSB0",
			Baud:      9600,
			TimeoutMs: 1000,
			Simulate:  true,
		},
		Oracle: Oracle{
			Temperature: 0.1,
			MaxTokens:   100,
			TimeoutS:    60,
		},
		Journal: true,
		Index:   true,
	}
}

// Load reads a yaml config over the defaults. A missing file is the
// caller's call: os.IsNotExist on the returned error distinguishes it.
func Load(path string) (Config, error) {
	c := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("config.yaml: %w", err)
	}
	return c, nil
}
