// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"wifitune/internal/report"
	"wifitune/internal/tuning"
	"wifitune/pkg/confopt"
)

// Config is the tool configuration, read from YAML. Every field has a
// usable default except the adapter name.
type Config struct {
	Adapter           string            `yaml:"adapter"`
	Targets           []string          `yaml:"targets"`
	Interval          confopt.Duration  `yaml:"interval,omitempty"`
	Duration          confopt.Duration  `yaml:"duration,omitempty"`
	ProbeTimeout      confopt.Duration  `yaml:"probe_timeout,omitempty"`
	PrivilegedProbes  bool              `yaml:"privileged_probes"`
	OutputDir         string            `yaml:"output_dir,omitempty"`
	Thresholds        report.Thresholds `yaml:"thresholds,omitempty"`
	Profile           tuning.Profile    `yaml:"profile,omitempty"`
	ForceWirelessMode bool              `yaml:"force_wireless_mode"`
}

func defaultConfig() Config {
	return Config{
		Targets:          []string{"1.1.1.1", "8.8.8.8"},
		Interval:         confopt.Duration(time.Second),
		Duration:         confopt.Duration(time.Second * 60),
		ProbeTimeout:     confopt.Duration(time.Millisecond * 900),
		PrivilegedProbes: true,
		OutputDir:        "wifitune-out",
		Thresholds:       report.DefaultThresholds(),
		Profile:          tuning.DefaultProfile(),
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		return cfg, nil
	}

	bs, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config '%s': %v", path, err)
	}
	if err := yaml.Unmarshal(bs, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config '%s': %v", path, err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Adapter == "" {
		return errors.New("'adapter' is required (interface name, e.g. wlan0 or Wi-Fi)")
	}
	if len(c.Targets) == 0 {
		return errors.New("'targets' can't be empty")
	}
	if c.Interval.Duration() <= 0 {
		return errors.New("'interval' must be positive")
	}
	if c.Duration.Duration() <= 0 {
		return errors.New("'duration' must be positive")
	}
	if c.ProbeTimeout.Duration() <= 0 {
		return errors.New("'probe_timeout' must be positive")
	}
	if c.ProbeTimeout.Duration() > c.Interval.Duration() {
		return errors.New("'probe_timeout' must not exceed 'interval'")
	}
	return nil
}
