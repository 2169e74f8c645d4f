package app

import (
	"fmt"

	"github.com/m3rciful/groupcaster/broadcast/service"
	"github.com/m3rciful/groupcaster/broadcast/session"
	coreconfig "github.com/m3rciful/groupcaster/core/config"
)

// BroadcastConfig tunes the broadcast workflow.
type BroadcastConfig struct {
	// Confirm shows Confirm / Cancel buttons before a broadcast runs.
	Confirm   bool `yaml:"confirm" envconfig:"BROADCAST_CONFIRM"`
	MaxGroups int  `yaml:"max_groups" envconfig:"BROADCAST_MAX_GROUPS"`
}

// Config is the full application configuration.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Broadcast BroadcastConfig `yaml:"broadcast"`
	Storage   session.Config  `yaml:"storage"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Config
}

// LoadConfig reads the YAML file at path (optional) and the environment.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, err
	}
	if err := cfg.Storage.Normalize(); err != nil {
		return nil, err
	}
	if cfg.Broadcast.MaxGroups < 0 {
		return nil, fmt.Errorf("broadcast.max_groups must be >= 0")
	}
	if cfg.Broadcast.MaxGroups == 0 {
		cfg.Broadcast.MaxGroups = service.DefaultMaxGroups
	}
	return &cfg, nil
}
