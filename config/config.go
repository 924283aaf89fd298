package config

import (
	"openrate/core"
	"time"

	configUtil "github.com/fox-one/pkg/config"
)

// Load load config file
func Load(configFile string, config *core.Config) error {
	configUtil.AutomaticLoadEnv("OPENRATE")
	if err := configUtil.LoadYaml(configFile, config); err != nil {
		return err
	}

	defaults(config)
	return nil
}

func defaults(config *core.Config) {
	if config.Ledger.Driver == "" {
		config.Ledger.Driver = core.LedgerDriverDB
	}

	if config.Server.Port == 0 {
		config.Server.Port = 7778
	}

	if config.Auditor.Interval <= 0 {
		config.Auditor.Interval = time.Minute
	}

	if config.Auditor.Capacity <= 0 {
		config.Auditor.Capacity = 4
	}

	if config.Cache.Size <= 0 {
		config.Cache.Size = 1024
	}

	if config.Cache.TTL <= 0 {
		config.Cache.TTL = 10 * time.Minute
	}

	if config.Client.Endpoint == "" {
		config.Client.Endpoint = "http://localhost:7778"
	}
}
