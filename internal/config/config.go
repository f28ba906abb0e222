package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	EnginePath    string        `mapstructure:"engine_path"`
	EngineArgs    string        `mapstructure:"engine_args"`
	SearchDepth   int           `mapstructure:"search_depth"`
	SearchTimeout time.Duration `mapstructure:"search_timeout"`
	CachePath     string        `mapstructure:"cache_path"`
	ExplorerURL   string        `mapstructure:"explorer_url"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("bookgen")
	v.AutomaticEnv()

	v.SetDefault("engine_path", "/usr/bin/stockfish")
	v.SetDefault("engine_args", "")
	v.SetDefault("search_depth", 15)
	v.SetDefault("search_timeout", 2*time.Minute)
	v.SetDefault("cache_path", "./data/bookgen.sqlite")
	v.SetDefault("explorer_url", "https://explorer.lichess.ovh")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
