// Package config loads process-environment overlays for the stages,
// the way lueurxax-TelegramDigestBot loads its settings with
// caarlos0/env: struct tags describe env var names and defaults, and a
// single Load call fills the struct.
package config

import "github.com/caarlos0/env/v11"

// RedisConfig is the connection info shared by every stage that talks to
// the durable work-sets / visited-set.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LoadRedisConfig reads RedisConfig from the process environment,
// applying defaults for anything unset.
func LoadRedisConfig() (RedisConfig, error) {
	var cfg RedisConfig
	if err := env.Parse(&cfg); err != nil {
		return RedisConfig{}, err
	}
	return cfg, nil
}
