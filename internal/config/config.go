package config

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode         string        `mapstructure:"mode"`
	Port         int           `mapstructure:"port"`
	Origin       string        `mapstructure:"origin"`
	JWTSecret    string        `mapstructure:"jwt_secret"`
	JoinTokenTTL time.Duration `mapstructure:"join_token_ttl"`
	JoinURLBase  string        `mapstructure:"join_url_base"`
	ReadLimit    int64         `mapstructure:"read_limit"`
	PongWait     time.Duration `mapstructure:"pong_wait"`
	PingPeriod   time.Duration `mapstructure:"ping_period"`
	WriteWait    time.Duration `mapstructure:"write_wait"`
	ReapInterval time.Duration `mapstructure:"reap_interval"`
	MaxRoomPeers int           `mapstructure:"max_room_peers"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("origin", "http://localhost:5173")
	v.SetDefault("jwt_secret", "dev-secret-change-me")
	v.SetDefault("join_token_ttl", "1h")
	v.SetDefault("join_url_base", "http://localhost:8080/call")
	v.SetDefault("read_limit", 65536)
	v.SetDefault("pong_wait", "60s")
	v.SetDefault("ping_period", "54s")
	v.SetDefault("write_wait", "10s")
	v.SetDefault("reap_interval", "5m")
	v.SetDefault("max_room_peers", 2)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
