package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServiceName    string        `mapstructure:"SERVICE_NAME"`
	HTTPPort       string        `mapstructure:"HTTP_PORT"`
	GRPCPort       string        `mapstructure:"GRPC_PORT"`
	DBDriver       string        `mapstructure:"DB_DRIVER"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	RedisAddr      string        `mapstructure:"REDIS_ADDR"`
	CacheTTL       time.Duration `mapstructure:"CACHE_TTL"`
	WriteRateLimit int           `mapstructure:"WRITE_RATE_LIMIT"`
	AllowedOrigins string        `mapstructure:"ALLOWED_ORIGINS"`
	LogMode        string        `mapstructure:"LOG_MODE"`
}

func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.SetDefault("SERVICE_NAME", "studytracker-web-go")
	v.SetDefault("HTTP_PORT", ":8000")
	v.SetDefault("GRPC_PORT", "")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DATABASE_URL", "postgres://studytracker:studytracker@db:5432/studytracker?sslmode=disable")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("CACHE_TTL", "1m")
	v.SetDefault("WRITE_RATE_LIMIT", 0)
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("LOG_MODE", "dev")

	v.AutomaticEnv()

	// Bind explicitly so the keys are visible to Unmarshal without a config file.
	for _, key := range []string{
		"SERVICE_NAME", "HTTP_PORT", "GRPC_PORT", "DB_DRIVER", "DATABASE_URL",
		"REDIS_ADDR", "CACHE_TTL", "WRITE_RATE_LIMIT", "ALLOWED_ORIGINS", "LOG_MODE",
	} {
		_ = v.BindEnv(key)
	}

	if err = v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	err = v.Unmarshal(&config)
	return
}

// Origins splits ALLOWED_ORIGINS on commas.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
