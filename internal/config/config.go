package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string `yaml:"socket-port" env:"SOCKET_PORT" env-default:"7000"`
	Redis      Redis  `yaml:"redis"`
	Rooms      Rooms  `yaml:"rooms"`
	Stats      Stats  `yaml:"stats"`
	Bot        Bot    `yaml:"bot"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Rooms struct {
	IdleTimeout   time.Duration `yaml:"idle-timeout" env-default:"10m"`
	SweepInterval time.Duration `yaml:"sweep-interval" env-default:"1m"`
}

type Stats struct {
	ReportInterval time.Duration `yaml:"report-interval" env-default:"15s"`
	TTL            time.Duration `yaml:"ttl" env-default:"1m"`
}

type Bot struct {
	// Seed fixes the bot's randomness; zero means a time based seed.
	Seed int64 `yaml:"seed" env:"BOT_SEED" env-default:"0"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
