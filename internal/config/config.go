package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      App
	HTTP     HTTP
	Postgres Postgres
	Redis    Redis
	Engine   Engine
	Bot      Bot
}

type App struct {
	Name          string `env:"APP_NAME" envDefault:"auction-engine"`
	Version       string `env:"APP_VERSION" envDefault:"dev"`
	ProbeAddress  string `env:"PROBE_LISTEN_ADDRESS" envDefault:":8081"`
	MetricAddress string `env:"METRIC_LISTEN_ADDRESS" envDefault:":9090"`
}

// Bot настройки телеграм-бота для алертов операторам. Токен пустой —
// бот не запускается.
type Bot struct {
	Token  string `env:"BOT_TOKEN" json:"-"`
	ChatID int64  `env:"BOT_CHAT_ID"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	return config, nil
}
