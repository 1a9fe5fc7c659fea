package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppName  string `env:"APP_NAME" envDefault:"Rebalancer"`
	Version  string `env:"APP_VERSION" envDefault:"0.1.0"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Rest     Rest
	API      API
	Jobs     Jobs
	Import   Import
}

type Rest struct {
	Port            int           `env:"REST_PORT" envDefault:"8000"`
	ReadTimeout     time.Duration `env:"REST_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"REST_WRITE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"REST_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type API struct {
	Debug   bool          `env:"API_DEBUG" envDefault:"false"`
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"30s"`
	MoexApi MoexApi
}

type MoexApi struct {
	Url string `env:"MOEX_API_URL" envDefault:"https://iss.moex.com"`
}

type Jobs struct {
	SchedulerEnabled      bool   `env:"SCHEDULER_ENABLED" envDefault:"true"`
	MarketDataSyncCrontab string `env:"MARKET_DATA_SYNC_CRONTAB" envDefault:"0 19 * * 1-5"`
}

type Import struct {
	SheetName        string `env:"IMPORT_SHEET_NAME" envDefault:"Account_Statement_auto_EXC"`
	FileLimitInBytes int64  `env:"IMPORT_FILE_LIMIT_IN_BYTES" envDefault:"10485760"`
}

func MustLoad() *Config {
	_ = godotenv.Load(".env")

	cfg := &Config{}

	opts := env.Options{RequiredIfNoDef: true}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		log.Fatalf("parse config error: %s", err)
	}

	return cfg
}
