package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `yaml:"env" env:"APP_ENV" env-default:"development"`
		LogLevel  string `yaml:"log_level" env:"APP_LOG_LEVEL" env-default:"info"`
		SentryUrl string `yaml:"sentry_url" env:"SENTRY_URL"`
	} `yaml:"app"`
	Output struct {
		Format string `yaml:"format" env:"OUTPUT_FORMAT" env-default:"ndjson"`
		Color  bool   `yaml:"color" env:"OUTPUT_COLOR" env-default:"true"`
	} `yaml:"output"`
	Loader struct {
		Concurrency int `yaml:"concurrency" env:"LOADER_CONCURRENCY" env-default:"4"`
	} `yaml:"loader"`
	Postgres struct {
		Enabled bool   `yaml:"enabled" env:"POSTGRES_ENABLED"`
		Port    int    `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
		Host    string `yaml:"host" env:"POSTGRES_HOST" env-default:"localhost"`
		User    string `yaml:"user" env:"POSTGRES_USER"`
		Pass    string `yaml:"pass" env:"POSTGRES_PASS"`
		Name    string `yaml:"name" env:"POSTGRES_NAME"`
		SslMode string `yaml:"ssl_mode" env:"POSTGRES_SSL_MODE" env-default:"disable"`
	} `yaml:"postgres"`
	Telegram struct {
		Enabled bool          `yaml:"enabled" env:"TELEGRAM_ENABLED"`
		User    int64         `yaml:"user" env:"TELEGRAM_USER"`
		Token   string        `yaml:"token" env:"TELEGRAM_TOKEN"`
		Every   time.Duration `yaml:"every" env:"TELEGRAM_EVERY" env-default:"3s"`
		Burst   int           `yaml:"burst" env:"TELEGRAM_BURST" env-default:"1"`
	} `yaml:"telegram"`
	Schedule struct {
		Cron     string `yaml:"cron" env:"SCHEDULE_CRON"`
		TimeZone string `yaml:"time_zone" env:"SCHEDULE_TIME_ZONE" env-default:"UTC"`
	} `yaml:"schedule"`
}

// GetDSN returns the Postgres connection string.
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Postgres.User,
		c.Postgres.Pass,
		c.Postgres.Host,
		c.Postgres.Port,
		c.Postgres.Name,
		c.Postgres.SslMode,
	)
}

var (
	once sync.Once
	cfg  *Config
	err  error
)

// New reads the configuration from the environment once per process.
func New() (*Config, error) {
	once.Do(func() {
		cfg, err = Load("")
	})
	return cfg, err
}

// Load reads the configuration from the given file, if any, with environment
// variables taking precedence.
func Load(path string) (*Config, error) {
	c := &Config{}
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, c)
	} else {
		err = cleanenv.ReadEnv(c)
	}
	if err != nil {
		help, _ := cleanenv.GetDescription(c, nil)
		return nil, fmt.Errorf("failed to read configuration: %w\n%s", err, help)
	}
	return c, nil
}
