package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Telegram     TelegramConfig
	Assistant    AssistantConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"JUV_APP_ENV" required:"true"`
	Port         string `envconfig:"JUV_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"JUV_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"JUV_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"JUV_DB_DSN"`
	Driver string `envconfig:"JUV_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"JUV_DB_HOST"`
	LegacyPort     int    `envconfig:"JUV_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"JUV_DB_USER"`
	LegacyPassword string `envconfig:"JUV_DB_PASSWORD"`
	LegacyName     string `envconfig:"JUV_DB_NAME"`
	LegacySSLMode  string `envconfig:"JUV_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"JUV_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"JUV_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"JUV_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"JUV_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"JUV_REDIS_URL"`
	Address      string        `envconfig:"JUV_REDIS_ADDR"`
	Password     string        `envconfig:"JUV_REDIS_PASSWORD"`
	DB           int           `envconfig:"JUV_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"JUV_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"JUV_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"JUV_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"JUV_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"JUV_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type TelegramConfig struct {
	BotToken      string `envconfig:"JUV_BOT_TOKEN" required:"true"`
	WebhookSecret string `envconfig:"JUV_BOT_WEBHOOK_SECRET"`
	WebAppURL     string `envconfig:"JUV_WEBAPP_URL" default:"https://juv-app.vercel.app/"`
	AdminChatID   int64  `envconfig:"JUV_ADMIN_CHAT_ID"`
}

type AssistantConfig struct {
	APIKey         string        `envconfig:"JUV_OPENAI_API_KEY"`
	BaseURL        string        `envconfig:"JUV_OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	Model          string        `envconfig:"JUV_OPENAI_MODEL" default:"gpt-4o"`
	RequestTimeout time.Duration `envconfig:"JUV_ASSISTANT_TIMEOUT" default:"15s"`
	SessionTTL     time.Duration `envconfig:"JUV_ASSISTANT_SESSION_TTL" default:"30m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate   bool `envconfig:"JUV_FEATURE_AUTO_MIGRATE" default:"false"`
	RedisSessions bool `envconfig:"JUV_FEATURE_REDIS_SESSIONS" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for key, value := range legacyValues {
		if value == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("database configuration incomplete: set %s or %s", EnvDBDSN, strings.Join(missing, ", "))
	}

	dsn := url.URL{
		Scheme: db.Driver,
		User:   url.UserPassword(db.LegacyUser, db.LegacyPassword),
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}
	query := dsn.Query()
	query.Set("sslmode", db.LegacySSLMode)
	dsn.RawQuery = query.Encode()

	db.DSN = dsn.String()
	return nil
}
