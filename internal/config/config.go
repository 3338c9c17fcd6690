package config

import (
	"fmt"
	"log"
	"time"
	_ "time/tzdata" // часовой пояс должен работать и в минимальных контейнерах

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Драйверы хранилища доступа
const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

type Config struct {
	TelegramToken string `envconfig:"TELEGRAM_TOKEN" validate:"required"`
	Environment   string `envconfig:"ENV" default:"development"`

	// SuperAdminID - единственный пользователь, который управляет админами и подписками
	SuperAdminID int64 `envconfig:"SUPER_ADMIN_ID" validate:"required,gt=0"`

	StorageDriver     string `envconfig:"STORAGE_DRIVER" default:"file" validate:"oneof=file postgres"`
	AdminsFile        string `envconfig:"ADMINS_FILE" default:"admins.txt" validate:"required_if=StorageDriver file"`
	SubscriptionsFile string `envconfig:"SUBSCRIPTIONS_FILE" default:"subscriptions.txt" validate:"required_if=StorageDriver file"`
	MalformedPolicy   string `envconfig:"MALFORMED_POLICY" default:"fail" validate:"oneof=fail skip"`
	DBDSN             string `envconfig:"DB_DSN" validate:"required_if=StorageDriver postgres"`

	Timezone       string        `envconfig:"TIMEZONE" default:"Asia/Tashkent"`
	NotifyInterval time.Duration `envconfig:"NOTIFY_INTERVAL" default:"24h" validate:"gt=0"`

	MaxDocumentSize int64   `envconfig:"MAX_DOCUMENT_SIZE" default:"20971520" validate:"gt=0"`
	StampFontSize   int     `envconfig:"STAMP_FONT_SIZE" default:"20" validate:"gt=0"`
	StampOffsetX    float64 `envconfig:"STAMP_OFFSET_X" default:"100" validate:"gte=0"`
	StampOffsetY    float64 `envconfig:"STAMP_OFFSET_Y" default:"100" validate:"gte=0"`

	location *time.Location
}

// Load читает конфигурацию из .env файла (если он есть) и переменных окружения
func Load(envFile string) (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(envFile); err != nil {
		log.Printf("⚠️  No %s file found, using environment variables", envFile)
	} else {
		log.Printf("✅ Loaded configuration from %s", envFile)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}
	cfg.location = loc

	return &cfg, nil
}

// Location возвращает опорный часовой пояс для всех проверок дат
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}
