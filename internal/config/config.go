package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// global configuration structure
type Config struct {
	Bot       BotConfig       `mapstructure:"bot"`
	Owner     OwnerConfig     `mapstructure:"owner"`
	Retention RetentionConfig `mapstructure:"retention"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Database  DatabaseConfig  `mapstructure:"database"`
}

// Telegram bot configuration
type BotConfig struct {
	Token string `mapstructure:"token"`
	// SourceChannelID is the only channel the bot accepts forwards from.
	SourceChannelID int64         `mapstructure:"source_channel_id"`
	Webhook         WebhookConfig `mapstructure:"webhook"`
}

// webhook server configuration
type WebhookConfig struct {
	Endpoint   string `mapstructure:"endpoint"`
	ListenPort string `mapstructure:"listen_port"`
	DebugPath  string `mapstructure:"debug_path"`
	CertFile   string `mapstructure:"cert_file"`
	KeyFile    string `mapstructure:"key_file"`
}

// OwnerConfig identifies who receives deletion notifications.
// UserID takes precedence; Username is the fallback (without the @).
type OwnerConfig struct {
	UserID   int64  `mapstructure:"user_id"`
	Username string `mapstructure:"username"`
}

// RetentionConfig holds the two retention windows: how long a forwarded
// message lives in the channel before it becomes due for deletion, and how
// long processed records stay in the database before purge.
type RetentionConfig struct {
	MessageDays int `mapstructure:"message_days"`
	RecordsDays int `mapstructure:"records_days"`
}

// logging configuration
type LoggerConfig struct {
	Directory string            `mapstructure:"directory"`
	Rotation  LogRotationConfig `mapstructure:"rotation"`
	Level     string            `mapstructure:"level"`
}

// log rotation settings
type LogRotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

var cfg *Config

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("config file path is required")
	}

	// Pick up a local .env if present; the real environment wins over it.
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment overrides from .env")
	}

	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	log.Printf("Using config file: %s", v.ConfigFileUsed())

	// Environment overrides for secrets so they can stay out of the YAML.
	v.BindEnv("bot.token", "BOT_TOKEN")
	v.BindEnv("bot.source_channel_id", "CHANNEL_ID")
	v.BindEnv("owner.user_id", "OWNER_USER_ID")
	v.BindEnv("owner.username", "OWNER_USERNAME")

	// Unmarshal configuration
	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func Get() *Config {
	if cfg == nil {
		log.Fatal("Configuration not initialized, call Load() first")
	}
	return cfg
}

func validate(c *Config) error {
	if c.Bot.Token == "" {
		return fmt.Errorf("bot token is required (bot.token or BOT_TOKEN)")
	}
	if c.Bot.SourceChannelID == 0 {
		return fmt.Errorf("source channel id is required (bot.source_channel_id or CHANNEL_ID)")
	}
	if c.Retention.MessageDays < 0 || c.Retention.RecordsDays < 0 {
		return fmt.Errorf("retention windows must be non-negative")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.webhook.listen_port", "8443")
	v.SetDefault("bot.webhook.debug_path", "/debug")
	v.SetDefault("bot.webhook.cert_file", "")
	v.SetDefault("bot.webhook.key_file", "")

	v.SetDefault("retention.message_days", 30)
	v.SetDefault("retention.records_days", 7)

	v.SetDefault("database.path", "data/messages.db")

	v.SetDefault("logger.directory", "logs")
	v.SetDefault("logger.rotation.max_size", 10)
	v.SetDefault("logger.rotation.max_backups", 30)
	v.SetDefault("logger.rotation.max_age", 90)
	v.SetDefault("logger.rotation.compress", true)
	v.SetDefault("logger.level", "INFO")
}
