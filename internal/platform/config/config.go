package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Targets   TargetsConfig   `mapstructure:"targets"`
	Dispatch  DispatchConfig  `mapstructure:"dispatch"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type DatabaseConfig struct {
	Path           string `mapstructure:"path"`
	MaxConnections int    `mapstructure:"max_connections"`
}

type TargetsConfig struct {
	Path string `mapstructure:"path"`
}

type DispatchConfig struct {
	RateLimitInterval time.Duration `mapstructure:"rate_limit_interval"`
	DeliveryTimeout   time.Duration `mapstructure:"delivery_timeout"`
	QueueCapacity     int           `mapstructure:"queue_capacity"`
	ShutdownGrace     time.Duration `mapstructure:"shutdown_grace"`
	DefaultLogLimit   int           `mapstructure:"default_log_limit"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

func Load(path string) (*Config, error) {
	viper.SetConfigFile(path)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8001)
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "15s")
	viper.SetDefault("server.idle_timeout", "60s")

	viper.SetDefault("database.path", "signals.db")
	viper.SetDefault("database.max_connections", 10)

	viper.SetDefault("targets.path", "configs/targets.yaml")

	viper.SetDefault("dispatch.rate_limit_interval", "300ms")
	viper.SetDefault("dispatch.delivery_timeout", "10s")
	viper.SetDefault("dispatch.queue_capacity", 256)
	viper.SetDefault("dispatch.shutdown_grace", "5s")
	viper.SetDefault("dispatch.default_log_limit", 20)

	viper.SetDefault("rate_limit.requests_per_minute", 600)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output", "stdout")
}
