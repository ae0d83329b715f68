package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

// Config 启动时构造一次，显式传给需要的组件
type Config struct {
	Env string `yaml:"env" validate:"oneof=development production test"`

	Server struct {
		Addr        string   `yaml:"addr" validate:"required"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`

	MySQL struct {
		DSN          string `yaml:"dsn" validate:"required"`
		MaxOpenConns int    `yaml:"max_open_conns"`
		MaxIdleConns int    `yaml:"max_idle_conns"`
	} `yaml:"mysql"`

	Redis struct {
		Addr     string `yaml:"addr" validate:"required"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	JWT struct {
		Secret string        `yaml:"secret" validate:"required"`
		TTL    time.Duration `yaml:"ttl" validate:"gt=0"`
	} `yaml:"jwt"`

	Cloudinary struct {
		CloudName string `yaml:"cloud_name"`
		APIKey    string `yaml:"api_key"`
		APISecret string `yaml:"api_secret"`
		Folder    string `yaml:"folder"`
	} `yaml:"cloudinary"`

	Upload struct {
		TempDir       string `yaml:"temp_dir" validate:"required"`
		MaxImageBytes int64  `yaml:"max_image_bytes" validate:"gt=0"`
		MaxEventMedia int    `yaml:"max_event_media" validate:"gt=0"`
	} `yaml:"upload"`

	Kafka struct {
		Brokers []string `yaml:"brokers"`
		Topic   string   `yaml:"topic"`
	} `yaml:"kafka"`

	Outbox struct {
		Enabled   bool          `yaml:"enabled"`
		BatchSize int           `yaml:"batch_size"`
		Interval  time.Duration `yaml:"interval"`
	} `yaml:"outbox"`

	Reconcile struct {
		BatchSize int           `yaml:"batch_size"`
		Interval  time.Duration `yaml:"interval"` // 0 表示 serve 时不启动
	} `yaml:"reconcile"`

	SMTP struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		From     string `yaml:"from"`
	} `yaml:"smtp"`
}

// Default 返回带默认值的配置
func Default() *Config {
	cfg := &Config{Env: EnvDevelopment}
	cfg.Server.Addr = ":5000"
	cfg.MySQL.MaxOpenConns = 25
	cfg.MySQL.MaxIdleConns = 5
	cfg.Redis.Addr = "127.0.0.1:6379"
	cfg.JWT.TTL = 365 * 24 * time.Hour
	cfg.Cloudinary.Folder = "salvador_cerezo_posts"
	cfg.Upload.TempDir = "uploads"
	cfg.Upload.MaxImageBytes = 5 << 20
	cfg.Upload.MaxEventMedia = 5
	cfg.Kafka.Topic = "engagement-events"
	cfg.Outbox.BatchSize = 200
	cfg.Outbox.Interval = time.Second
	cfg.Reconcile.BatchSize = 500
	cfg.SMTP.Port = 587
	return cfg
}

// Load 读取 YAML 文件（可为空），再用环境变量覆盖，最后校验
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnv(cfg, os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) {
	set := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	set("APP_ENV", &cfg.Env)
	if v := getenv("PORT"); v != "" {
		cfg.Server.Addr = ":" + strings.TrimPrefix(v, ":")
	}
	set("MYSQL_DSN", &cfg.MySQL.DSN)
	set("REDIS_ADDR", &cfg.Redis.Addr)
	set("REDIS_PASSWORD", &cfg.Redis.Password)
	set("JWT_SECRET", &cfg.JWT.Secret)
	set("CLOUDINARY_CLOUD_NAME", &cfg.Cloudinary.CloudName)
	set("CLOUDINARY_API_KEY", &cfg.Cloudinary.APIKey)
	set("CLOUDINARY_API_SECRET", &cfg.Cloudinary.APISecret)
	set("SMTP_HOST", &cfg.SMTP.Host)
	set("SMTP_USERNAME", &cfg.SMTP.Username)
	set("SMTP_PASSWORD", &cfg.SMTP.Password)
	if v := getenv("SMTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.SMTP.Port = p
		}
	}
	if v := getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// MailEnabled 未配置 SMTP 主机时不发送邮件
func (c *Config) MailEnabled() bool {
	return c.SMTP.Host != ""
}
