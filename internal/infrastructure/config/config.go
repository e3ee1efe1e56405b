package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/marcos-nsantos/media-storage-adapter/internal/domain"
)

const (
	DriverS3    = "s3"
	DriverMinio = "minio"
)

type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Image     ImageConfig
	JWT       JWTConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
	Environment     string        `envconfig:"ENVIRONMENT" default:"development"`
}

// StorageConfig is the object store boundary. Region defaults to "auto"
// because the endpoint is a custom S3-compatible URL, not an AWS region.
type StorageConfig struct {
	Driver            string `envconfig:"STORAGE_DRIVER" default:"s3"`
	Endpoint          string `envconfig:"STORAGE_ENDPOINT"`
	Region            string `envconfig:"STORAGE_REGION" default:"auto"`
	Bucket            string `envconfig:"STORAGE_BUCKET"`
	AccessKeyID       string `envconfig:"STORAGE_ACCESS_KEY_ID"`
	SecretAccessKey   string `envconfig:"STORAGE_SECRET_ACCESS_KEY"`
	PublicDomain      string `envconfig:"STORAGE_PUBLIC_DOMAIN"`
	UsePathStyle      bool   `envconfig:"STORAGE_USE_PATH_STYLE" default:"false"`
	UploadPartSize    int64  `envconfig:"STORAGE_UPLOAD_PART_SIZE" default:"5242880"`
	UploadConcurrency int    `envconfig:"STORAGE_UPLOAD_CONCURRENCY" default:"5"`
}

// Validate checks that every field the object store drivers depend on is set.
func (c StorageConfig) Validate() error {
	cfgErr := &domain.ConfigurationError{}

	required := []struct {
		name  string
		value string
	}{
		{"STORAGE_BUCKET", c.Bucket},
		{"STORAGE_ENDPOINT", c.Endpoint},
		{"STORAGE_ACCESS_KEY_ID", c.AccessKeyID},
		{"STORAGE_SECRET_ACCESS_KEY", c.SecretAccessKey},
		{"STORAGE_PUBLIC_DOMAIN", c.PublicDomain},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			cfgErr.Missing = append(cfgErr.Missing, f.name)
		}
	}

	if c.Driver != DriverS3 && c.Driver != DriverMinio {
		cfgErr.Invalid = append(cfgErr.Invalid, "STORAGE_DRIVER")
	}

	if cfgErr.HasProblems() {
		return cfgErr
	}
	return nil
}

type ImageConfig struct {
	MaxWidth      int   `envconfig:"IMAGE_MAX_WIDTH" default:"1280"`
	Quality       int   `envconfig:"IMAGE_QUALITY" default:"80"`
	MaxUploadSize int64 `envconfig:"IMAGE_MAX_UPLOAD_SIZE" default:"20971520"`
}

func (c ImageConfig) Validate() error {
	cfgErr := &domain.ConfigurationError{}
	if c.MaxWidth <= 0 {
		cfgErr.Invalid = append(cfgErr.Invalid, "IMAGE_MAX_WIDTH")
	}
	if c.Quality < 1 || c.Quality > 100 {
		cfgErr.Invalid = append(cfgErr.Invalid, "IMAGE_QUALITY")
	}
	if c.MaxUploadSize <= 0 {
		cfgErr.Invalid = append(cfgErr.Invalid, "IMAGE_MAX_UPLOAD_SIZE")
	}
	if cfgErr.HasProblems() {
		return cfgErr
	}
	return nil
}

type JWTConfig struct {
	SecretKey string `envconfig:"JWT_SECRET_KEY" required:"true"`
	Issuer    string `envconfig:"JWT_ISSUER" default:""`
}

type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type RateLimitConfig struct {
	Enabled        bool `envconfig:"RATE_LIMIT_ENABLED" default:"false"`
	RequestsPerMin int  `envconfig:"RATE_LIMIT_REQUESTS_PER_MIN" default:"30"`
}

func (c *Config) Validate() error {
	merged := &domain.ConfigurationError{}
	for _, err := range []error{c.Storage.Validate(), c.Image.Validate()} {
		var cfgErr *domain.ConfigurationError
		if errors.As(err, &cfgErr) {
			merged.Missing = append(merged.Missing, cfgErr.Missing...)
			merged.Invalid = append(merged.Invalid, cfgErr.Invalid...)
		}
	}
	if merged.HasProblems() {
		return merged
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}
