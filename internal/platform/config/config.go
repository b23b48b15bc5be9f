// Package config は環境変数 (および任意の .env ファイル) からアプリケーション設定を読み込みます。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// 画像ストアの種類
const (
	ImageStoreCloudinary = "cloudinary"
	ImageStoreMinio      = "minio"
)

// データベースドライバの種類
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type (
	// Config はアプリケーション全体の設定です。
	Config struct {
		Port        string `env:"PORT,required"`
		AppEnv      string `env:"APP_ENV" envDefault:"development"`
		LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
		ServiceName string `env:"SERVICE_NAME" envDefault:"marketplace-backend"`

		DB         DBConfig         `envPrefix:"DB_"`
		Redis      RedisConfig      `envPrefix:"REDIS_"`
		Cloudinary CloudinaryConfig `envPrefix:"CLOUDINARY_"`
		Minio      MinioConfig      `envPrefix:"MINIO_"`

		DatabaseURL        string        `env:"DATABASE_URL,required"`
		RunMigrations      bool          `env:"RUN_MIGRATIONS" envDefault:"true"`
		CacheTTL           time.Duration `env:"CACHE_TTL" envDefault:"5m"`
		SessionTTL         time.Duration `env:"SESSION_TTL" envDefault:"1h"`
		ImageStore         string        `env:"IMAGE_STORE" envDefault:"cloudinary"`
		ImageUploadTimeout time.Duration `env:"IMAGE_UPLOAD_TIMEOUT" envDefault:"30s"`
		CORSAllowOrigins   []string      `env:"CORS_ALLOW_ORIGINS" envSeparator:"," envDefault:"*"`
		MetricsEnabled     bool          `env:"METRICS_ENABLED" envDefault:"true"`
		ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	}

	// DBConfig はデータベース接続の設定です。DSN は Config.DatabaseURL から渡されます。
	DBConfig struct {
		Driver         string        `env:"DRIVER" envDefault:"postgres"`
		ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" envDefault:"60s"`

		MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"25"`
		MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
		ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"30m"`
	}

	// RedisConfig はキャッシュ用 Redis の設定です。Addr が空の場合キャッシュは無効になります。
	RedisConfig struct {
		Addr     string `env:"ADDR"`
		Password string `env:"PASSWORD"`
		DB       int    `env:"DB" envDefault:"0"`
	}

	CloudinaryConfig struct {
		CloudName string `env:"CLOUD_NAME"`
		APIKey    string `env:"API_KEY"`
		APISecret string `env:"API_SECRET"`
		BaseURL   string `env:"BASE_URL" envDefault:"https://api.cloudinary.com"`
	}

	MinioConfig struct {
		Endpoint  string `env:"ENDPOINT"`
		AccessKey string `env:"ACCESS_KEY"`
		SecretKey string `env:"SECRET_KEY"`
		Bucket    string `env:"BUCKET" envDefault:"marketplace"`
		UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
		PublicURL string `env:"PUBLIC_URL"`
	}
)

// IsProduction は本番環境かどうかを返します。
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Load はカレントディレクトリの .env を (存在すれば) 読み込んだ後、環境変数から設定を構築します。
// 既に設定済みの環境変数は .env の値で上書きされません。
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	return parse(env.Options{})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("error getting env configs: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate は選択されたドライバと画像ストアに必要な値が揃っているか検証します。
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}

	switch c.ImageStore {
	case ImageStoreCloudinary:
		if c.Cloudinary.CloudName == "" || c.Cloudinary.APIKey == "" || c.Cloudinary.APISecret == "" {
			return errors.New("CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required when IMAGE_STORE=cloudinary")
		}
	case ImageStoreMinio:
		if c.Minio.Endpoint == "" || c.Minio.AccessKey == "" || c.Minio.SecretKey == "" {
			return errors.New("MINIO_ENDPOINT, MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required when IMAGE_STORE=minio")
		}
	default:
		return fmt.Errorf("unsupported IMAGE_STORE %q", c.ImageStore)
	}

	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %s", c.CacheTTL)
	}
	return nil
}
