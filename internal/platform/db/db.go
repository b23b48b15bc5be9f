// Package db はデータベース接続の確立とスキーマのマイグレーションを行います。
package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	offeradapters "marketplace_backend/internal/feature/offer/adapters"
	useradapters "marketplace_backend/internal/feature/user/adapters"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	retryInterval      = 3 * time.Second
	slowQueryThreshold = 200 * time.Millisecond
)

// Config はデータベース接続の設定です。
type Config struct {
	Driver         string
	DSN            string
	ConnectTimeout time.Duration
	RunMigrations  bool

	// 0 の場合は database/sql の既定値のまま
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Opener は DSN からデータベース接続を開く関数です。
type Opener func(dsn string) (*gorm.DB, error)

// Dialector はドライバ名に対応する gorm のダイアレクタを返します。
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case DriverPostgres, "":
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Open は接続を確立し、必要であればマイグレーションを実行します。
// 接続は ConnectTimeout に達するまでリトライされます。
func Open(cfg Config) (*gorm.DB, error) {
	if _, err := Dialector(cfg.Driver, cfg.DSN); err != nil {
		return nil, err
	}

	opener := func(dsn string) (*gorm.DB, error) {
		d, _ := Dialector(cfg.Driver, dsn)
		return gorm.Open(d, &gorm.Config{
			TranslateError: true,
			Logger:         newGormLogger(zap.L()),
		})
	}

	db, err := ConnectWithRetry(cfg.DSN, cfg.ConnectTimeout, opener)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Driver == DriverSQLite {
		// インメモリ DB は接続ごとに別のデータベースになる
		sqlDB.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.ConnMaxLifetime > 0 {
			sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		}
	}

	if cfg.RunMigrations {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// newGormLogger は gorm のログを zap に流します。レコード未検出は通常の結果なので出力しません。
func newGormLogger(l *zap.Logger) gormlogger.Interface {
	return gormlogger.New(zap.NewStdLog(l.WithOptions(zap.AddCallerSkip(1))), gormlogger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// ConnectWithRetry は opener が成功するか timeout を超えるまで接続を試みます。
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	return connectWithRetry(dsn, timeout, retryInterval, opener)
}

func connectWithRetry(dsn string, timeout, interval time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(interval).After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		zap.L().Warn("DB connect failed, retrying", zap.Error(err), zap.Duration("interval", interval))
		time.Sleep(interval)
	}
}

// Migrate はユーザーとオファーのテーブルを作成または更新します。
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&useradapters.UserModel{},
		&offeradapters.OfferModel{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// Close は内部の接続プールを閉じます。
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
