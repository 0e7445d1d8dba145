package db

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type options struct {
	logLevel        logger.LogLevel
	maxOpen         int
	maxIdle         int
	connMaxLifetime time.Duration
	connMaxIdleTime time.Duration
}

type Option func(*options)

// WithLogLevel takes silent|error|warn|info; anything else keeps the default.
func WithLogLevel(level string) Option {
	return func(o *options) {
		switch level {
		case "silent":
			o.logLevel = logger.Silent
		case "error":
			o.logLevel = logger.Error
		case "warn":
			o.logLevel = logger.Warn
		case "info":
			o.logLevel = logger.Info
		}
	}
}

func WithPool(maxOpen, maxIdle int) Option {
	return func(o *options) {
		o.maxOpen = maxOpen
		o.maxIdle = maxIdle
	}
}

func OpenGorm(dsn string, opts ...Option) (*gorm.DB, error) {
	return OpenGormWithDialector(mysql.Open(dsn), opts...)
}

// OpenGormWithDialector opens, tunes the pool and pings exactly once.
func OpenGormWithDialector(dial gorm.Dialector, opts ...Option) (*gorm.DB, error) {
	o := options{
		logLevel:        logger.Warn,
		maxOpen:         30,
		maxIdle:         10,
		connMaxLifetime: 30 * time.Minute,
		connMaxIdleTime: 10 * time.Minute,
	}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := gorm.Open(dial, &gorm.Config{
		Logger:               logger.Default.LogMode(o.logLevel),
		DisableAutomaticPing: true,
		NowFunc:              func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(o.maxOpen)
	sqlDB.SetMaxIdleConns(o.maxIdle)
	sqlDB.SetConnMaxLifetime(o.connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(o.connMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("gorm ping: %w", err)
	}
	return db, nil
}
