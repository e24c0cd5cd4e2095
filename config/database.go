package config

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/food-kiosk-api/utils"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
	pingAttempts    = 5
	pingBackoff     = 2 * time.Second
)

// DSN builds the driver-specific connection string.
func (c Config) DSN() (string, error) {
	if c.DBDSN != "" {
		return c.DBDSN, nil
	}
	switch c.DBDriver {
	case DriverMySQL:
		port := c.DBPort
		if port == "" {
			port = "3306"
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.DBUser, c.DBPassword, c.DBHost, port, c.DBName), nil
	case DriverPostgres:
		port := c.DBPort
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			c.DBHost, port, c.DBUser, c.DBPassword, c.DBName), nil
	case DriverSQLite:
		return c.DBName + ".db", nil
	}
	return "", fmt.Errorf("unsupported DB_DRIVER %q (use mysql, postgres or sqlite)", c.DBDriver)
}

func dialector(c Config) (gorm.Dialector, error) {
	dsn, err := c.DSN()
	if err != nil {
		return nil, err
	}
	switch c.DBDriver {
	case DriverPostgres:
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	case DriverMySQL:
		return mysql.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q (use mysql, postgres or sqlite)", c.DBDriver)
}

// InitDB opens the process-wide pool and waits for the database to answer.
func InitDB(c Config) (*gorm.DB, error) {
	d, err := dialector(c)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(d, &gorm.Config{
		Logger:         newGormLogger(c.LogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	for i := 1; i <= pingAttempts; i++ {
		if err = sqlDB.Ping(); err == nil {
			utils.InfoLogger.Printf("Connected to %s database", c.DBDriver)
			return db, nil
		}
		utils.ErrorLogger.Printf("Database connection attempt %d/%d failed: %v", i, pingAttempts, err)
		if i < pingAttempts {
			time.Sleep(pingBackoff)
		}
	}
	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", pingAttempts, err)
}

// newGormLogger sends gorm's SQL log through the process logger. Only debug
// level prints every statement.
func newGormLogger(level string) logger.Interface {
	lvl := logger.Warn
	if level == "debug" {
		lvl = logger.Info
	}
	return logger.New(utils.InfoLogger, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  lvl,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
