package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/mysql"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Config captures the connection parameters for either supported database.
type Config struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (c Config) postgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

func (c Config) mysqlDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

// Open connects to the configured database. Postgres goes through a pgx pool
// exposed as database/sql; MySQL uses the gorm mysql dialector. The returned close
// function releases every underlying connection.
func Open(ctx context.Context, cfg Config) (*gorm.DB, func(), error) {
	gormCfg := &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time { return time.Now().UTC() },
		// Unique violations surface as gorm.ErrDuplicatedKey.
		TranslateError: true,
	}

	switch cfg.Driver {
	case DriverMySQL:
		db, err := gorm.Open(mysql.Open(cfg.mysqlDSN()), gormCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("open mysql: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		return db, func() { _ = sqlDB.Close() }, nil

	case DriverPostgres, "":
		poolConfig, err := pgxpool.ParseConfig(cfg.postgresDSN())
		if err != nil {
			return nil, nil, fmt.Errorf("parse postgres config: %w", err)
		}
		poolConfig.MaxConns = 25
		poolConfig.MinConns = 2
		poolConfig.MaxConnLifetime = time.Hour
		poolConfig.MaxConnIdleTime = 30 * time.Minute

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err = pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}

		sqlDB := stdlib.OpenDBFromPool(pool)
		db, err := gorm.Open(gorm_postgres.New(gorm_postgres.Config{Conn: sqlDB}), gormCfg)
		if err != nil {
			_ = sqlDB.Close()
			pool.Close()
			return nil, nil, fmt.Errorf("open gorm: %w", err)
		}
		return db, func() {
			_ = sqlDB.Close()
			pool.Close()
		}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
