// file: db/db.go

package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"service-desk/config"
	"service-desk/logger"
	"time"

	"github.com/sirupsen/logrus"

	_ "github.com/lib/pq"
)

// dsn builds a lib/pq URL; the password is only included when withPassword is set
// so the result can be logged.
func dsn(withPassword bool) string {
	cfg := config.AppConfig.Database

	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   "/" + cfg.Name,
	}
	if withPassword && cfg.Password != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	} else {
		u.User = url.User(cfg.User)
	}
	q := url.Values{}
	q.Set("sslmode", cfg.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Connect opens the PostgreSQL pool described by AppConfig and verifies it.
func Connect() (*sql.DB, error) {
	cfg := config.AppConfig.Database
	log := logger.Log.WithFields(logrus.Fields{
		"connection":     dsn(false),
		"max_open_conns": cfg.MaxOpenConns,
	})
	log.Info("Attempting to connect to the database")

	db, err := sql.Open("postgres", dsn(true))
	if err != nil {
		log.WithError(err).Error("Failed to open database connection")
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err = db.PingContext(ctx); err != nil {
		log.WithError(err).Error("Failed to ping database")
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("Database connection established successfully")
	return db, nil
}
