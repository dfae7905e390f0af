package database

import (
	"database/sql"
	"time"

	"syntax/internal/platform/config"

	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
)

var DB *sql.DB

// Connect opens the shared pool and verifies connectivity. Boot cannot
// proceed without the database, so failures are fatal.
func Connect(logger *zap.Logger) {
	var err error
	DB, err = sql.Open("pgx", config.AppConfig.DBConnStr)
	if err != nil {
		logger.Fatal("could not open database", zap.Error(err))
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(25)
	DB.SetConnMaxLifetime(5 * time.Minute)

	if err = DB.Ping(); err != nil {
		logger.Fatal("could not connect to database", zap.Error(err))
	}

	logger.Info("database connected",
		zap.String("host", config.AppConfig.DBHost),
		zap.String("database", config.AppConfig.DBName),
	)
}

func Close() {
	if DB != nil {
		DB.Close()
	}
}
