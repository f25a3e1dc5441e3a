package main

import (
	"context"

	log "github.com/sirupsen/logrus"

	"coffeeshop-pos/internal/config"
	"coffeeshop-pos/internal/db"
	"coffeeshop-pos/internal/migrate"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)

	cfg := config.FromEnv()
	logger := log.WithField("component", "migrate")

	ctx := context.Background()

	switch cfg.DBDriver {
	case "postgres":
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			logger.WithError(err).Fatal("connect db")
		}
		defer pool.Close()

		if err := migrate.Apply(ctx, pool); err != nil {
			logger.WithError(err).Fatal("apply migrations")
		}
	case "sqlite":
		sqldb, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			logger.WithError(err).Fatal("open sqlite")
		}
		defer sqldb.Close()

		if err := migrate.ApplySQLite(ctx, sqldb); err != nil {
			logger.WithError(err).Fatal("apply migrations")
		}
	default:
		logger.Fatalf("unknown DB_DRIVER %q (want sqlite or postgres)", cfg.DBDriver)
	}

	logger.Info("migrations applied")
}
