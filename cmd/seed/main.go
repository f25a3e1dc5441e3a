package main

import (
	"context"

	log "github.com/sirupsen/logrus"

	"coffeeshop-pos/internal/config"
	"coffeeshop-pos/internal/db"
	"coffeeshop-pos/internal/migrate"
	productrepo "coffeeshop-pos/internal/repository/product"
	"coffeeshop-pos/internal/seed"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)

	cfg := config.FromEnv()
	logger := log.WithField("component", "seed")

	ctx := context.Background()

	var writer seed.ProductWriter

	switch cfg.DBDriver {
	case "postgres":
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			logger.WithError(err).Fatal("connect db")
		}
		defer pool.Close()
		writer = productrepo.NewPostgres(pool, nil)
	case "sqlite":
		sqldb, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			logger.WithError(err).Fatal("open sqlite")
		}
		defer sqldb.Close()
		if err := migrate.ApplySQLite(ctx, sqldb); err != nil {
			logger.WithError(err).Fatal("apply sqlite migrations")
		}
		writer = productrepo.NewSQLite(sqldb, nil)
	default:
		logger.Fatalf("unknown DB_DRIVER %q (want sqlite or postgres)", cfg.DBDriver)
	}

	if err := seed.Apply(ctx, writer); err != nil {
		logger.WithError(err).Fatal("seed apply")
	}

	logger.Info("menu seeded")
}
