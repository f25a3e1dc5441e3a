package main

import (
	"context"
	"flag"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"coffeeshop-pos/internal/config"
	"coffeeshop-pos/internal/db"
	"coffeeshop-pos/internal/importer"
	"coffeeshop-pos/internal/migrate"
	productrepo "coffeeshop-pos/internal/repository/product"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to menu CSV export")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)

	cfg := config.FromEnv()
	logger := log.WithField("component", "importer")

	ctx := context.Background()

	var catalog importer.ProductWriter

	switch cfg.DBDriver {
	case "postgres":
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			logger.WithError(err).Fatal("connect db")
		}
		defer pool.Close()
		catalog = productrepo.NewPostgres(pool, nil)
	case "sqlite":
		sqldb, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			logger.WithError(err).Fatal("open sqlite")
		}
		defer sqldb.Close()
		if err := migrate.ApplySQLite(ctx, sqldb); err != nil {
			logger.WithError(err).Fatal("apply sqlite migrations")
		}
		catalog = productrepo.NewSQLite(sqldb, nil)
	default:
		logger.Fatalf("unknown DB_DRIVER %q (want sqlite or postgres)", cfg.DBDriver)
	}

	f, err := os.Open(filePath)
	if err != nil {
		logger.WithError(err).Fatal("open file")
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, catalog)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		logger.WithError(err).Fatal("import failed")
	}

	logger.WithFields(log.Fields{
		"products": count,
		"took":     time.Since(start).Truncate(time.Millisecond).String(),
	}).Info("menu imported")
}
