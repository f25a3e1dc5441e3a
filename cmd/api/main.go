package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"coffeeshop-pos/internal/config"
	"coffeeshop-pos/internal/db"
	"coffeeshop-pos/internal/httpserver"
	"coffeeshop-pos/internal/metrics"
	"coffeeshop-pos/internal/migrate"
	orderrepo "coffeeshop-pos/internal/repository/order"
	productrepo "coffeeshop-pos/internal/repository/product"
	catalogsvc "coffeeshop-pos/internal/service/catalog"
	historysvc "coffeeshop-pos/internal/service/history"
	registersvc "coffeeshop-pos/internal/service/register"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)

	cfg := config.FromEnv()
	logger := log.WithField("component", "api")

	ctx := context.Background()

	var (
		productRepo productrepo.Repository
		orderRepo   orderrepo.Repository
		ready       func(context.Context) error
	)

	switch cfg.DBDriver {
	case "postgres":
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			logger.WithError(err).Fatal("connect to postgres")
		}
		defer pool.Close()

		productRepo = productrepo.NewPostgres(pool, nil)
		orderRepo = orderrepo.NewPostgres(pool, nil)
		ready = pool.Ping
	case "sqlite":
		sqldb, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			logger.WithError(err).Fatal("open sqlite")
		}
		defer sqldb.Close()

		// The embedded register database migrates itself on startup.
		if err := migrate.ApplySQLite(ctx, sqldb); err != nil {
			logger.WithError(err).Fatal("apply sqlite migrations")
		}

		productRepo = productrepo.NewSQLite(sqldb, nil)
		orderRepo = orderrepo.NewSQLite(sqldb, nil)
		ready = sqldb.PingContext
	default:
		logger.Fatalf("unknown DB_DRIVER %q (want sqlite or postgres)", cfg.DBDriver)
	}

	posMetrics := metrics.New()
	catalogService := catalogsvc.New(productRepo)
	registerService := registersvc.New(productRepo, orderRepo, registersvc.Config{
		TaxRateBP: cfg.TaxRateBP,
		Currency:  cfg.Currency,
	}, posMetrics, nil)
	historyService := historysvc.New(orderRepo)

	srv, err := httpserver.New(cfg.HTTPAddr, log.WithField("component", "http"), httpserver.Deps{
		Catalog:        catalogService,
		Register:       registerService,
		History:        historyService,
		Ready:          ready,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	if err != nil {
		logger.WithError(err).Fatal("init server")
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.WithFields(log.Fields{"addr": cfg.HTTPAddr, "driver": cfg.DBDriver}).Info("starting http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.WithField("signal", sig.String()).Info("shutting down")
	case err := <-serverErr:
		logger.WithError(err).Error("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	} else {
		logger.Info("server stopped")
	}
}
