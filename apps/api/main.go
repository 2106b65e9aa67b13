package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"time"

	echoapi "github.com/Dahire100/FrontierLMS-sub005/apps/api/echo"
	"github.com/Dahire100/FrontierLMS-sub005/core"
	"github.com/Dahire100/FrontierLMS-sub005/core/collection"
	"github.com/Dahire100/FrontierLMS-sub005/resources"
	logsvc "github.com/Dahire100/FrontierLMS-sub005/services/logger"
	"github.com/Dahire100/FrontierLMS-sub005/storage/database"
	"github.com/Dahire100/FrontierLMS-sub005/storage/database/inmem"
	"github.com/Dahire100/FrontierLMS-sub005/storage/database/redisdb"
	"github.com/Dahire100/FrontierLMS-sub005/storage/database/sqlx"
)

const shutdownTimeout = 10 * time.Second

func main() {
	conf, err := core.LoadConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	// =========================================================================
	// Set up Dependencies

	logger := logsvc.New("API : ", conf)
	dbLogger := logsvc.New("DB : ", conf)
	defer logsvc.Flush()

	repo, closeRepo, err := setUpStorage(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up %s storage: %v", conf.Server.Storage, err), err)
	}
	defer func() {
		if err = closeRepo(); err != nil {
			dbLogger.Error("Failed to close", err)
		}
	}()

	catalog := resources.Default()
	if conf.Catalog.File != "" {
		if err = catalog.LoadOverrides(conf.Catalog.File); err != nil {
			logger.Fatal(fmt.Sprintf("loading catalog overrides: %v", err), err)
		}
	}
	svc := collection.NewService(repo, catalog.Collections()...)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("storage").Set(conf.Server.Storage)

	// =========================================================================
	// Start API Service

	server, err := echoapi.NewServer(echoapi.ServerDeps{
		Conf:    conf,
		Logger:  logger,
		Service: svc,
		Catalog: catalog,
	})
	if err != nil {
		logger.Fatal(fmt.Sprintf("creating server: %v", err), err)
	}

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Error(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Error(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

// setUpStorage opens the configured storage engine. The returned func closes it.
func setUpStorage(conf *core.Config) (collection.Repository, func() error, error) {
	switch conf.Server.Storage {
	case "", "inmem":
		return inmemdb.NewRecordRepository(inmemdb.Open()), func() error { return nil }, nil

	case "postgres":
		db, err := database.Open(conf)
		if err != nil {
			return nil, nil, err
		}
		if err = database.Migrate(db.DB); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return sqlxrepos.NewRecordRepository(db), db.Close, nil

	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		rdb, err := redisdb.Open(ctx, conf)
		if err != nil {
			return nil, nil, err
		}
		return redisdb.NewRecordRepository(rdb), rdb.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown storage engine %q (want inmem, postgres or redis)", conf.Server.Storage)
}
