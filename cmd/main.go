// Package main starts the basic bank API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/go-petr/basic-bank/cmd/httpserver"
	"github.com/go-petr/basic-bank/internal/middleware"
	"github.com/go-petr/basic-bank/pkg/configpkg"
	"github.com/go-petr/basic-bank/pkg/dbpkg"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to database")
	}

	defer func() {
		if err := db.Close(); err != nil {
			logger.Error().Err(err).Msg("cannot close database")
		}
	}()

	if err := dbpkg.Migrate(logger.WithContext(context.Background()), db, config.DBDriver); err != nil {
		logger.Error().Err(err).Msg("cannot migrate database")
		return
	}

	server, err := httpserver.New(db, logger, config)
	if err != nil {
		logger.Error().Err(err).Msg("cannot create server")
		return
	}

	defer func() {
		if err := server.Close(); err != nil {
			logger.Error().Err(err).Msg("cannot close event publisher")
		}
	}()

	srv := &http.Server{
		Addr:              config.ServerAddress,
		Handler:           server,
		ReadHeaderTimeout: 5 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info().Str("signal", sig.String()).Msg("shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	logger.Info().Str("address", config.ServerAddress).Str("driver", config.DBDriver).Msg("BASIC BANK API SERVER HAS STARTED")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("cannot start server")
	}
}
