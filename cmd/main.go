// Package main runs the ledger API server.
package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/go-petr/pet-ledger/cmd/httpserver"
	"github.com/go-petr/pet-ledger/internal/interestservice"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"

	_ "github.com/lib/pq"
)

const migrationDir = "./configs/db/migration"

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	var db *sql.DB

	if config.DBDriver == configpkg.DriverPostgres {
		db, err = dbpkg.Setup(config.DBDriver, config.DBSource)
		if err != nil {
			logger.Fatal().Err(err).Msg("cannot connect to database")
		}

		applied, err := dbpkg.Migrate(context.Background(), db, migrationDir)
		if err != nil {
			logger.Fatal().Err(err).Msg("cannot migrate database")
		}

		logger.Info().Strs("migrations", applied).Msg("database is up to date")
	}

	server, err := httpserver.New(db, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	if config.InterestInterval > 0 {
		go runInterest(logger.WithContext(context.Background()), server.Interest, config.InterestInterval)
	}

	logger.Info().Str("driver", config.DBDriver).Msg("LEDGER API SERVER HAS STARTED")

	err = server.Engine.Run(config.ServerAddress)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}

// runInterest runs the interest scheduler every interval until ctx is done.
func runInterest(ctx context.Context, interest *interestservice.Service, interval time.Duration) {
	l := zerolog.Ctx(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		run, err := interest.Run(ctx, time.Now().UTC())
		if err != nil {
			l.Error().Err(err).Msg("interest run failed")
		} else {
			l.Info().Interface("run", run).Msg("interest run finished")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
