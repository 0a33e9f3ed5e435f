// Package main posts periodic interest once and exits.
//
// The job is meant to be started by cron. Running it more than once in the
// same month posts nothing new.
package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/go-petr/pet-ledger/internal/interestservice"
	"github.com/go-petr/pet-ledger/internal/ledgerrepo"
	"github.com/go-petr/pet-ledger/internal/ledgerservice"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"

	_ "github.com/lib/pq"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	if config.DBDriver != configpkg.DriverPostgres {
		logger.Fatal().Str("driver", config.DBDriver).
			Msg("interest job needs a shared database, use INTEREST_INTERVAL with the memory driver")
	}

	db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to database")
	}
	defer db.Close()

	ledgerConfig, err := ledgerservice.NewConfig(config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot read ledger config")
	}

	repo := ledgerrepo.NewRepoPGS(db)
	interest := interestservice.New(repo, ledgerservice.New(repo, ledgerConfig), interestservice.NewConfig(config))

	ctx, cancel := context.WithTimeout(logger.WithContext(context.Background()), 30*time.Minute)
	defer cancel()

	run, err := interest.Run(ctx, time.Now().UTC())
	if err != nil {
		logger.Fatal().Err(err).Msg("interest run failed")
	}

	logger.Info().
		Int32("period", int32(run.Period)).
		Int("candidates", run.Candidates).
		Int("posted", run.Posted).
		Int("skipped", run.Skipped).
		Int("failed", run.Failed).
		Str("total_interest", run.TotalInterest.String()).
		Msg("interest run finished")
}
