// Package httpserver manages server creation and api routing.
package httpserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/accountdelivery"
	"github.com/go-petr/pet-ledger/internal/accountrepo"
	"github.com/go-petr/pet-ledger/internal/accountservice"
	"github.com/go-petr/pet-ledger/internal/accounttyperepo"
	"github.com/go-petr/pet-ledger/internal/interestservice"
	"github.com/go-petr/pet-ledger/internal/ledgerdelivery"
	"github.com/go-petr/pet-ledger/internal/ledgerrepo"
	"github.com/go-petr/pet-ledger/internal/ledgerservice"
	"github.com/go-petr/pet-ledger/internal/memstore"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/internal/reportdelivery"
	"github.com/go-petr/pet-ledger/internal/reportservice"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/tokenpkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config

	// Interest posts periodic interest against the same storage the handlers use.
	Interest *interestservice.Service
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// LedgerRepo is the storage behind postings, reports and interest runs.
type LedgerRepo interface {
	ledgerservice.Repo
	reportservice.Repo
	interestservice.Repo
}

// Storage bundles the repositories of one storage driver.
type Storage struct {
	Accounts accountservice.Repo
	Types    accountservice.TypeRepo
	Ledger   LedgerRepo
}

// NewStorage returns repositories for the configured driver.
//
// conn is only used by the postgres driver and may be nil for the memory driver.
func NewStorage(conn *sql.DB, driver string) (Storage, error) {
	switch driver {
	case configpkg.DriverPostgres:
		if conn == nil {
			return Storage{}, errors.New("postgres driver requires a db connection")
		}

		return Storage{
			Accounts: accountrepo.NewRepoPGS(conn),
			Types:    accounttyperepo.NewRepoPGS(conn),
			Ledger:   ledgerrepo.NewRepoPGS(conn),
		}, nil
	case configpkg.DriverMemory:
		store := memstore.New()

		return Storage{
			Accounts: store,
			Types:    store.Types(),
			Ledger:   store,
		}, nil
	default:
		return Storage{}, fmt.Errorf("unsupported db driver %q", driver)
	}
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	storage, err := NewStorage(conn, config.DBDriver)
	if err != nil {
		return nil, err
	}

	tokenMaker, err := tokenpkg.NewMaker(config.TokenKind, config.TokenSymmetricKey)
	if err != nil {
		return nil, fmt.Errorf("cannot create token maker: %w", err)
	}

	ledgerConfig, err := ledgerservice.NewConfig(config)
	if err != nil {
		return nil, fmt.Errorf("cannot read ledger config: %w", err)
	}

	accountService := accountservice.New(storage.Accounts, storage.Types)
	ledgerService := ledgerservice.New(storage.Ledger, ledgerConfig)
	reportService := reportservice.New(storage.Ledger)
	interestService := interestservice.New(storage.Ledger, ledgerService, interestservice.NewConfig(config))

	if config.DBDriver == configpkg.DriverMemory {
		ctx := logger.WithContext(context.Background())
		if err := accountService.SeedTypes(ctx, accountservice.DefaultTypes); err != nil {
			return nil, fmt.Errorf("cannot seed account types: %w", err)
		}
	}

	accountHandler := accountdelivery.NewHandler(accountService)
	ledgerHandler := ledgerdelivery.NewHandler(ledgerService)
	reportHandler := reportdelivery.NewHandler(reportService)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("money", ledgerdelivery.ValidMoney)
		if err != nil {
			return nil, errors.New("cannot register money validator")
		}
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))

	engine.GET("/account-types", accountHandler.ListTypes)

	authRoutes := engine.Group("/").Use(middleware.AuthMiddleware(tokenMaker))

	authRoutes.POST("/accounts", accountHandler.Create)
	authRoutes.GET("/accounts/:id", accountHandler.Get)
	authRoutes.GET("/accounts", accountHandler.List)

	ownerRoutes := engine.Group("/accounts/:id").
		Use(middleware.AuthMiddleware(tokenMaker), middleware.AccountOwner(accountService))

	ownerRoutes.POST("/deposits", ledgerHandler.Deposit)
	ownerRoutes.POST("/withdrawals", ledgerHandler.Withdraw)
	ownerRoutes.GET("/transactions", reportHandler.Statement)
	ownerRoutes.GET("/balance", reportHandler.Balance)

	server := &Server{
		DB:       conn,
		Engine:   engine,
		Config:   config,
		Interest: interestService,
	}

	return server, nil
}
