// Package httpserver manages server creation and api routing.
package httpserver

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/basic-bank/internal/accountdelivery"
	"github.com/go-petr/basic-bank/internal/accountrepo"
	"github.com/go-petr/basic-bank/internal/accountservice"
	"github.com/go-petr/basic-bank/internal/eventpublisher"
	"github.com/go-petr/basic-bank/internal/middleware"
	"github.com/go-petr/basic-bank/internal/transferdelivery"
	"github.com/go-petr/basic-bank/internal/transferrepo"
	"github.com/go-petr/basic-bank/internal/transferservice"
	"github.com/go-petr/basic-bank/internal/userdelivery"
	"github.com/go-petr/basic-bank/internal/userservice"
	"github.com/go-petr/basic-bank/pkg/configpkg"
	"github.com/go-petr/basic-bank/pkg/tokenpkg"
)

type publisher interface {
	transferservice.Publisher
	Close() error
}

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config

	publisher publisher
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// Close releases the event publisher. The database is owned by the caller.
func (s *Server) Close() error {
	return s.publisher.Close()
}

var (
	validatorsOnce sync.Once
	validatorsErr  error
)

// registerValidators adds the custom binding tags to gin's shared validator once per process.
func registerValidators() error {
	validatorsOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			validatorsErr = v.RegisterValidation("accountno", accountdelivery.ValidAccountNo)
		}
	})

	return validatorsErr
}

func newPublisher(logger zerolog.Logger, config configpkg.Config) publisher {
	brokers := config.Brokers()
	if len(brokers) == 0 {
		logger.Info().Msg("no kafka brokers configured, transfer events are not published")
		return eventpublisher.Noop{}
	}

	logger.Info().Strs("brokers", brokers).Str("topic", config.KafkaTopic).Msg("publishing transfer events")

	return eventpublisher.NewKafka(brokers, config.KafkaTopic)
}

// New creates Server type with instantiated domains and routes.
//
// When SeedAccounts is set the default accounts are inserted if missing.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	accountRepo := accountrepo.NewRepoSQL(conn)
	transferRepo := transferrepo.NewRepoSQL(conn)

	tokenMaker, err := tokenpkg.New(config.TokenType, config.TokenSymmetricKey)
	if err != nil {
		return nil, fmt.Errorf("cannot create token maker: %w", err)
	}

	userService, err := userservice.New(config.LoginUsername, config.LoginPassword)
	if err != nil {
		return nil, fmt.Errorf("cannot initialize user service: %w", err)
	}

	pub := newPublisher(logger, config)

	accountService := accountservice.New(accountRepo)
	transferService := transferservice.New(transferRepo, accountService, pub)

	if config.SeedAccounts {
		if err := accountService.Seed(logger.WithContext(context.Background()), accountrepo.SeedAccounts); err != nil {
			return nil, fmt.Errorf("cannot seed accounts: %w", err)
		}
	}

	userHandler := userdelivery.NewHandler(userService, tokenMaker, config.AccessTokenDuration)
	accountHandler := accountdelivery.NewHandler(accountService)
	transferHandler := transferdelivery.NewHandler(transferService)

	if err := registerValidators(); err != nil {
		return nil, fmt.Errorf("cannot register accountno validator: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/users/login", userHandler.Login)

	authRoutes := engine.Group("/").Use(middleware.AuthMiddleware(tokenMaker))

	authRoutes.GET("/accounts", accountHandler.List)
	authRoutes.GET("/accounts/:account_no", accountHandler.Get)
	authRoutes.GET("/accounts/:account_no/recipients", accountHandler.Recipients)

	authRoutes.POST("/accounts/:account_no/transfers", transferHandler.Create)
	authRoutes.POST("/accounts/:account_no/transfers/cancel", transferHandler.Cancel)
	authRoutes.GET("/transfers", transferHandler.History)

	server := &Server{
		DB:        conn,
		Engine:    engine,
		Config:    config,
		publisher: pub,
	}

	return server, nil
}
