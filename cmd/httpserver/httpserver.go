// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-vlad/payment-transfer/internal/accountdelivery"
	"github.com/go-vlad/payment-transfer/internal/accountrepo"
	"github.com/go-vlad/payment-transfer/internal/accountservice"
	"github.com/go-vlad/payment-transfer/internal/auditrepo"
	"github.com/go-vlad/payment-transfer/internal/middleware"
	"github.com/go-vlad/payment-transfer/internal/reportdelivery"
	"github.com/go-vlad/payment-transfer/internal/reportservice"
	"github.com/go-vlad/payment-transfer/internal/tokendelivery"
	"github.com/go-vlad/payment-transfer/internal/transactionrepo"
	"github.com/go-vlad/payment-transfer/internal/transferdelivery"
	"github.com/go-vlad/payment-transfer/internal/transferrepo"
	"github.com/go-vlad/payment-transfer/internal/transferservice"
	"github.com/go-vlad/payment-transfer/pkg/configpkg"
	"github.com/go-vlad/payment-transfer/pkg/tokenpkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	accountRepo := accountrepo.NewRepoPGS(conn)
	transactionRepo := transactionrepo.NewRepoPGS(conn)
	auditRepo := auditrepo.NewRepoPGS(conn)
	transferRepo := transferrepo.NewRepoPGS(conn)

	tokenMaker, err := tokenpkg.NewPasetoMaker(config.TokenSymmetricKey)
	if err != nil {
		return nil, errors.New("cannot create token maker")
	}

	accountService := accountservice.New(accountRepo)
	transferService := transferservice.New(transferRepo, accountService)
	reportService := reportservice.New(transactionRepo, auditRepo, accountService)

	accountHandler := accountdelivery.NewHandler(accountService)
	transferHandler := transferdelivery.NewHandler(transferService)
	reportHandler := reportdelivery.NewHandler(reportService)
	tokenHandler := tokendelivery.NewHandler(tokenMaker, config)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/tokens", tokenHandler.Create)

	authRoutes := engine.Group("/").Use(middleware.AuthMiddleware(tokenMaker))

	authRoutes.POST("/accounts", accountHandler.Create)
	authRoutes.GET("/accounts/:id", accountHandler.Get)
	authRoutes.GET("/accounts", accountHandler.List)

	authRoutes.POST("/transfers", transferHandler.Create)

	authRoutes.GET("/reports/transactions/:id", reportHandler.Transactions)
	authRoutes.GET("/reports/audits/:id", reportHandler.Audits)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("currency", accountdelivery.ValidCurrency)
		if err != nil {
			return nil, errors.New("cannot register currency validator")
		}
	}

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
