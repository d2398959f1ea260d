package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	handlers "github.com/wekeepgrowing/semo-billing/internal/adapter/handler/http"
	"github.com/wekeepgrowing/semo-billing/internal/config"
	"github.com/wekeepgrowing/semo-billing/internal/middleware/auth"
	"github.com/wekeepgrowing/semo-billing/pkg/logger"
	"go.uber.org/zap"
)

// Services bundles the application services the HTTP routes are served by
type Services struct {
	Checkout handlers.CheckoutIssuer
	Portal   handlers.PortalIssuer
	Webhooks handlers.WebhookProcessor
	Sessions handlers.SubscriptionReader
	Prices   handlers.PriceLookup
	SignIn   handlers.SignInCompleter
	Identity handlers.IdentityProvider
	States   handlers.StateIssuer
}

type Server struct {
	config   *config.Config
	logger   *zap.Logger
	echo     *echo.Echo
	services *Services
}

func NewServer(cfg *config.Config, log *zap.Logger, services *Services) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewRequestValidator()
	e.Server.ReadTimeout = cfg.Server.HTTP.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.HTTP.WriteTimeout

	logger.WithEchoLogger(e, log)

	// Middleware
	e.Use(logger.NewEchoRequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.Service.AllowedOrigin()},
		AllowMethods:     []string{http.MethodGet, http.MethodPost},
		AllowHeaders:     []string{echo.HeaderAuthorization, echo.HeaderContentType},
		AllowCredentials: true,
	}))

	s := &Server{
		config:   cfg,
		logger:   log,
		echo:     e,
		services: services,
	}
	s.setupRoutes()

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the router, e.g. for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": "billing",
		})
	})
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Initialize handlers
	checkoutHandler := handlers.NewCheckoutHandler(s.logger, s.services.Checkout, s.services.Portal)
	webhookHandler := handlers.NewWebhookHandler(s.logger, s.services.Webhooks)
	sessionHandler := handlers.NewSessionHandler(s.logger, s.services.Sessions)
	pricesHandler := handlers.NewPricesHandler(s.logger, s.services.Prices)
	oauthHandler := handlers.NewOAuthHandler(s.logger, s.services.Identity, s.services.States, s.services.SignIn)

	jwtConfig := auth.JWTConfig{
		Secret: s.config.Auth.Secret,
		Logger: s.logger,
	}

	// Issuers answer unauthenticated requests with their own refusal
	optionalAuth := auth.JWTConfig{
		Secret:   s.config.Auth.Secret,
		Logger:   s.logger,
		Optional: true,
	}

	// OAuth sign-in
	oauth := s.echo.Group("/auth/github")
	oauth.GET("/login", oauthHandler.Login)
	oauth.GET("/callback", oauthHandler.Callback)

	// Stripe routes used by the web client
	stripeRoutes := s.echo.Group("/api/stripe")
	stripeRoutes.POST("/create-checkout-session", checkoutHandler.CreateCheckoutSession, auth.JWTMiddleware(optionalAuth))
	stripeRoutes.POST("/create-portal-session", checkoutHandler.CreatePortalSession, auth.JWTMiddleware(optionalAuth))
	stripeRoutes.POST("/webhook", webhookHandler.HandleWebhook)

	// API v1 routes
	v1 := s.echo.Group("/api/v1")
	v1.GET("/prices/:lookup_key", pricesHandler.GetPrice)
	v1.GET("/session", sessionHandler.GetSession, auth.JWTMiddleware(jwtConfig))

	// Webhook route (outside API versioning)
	s.echo.POST("/webhook", webhookHandler.HandleWebhook)
}
