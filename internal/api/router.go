package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/authgate/authgate/internal/api/handler"
	"github.com/authgate/authgate/internal/api/metrics"
	"github.com/authgate/authgate/internal/api/middleware"
	"github.com/authgate/authgate/internal/core/domain"
	"github.com/authgate/authgate/internal/core/ports"
	"github.com/authgate/authgate/pkg/logger"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Auth     ports.AuthService
	Tokens   ports.TokenVerifier
	Products ports.ProductService
	Checks   map[string]handler.Check
	Log      zerolog.Logger

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(contextLogger(d.Log))
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "authgate",
		Registerer: d.Registerer,
	}))

	// --- Dependencies ---
	authMetrics := metrics.New(d.Registerer)
	authHandler := handler.NewAuthHandler(d.Auth, authMetrics, d.Log)
	protectedHandler := handler.NewProtectedHandler()
	productHandler := handler.NewProductHandler(d.Products)
	authenticated := middleware.Auth(d.Tokens, authMetrics)
	anyUser := middleware.RequireGroups(authMetrics, domain.GroupUser, domain.GroupAdmin)
	adminOnly := middleware.RequireGroups(authMetrics, domain.GroupAdmin)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Protected demo resources ---
	e.GET("/protected/public", protectedHandler.Public)
	protected := e.Group("/protected", authenticated)
	protected.GET("/user", protectedHandler.User, anyUser)
	protected.GET("/admin", protectedHandler.Admin, adminOnly)
	protected.GET("/profile", protectedHandler.Profile, anyUser)

	// --- Catalog ---
	products := e.Group("/api/products", authenticated)
	products.GET("", productHandler.List, anyUser)
	products.GET("/search", productHandler.Search, anyUser)
	products.GET("/price-range", productHandler.PriceRange, anyUser)
	products.GET("/in-stock", productHandler.InStock, anyUser)
	products.GET("/:id", productHandler.Get, anyUser)
	products.POST("", productHandler.Create, adminOnly)
	products.PUT("/:id", productHandler.Update, adminOnly)
	products.DELETE("/:id", productHandler.Delete, adminOnly)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))

	return e
}

// contextLogger stores a request-scoped logger carrying the request id.
func contextLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqLog := log.With().Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).Logger()
			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithContext(req.Context(), reqLog)))
			return next(c)
		}
	}
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
