package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bizquote/quotation-system/internal/api/handler"
	"github.com/bizquote/quotation-system/internal/api/middleware"
	"github.com/bizquote/quotation-system/internal/core/domain"
	"github.com/bizquote/quotation-system/internal/core/ports"
	"github.com/bizquote/quotation-system/internal/infrastructure/http/handlers"
)

// RouterDeps bundles everything the HTTP surface needs. Services are built
// in the composition root; the router only wires them to routes.
type RouterDeps struct {
	Quotations ports.QuotationService
	Clients    ports.ClientService
	Auth       ports.AuthService
	JWTSecret  string
	Logger     zerolog.Logger

	// Probe targets for the readiness endpoint.
	Mongo *mongo.Database
	Redis *redis.Client
	NATS  *nats.Conn
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("quotation"))

	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Mongo, deps.Redis, deps.NATS)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	quotationHandler := handler.NewQuotationHandler(deps.Quotations)
	clientHandler := handler.NewClientHandler(deps.Clients)

	// --- Auth routes (no token required) ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Authenticated API ---
	v1 := e.Group("/v1", middleware.Auth(deps.JWTSecret))

	q := v1.Group("/quotations")
	q.POST("", quotationHandler.Create,
		middleware.RequirePermission(domain.ResourceQuotations, domain.ActionCreate))
	q.GET("", quotationHandler.List,
		middleware.RequirePermission(domain.ResourceQuotations, domain.ActionRead))
	q.GET("/export", quotationHandler.ExportCSV,
		middleware.RequirePermission(domain.ResourceQuotations, domain.ActionExport))
	q.POST("/bulk-action", quotationHandler.BulkAction)
	q.GET("/:id", quotationHandler.Get,
		middleware.RequirePermission(domain.ResourceQuotations, domain.ActionRead))
	q.PUT("/:id", quotationHandler.Update,
		middleware.RequirePermission(domain.ResourceQuotations, domain.ActionUpdate))
	q.DELETE("/:id", quotationHandler.Delete,
		middleware.RequirePermission(domain.ResourceQuotations, domain.ActionDelete))
	q.PATCH("/:id/status", quotationHandler.UpdateStatus)
	q.POST("/:id/duplicate", quotationHandler.Duplicate,
		middleware.RequirePermission(domain.ResourceQuotations, domain.ActionCreate))
	q.POST("/:id/send", quotationHandler.Send,
		middleware.RequirePermission(domain.ResourceQuotations, domain.ActionSend))
	q.GET("/:id/pdf", quotationHandler.DownloadPDF,
		middleware.RequirePermission(domain.ResourceQuotations, domain.ActionRead))

	v1.POST("/users", authHandler.CreateUser,
		middleware.RequirePermission(domain.ResourceUsers, domain.ActionCreate))
	v1.DELETE("/users/:id", authHandler.DeactivateUser,
		middleware.RequirePermission(domain.ResourceUsers, domain.ActionDelete))

	cl := v1.Group("/clients")
	cl.POST("", clientHandler.Create,
		middleware.RequirePermission(domain.ResourceClients, domain.ActionCreate))
	cl.GET("", clientHandler.List,
		middleware.RequirePermission(domain.ResourceClients, domain.ActionRead))
	cl.GET("/:id", clientHandler.Get,
		middleware.RequirePermission(domain.ResourceClients, domain.ActionRead))
	cl.PUT("/:id", clientHandler.Update,
		middleware.RequirePermission(domain.ResourceClients, domain.ActionUpdate))
	cl.DELETE("/:id", clientHandler.Delete,
		middleware.RequirePermission(domain.ResourceClients, domain.ActionDelete))

	return e
}
