package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/restaurant-billing/internal/config"
	domainRepo "github.com/sangkips/restaurant-billing/internal/domain/repository"
	"github.com/sangkips/restaurant-billing/internal/presentation/http/handler"
	"github.com/sangkips/restaurant-billing/internal/presentation/http/middleware"
	"github.com/sirupsen/logrus"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Health  *handler.HealthHandler
	Menu    *handler.MenuHandler
	Order   *handler.OrderHandler
	Printer *handler.PrinterHandler
	Report  *handler.ReportHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	Log             logrus.FieldLogger
	IdempotencyRepo domainRepo.IdempotencyRepository
	// RateLimiter is optional; nil disables rate limiting
	RateLimiter *middleware.ClientRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", h.Health.Check)

	v1 := router.Group("/api/v1")
	if deps.RateLimiter != nil {
		v1.Use(deps.RateLimiter.Middleware())
	}
	{
		registerMenuRoutes(v1, h)
		registerOrderRoutes(v1, h, deps)
		registerPrinterRoutes(v1, h)
		registerReportRoutes(v1, h)
	}

	return router
}

func registerMenuRoutes(v1 *gin.RouterGroup, h *Handlers) {
	menu := v1.Group("/menu")
	{
		menu.GET("", h.Menu.List)
		menu.POST("/import", h.Menu.Import)
		menu.GET("/:id", h.Menu.Get)
	}
}

func registerOrderRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotent := middleware.Idempotency(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
		Log:  deps.Log,
	})

	orders := v1.Group("/orders")
	{
		orders.GET("", h.Order.List)
		orders.POST("", idempotent, h.Order.Create)
		orders.GET("/:id", h.Order.Get)
		orders.POST("/:id/items", h.Order.AddItem)
		orders.POST("/:id/totals", h.Order.ComputeTotals)
		orders.POST("/:id/finalize", idempotent, h.Order.Finalize)
		orders.GET("/:id/bill", h.Printer.GetBill)
		orders.POST("/:id/bill/print", h.Printer.PrintBill)
	}
}

func registerPrinterRoutes(v1 *gin.RouterGroup, h *Handlers) {
	printerGroup := v1.Group("/printer")
	{
		printerGroup.GET("/status", h.Printer.GetStatus)
		printerGroup.POST("/test", h.Printer.TestPrint)
	}
}

func registerReportRoutes(v1 *gin.RouterGroup, h *Handlers) {
	reports := v1.Group("/reports")
	{
		reports.GET("/sales", h.Report.Sales)
		reports.GET("/top-items", h.Report.TopItems)
	}
}
