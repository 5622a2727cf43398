package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/shoppulse/pipeline/api/handler"
)

type Handlers struct {
	Health       *apiHandler.HealthHandler
	Dashboard    *apiHandler.DashboardHandler
	Sales        *apiHandler.SalesHandler
	Customer     *apiHandler.CustomerHandler
	Inventory    *apiHandler.InventoryHandler
	Notification *apiHandler.NotificationHandler
	Report       *apiHandler.ReportHandler
	Metrics      fasthttp.RequestHandler
}

func New(handlers Handlers) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)
	if handlers.Metrics != nil {
		r.GET("/metrics", handlers.Metrics)
	}

	r.GET("/api", handlers.Dashboard.Summary)
	r.GET("/api/sales", handlers.Sales.List)
	r.GET("/api/customers", handlers.Customer.List)
	r.GET("/api/inventory", handlers.Inventory.List)
	r.GET("/api/notifications", handlers.Notification.List)

	r.GET("/api/reports", handlers.Report.Available)
	r.POST("/api/reports", handlers.Report.Generate)
	r.GET("/reports/{name:*}", handlers.Report.Download)

	return r
}
