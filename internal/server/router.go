package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"bookkeeper/internal/handlers"
	"bookkeeper/internal/middleware"
	"bookkeeper/internal/services"
)

// Services is everything the HTTP API is built on.
type Services struct {
	Orders    services.OrderService
	Vendors   services.VendorService
	Expenses  services.ExpenseService
	Funds     services.FundService
	Dashboard services.DashboardService
	Reconcile services.ReconcileService
	Backup    services.BackupService
	Clock     services.Clock
}

type Options struct {
	AllowedOrigins []string
	// Registry receives the HTTP collectors and is served on /metrics.
	Registry *prometheus.Registry
	Logger   zerolog.Logger
	// Health reports backend availability on /healthz. Nil means always healthy.
	Health func(ctx context.Context) error
}

func NewRouter(svc Services, opts Options) (*gin.Engine, error) {
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	if svc.Clock == nil {
		svc.Clock = time.Now
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"http://localhost:3000"}
	}
	metrics, err := middleware.NewMetrics(opts.Registry)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(opts.Logger))
	router.Use(metrics.Middleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     opts.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))
	router.GET("/healthz", func(c *gin.Context) {
		if opts.Health != nil {
			if err := opts.Health(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	orderHandler := handlers.NewOrderHandler(svc.Orders, svc.Vendors)
	vendorHandler := handlers.NewVendorHandler(svc.Vendors)
	ledgerHandler := handlers.NewLedgerHandler(svc.Expenses, svc.Funds, svc.Dashboard)
	maintenanceHandler := handlers.NewMaintenanceHandler(svc.Backup, svc.Reconcile, svc.Clock)

	api := router.Group("/api")
	{
		api.GET("/orders", orderHandler.ListOrders)
		api.POST("/orders", orderHandler.CreateOrder)
		api.GET("/orders/:id", orderHandler.GetOrder)
		api.PUT("/orders/:id", orderHandler.UpdateOrder)
		api.DELETE("/orders/:id", orderHandler.DeleteOrder)
		api.POST("/orders/:id/toggle-completion", orderHandler.ToggleCompletion)

		api.GET("/vendors", vendorHandler.ListVendors)
		api.POST("/vendors", vendorHandler.CreateVendor)
		api.GET("/vendors/:id", vendorHandler.GetVendor)
		api.PUT("/vendors/:id", vendorHandler.UpdateVendor)
		api.DELETE("/vendors/:id", vendorHandler.DeleteVendor)
		api.GET("/vendors/:id/transactions", vendorHandler.ListVendorTransactions)

		api.GET("/transactions", vendorHandler.ListTransactions)
		api.PUT("/transactions/:id/status", vendorHandler.UpdateTransactionStatus)

		api.GET("/expenses", ledgerHandler.ListExpenses)
		api.POST("/expenses", ledgerHandler.CreateExpense)
		api.PUT("/expenses/:id", ledgerHandler.UpdateExpense)
		api.DELETE("/expenses/:id", ledgerHandler.DeleteExpense)

		api.GET("/funds", ledgerHandler.ListFunds)
		api.POST("/funds", ledgerHandler.CreateFund)
		api.PUT("/funds/:id", ledgerHandler.UpdateFund)
		api.DELETE("/funds/:id", ledgerHandler.DeleteFund)

		api.GET("/dashboard", ledgerHandler.GetDashboard)

		api.GET("/backup/export", maintenanceHandler.Export)
		api.POST("/backup/import", maintenanceHandler.Import)
		api.GET("/reconcile/audit", maintenanceHandler.Audit)
		api.POST("/reconcile/rebuild", maintenanceHandler.Rebuild)
	}

	return router, nil
}
