package main

import (
	"paintflow-api/internal/forecast"
	"paintflow-api/internal/handler"
	"paintflow-api/internal/middleware"
	"paintflow-api/internal/model"
	"paintflow-api/internal/notify"
	"paintflow-api/internal/service"
	"paintflow-api/pkg/clock"
	"paintflow-api/pkg/config"
	"paintflow-api/pkg/database"
	"paintflow-api/pkg/jwtutil"
	"paintflow-api/pkg/logger"
	"paintflow-api/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting PaintFlow API...", zap.String("environment", cfg.Server.Env))

	// Initialize database and run migrations
	db, err := database.InitDB(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.MigrateModels(
		&model.User{},
		&model.RefreshToken{},
		&model.Region{},
		&model.Warehouse{},
		&model.Product{},
		&model.Shade{},
		&model.SKU{},
		&model.StockLevel{},
		&model.Transfer{},
		&model.Dealer{},
		&model.DealerOrder{},
		&model.Notification{},
	); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database connection established and migrations completed")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized")

	// Wall clock by default; SIMULATION_DATE pins "today" for demo datasets
	var clk clock.Clock = clock.Real{}
	if cfg.Simulation.Date != "" {
		clk = clock.FromSimulationDate(cfg.Simulation.Date)
		log.Info("Simulation clock active", zap.String("date", cfg.Simulation.Date))
	}

	jwt := jwtutil.New(&jwtutil.Config{
		AccessSecret:  cfg.JWT.AccessSecret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessExpiry:  cfg.JWT.AccessExpiry,
		RefreshExpiry: cfg.JWT.RefreshExpiry,
	})
	forecaster := forecast.NewClient(cfg.Forecast.BaseURL, cfg.Forecast.Timeout)
	notifier := notify.NewDBNotifier(db)

	// Wire services and handlers
	sessions := service.NewSessionService(db, jwt, clk)
	inventory := service.NewInventoryService(db, clk)
	transfers := service.NewTransferService(db, clk, notifier)
	dealers := service.NewDealerService(db, clk, forecaster)
	orders := service.NewOrderService(db, clk)

	authHandler := handler.NewAuthHandler(sessions)
	inventoryHandler := handler.NewInventoryHandler(inventory)
	transferHandler := handler.NewTransferHandler(transfers)
	dealerHandler := handler.NewDealerHandler(dealers, orders)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(middleware.MetricsMiddleware)

	// Public routes - no authentication required
	e.GET("/", handler.Hello)
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))

	// Session routes
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me, middleware.AuthMiddleware(jwt))

	// Admin routes - stock ledger and transfer management
	admin := e.Group("/api/admin",
		middleware.AuthMiddleware(jwt),
		middleware.RequireRole(model.RoleAdmin))
	admin.GET("/warehouses/map", inventoryHandler.WarehouseMap)
	admin.GET("/warehouses/:id/inventory", inventoryHandler.WarehouseInventory)
	admin.GET("/inventory/:warehouse_id/:sku_id", inventoryHandler.Level)
	admin.POST("/inventory/adjust", inventoryHandler.Adjust)
	admin.GET("/inventory/dead-stock", inventoryHandler.DeadStock)
	admin.GET("/transfers", transferHandler.List)
	admin.POST("/transfers", transferHandler.Create)
	admin.POST("/transfers/:id/approve", transferHandler.Approve)
	admin.POST("/transfers/:id/complete", transferHandler.Complete)
	admin.POST("/transfers/:id/reject", transferHandler.Reject)

	// Dealer routes - dashboard, recommendations, orders
	dealer := e.Group("/api/dealer",
		middleware.AuthMiddleware(jwt),
		middleware.RequireRole(model.RoleDealer, model.RoleAdmin))
	dealer.GET("/dashboard", dealerHandler.Dashboard)
	dealer.GET("/smart-orders", dealerHandler.SmartOrders)
	dealer.POST("/smart-orders/accept-bundle", dealerHandler.AcceptBundle)
	dealer.GET("/alerts", dealerHandler.Alerts)
	dealer.GET("/health-score", dealerHandler.HealthScore)
	dealer.GET("/orders", dealerHandler.SearchOrders)
	dealer.POST("/orders", dealerHandler.PlaceOrder)
	dealer.GET("/orders/:id", dealerHandler.OrderDetail)
	dealer.PATCH("/orders/:id/status", dealerHandler.UpdateOrderStatus)

	// Start server
	log.Info("Starting server", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
