package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaravmahajanofficial/storefront-api/docs"
	"github.com/aaravmahajanofficial/storefront-api/internal/api/handlers"
	"github.com/aaravmahajanofficial/storefront-api/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront-api/internal/cache"
	"github.com/aaravmahajanofficial/storefront-api/internal/config"
	"github.com/aaravmahajanofficial/storefront-api/internal/health"
	"github.com/aaravmahajanofficial/storefront-api/internal/metrics"
	repository "github.com/aaravmahajanofficial/storefront-api/internal/repositories"
	service "github.com/aaravmahajanofficial/storefront-api/internal/services"
	"github.com/aaravmahajanofficial/storefront-api/internal/telemetry"
	"github.com/aaravmahajanofficial/storefront-api/pkg/sendgrid"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// @title						Storefront API
// @version					1.0
// @description				Cart, checkout and order backend for the storefront.
// @host						localhost:8085
// @BasePath					/api/v1
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
// @description				Type "Bearer" followed by a space and the JWT.
func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	ctx := context.Background()

	// Tracing setup
	shutdownTracer, err := telemetry.InitTracer(ctx, &cfg.Otel)
	if err != nil {
		slog.Error("❌ Error initializing tracer", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Database setup
	db, err := repository.NewDB(ctx, &cfg.Database)
	if err != nil {
		slog.Error("❌ Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := repository.InitSchema(ctx, db); err != nil {
		slog.Error("❌ Error applying the schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Redis setup
	redisClient, err := repository.NewRedisClient(&cfg.RedisConnect)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}

		if err := redisClient.Close(); err != nil {
			slog.Error("⚠️ Error closing redis connection", slog.String("error", err.Error()))
		}
	}()

	store := repository.NewStore(db)
	rateLimiter := repository.NewRateLimitRepo(redisClient, &cfg.RateConfig)
	productCache := cache.NewRedisCache(redisClient, &cfg.Cache)

	// Checkout works without email, the notifier is optional
	var notifier service.NotificationService
	if cfg.SendGrid.APIKey != "" {
		emailService := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
		notifier = service.NewNotificationService(store.Users(), emailService)
	} else {
		slog.Warn("SendGrid API key not set, order confirmation emails are disabled")
	}

	cartService := service.NewCartService(store, cfg.Cart.StockPolicy)
	orderService := service.NewOrderService(store, notifier, service.CheckoutOptions{DecrementStock: cfg.Checkout.DecrementStock})
	productService := service.NewProductService(store.Products(), productCache, cfg.Cache.DefaultTTL)
	wishlistService := service.NewWishlistService(store)
	adminService := service.NewAdminService(store)
	userService := service.NewUserService(store.Users())

	cartHandler := handlers.NewCartHandler(cartService, orderService)
	orderHandler := handlers.NewOrderHandler(orderService)
	productHandler := handlers.NewProductHandler(productService)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService)
	adminHandler := handlers.NewAdminHandler(adminService)
	userHandler := handlers.NewUserHandler(userService)

	auth := middleware.NewAuthMiddleware([]byte(cfg.Security.JWTKey))
	admin := middleware.NewAdminMiddleware(store.Users())
	checkoutLimit := middleware.NewRateLimitMiddleware(rateLimiter, "checkout")

	healthHandler, err := health.NewHealthHandler(cfg, &health.Endpoints{DB: db, RedisClient: redisClient})
	if err != nil {
		slog.Error("❌ Error creating health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	docs.SwaggerInfo.Host = cfg.Addr

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"),
		slog.String("stock_policy", string(cfg.Cart.StockPolicy)), slog.Bool("decrement_stock", cfg.Checkout.DecrementStock))

	// Setup router
	routerMux := http.NewServeMux()

	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// Catalog is public
	routerMux.HandleFunc("GET /api/v1/products", productHandler.ListProducts())
	routerMux.HandleFunc("GET /api/v1/products/{id}", productHandler.GetProduct())
	routerMux.HandleFunc("GET /api/v1/categories", productHandler.ListCategories())
	routerMux.HandleFunc("GET /api/v1/categories/{id}", productHandler.GetCategory())

	routerMux.HandleFunc("GET /api/v1/users/me", auth.Authenticate(userHandler.Profile()))

	routerMux.HandleFunc("GET /api/v1/cart", auth.Authenticate(cartHandler.GetCart()))
	routerMux.HandleFunc("POST /api/v1/cart/add-item", auth.Authenticate(cartHandler.AddItem()))
	routerMux.HandleFunc("PUT /api/v1/cart/items", auth.Authenticate(cartHandler.UpdateItem()))
	routerMux.HandleFunc("POST /api/v1/cart/remove-item", auth.Authenticate(cartHandler.RemoveItem()))
	routerMux.HandleFunc("POST /api/v1/cart/checkout", auth.Authenticate(checkoutLimit.Limit(cartHandler.Checkout())))

	routerMux.HandleFunc("GET /api/v1/orders", auth.Authenticate(orderHandler.ListOrders()))
	routerMux.HandleFunc("POST /api/v1/orders", auth.Authenticate(orderHandler.CreateOrder()))
	routerMux.HandleFunc("GET /api/v1/orders/{id}", auth.Authenticate(orderHandler.GetOrder()))
	routerMux.HandleFunc("PATCH /api/v1/orders/{id}/status", auth.Authenticate(admin.RequireAdmin(orderHandler.UpdateOrderStatus())))

	routerMux.HandleFunc("GET /api/v1/wishlist", auth.Authenticate(wishlistHandler.GetWishlist()))
	routerMux.HandleFunc("POST /api/v1/wishlist/add-item", auth.Authenticate(wishlistHandler.AddItem()))
	routerMux.HandleFunc("POST /api/v1/wishlist/remove-item", auth.Authenticate(wishlistHandler.RemoveItem()))

	routerMux.HandleFunc("GET /api/v1/admin/stats", auth.Authenticate(admin.RequireAdmin(adminHandler.GetStats())))

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, "storefront-api")

	// Setup http server
	server := http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
			done <- syscall.SIGTERM
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracer(shutdownCtx); err != nil {
		slog.Error("⚠️ Error flushing traces", slog.String("error", err.Error()))
	}
}
