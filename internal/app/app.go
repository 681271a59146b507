// Package app wires the stores, services, and HTTP stack into a running
// server with graceful shutdown.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/minimart/minimart/db"
	"github.com/minimart/minimart/internal/api"
	"github.com/minimart/minimart/internal/domain/cart"
	"github.com/minimart/minimart/internal/domain/discount"
	"github.com/minimart/minimart/internal/domain/insights"
	"github.com/minimart/minimart/internal/domain/order"
	"github.com/minimart/minimart/internal/domain/user"
	"github.com/minimart/minimart/internal/storage/memory"
	"github.com/minimart/minimart/pkg/health"
	"github.com/minimart/minimart/pkg/httpmiddleware"
	"github.com/minimart/minimart/pkg/kmutex"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.Int("discount_frequency", cfg.DiscountFrequency),
	)

	// Stores. Everything is in-memory and seeded at startup.
	catalogStore, err := memory.NewCatalog(db.CatalogJSON)
	if err != nil {
		return errors.Wrap(err, "load catalog")
	}
	cartStore := memory.NewCarts()
	orderStore := memory.NewOrders()
	ledger := memory.NewLedger()
	userStore := memory.NewUsers(
		user.User{ID: 1, Username: "admin", IsAdmin: true},
		user.User{ID: 2, Username: "user1"},
		user.User{ID: 3, Username: "user2"},
	)

	// Domain services. Cart and order mutations share one keyed lock so a
	// user's checkout serializes against their cart edits.
	locks := kmutex.New()
	issuer := discount.NewIssuer(ledger, orderStore, cfg.DiscountFrequency)
	cartService := cart.NewService(cartStore, catalogStore, ledger, issuer, locks)
	orderService := order.NewService(cartStore, orderStore, locks)
	directory := user.NewDirectory(userStore)
	aggregator := insights.NewAggregator(orderStore, cartStore, ledger)

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.SetReady(true)

	h := api.NewHandler(
		cartService,
		orderService,
		directory,
		aggregator,
		catalogStore,
		ledger,
		issuer,
	)

	apiHandler := otelhttp.NewHandler(h.Routes(), "minimart-api",
		otelhttp.WithTracerProvider(m.TracerProvider()),
		otelhttp.WithMeterProvider(m.MeterProvider()),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", apiHandler)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimit(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()

		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
	}()

	lg.Info("Listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "listen and serve")
	}
	<-shutdownDone

	lg.Info("Server stopped")
	return nil
}
