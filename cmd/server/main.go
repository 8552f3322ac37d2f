package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"invoicely-backend/internal/auth"
	"invoicely-backend/internal/cache"
	"invoicely-backend/internal/config"
	"invoicely-backend/internal/database"
	"invoicely-backend/internal/db"
	"invoicely-backend/internal/gateway"
	"invoicely-backend/internal/handlers"
	"invoicely-backend/internal/health"
	h "invoicely-backend/internal/http"
	"invoicely-backend/internal/middleware"
	"invoicely-backend/internal/repositories"
	"invoicely-backend/internal/services"
	"invoicely-backend/internal/store"
	"invoicely-backend/internal/store/memstore"
	"invoicely-backend/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	memOnly := flag.Bool("mem", false, "Run on the in-memory store (no database)")
	flag.Parse()

	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	// Storage: PostgreSQL when reachable, in-memory store otherwise.
	// Both adapters satisfy the same contract, so everything above this
	// point is unaware of the difference.
	var st *store.Store
	var pool *pgxpool.Pool

	if *memOnly {
		log.Println("Running on the in-memory store (-mem)")
		st = memstore.New()
	} else {
		var err error
		pool, err = db.Connect(cfg)
		if err != nil {
			log.Printf("[DB] %v", err)
			log.Println("[DB] Falling back to the in-memory store; data will not survive a restart")
			st = memstore.New()
		} else {
			defer pool.Close()
			log.Printf("Connected to database: %s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)

			migrator := database.NewMigrator(pool, migrations.Files)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if err := migrator.RunMigrations(ctx); err != nil {
				cancel()
				log.Fatalf("Failed to run migrations: %v", err)
			}
			cancel()

			st = repositories.NewStore(pool)
		}
	}

	// Redis cache is optional; a nil cache no-ops every call
	appCache, err := cache.New(cfg.Redis.Addr, cfg.Redis.Password)
	if err != nil {
		log.Printf("[Redis] Cache unavailable: %v (analytics will be computed per request)", err)
		appCache = nil
	} else {
		defer appCache.Close()
		log.Println("[Redis] Cache connected successfully")
	}

	healthChecker := health.NewHealthChecker(pool)
	jwtManager := auth.NewJWTManager(cfg)

	paymentGateway := gateway.NewRazorpayGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)

	// Services
	userService := services.NewUserService(st.Users, jwtManager)
	clientService := services.NewClientService(st.Clients)
	invoiceService := services.NewInvoiceService(st.Clients, st.Invoices, st.Payments, appCache)
	paymentService := services.NewPaymentService(
		st.Invoices, st.Payments, paymentGateway, appCache,
		cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, cfg.Razorpay.WebhookSecret,
	)
	pdfService := services.NewPDFService(st.Users, st.Clients)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	clientHandler := handlers.NewClientHandler(clientService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService, pdfService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	analyticsHandler := handlers.NewAnalyticsHandler(invoiceService)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, st.Users)
	corsMiddleware := middleware.NewCORS(cfg)

	router := h.NewRouter(
		authHandler,
		userHandler,
		clientHandler,
		invoiceHandler,
		paymentHandler,
		analyticsHandler,
		healthHandler,
		authMiddleware,
	)

	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
