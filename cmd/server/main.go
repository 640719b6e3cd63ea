package main // Entry point package

import (
	"context" // contexts bound the background expiry sweep
	"log"     // Logging library
	"time"    // sweep interval and hold window arithmetic

	"github.com/joho/godotenv"    // loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/hotel-reservation/internal/booking"    // booking lifecycle manager and engine
	"github.com/iliyamo/hotel-reservation/internal/config"     // Internal config loader
	"github.com/iliyamo/hotel-reservation/internal/database"   // MySQL connector
	"github.com/iliyamo/hotel-reservation/internal/handler"    // HTTP handlers
	"github.com/iliyamo/hotel-reservation/internal/middleware" // rate limiting and caching middleware
	"github.com/iliyamo/hotel-reservation/internal/payment"    // Stripe checkout gateway
	"github.com/iliyamo/hotel-reservation/internal/pricing"    // pricing pipeline
	"github.com/iliyamo/hotel-reservation/internal/queue"      // booking.confirmed consumer
	"github.com/iliyamo/hotel-reservation/internal/repository" // DB repositories
	"github.com/iliyamo/hotel-reservation/internal/router"     // Internal router setup
)

func main() {
	// Load .env if present; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config
	// Pricing table; invalid values are fatal here.
	pricingCfg := config.LoadPricingConfig()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer db.Close()

	// Redis backs rate limiting and response caching.  A nil client
	// disables both, the server still works.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and caching disabled")
	}

	// Repositories
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	hotelRepo := repository.NewHotelRepo(db)
	roomRepo := repository.NewRoomRepo(db)
	invRepo := repository.NewInventoryRepo(db)
	bookingRepo := repository.NewBookingRepo(db)

	// Core: pricing pipeline over the ledger, lifecycle manager on top.
	pipeline := pricing.NewPipeline(pricingCfg, time.Now)
	engine := booking.NewEngine(invRepo, pipeline)
	gateway := payment.NewStripeGateway(cfg.StripeKey, cfg.StripeCurrency)
	manager := booking.NewManager(bookingRepo, userRepo, engine, gateway, time.Now)

	// Handlers
	authH := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	ownerH := handler.NewOwnerHandler(hotelRepo, roomRepo, invRepo, cfg.InventoryHorizon)
	publicH := handler.NewPublicHandler(hotelRepo, roomRepo)
	bookingH := handler.NewBookingHandler(manager, bookingRepo, cfg.FrontendURL)
	paymentH := handler.NewPaymentHandler(manager, hotelRepo, roomRepo)

	e := echo.New() // Create Echo instance

	// Global rate limiting (token bucket in Redis).
	if rdb != nil {
		e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
		e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH)
	router.RegisterOwner(e, ownerH, cfg.JWTSecret)
	router.RegisterBookings(e, bookingH, cfg.JWTSecret)
	router.RegisterPayments(e, paymentH)

	// Consume booking.confirmed events in the background; the consumer
	// reconnects on its own and never stops the server.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	// Background expiry sweep.  Requests already expire stale bookings
	// lazily; the sweep catches bookings nobody asks about again.
	go expirySweep(bookingRepo, tokenRepo, manager)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}

// expirySweep periodically expires bookings that outlived the hold
// window and purges dead refresh tokens.  The conditional status swap
// inside the manager keeps the ledger release exactly-once even when a
// request races the sweep.
func expirySweep(repo *repository.BookingRepo, tokens *repository.TokenRepo, mgr *booking.Manager) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		now := time.Now().UTC()
		ids, err := repo.ExpiryCandidates(ctx, now.Add(-booking.HoldWindow), 100)
		if err != nil {
			log.Printf("expiry sweep: list candidates: %v", err)
			cancel()
			continue
		}
		for _, id := range ids {
			if _, err := mgr.Expire(ctx, id); err != nil {
				log.Printf("expiry sweep: booking %d: %v", id, err)
			}
		}
		if n, err := tokens.PurgeExpired(ctx, now); err != nil {
			log.Printf("expiry sweep: purge tokens: %v", err)
		} else if n > 0 {
			log.Printf("expiry sweep: purged %d refresh tokens", n)
		}
		cancel()
	}
}
