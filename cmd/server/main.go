package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/classhub/classhub-web/internal/api"
	"github.com/classhub/classhub-web/internal/config"
	"github.com/classhub/classhub-web/internal/database"
	"github.com/classhub/classhub-web/internal/handler"
	"github.com/classhub/classhub-web/internal/middleware"
	"github.com/classhub/classhub-web/internal/queue"
	"github.com/classhub/classhub-web/internal/router"
	"github.com/classhub/classhub-web/internal/service"
	"github.com/classhub/classhub-web/internal/store"
	"github.com/classhub/classhub-web/internal/view"
)

func main() {
	cfg := config.Load() // Load environment config

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb := config.NewRedisClient() // nil when Redis is unreachable
	if rdb == nil {
		log.Printf("redis: unavailable; cache and rate limiting disabled")
	} else {
		defer rdb.Close()
	}

	clients := api.New(api.Options{
		UseMock:    cfg.UseMock,
		BackendURL: cfg.BackendURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Store:      mockStore(ctx, cfg, rdb),
		BcryptCost: cfg.BcryptCost,
	})
	if cfg.UseMock {
		log.Printf("api: using mock backend (store=%s)", cfg.MockStore)
	} else {
		log.Printf("api: using backend %s", cfg.BackendURL)
	}

	qcfg := config.LoadQueueConfig()
	if qcfg.ConsumerEnabled {
		go func() {
			if err := queue.StartPaymentLogConsumer(ctx, qcfg); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("consumer: stopped: %v", err)
			}
		}()
	}

	renderer, err := view.New()
	if err != nil {
		log.Fatalf("view: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.ErrorHandler
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	reconciler := service.NewReconciler(clients.Reservations, clients.Payments, service.NewPublisher(qcfg))
	classes := handler.NewClassHandler(clients.Classes, clients.Reservations, clients.Payments)
	payments := handler.NewPaymentHandler(reconciler, handler.CheckoutConfig{
		ClientID:      cfg.NicepayClientID,
		ScriptURL:     cfg.NicepayScript,
		PublicBaseURL: cfg.PublicBaseURL,
	})
	reservations := handler.NewReservationHandler(clients.Reservations, clients.Payments)
	instructors := handler.NewInstructorHandler(clients.Instructors, clients.Classes, clients.Reservations, handler.SessionConfig{
		Secret: cfg.SessionSecret,
		TTLMin: cfg.SessionTTLMin,
		Secure: !cfg.IsDev(),
	})

	router.RegisterRoutes(e)
	pages := router.Pages(e, middleware.CSRF([]byte(cfg.CSRFKey), !cfg.IsDev()))
	router.RegisterClasses(pages, classes, payments, cache, limit)
	router.RegisterReservations(pages, reservations, limit)
	router.RegisterInstructor(pages, instructors, cfg.SessionSecret, limit)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err) // Log and exit if server fails
	}
}

// mockStore picks the persistence of the mock backend.  It returns nil when
// the real backend is used.  redis falls back to memory when no client is
// available; mysql failures are fatal.
func mockStore(ctx context.Context, cfg config.Config, rdb *redis.Client) store.KV {
	if !cfg.UseMock {
		return nil
	}
	switch cfg.MockStore {
	case config.MockStoreRedis:
		if rdb != nil {
			return store.NewRedis(rdb, "classhub:mock")
		}
		log.Printf("store: redis unavailable; mock data kept in memory")
	case config.MockStoreMySQL:
		db, err := database.Open(cfg)
		if err != nil {
			log.Fatalf("store: %v", err)
		}
		kv := store.NewSQL(db, "")
		if err := kv.EnsureSchema(ctx); err != nil {
			log.Fatalf("store: create table: %v", err)
		}
		return kv
	}
	return store.NewMemory()
}
