package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fabianroy/Bistro-Boss-Server/docs"
	"github.com/fabianroy/Bistro-Boss-Server/internal/auth"
	"github.com/fabianroy/Bistro-Boss-Server/internal/queue"
	"github.com/fabianroy/Bistro-Boss-Server/internal/ratelimiter"
	"github.com/fabianroy/Bistro-Boss-Server/internal/repo"
	"github.com/fabianroy/Bistro-Boss-Server/internal/service"
	"github.com/fabianroy/Bistro-Boss-Server/internal/worker"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

// database is the process-wide store handle shared by every request.
type database interface {
	repo.Transactor
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type application struct {
	config      config
	logger      *zap.SugaredLogger
	rateLimiter ratelimiter.Limiter
	metrics     *metrics
	db          database
	broker      queue.Broker
	tokens      *auth.TokenService

	userRepo    repo.UserRepository
	menuRepo    repo.MenuRepository
	reviewRepo  repo.ReviewRepository
	cartRepo    repo.CartRepository
	paymentRepo repo.PaymentRepository

	userService       *service.UserService
	checkoutService   *service.CheckoutService
	statsService      *service.StatsService
	menuImportService *service.MenuImportService

	cartClearWorker  *worker.CartClearWorker
	menuImportWorker *worker.MenuImportWorker
}

type config struct {
	addr        string
	env         string
	apiURL      string
	corsOrigins []string
	storeDriver string
	rateLimiter ratelimiter.Config
	mongo       mongoConfig
	rabbitMQ    rabbitMQConfig
	auth        authConfig
	payment     paymentConfig
	googleCreds string
}

type mongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type rabbitMQConfig struct {
	URL           string
	MaxRetries    int
	RetryDelay    time.Duration
	PrefetchCount int
}

type authConfig struct {
	secret string
	ttl    time.Duration
}

type paymentConfig struct {
	stripeKey string
	currency  string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(peerHost)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.config.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(app.metrics.middleware)
	r.Use(app.RateLimiterMiddleware)

	r.Get("/", app.rootHandler)
	r.Get("/health", app.healthCheckHandler)
	r.Handle("/metrics", app.metrics.handler())

	docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.apiURL)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

	r.Post("/jwt", app.issueTokenHandler)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", app.upsertUserHandler)

		r.Group(func(r chi.Router) {
			r.Use(app.requireAuthenticated)

			r.With(app.requireSelf(emailFromPath)).Get("/admin/{email}", app.checkAdminHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.requireAdmin)

				r.Get("/", app.listUsersHandler)
				r.Patch("/admin/{id}", app.promoteUserHandler)
				r.Delete("/{id}", app.deleteUserHandler)
			})
		})
	})

	r.Route("/menu", func(r chi.Router) {
		r.Get("/", app.listMenuHandler)
		r.Get("/{id}", app.getMenuItemHandler)

		r.Group(func(r chi.Router) {
			r.Use(app.requireAuthenticated)
			r.Use(app.requireAdmin)

			r.Post("/", app.createMenuItemHandler)
			r.Post("/import", app.importMenuHandler)
			r.Put("/{id}", app.replaceMenuItemHandler)
			r.Patch("/{id}", app.replaceMenuItemHandler)
			r.Delete("/{id}", app.deleteMenuItemHandler)
		})
	})

	r.Get("/reviews", app.listReviewsHandler)

	r.Route("/carts", func(r chi.Router) {
		r.With(app.requireAuthenticated, app.requireSelf(emailFromQuery)).Get("/", app.listCartHandler)
		r.Post("/", app.addCartItemHandler)
		r.Delete("/{id}", app.deleteCartItemHandler)
	})

	r.Post("/create-payment-intent", app.createPaymentIntentHandler)

	r.Route("/payments", func(r chi.Router) {
		r.Post("/", app.recordPaymentHandler)

		r.Group(func(r chi.Router) {
			r.Use(app.requireAuthenticated)

			r.With(app.requireSelf(emailFromPath)).Get("/{email}", app.listPaymentsHandler)
			r.With(app.requireAdmin).Post("/{id}/reconcile", app.reconcilePaymentHandler)
		})
	})

	r.With(app.requireAuthenticated, app.requireAdmin).Get("/admin-stats", app.adminStatsHandler)

	return r
}

func (app *application) run(mux http.Handler) error {
	// docs
	docs.SwaggerInfo.Title = "Bistro Boss"
	docs.SwaggerInfo.Description = "API for the Bistro Boss restaurant"
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/"

	// workers
	if app.cartClearWorker != nil {
		if err := app.cartClearWorker.Start(); err != nil {
			return fmt.Errorf("failed to start cart clear worker: %w", err)
		}
	}
	if app.menuImportWorker != nil {
		if err := app.menuImportWorker.Start(); err != nil {
			return fmt.Errorf("failed to start menu import worker: %w", err)
		}
	}

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		if app.cartClearWorker != nil {
			app.cartClearWorker.Stop()
		}
		if app.menuImportWorker != nil {
			app.menuImportWorker.Stop()
		}

		err := srv.Shutdown(ctx)

		if app.broker != nil {
			if err := app.broker.Close(); err != nil {
				app.logger.Errorw("error closing RabbitMQ", "error", err)
			} else {
				app.logger.Info("RabbitMQ connection closed gracefully")
			}
		}

		if err := app.db.Close(ctx); err != nil {
			app.logger.Errorw("error closing database", "error", err)
		} else {
			app.logger.Info("database connection closed gracefully")
		}

		shutdown <- err
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env, "store", app.config.storeDriver)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
