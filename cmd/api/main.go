package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fabianroy/Bistro-Boss-Server/internal/auth"
	"github.com/fabianroy/Bistro-Boss-Server/internal/env"
	"github.com/fabianroy/Bistro-Boss-Server/internal/parser"
	"github.com/fabianroy/Bistro-Boss-Server/internal/payment"
	"github.com/fabianroy/Bistro-Boss-Server/internal/queue"
	"github.com/fabianroy/Bistro-Boss-Server/internal/ratelimiter"
	"github.com/fabianroy/Bistro-Boss-Server/internal/repo"
	"github.com/fabianroy/Bistro-Boss-Server/internal/service"
	"github.com/fabianroy/Bistro-Boss-Server/internal/store/memory"
	"github.com/fabianroy/Bistro-Boss-Server/internal/store/mongo"
	"github.com/fabianroy/Bistro-Boss-Server/internal/worker"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const version = "1.0.0"

//	@title			Bistro Boss
//	@description	API for the Bistro Boss restaurant

//	@contact.name	API Support

//	@BasePath					/
//
//	@securityDefinitions.apiKey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token issued by POST /jwt
func main() {
	_ = godotenv.Load()

	cfg := config{
		addr:        env.GetString("ADDR", ":"+env.GetString("PORT", "3000")),
		apiURL:      env.GetString("EXTERNAL_URL", "localhost:3000"),
		env:         env.GetString("ENV", "development"),
		corsOrigins: env.GetStrings("CORS_ORIGINS", []string{"http://localhost:5173", "https://agun-d6163.web.app"}),
		storeDriver: env.GetString("STORE_DRIVER", "mongo"),
		rateLimiter: ratelimiter.Config{
			RequestsPerTimeFrame: env.GetInt("RATELIMITER_REQUESTS_COUNT", 50),
			TimeFrame:            time.Second * 5,
			Enabled:              env.GetBool("RATE_LIMITER_ENABLED", true),
		},
		mongo: mongoConfig{
			URI:      env.GetString("MONGO_URI", "mongodb://localhost:27017"),
			Database: env.GetString("MONGO_DATABASE", "bistroDB"),
			Timeout:  env.GetDuration("MONGO_TIMEOUT", time.Second*10),
		},
		rabbitMQ: rabbitMQConfig{
			URL:           env.GetString("RABBITMQ_URL", ""),
			MaxRetries:    env.GetInt("RABBITMQ_MAX_RETRIES", 3),
			RetryDelay:    time.Second * 2,
			PrefetchCount: env.GetInt("RABBITMQ_PREFETCH_COUNT", 10),
		},
		auth: authConfig{
			secret: env.GetString("ACCESS_TOKEN_SECRET", ""),
			ttl:    env.GetDuration("TOKEN_TTL", time.Hour),
		},
		payment: paymentConfig{
			stripeKey: env.GetString("STRIPE_SECRET_KEY", ""),
			currency:  env.GetString("PAYMENT_CURRENCY", "usd"),
		},
		googleCreds: env.GetString("GOOGLE_CREDENTIALS_PATH", ""),
	}

	// logger
	logger := zap.Must(zap.NewProduction()).Sugar()
	defer logger.Sync()

	if cfg.auth.secret == "" {
		logger.Fatal("ACCESS_TOKEN_SECRET is required")
	}

	// storage
	db, repos, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatalw("failed to open store", "driver", cfg.storeDriver, "error", err)
	}

	// rabbitmq broker, optional
	var broker queue.Broker
	if cfg.rabbitMQ.URL != "" {
		rabbit, err := queue.NewRabbitMQBroker(queue.Config{
			URL:           cfg.rabbitMQ.URL,
			MaxRetries:    cfg.rabbitMQ.MaxRetries,
			RetryDelay:    cfg.rabbitMQ.RetryDelay,
			PrefetchCount: cfg.rabbitMQ.PrefetchCount,
		}, logger)
		if err != nil {
			logger.Fatalw("failed to connect to RabbitMQ", "error", err)
		}
		broker = rabbit
		logger.Info("connected to RabbitMQ")
	} else {
		logger.Warn("RABBITMQ_URL not set, pending cart clears need a manual reconcile")
	}

	// google sheets, optional
	var menuSource service.MenuSource
	if cfg.googleCreds != "" {
		credsJSON, err := os.ReadFile(cfg.googleCreds)
		if err != nil {
			logger.Fatalw("failed to read Google credentials", "error", err)
		}

		sheets, err := parser.New(parser.Config{
			CredentialsJSON: credsJSON,
		})
		if err != nil {
			logger.Fatalw("failed to create Google Sheets parser", "error", err)
		}
		menuSource = sheets
		logger.Info("Google Sheets parser initialized")
	} else {
		logger.Warn("Google credentials not provided, menu import is disabled")
	}

	if cfg.payment.stripeKey == "" {
		logger.Warn("STRIPE_SECRET_KEY not set, payment intents will fail")
	}

	app := newApplication(cfg, logger, db, repos, broker, payment.NewStripeProvider(cfg.payment.stripeKey), menuSource)

	if broker != nil {
		app.cartClearWorker = worker.NewCartClearWorker(app.checkoutService, broker, logger)
		if menuSource != nil {
			app.menuImportWorker = worker.NewMenuImportWorker(app.menuImportService, broker, logger)
		}
	}

	mux := app.mount()

	logger.Fatal(app.run(mux))
}

type repositories struct {
	users    repo.UserRepository
	menu     repo.MenuRepository
	reviews  repo.ReviewRepository
	carts    repo.CartRepository
	payments repo.PaymentRepository
}

func openStore(cfg config, logger *zap.SugaredLogger) (database, repositories, error) {
	switch cfg.storeDriver {
	case "memory":
		store := memory.New(memory.Options{})
		logger.Warn("using in-memory store, data is lost on restart")

		return store, repositories{
			users:    store.Users(),
			menu:     store.Menu(),
			reviews:  store.Reviews(),
			carts:    store.Carts(),
			payments: store.Payments(),
		}, nil

	case "mongo":
		storage, err := mongo.New(mongo.Config{
			URI:      cfg.mongo.URI,
			Database: cfg.mongo.Database,
			Timeout:  cfg.mongo.Timeout,
		})
		if err != nil {
			return nil, repositories{}, err
		}

		logger.Infow("connected to MongoDB", "database", cfg.mongo.Database, "transactions", storage.SupportsTransactions())

		// create indexes
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := storage.CreateIndexes(ctx); err != nil {
			logger.Warnw("failed to create indexes", "error", err)
		} else {
			logger.Info("MongoDB indexes created successfully")
		}

		db := storage.Database()
		return storage, repositories{
			users:    mongo.NewUserRepository(db),
			menu:     mongo.NewMenuRepository(db),
			reviews:  mongo.NewReviewRepository(db),
			carts:    mongo.NewCartRepository(db),
			payments: mongo.NewPaymentRepository(db),
		}, nil
	}

	return nil, repositories{}, fmt.Errorf("unknown store driver %q", cfg.storeDriver)
}

// newApplication wires services over the chosen store. broker and
// menuSource may be nil.
func newApplication(
	cfg config,
	logger *zap.SugaredLogger,
	db database,
	repos repositories,
	broker queue.Broker,
	provider payment.Provider,
	menuSource service.MenuSource,
) *application {
	var limiter ratelimiter.Limiter
	if cfg.rateLimiter.Enabled {
		limiter = ratelimiter.NewFixedWindowLimiter(
			cfg.rateLimiter.RequestsPerTimeFrame,
			cfg.rateLimiter.TimeFrame,
		)
	}

	return &application{
		config:      cfg,
		logger:      logger,
		rateLimiter: limiter,
		metrics:     newMetrics("bistro"),
		db:          db,
		broker:      broker,
		tokens:      auth.NewTokenService(cfg.auth.secret, cfg.auth.ttl),

		userRepo:    repos.users,
		menuRepo:    repos.menu,
		reviewRepo:  repos.reviews,
		cartRepo:    repos.carts,
		paymentRepo: repos.payments,

		userService:       service.NewUserService(repos.users, logger),
		checkoutService:   service.NewCheckoutService(repos.payments, repos.carts, db, provider, broker, cfg.payment.currency, logger),
		statsService:      service.NewStatsService(repos.users, repos.menu, repos.reviews, repos.payments),
		menuImportService: service.NewMenuImportService(repos.menu, menuSource, broker, logger),
	}
}
