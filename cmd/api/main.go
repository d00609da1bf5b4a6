package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/juvshop/juv-backend/api/routes"
	"github.com/juvshop/juv-backend/internal/activity"
	"github.com/juvshop/juv-backend/internal/assistant"
	"github.com/juvshop/juv-backend/internal/bot"
	"github.com/juvshop/juv-backend/internal/cart"
	"github.com/juvshop/juv-backend/internal/checkout"
	"github.com/juvshop/juv-backend/internal/orders"
	"github.com/juvshop/juv-backend/internal/products"
	"github.com/juvshop/juv-backend/internal/session"
	"github.com/juvshop/juv-backend/internal/users"
	"github.com/juvshop/juv-backend/pkg/config"
	"github.com/juvshop/juv-backend/pkg/db"
	"github.com/juvshop/juv-backend/pkg/logger"
	"github.com/juvshop/juv-backend/pkg/metrics"
	"github.com/juvshop/juv-backend/pkg/migrate"
	"github.com/juvshop/juv-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	var sessionStore session.Store = session.NewMemoryStore()
	if cfg.FeatureFlags.RedisSessions {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()

		sessionStore, err = session.NewRedisStore(redisClient, cfg.Assistant.SessionTTL)
		if err != nil {
			logg.Error(context.Background(), "failed to create session store", err)
			os.Exit(1)
		}
	}

	botMetrics := metrics.NewBotMetrics(prometheus.DefaultRegisterer)

	productsRepo := products.NewRepository(dbClient.DB())
	usersRepo := users.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	activityRecorder := activity.NewRecorder(dbClient.DB(), logg)

	sessionService, err := session.NewService(sessionStore)
	if err != nil {
		logg.Error(context.Background(), "failed to create session service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.NewRepository(dbClient.DB()), productsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(cartService, ordersRepo, logg, botMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	assistantService, err := assistant.NewService(cfg.Assistant, logg, botMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create assistant service", err)
		os.Exit(1)
	}

	telegramClient, err := bot.NewClient(cfg.Telegram.BotToken, "")
	if err != nil {
		logg.Error(context.Background(), "failed to create telegram client", err)
		os.Exit(1)
	}

	dispatcher, err := bot.NewDispatcher(bot.DispatcherParams{
		Sender:      telegramClient,
		Sessions:    sessionService,
		Assistant:   assistantService,
		Users:       usersRepo,
		Orders:      ordersRepo,
		Activity:    activityRecorder,
		Logger:      logg,
		Metrics:     botMetrics,
		WebAppURL:   cfg.Telegram.WebAppURL,
		AdminChatID: cfg.Telegram.AdminChatID,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create bot dispatcher", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:     cfg,
			Logger:     logg,
			DB:         dbClient,
			Redis:      redisClient,
			Dispatcher: dispatcher,
			Cart:       cartService,
			Checkout:   checkoutService,
			Products:   productsRepo,
			Activity:   activityRecorder,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
