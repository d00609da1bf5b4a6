package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/juvshop/juv-backend/api/controllers"
	cartcontrollers "github.com/juvshop/juv-backend/api/controllers/cart"
	"github.com/juvshop/juv-backend/api/middleware"
	"github.com/juvshop/juv-backend/internal/activity"
	"github.com/juvshop/juv-backend/internal/bot"
	cartsvc "github.com/juvshop/juv-backend/internal/cart"
	checkoutsvc "github.com/juvshop/juv-backend/internal/checkout"
	"github.com/juvshop/juv-backend/internal/products"
	"github.com/juvshop/juv-backend/pkg/config"
	"github.com/juvshop/juv-backend/pkg/db"
	"github.com/juvshop/juv-backend/pkg/logger"
	"github.com/juvshop/juv-backend/pkg/redis"
)

type RouterParams struct {
	Config     *config.Config
	Logger     *logger.Logger
	DB         db.Pinger
	Redis      *redis.Client
	Dispatcher *bot.Dispatcher
	Cart       cartsvc.Service
	Checkout   checkoutsvc.Service
	Products   *products.Repository
	Activity   *activity.Recorder
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, params.DB, redisPinger(params.Redis)))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/webhook/telegram", controllers.TelegramWebhook(params.Dispatcher, cfg.Telegram.WebhookSecret, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ProductList(params.Products, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.WebAppAuth(cfg.Telegram.BotToken, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartcontrollers.CartFetch(params.Cart, logg))
				r.Post("/items", cartcontrollers.CartAdd(params.Cart, logg))
				r.Patch("/items/{itemId}", cartcontrollers.CartUpdateItem(params.Cart, logg))
				r.Delete("/items/{itemId}", cartcontrollers.CartRemoveItem(params.Cart, logg))
			})
			r.Post("/checkout", controllers.Checkout(params.Checkout, params.Activity, logg))
		})
	})

	return r
}

// redisPinger avoids a typed-nil interface when Redis is disabled.
func redisPinger(client *redis.Client) redis.Pinger {
	if client == nil {
		return nil
	}
	return client
}
