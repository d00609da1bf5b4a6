package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/juvshop/juv-backend/api/responses"
	"github.com/juvshop/juv-backend/pkg/config"
	pkgerrors "github.com/juvshop/juv-backend/pkg/errors"
	"github.com/juvshop/juv-backend/pkg/logger"
)

const envHeader = "X-Juv-Env"

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the hard dependencies. redisPinger is nil when the
// Redis session store is disabled.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbPinger, redisPinger pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{"database": "ok"}
		if err := dbPinger.Ping(ctx); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
			return
		}
		if redisPinger != nil {
			if err := redisPinger.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unreachable"))
				return
			}
			checks["redis"] = "ok"
		}

		checks["status"] = "ready"
		responses.WriteSuccess(w, checks)
	}
}
