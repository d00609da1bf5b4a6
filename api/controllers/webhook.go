package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/juvshop/juv-backend/api/responses"
	"github.com/juvshop/juv-backend/internal/bot"
	pkgerrors "github.com/juvshop/juv-backend/pkg/errors"
	"github.com/juvshop/juv-backend/pkg/logger"
)

// secretTokenHeader is set by Telegram when the webhook was registered
// with a secret_token.
const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// TelegramWebhook receives bot updates. Once the secret checks out the
// endpoint always acknowledges 200: Telegram retries non-2xx responses
// and a poison update would otherwise block the queue.
func TelegramWebhook(dispatcher *bot.Dispatcher, webhookSecret string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if webhookSecret != "" && r.Header.Get(secretTokenHeader) != webhookSecret {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "webhook secret mismatch"))
			return
		}

		var update bot.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			if logg != nil {
				ctx := logg.WithField(r.Context(), "error", err.Error())
				logg.Warn(ctx, "webhook.decode.failed")
			}
			responses.WriteSuccess(w, map[string]bool{"ok": true})
			return
		}

		dispatcher.HandleUpdate(r.Context(), update)
		responses.WriteSuccess(w, map[string]bool{"ok": true})
	}
}
