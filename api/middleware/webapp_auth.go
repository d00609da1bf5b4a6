package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/juvshop/juv-backend/api/responses"
	pkgerrors "github.com/juvshop/juv-backend/pkg/errors"
	"github.com/juvshop/juv-backend/pkg/logger"
)

// initDataHeader carries the raw Telegram.WebApp.initData query string the
// Mini App received at launch.
const initDataHeader = "X-Telegram-Init-Data"

// initDataMaxAge rejects launches whose auth_date is older than this, so a
// leaked init-data string cannot be replayed indefinitely.
const initDataMaxAge = 24 * time.Hour

type telegramIDKey struct{}

// WebAppAuth verifies the Telegram WebApp init data signature and puts the
// caller's Telegram user id into the request context.
func WebAppAuth(botToken string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(initDataHeader)
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "telegram init data required"))
				return
			}

			userID, err := verifyInitData(raw, botToken, time.Now())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := context.WithValue(r.Context(), telegramIDKey{}, userID)
			if logg != nil {
				ctx = logg.WithUserID(ctx, userID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithTelegramID injects a caller id into the context.
func WithTelegramID(ctx context.Context, telegramID int64) context.Context {
	return context.WithValue(ctx, telegramIDKey{}, telegramID)
}

// TelegramIDFromContext returns the verified caller id, 0 when absent.
func TelegramIDFromContext(ctx context.Context) int64 {
	if id, ok := ctx.Value(telegramIDKey{}).(int64); ok {
		return id
	}
	return 0
}

type initDataUser struct {
	ID int64 `json:"id"`
}

// verifyInitData checks the bot-token HMAC scheme from the Bot API docs:
// secret = HMAC_SHA256("WebAppData", botToken), expected hash =
// hex(HMAC_SHA256(secret, sorted key=value lines excluding hash)).
func verifyInitData(raw, botToken string, now time.Time) (int64, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "malformed init data")
	}

	gotHash := values.Get("hash")
	if gotHash == "" {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "init data hash missing")
	}

	pairs := make([]string, 0, len(values))
	for key := range values {
		if key == "hash" {
			continue
		}
		pairs = append(pairs, key+"="+values.Get(key))
	}
	sort.Strings(pairs)
	checkString := strings.Join(pairs, "\n")

	secretMAC := hmac.New(sha256.New, []byte("WebAppData"))
	secretMAC.Write([]byte(botToken))
	secret := secretMAC.Sum(nil)

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(checkString))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(gotHash)) {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "init data signature mismatch")
	}

	authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "init data auth date missing")
	}
	if now.Sub(time.Unix(authDate, 0)) > initDataMaxAge {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "init data expired")
	}

	var user initDataUser
	if err := json.Unmarshal([]byte(values.Get("user")), &user); err != nil || user.ID == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "init data user missing")
	}
	return user.ID, nil
}
