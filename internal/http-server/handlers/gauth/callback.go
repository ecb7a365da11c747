package gauth

import (
	"CalAssist/internal/lib/sl"
	"github.com/go-chi/chi/v5/middleware"
	"log/slog"
	"net/http"
)

// Callback receives the authorization-code redirect from Google. It is
// mounted outside the authenticated router: the only credentials here are
// the state nonce and the code itself.
func Callback(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.gauth")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		state := r.URL.Query().Get("state")
		code := r.URL.Query().Get("code")
		if state == "" || code == "" {
			http.Error(w, "Missing state or code", http.StatusBadRequest)
			return
		}

		if err := handler.HandleGoogleCallback(state, code); err != nil {
			logger.Error("google callback", sl.Err(err))
			http.Error(w, "Calendar authorization failed", http.StatusBadRequest)
			return
		}

		logger.Info("google calendar authorized")

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Calendar connected. You can close this tab."))
	}
}
