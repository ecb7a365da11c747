package gauth

import (
	"CalAssist/internal/lib/api/response"
	"CalAssist/internal/lib/sl"
	"fmt"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"strconv"
)

func Login(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.gauth")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		email := r.URL.Query().Get("email")
		phone := r.URL.Query().Get("phone")
		telegramId, _ := strconv.ParseInt(r.URL.Query().Get("telegram_id"), 10, 64)

		url, err := handler.GoogleLoginURL(email, phone, telegramId)
		if err != nil {
			logger.Error("google login url", sl.Err(err))
			render.JSON(w, r, response.Error(fmt.Sprintf("Login failed: %v", err)))
			return
		}

		var resp struct {
			RedirectUrl string `json:"redirect_url"`
		}
		resp.RedirectUrl = url

		render.JSON(w, r, response.Ok(resp))
	}
}
