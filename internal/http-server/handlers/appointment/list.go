package appointment

import (
	"CalAssist/internal/lib/api/response"
	"CalAssist/internal/lib/sl"
	"fmt"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// identifiers pulls the user identifiers every appointment route accepts
// as query parameters.
func identifiers(r *http.Request) (string, string, int64) {
	email := r.URL.Query().Get("email")
	phone := r.URL.Query().Get("phone")
	telegramId, _ := strconv.ParseInt(r.URL.Query().Get("telegram_id"), 10, 64)
	return email, phone, telegramId
}

func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.appointment")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		email, phone, telegramId := identifiers(r)

		var from, to time.Time
		var err error
		if v := r.URL.Query().Get("from"); v != "" {
			if from, err = time.Parse(time.RFC3339, v); err != nil {
				render.JSON(w, r, response.Error(fmt.Sprintf("Invalid from: %v", err)))
				return
			}
		}
		if v := r.URL.Query().Get("to"); v != "" {
			if to, err = time.Parse(time.RFC3339, v); err != nil {
				render.JSON(w, r, response.Error(fmt.Sprintf("Invalid to: %v", err)))
				return
			}
		}

		appointments, err := handler.ListAppointments(email, phone, telegramId, from, to)
		if err != nil {
			logger.Error("list appointments", sl.Err(err))
			render.JSON(w, r, response.Error(fmt.Sprintf("List failed: %v", err)))
			return
		}

		render.JSON(w, r, response.Ok(appointments))
	}
}
