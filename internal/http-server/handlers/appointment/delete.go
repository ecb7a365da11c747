package appointment

import (
	"CalAssist/internal/lib/api/response"
	"CalAssist/internal/lib/sl"
	"errors"
	"fmt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"

	"CalAssist/internal/service/scheduler"
)

func Delete(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.appointment")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")
		if id == "" {
			render.JSON(w, r, response.Error("No appointment id provided"))
			return
		}

		email, phone, telegramId := identifiers(r)

		cancelled, err := handler.CancelAppointment(email, phone, telegramId, id)
		if err != nil {
			if errors.Is(err, scheduler.ErrNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("Appointment not found"))
				return
			}
			logger.Error("cancel appointment", sl.Err(err))
			render.JSON(w, r, response.Error(fmt.Sprintf("Cancel failed: %v", err)))
			return
		}

		logger.With(slog.String("id", id)).Debug("appointment cancelled")

		render.JSON(w, r, response.Ok(cancelled))
	}
}
