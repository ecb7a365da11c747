package chat

import (
	"CalAssist/entity"
	"CalAssist/internal/lib/api/response"
	"CalAssist/internal/lib/sl"
	"encoding/json"
	"fmt"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
)

func ComposeResponse(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.chat")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("chat not available")
			render.JSON(w, r, response.Error("Chat not available"))
			return
		}

		var req entity.HttpUserMsg
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("failed to decode request body", sl.Err(err))
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}

		if req.Message == "" {
			logger.Error("no message provided")
			render.JSON(w, r, response.Error("No message provided"))
			return
		}

		if !req.HasIdentifier() {
			logger.Error("no user identifier provided")
			render.JSON(w, r, response.Error("No user identifier provided"))
			return
		}

		logger = logger.With(slog.Any("message", req.Message))

		resp, err := handler.ComposeResponse(r.Context(), req)
		if err != nil {
			logger.Error("compose response", sl.Err(err))
			render.JSON(w, r, response.Error(fmt.Sprintf("Compose failed: %v", err)))
			return
		}
		logger.Debug("compose response")

		render.JSON(w, r, response.Ok(resp))
	}
}

func ResetConversation(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.chat")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req entity.HttpUserMsg
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("failed to decode request body", sl.Err(err))
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}

		if !req.HasIdentifier() {
			logger.Error("no user identifier provided")
			render.JSON(w, r, response.Error("No user identifier provided"))
			return
		}

		if err := handler.ResetConversation(req.Email, req.Phone, req.TelegramId); err != nil {
			logger.Error("reset conversation", sl.Err(err))
			render.JSON(w, r, response.Error(fmt.Sprintf("Reset failed: %v", err)))
			return
		}

		render.JSON(w, r, response.Ok(nil))
	}
}
