package key

import (
	"CalAssist/internal/lib/api/cont"
	"CalAssist/internal/lib/api/response"
	"CalAssist/internal/lib/sl"
	"encoding/json"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
)

type Core interface {
	GenerateApiKey(username string) (string, error)
}

type generateRequest struct {
	Username string `json:"username"`
}

// Generate issues an API key for a username. Only the admin key may call
// this route.
func Generate(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.key")

		caller := cont.GetUser(r.Context())
		if caller == nil || caller.Username != "admin" {
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("Admin key required"))
			return
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}

		key, err := handler.GenerateApiKey(req.Username)
		if err != nil {
			log.With(mod).Error("generate api key", sl.Err(err))
			render.JSON(w, r, response.Error("Key generation failed"))
			return
		}

		var resp struct {
			Username string `json:"username"`
			Key      string `json:"key"`
		}
		resp.Username = req.Username
		resp.Key = key

		render.JSON(w, r, response.Ok(resp))
	}
}
