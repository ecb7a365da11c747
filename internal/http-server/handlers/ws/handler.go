package ws

import (
	"CalAssist/internal/lib/api/response"
	"CalAssist/internal/lib/sl"
	"CalAssist/internal/ws"
	"fmt"
	"github.com/go-chi/render"
	"github.com/gorilla/websocket"
	"log/slog"
	"net/http"
	"strconv"
)

type Core interface {
	WsTicket(email, phone string, telegramId int64) (string, error)
	VerifyWsTicket(userUUID, expires, sig string) bool
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// tickets authenticate the upgrade, origin is not a credential here
		return true
	},
}

// Ticket issues a signed ws URL to an authenticated API caller.
func Ticket(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := r.URL.Query().Get("email")
		phone := r.URL.Query().Get("phone")
		telegramId, _ := strconv.ParseInt(r.URL.Query().Get("telegram_id"), 10, 64)

		url, err := handler.WsTicket(email, phone, telegramId)
		if err != nil {
			log.Error("issuing ws ticket", sl.Err(err))
			render.JSON(w, r, response.Error(fmt.Sprintf("Ticket failed: %v", err)))
			return
		}

		var resp struct {
			Url string `json:"url"`
		}
		resp.Url = url

		render.JSON(w, r, response.Ok(resp))
	}
}

// Serve upgrades a ticketed request to a WebSocket and attaches it to the
// hub. Mounted outside the authenticated router.
func Serve(log *slog.Logger, handler Core, hub *ws.Hub) http.HandlerFunc {
	mod := sl.Module("http.handlers.ws")

	return func(w http.ResponseWriter, r *http.Request) {
		userUUID := r.URL.Query().Get("uuid")
		expires := r.URL.Query().Get("expires")
		sig := r.URL.Query().Get("sig")

		if !handler.VerifyWsTicket(userUUID, expires, sig) {
			http.Error(w, "Invalid or expired ticket", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.With(mod).Error("ws upgrade", sl.Err(err))
			return
		}

		ws.NewClient(hub, conn, userUUID)

		log.With(
			mod,
			slog.String("userUUID", userUUID),
		).Debug("ws client connected")
	}
}
