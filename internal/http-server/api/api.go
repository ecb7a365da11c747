package api

import (
	"CalAssist/internal/config"
	"CalAssist/internal/http-server/handlers/appointment"
	"CalAssist/internal/http-server/handlers/chat"
	"CalAssist/internal/http-server/handlers/errors"
	"CalAssist/internal/http-server/handlers/gauth"
	"CalAssist/internal/http-server/handlers/key"
	wshandler "CalAssist/internal/http-server/handlers/ws"
	"CalAssist/internal/http-server/middleware/authenticate"
	"CalAssist/internal/http-server/middleware/timeout"
	"CalAssist/internal/lib/sl"
	"CalAssist/internal/ws"
	"fmt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"log/slog"
	"net"
	"net/http"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	authenticate.Authenticate
	chat.Core
	appointment.Core
	gauth.Core
	key.Core
	wshandler.Core
}

func New(conf *config.Config, log *slog.Logger, handler Handler, hub *ws.Hub) error {

	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	router := chi.NewRouter()
	router.Use(timeout.Timeout(5))
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	// Browser-facing routes: Google redirects here and ws dials carry no
	// Authorization header, so these sit outside the API-key middleware.
	router.Get("/auth/google/callback", gauth.Callback(log, handler))
	if hub != nil {
		router.Get("/ws", wshandler.Serve(log, handler, hub))
	}

	router.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(render.SetContentType(render.ContentTypeJSON))
		v1.Use(authenticate.New(log, handler))

		v1.Route("/chat", func(r chi.Router) {
			r.Post("/", chat.ComposeResponse(log, handler))
			r.Post("/reset", chat.ResetConversation(log, handler))
		})
		v1.Route("/appointments", func(r chi.Router) {
			r.Get("/", appointment.List(log, handler))
			r.Delete("/{id}", appointment.Delete(log, handler))
		})
		v1.Route("/auth/google", func(r chi.Router) {
			r.Get("/login", gauth.Login(log, handler))
		})
		v1.Route("/ws", func(r chi.Router) {
			r.Get("/ticket", wshandler.Ticket(log, handler))
		})
		v1.Route("/key", func(r chi.Router) {
			r.Post("/new", key.Generate(log, handler))
		})
	})

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:  router,
		ErrorLog: httpLog,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIP, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	return server.httpServer.Serve(listener)
}
