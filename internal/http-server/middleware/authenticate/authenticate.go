package authenticate

import (
	"CalAssist/entity"
	"CalAssist/internal/lib/api/cont"
	"CalAssist/internal/lib/api/response"
	"CalAssist/internal/lib/sl"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Authenticate interface {
	AuthenticateByToken(token string) (*entity.UserAuth, error)
}

// New returns middleware that resolves the Bearer token to an API user,
// stores it in the request context and writes one access-log line per
// request with the caller and outcome attached.
func New(log *slog.Logger, auth Authenticate) func(next http.Handler) http.Handler {
	mod := sl.Module("middleware.authenticate")
	log.With(mod).Info("authenticate middleware initialized")

	return func(next http.Handler) http.Handler {

		fn := func(w http.ResponseWriter, r *http.Request) {
			logger := log.With(
				mod,
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", remoteAddr(r)),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			started := time.Now()
			caller := "-"
			defer func() {
				logger.With(
					slog.String("caller", caller),
					slog.Int("status", ww.Status()),
					slog.Int("size", ww.BytesWritten()),
					slog.Float64("duration", time.Since(started).Seconds()),
				).Info("incoming request")
			}()

			token := bearerToken(r)
			if token == "" {
				unauthorized(ww, r, "Bearer token not found")
				return
			}
			logger = logger.With(sl.Secret("token", token))

			if auth == nil {
				unauthorized(ww, r, "Unauthorized: authentication not enabled")
				return
			}

			user, err := auth.AuthenticateByToken(token)
			if err != nil {
				logger = logger.With(sl.Err(err))
				unauthorized(ww, r, "Unauthorized: token not found")
				return
			}
			caller = user.Username

			ctx := cont.PutUser(r.Context(), user)

			ww.Header().Set("X-Request-ID", middleware.GetReqID(r.Context()))
			ww.Header().Set("X-User", user.Username)
			next.ServeHTTP(ww, r.WithContext(ctx))
		}

		return http.HandlerFunc(fn)
	}
}

// remoteAddr prefers the X-Forwarded-For header so requests arriving
// through a proxy log the real client.
func remoteAddr(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	return r.RemoteAddr
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, response.Error(message))
}
