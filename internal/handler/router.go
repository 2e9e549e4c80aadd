/*
Package handler provides the HTTP handlers and routing setup for the DM Chat Server.

This file defines the main Router, applying necessary middleware like logging, CORS,
and IP-based rate limiting before delegating requests to specific handlers (API and WebSocket).
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"dmchat/internal/pkg/auth/jwt"
	"dmchat/internal/pkg/limiter"
	"dmchat/internal/pkg/logx"
	"dmchat/internal/pkg/resp"
)

const (
	AuthRate    = 0.2
	AuthBurst   = 5
	SocketRate  = 0.5
	SocketBurst = 5
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It initializes IP-based rate limiters, configures CORS, and applies global and per-route middleware.
func Router(deps *AppDeps) http.Handler {
	authLimiter := limiter.NewIPRateLimiter(rate.Limit(AuthRate), AuthBurst)
	socketLimiter := limiter.NewIPRateLimiter(rate.Limit(SocketRate), SocketBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	var wsUpgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]any{
			"status":      "ok",
			"service":     "DM Chat Server",
			"connections": deps.Hub.ConnectedCount(),
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(jwt.IdentityExtractorMiddleware(deps.Config.JWTSecret))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", rateLimited(authLimiter, HandleRegister(deps)))
			auth.Post("/login", rateLimited(authLimiter, HandleLogin(deps)))
		})
		api.Post("/logout", HandleLogout(deps))

		api.Get("/users", HandleListUsers(deps))
		api.Get("/users/online", HandleListOnlineUsers(deps))

		api.Get("/conversations", HandleListConversations(deps))
		api.Get("/conversations/{userId}/messages", HandleConversationMessages(deps))

		api.Patch("/profile", HandleUpdateProfile(deps))

		api.Post("/upload/presign", HandlePresignUpload(deps))
		api.Get("/upload/presign-download", HandlePresignDownload(deps))
	})

	r.Get("/ws", HandleWebSocket(wsUpgrader, socketLimiter, deps))

	return r
}

func rateLimited(l *limiter.IPRateLimiter, next http.HandlerFunc) http.HandlerFunc {
	return l.Middleware(next).ServeHTTP
}
