/*
Package handler provides the HTTP handler function for WebSocket connection upgrading.

This file contains the HandleWebSocket function, which rate-limits and upgrades
the HTTP connection, then hands it to the chat hub in the Unauthenticated state.
The connection binds to a user identity through its first auth frame.
*/
package handler

import (
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"dmchat/internal/app/chat"
	"dmchat/internal/pkg/errs"
	"dmchat/internal/pkg/limiter"
	"dmchat/internal/pkg/logx"
	"dmchat/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := chat.NewClient(deps.Hub, conn)

		go client.WritePump()

		logx.Info("WebSocket connection established, awaiting auth frame", "remote_addr", conn.RemoteAddr().String())

		client.ReadPump()
	}
}
