package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
)

// Upgrader handles WebSocket upgrades. The server replaces CheckOrigin with
// AllowOrigins built from the CORS configuration.
var Upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// AllowOrigins accepts requests without an Origin header, requests from one
// of origins, or anything when origins contains "*".
func AllowOrigins(origins []string) func(*http.Request) bool {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed["*"] || allowed[origin]
	}
}
