package v1

import (
	"github.com/gin-gonic/gin"

	"jarvis-server/services/chat-api/internal/interfaces/httpserver/handlers"
)

// Routes holds the v1 route configuration.
type Routes struct {
	handlers      *handlers.Provider
	defaultUserID string
}

// NewRoutes creates a new v1 routes instance.
func NewRoutes(handlerProvider *handlers.Provider, defaultUserID string) *Routes {
	return &Routes{
		handlers:      handlerProvider,
		defaultUserID: defaultUserID,
	}
}

// Register registers all v1 routes on the engine. The API is served at the
// engine root; requests without an authenticated user are attributed to the
// configured default user.
func (r *Routes) Register(engine *gin.Engine) {
	RegisterChatRoutes(engine, r.handlers, r.defaultUserID)
}
