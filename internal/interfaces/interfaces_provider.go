package interfaces

import (
	"github.com/google/wire"

	"jarvis-server/services/chat-api/internal/interfaces/httpserver"
	"jarvis-server/services/chat-api/internal/interfaces/httpserver/handlers"
	"jarvis-server/services/chat-api/internal/interfaces/httpserver/routes"
)

// InterfacesProvider provides all interface dependencies.
var InterfacesProvider = wire.NewSet(
	handlers.HandlerProvider,
	routes.RouteProvider,
	httpserver.New,
)
