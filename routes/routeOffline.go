package routes

import (
	"github.com/julienschmidt/httprouter"

	"navippon/chat"
	"navippon/exportpdf"
	"navippon/middleware"
	"navippon/offline"
	"navippon/ratelim"
)

// AddOfflineRoutes wires the snapshot store handlers to the router.
func AddOfflineRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *offline.Handler) {
	router.GET("/api/offline/itineraries/:id", middleware.Authenticate(h.Status))
	router.POST("/api/offline/itineraries/:id", rl.Limit(middleware.Authenticate(h.Save)))
	router.DELETE("/api/offline/itineraries/:id", middleware.Authenticate(h.Remove))
	router.DELETE("/api/offline/itineraries", middleware.Authenticate(h.ClearAll))
	router.GET("/api/offline/usage", middleware.Authenticate(h.Usage))
}

func AddExportRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *exportpdf.Handler) {
	router.GET("/api/itineraries/:id/export", rl.Limit(middleware.Authenticate(h.ExportItinerary)))
}

func AddChatRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, hub *chat.Hub) {
	router.GET("/ws/chat/:room", middleware.OptionalAuth(chat.WebSocketHandler(hub)))
	router.POST("/api/chat/message", rl.Limit(chat.SendMessage))
}
