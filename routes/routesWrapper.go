package routes

import (
	"github.com/julienschmidt/httprouter"

	"navippon/ratelim"
)

func RoutesWrapper(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	AddAuthRoutes(router, rateLimiter)
	AddItineraryRoutes(router, rateLimiter)
	AddExperienceRoutes(router, rateLimiter)
	AddReviewsRoutes(router, rateLimiter)
	AddCommentsRoutes(router, rateLimiter)
	AddPostRoutes(router, rateLimiter)
	AddCategoryRoutes(router, rateLimiter)
	AddNotificationRoutes(router, rateLimiter)
	AddEmailWebRoutes(router, rateLimiter)
	AddAdminRoutes(router, rateLimiter)
	AddImportRoutes(router, rateLimiter)
	AddStaticRoutes(router)
}
