package routes

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"navippon/admin"
	"navippon/auth"
	"navippon/categories"
	"navippon/comments"
	"navippon/emailweb"
	"navippon/experiences"
	"navippon/importer"
	"navippon/itinerary"
	"navippon/middleware"
	"navippon/notifications"
	"navippon/posts"
	"navippon/ratelim"
	"navippon/reviews"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/experiencepic/*filepath", http.Dir("static/experiencepic"))
	router.ServeFiles("/static/userpic/*filepath", http.Dir("static/userpic"))
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(auth.Register))
	router.POST("/api/auth/login", rl.Limit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.LogoutUser))
	router.POST("/api/auth/token/refresh", rl.Limit(middleware.Authenticate(auth.RefreshToken)))
}

func AddItineraryRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/itineraries", middleware.Authenticate(itinerary.GetMyItineraries))
	router.POST("/api/itineraries", rl.Limit(middleware.Authenticate(itinerary.CreateItinerary)))
	router.GET("/api/itineraries/:id", middleware.Authenticate(itinerary.GetItinerary))
	router.PUT("/api/itineraries/:id", middleware.Authenticate(itinerary.UpdateItinerary))
	router.DELETE("/api/itineraries/:id", middleware.Authenticate(itinerary.DeleteItinerary))

	router.POST("/api/itineraries/:id/travelers", middleware.Authenticate(itinerary.AddTraveler))
	router.DELETE("/api/itineraries/:id/travelers/:userid", middleware.Authenticate(itinerary.RemoveTraveler))
}

func AddExperienceRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/experiences", rl.Limit(experiences.GetExperiences))
	router.GET("/api/experiences/:id", experiences.GetExperience)
	router.POST("/api/experiences", middleware.RequireAdmin(experiences.CreateExperience))
	router.PUT("/api/experiences/:id", middleware.RequireAdmin(experiences.UpdateExperience))
	router.DELETE("/api/experiences/:id", middleware.RequireAdmin(experiences.DeleteExperience))
	router.POST("/api/experiences/:id/photo", middleware.RequireAdmin(experiences.UploadPhoto))
}

func AddReviewsRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/experiences/:id/reviews", rl.Limit(reviews.GetReviews))
	router.POST("/api/experiences/:id/reviews", rl.Limit(middleware.Authenticate(reviews.AddReview)))
	router.PUT("/api/experiences/:id/reviews/:reviewid", middleware.Authenticate(reviews.UpdateReview))
	router.DELETE("/api/experiences/:id/reviews/:reviewid", middleware.Authenticate(reviews.DeleteReview))
}

func AddCommentsRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/comments/:entitytype/:entityid", rl.Limit(comments.GetComments))
	router.POST("/api/comments/:entitytype/:entityid", rl.Limit(middleware.Authenticate(comments.CreateComment)))
	router.PUT("/api/comments/:entitytype/:entityid/:commentid", middleware.Authenticate(comments.UpdateComment))
	router.DELETE("/api/comments/:entitytype/:entityid/:commentid", middleware.Authenticate(comments.DeleteComment))
}

func AddPostRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/posts", rl.Limit(posts.GetPosts))
	router.GET("/api/posts/:id", posts.GetPost)
	router.POST("/api/posts", rl.Limit(middleware.Authenticate(posts.CreatePost)))
	router.PUT("/api/posts/:id", middleware.Authenticate(posts.UpdatePost))
	router.DELETE("/api/posts/:id", middleware.Authenticate(posts.DeletePost))
}

func AddCategoryRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/categories", rl.Limit(categories.GetCategories))
	router.POST("/api/categories", middleware.RequireAdmin(categories.CreateCategory))
	router.PUT("/api/categories/:id", middleware.RequireAdmin(categories.UpdateCategory))
	router.DELETE("/api/categories/:id", middleware.RequireAdmin(categories.DeleteCategory))
}

func AddNotificationRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/notifications", middleware.Authenticate(notifications.GetNotifications))
	router.PUT("/api/notifications/:id/read", middleware.Authenticate(notifications.MarkRead))
	router.DELETE("/api/notifications/:id", middleware.Authenticate(notifications.DeleteNotification))
	router.DELETE("/api/notifications", middleware.Authenticate(notifications.ClearNotifications))
}

func AddEmailWebRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/emailweb", rl.Limit(emailweb.SubmitContactForm))
	router.GET("/api/emailweb", middleware.RequireAdmin(emailweb.ListMessages))
	router.GET("/api/emailweb/:id", middleware.RequireAdmin(emailweb.GetMessage))
	router.DELETE("/api/emailweb/:id", middleware.RequireAdmin(emailweb.DeleteMessage))
}

func AddAdminRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/admin/users", middleware.RequireAdmin(admin.ListUsers))
	router.PUT("/api/admin/users/:id/role", middleware.RequireAdmin(admin.SetUserRole))
	router.PUT("/api/admin/users/:id/ban", middleware.RequireAdmin(admin.BanUser))
	router.DELETE("/api/admin/users/:id", middleware.RequireAdmin(admin.DeleteUser))
}

func AddImportRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/import/stats", middleware.RequireAdmin(importer.Stats))
	router.GET("/api/import/search-external", rl.Limit(middleware.RequireAdmin(importer.SearchExternal)))
	router.POST("/api/import/import", middleware.RequireAdmin(importer.Import))
}
