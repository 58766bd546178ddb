package api

import (
	"net/http"

	"tradehub-be/internal/logger"
	"tradehub-be/internal/middleware"

	"github.com/gin-gonic/gin"
)

// NewRouter registers every route. Catalog and blog reads address records by
// slug under the same :id segment that writes use for ids.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", h.Health)

	a := r.Group("/auth")
	a.POST("/signup", h.SignUp)
	a.POST("/signin", h.SignIn)
	a.POST("/signout", h.SignOut)
	a.GET("/me", h.Me)

	cats := r.Group("/categories")
	cats.GET("", h.ListCategories)
	cats.POST("", h.CreateCategory)
	cats.GET("/:id", h.GetCategory)
	cats.PUT("/:id", h.UpdateCategory)
	cats.DELETE("/:id", h.DeleteCategory)

	products := r.Group("/products")
	products.GET("", h.ListProducts)
	products.POST("", h.CreateProduct)
	products.GET("/:id", h.GetProduct)
	products.PUT("/:id", h.UpdateProduct)
	products.DELETE("/:id", h.DeleteProduct)
	products.POST("/:id/views", h.RecordProductView)
	products.POST("/:id/images", h.AttachProductImage)
	products.DELETE("/:id/images/:publicId", h.RemoveProductImage)
	products.GET("/:id/reviews", h.ListProductReviews)
	products.POST("/:id/reviews", h.CreateReview)

	r.GET("/reviews/mine", h.ListMyReviews)
	r.DELETE("/reviews/:id", h.DeleteReview)

	r.POST("/cart/quote", h.QuoteCart)

	addrs := r.Group("/addresses")
	addrs.GET("", h.ListAddresses)
	addrs.POST("", h.CreateAddress)
	addrs.GET("/:id", h.GetAddress)
	addrs.PUT("/:id", h.UpdateAddress)
	addrs.DELETE("/:id", h.DeleteAddress)
	addrs.POST("/:id/default", h.SetDefaultAddress)

	orders := r.Group("/orders")
	orders.GET("", h.ListOrders)
	orders.POST("", h.CreateOrder)
	orders.GET("/:id", h.GetOrder)
	orders.POST("/:id/status", h.UpdateOrderStatus)
	orders.POST("/:id/cancel", h.CancelOrder)
	orders.POST("/:id/payment", h.UpdateOrderPayment)
	orders.GET("/:id/shipments", h.ListOrderShipments)

	rfqs := r.Group("/rfqs")
	rfqs.GET("", h.ListRFQs)
	rfqs.POST("", h.CreateRFQ)
	rfqs.GET("/:id", h.GetRFQ)
	rfqs.POST("/:id/review", h.StartRFQReview)
	rfqs.POST("/:id/quote", h.QuoteRFQ)
	rfqs.POST("/:id/accept", h.AcceptRFQ)
	rfqs.POST("/:id/reject", h.RejectRFQ)

	ships := r.Group("/shipments")
	ships.POST("", h.CreateShipment)
	ships.GET("/track/:tracking", h.TrackShipment)
	ships.GET("/:id", h.GetShipment)
	ships.POST("/:id/events", h.AppendShipmentEvent)

	posts := r.Group("/blog")
	posts.GET("", h.ListPosts)
	posts.POST("", h.CreatePost)
	posts.GET("/:id", h.GetPost)
	posts.PUT("/:id", h.UpdatePost)
	posts.POST("/:id/publish", h.PublishPost)
	posts.POST("/:id/unpublish", h.UnpublishPost)
	posts.POST("/:id/views", h.RecordPostView)

	sups := r.Group("/suppliers")
	sups.GET("", h.ListSuppliers)
	sups.POST("", h.CreateSupplier)
	sups.GET("/:id", h.GetSupplier)
	sups.PUT("/:id", h.UpdateSupplier)
	sups.POST("/:id/status", h.ChangeSupplierStatus)
	sups.GET("/:id/products", h.ListSupplierProducts)

	r.GET("/notifications", h.ListNotifications)
	r.POST("/notifications/:id/read", h.MarkNotificationRead)

	users := r.Group("/users")
	users.GET("", h.ListUsers)
	users.GET("/:id", h.GetUser)
	users.PUT("/me", h.UpdateMe)
	users.PUT("/:id/role", h.ChangeRole)

	r.GET("/analytics/dashboard", h.Dashboard)

	return r
}

// Wrap puts the HTTP middleware chain in front of the router. Logging runs
// after auth so access lines carry the user id.
func Wrap(next http.Handler, sessions middleware.SessionResolver, limiter *middleware.RateLimiter, corsOrigin string) http.Handler {
	h := limiter.Middleware(next)
	h = logger.LoggingMiddleware(h)
	h = middleware.Auth(sessions)(h)
	h = middleware.CORS(corsOrigin)(h)
	return logger.RequestIDMiddleware(h)
}
