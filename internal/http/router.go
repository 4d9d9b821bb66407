package api

import (
	"log"
	stdhttp "net/http"

	h "bikecare/internal/http/handlers"
	"bikecare/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(handlers *h.Handlers) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(), middleware.ClientContext())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", handlers.Health)
		api.GET("/routes", handlers.Routes)

		// Catalog
		bikes := api.Group("/bikes")
		bikes.GET("/companies", handlers.Companies)
		bikes.GET("/companies/:id/models", handlers.CompanyModels)

		// Service-area check
		location := api.Group("/location")
		location.GET("", handlers.Location)
		location.POST("/confirm", handlers.ConfirmLocation)
		location.POST("/use-default", handlers.UseDefaultLocation)

		// Customized service builder
		custom := api.Group("/customized")
		custom.POST("/calculate", handlers.CalculatePrice)
		custom.POST("/save", handlers.SaveCustomized)
		custom.GET("/my", handlers.MyCustomized)
		custom.GET("/:id", handlers.GetCustomized)
		custom.PUT("/:id", handlers.UpdateCustomized)
		custom.DELETE("/:id", handlers.DeleteCustomized)

		// Booking and payment
		book := api.Group("/booking")
		book.POST("/checkout", handlers.Checkout)
		book.POST("/confirm", handlers.ConfirmPayment)
		book.GET("/my", handlers.MyBookings)
		book.GET("/draft", handlers.RestoreDraft)
		book.GET("/:id/receipt", handlers.BookingReceipt)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/admin-login", handlers.AdminLogin)

		// Admin dashboard
		admin := api.Group("/admin", middleware.AdminAuth(handlers.Env.JWTSecret))
		admin.GET("/bookings", handlers.AdminBookings)
		admin.PATCH("/bookings/:id", handlers.AdminUpdateBookingStatus)
		admin.GET("/companies", handlers.AdminCompanies)
		admin.POST("/companies", handlers.AdminCreateCompany)
		admin.DELETE("/companies/:id", handlers.AdminDeleteCompany)
		admin.GET("/models", handlers.AdminModels)
		admin.POST("/models", handlers.AdminCreateModel)
		admin.DELETE("/models/:id", handlers.AdminDeleteModel)
		admin.GET("/users", handlers.AdminUsers)
		admin.GET("/stats", handlers.AdminStats)
	}

	h.SetRouter(r)
	return r
}
