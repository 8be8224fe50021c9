package routes

import (
	adminapi "seratus-studio/internal/api/admin"
	authapi "seratus-studio/internal/api/auth"
	downloadapi "seratus-studio/internal/api/download"
	ordersapi "seratus-studio/internal/api/orders"
	shopapi "seratus-studio/internal/api/shop"
	siteapi "seratus-studio/internal/api/site"
	"seratus-studio/internal/app/http/middleware"
	"seratus-studio/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth     *authapi.Handler
	Admin    *adminapi.Handler
	Orders   *ordersapi.Handler
	Download *downloadapi.Handler
	Shop     *shopapi.Handler
	Site     *siteapi.Handler

	Authenticator middleware.Authenticator
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(middleware.SanitizeAndCleanInputMiddleware())

	authn := middleware.AuthMiddleware(h.Authenticator)
	optional := middleware.OptionalAuth(h.Authenticator)
	admin := middleware.RequireRole(users.RoleAdmin)

	// Auth
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/logout", h.Auth.Logout)
	api.GET("/auth/me", authn, h.Auth.Me)
	if h.Auth.GoogleEnabled() {
		api.GET("/auth/google", h.Auth.GoogleStart)
		api.GET("/auth/google/callback", h.Auth.GoogleCallback)
	}

	// Catalog: public reads, admin writes
	api.GET("/products", optional, h.Shop.ListProducts)
	api.GET("/products/:id", optional, h.Shop.GetProduct)
	api.POST("/products", authn, admin, h.Shop.CreateProduct)
	api.PUT("/products/:id", authn, admin, h.Shop.UpdateProduct)
	api.DELETE("/products/:id", authn, admin, h.Shop.DeleteProduct)

	api.GET("/artworks", h.Shop.ListArtworks)
	api.GET("/artworks/:id", h.Shop.GetArtwork)
	api.POST("/artworks", authn, admin, h.Shop.CreateArtwork)
	api.PUT("/artworks/:id", authn, admin, h.Shop.UpdateArtwork)
	api.DELETE("/artworks/:id", authn, admin, h.Shop.DeleteArtwork)

	api.POST("/uploads/:folder", authn, admin, h.Shop.UploadImage)

	// Checkout and orders
	api.POST("/orders", h.Orders.Create)
	api.GET("/orders", authn, h.Orders.List)
	api.GET("/orders/:id", authn, h.Orders.Get)
	api.PATCH("/orders/:id", authn, admin, h.Orders.UpdateStatus)
	api.PUT("/orders/:id", authn, admin, h.Orders.UpdateStatus)
	api.DELETE("/orders/:id", authn, admin, h.Orders.Delete)

	// Downloads
	api.POST("/download/generate", authn, admin, h.Download.Generate)
	api.GET("/download/status/:orderId", h.Download.Status)

	// Appearance
	api.GET("/backgrounds", authn, admin, h.Site.ListBackgrounds)
	api.GET("/backgrounds/active", h.Site.ActiveBackground)
	api.POST("/backgrounds", authn, admin, h.Site.UploadBackground)
	api.PUT("/backgrounds/:id/activate", authn, admin, h.Site.ActivateBackground)
	api.DELETE("/backgrounds/:id", authn, admin, h.Site.DeleteBackground)

	api.GET("/settings", h.Site.Settings)
	api.POST("/settings/logo", authn, admin, h.Site.UploadLogo)
	api.POST("/settings/profile-image", authn, admin, h.Site.UploadProfileImage)

	// Admin
	adminGroup := api.Group("/admin", authn, admin)
	adminGroup.GET("/users", h.Admin.ListUsers)
	adminGroup.POST("/users", h.Admin.CreateUser)
	adminGroup.DELETE("/users/:id", h.Admin.DeleteUser)
	adminGroup.GET("/stats", h.Admin.Stats)
}
