package handler

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the public API. auth guards every route that needs
// a logged in caller.
func RegisterRoutes(e *echo.Echo, h *Handler, auth echo.MiddlewareFunc) {
	e.GET("/", h.Root)
	e.GET("/health", h.HealthCheck)

	api := e.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", h.Login)

	// /api/shop is kept for older clients
	for _, prefix := range []string{"/shops", "/shop"} {
		shops := api.Group(prefix)
		shops.POST("", h.RegisterShop, auth)
		shops.POST("/", h.RegisterShop, auth)
		shops.GET("/me", h.GetOwnShop, auth)
		shops.PUT("/inventory", h.AddInventoryItem, auth)
		shops.PUT("/inventory/:itemId", h.EditInventoryItem, auth)
		shops.DELETE("/inventory/:itemId", h.DeleteInventoryItem, auth)
		shops.POST("/offers", h.AddOffer, auth)
		shops.PUT("/offers/:offerId", h.SetOfferActive, auth)

		shops.GET("/nearby", h.NearbyShops)
		shops.GET("/featured", h.FeaturedMedicines)
		shops.GET("/search/:medicine", h.SearchMedicine)
	}

	orders := api.Group("/orders", auth)
	orders.POST("/create-cod", h.CreateOrder)
	orders.GET("/my-orders", h.ListMyOrders)
	orders.GET("/shop-orders", h.ListShopOrders)
	orders.PUT("/update-status/:id", h.UpdateOrderStatus)

	admin := api.Group("/admin", auth)
	admin.GET("/users", h.ListUsers)
	admin.GET("/shops", h.ListShops)
	admin.DELETE("/users/:id", h.DeleteUser)
	admin.DELETE("/shops/:id", h.DeleteShop)

	ai := api.Group("/ai")
	ai.POST("/scan", h.ScanPrescription)
	ai.POST("/symptoms", h.SuggestRemedies)
}
