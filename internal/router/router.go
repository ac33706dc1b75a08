package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/room-reservation/internal/config"
	"github.com/iliyamo/room-reservation/internal/handler"
	"github.com/iliyamo/room-reservation/internal/middleware"
	"github.com/iliyamo/room-reservation/internal/model"
)

// RegisterRoutes registers the unauthenticated service endpoints.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires the /v1/auth group plus the protected /v1/me route.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	me := e.Group("/v1")
	me.Use(middleware.JWTAuth(jwtSecret))
	me.GET("/me", a.Me)
}

// RegisterPublic exposes room browsing without authentication. Listing
// responses are cached when Redis is available.
func RegisterPublic(e *echo.Echo, r *handler.RoomHandler, rdb *redis.Client, cache config.CacheConfig) {
	g := e.Group("/v1")
	g.Use(middleware.Cache(rdb, cache))
	g.GET("/rooms", r.List)
	g.GET("/rooms/:id", r.Get)
}

// RegisterBookings wires the authenticated booking routes. Any valid
// user may create and manage their own bookings.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, jwtSecret string, rdb *redis.Client, rl config.RateLimitConfig) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleUser, model.RoleAdmin))
	g.Use(middleware.RateLimit(rdb, rl))
	g.POST("/bookings", b.Create)
	g.GET("/my-bookings", b.ListMine)
	g.GET("/bookings/:id", b.Get)
	g.PUT("/bookings/:id", b.Update)
	g.DELETE("/bookings/:id", b.Delete)
}

// RegisterAdmin wires the admin-only surface: booking moderation and
// room management.
func RegisterAdmin(e *echo.Echo, b *handler.BookingHandler, r *handler.RoomHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin))

	g.GET("/bookings", b.ListAll)
	g.PUT("/bookings/:id/approve", b.Approve)
	g.PUT("/bookings/:id/reject", b.Reject)
	g.DELETE("/bookings/:id", b.Delete)

	g.GET("/rooms", r.List)
	g.GET("/rooms/:id", r.Get)
	g.POST("/rooms", r.CreateRoom)
	g.PUT("/rooms/:id", r.UpdateRoom)
	g.DELETE("/rooms/:id", r.DeleteRoom)
}
