package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/config"
	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/handler"
	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/middleware"
	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/repository"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check
// used by load balancers and monitoring to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPMS registers the PMS-backed endpoints under /v1/pms.  Every
// route resolves its location from the Location-Id header and verifies
// the per-location agent key, so the instance repository is required
// here rather than inside the handlers.  The search endpoint is the
// hot, read-only path: it additionally gets the Redis token bucket and
// the short response cache, both keyed per location so one tenant's
// traffic or pricing never bleeds into another's.
func RegisterPMS(e *echo.Echo, h *handler.PMSHandler, instances *repository.InstanceRepo, rdb *redis.Client) {
	g := e.Group("/v1/pms")
	g.Use(middleware.AgentKeyAuth(instances))

	search := g.Group("/search")
	search.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	search.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	search.GET("", h.Search)

	// Reservation lifecycle.  Creation runs the full orchestration;
	// read and cancel are passthroughs.  None of these are cached.
	g.POST("/reservations", h.CreateReservation)
	g.GET("/reservations/:id", h.GetReservation)
	g.DELETE("/reservations/:id", h.CancelReservation)
}

// RegisterNewbook registers the alternate-backend endpoints under
// /v1/newbook.  The backend holds one tenant's credentials in process
// configuration, so these routes skip the per-location agent key check
// and rely on the rate limiter alone.
func RegisterNewbook(e *echo.Echo, h *handler.NewbookHandler, rdb *redis.Client) {
	g := e.Group("/v1/newbook")
	g.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	g.POST("/availability", h.Availability)
	g.POST("/bookings", h.CreateBooking)
	g.GET("/bookings/:id/check", h.CheckBooking)
}

// RegisterAdmin registers token minting and the operator-only routes.
// POST /v1/admin/token exchanges the shared admin key for a bearer
// token; everything else on the group requires that token.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, logs *handler.BookingLogHandler, jwtSecret string) {
	e.POST("/v1/admin/token", a.Token)

	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.POST("/instances", a.Provision)
	g.GET("/booking-logs", logs.List)
}
