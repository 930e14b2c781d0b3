package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/model"
	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/repository"
	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/utils"
)

// instanceContextKey is where AgentKeyAuth stores the resolved instance
// for handlers.
const instanceContextKey = "pms_instance"

// AgentKeyAuth resolves the tenant from the Location-Id header and
// verifies the X-Agent-Key header against the bcrypt hash stored on the
// instance row.  Handlers behind this middleware read the instance via
// InstanceFrom and never touch credential storage themselves.
func AgentKeyAuth(instances *repository.InstanceRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			locationID := c.Request().Header.Get("Location-Id")
			if locationID == "" {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing Location-Id header"})
			}
			inst, err := instances.GetByLocationID(c.Request().Context(), locationID)
			if err == repository.ErrInstanceNotFound {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown location"})
			}
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
			}
			key := c.Request().Header.Get("X-Agent-Key")
			if key == "" || !utils.VerifyAgentKey(inst.AgentKeyHash, key) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid agent key"})
			}
			c.Set(instanceContextKey, inst)
			return next(c)
		}
	}
}

// InstanceFrom returns the instance resolved by AgentKeyAuth, or nil
// when the middleware did not run.
func InstanceFrom(c echo.Context) *model.Instance {
	inst, _ := c.Get(instanceContextKey).(*model.Instance)
	return inst
}

// JWTAuth validates a Bearer token signed with the admin secret and
// stores its subject in the context.  It guards the reporting and
// provisioning endpoints, which are operator-facing rather than
// tenant-facing.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			// Parse with HS256 and the shared secret; any other signing
			// method is rejected.
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			c.Set("subject", claims["sub"])
			return next(c)
		}
	}
}
