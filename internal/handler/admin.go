package handler

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/config"
	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/model"
	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/repository"
	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/utils"
)

// AdminHandler serves token minting and instance provisioning. Both are
// operator-only surfaces: tokens are minted against the shared admin
// key, provisioning requires a minted token.
type AdminHandler struct {
	Cfg       config.Config
	Instances *repository.InstanceRepo
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(cfg config.Config, instances *repository.InstanceRepo) *AdminHandler {
	if instances == nil {
		panic("nil repo passed to NewAdminHandler")
	}
	return &AdminHandler{Cfg: cfg, Instances: instances}
}

// Token handles POST /v1/admin/token: it exchanges the shared admin key
// for a short-lived bearer token used on the other admin routes.
func (h *AdminHandler) Token(c echo.Context) error {
	var req struct {
		AdminKey string `json:"admin_key"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if subtle.ConstantTimeCompare([]byte(req.AdminKey), []byte(h.Cfg.AdminKey)) != 1 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid admin key"})
	}
	token, err := utils.NewAccessToken(h.Cfg.JWTSecret, "admin", h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not mint token"})
	}
	return c.JSON(http.StatusOK, token)
}

// provisionRequest is the POST /v1/admin/instances body. AgentKey is
// the plain key handed to the caller's integration; only its bcrypt
// hash is stored.
type provisionRequest struct {
	LocationID     string `json:"location_id"`
	ClientID       int    `json:"client_id"`
	ClientPassword string `json:"client_password"`
	AgentID        int    `json:"agent_id"`
	AgentPassword  string `json:"agent_password"`
	PropertyID     int    `json:"property_id"`
	UseTraining    bool   `json:"use_training"`
	AgentKey       string `json:"agent_key"`
}

// Provision handles POST /v1/admin/instances: it upserts the upstream
// credentials for one location and stores the bcrypt hash of its agent
// key.
func (h *AdminHandler) Provision(c echo.Context) error {
	var req provisionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.LocationID == "" || req.AgentKey == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "location_id and agent_key are required"})
	}
	if req.ClientID <= 0 || req.AgentID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "client_id and agent_id are required"})
	}

	hash, err := utils.HashAgentKey(req.AgentKey, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not hash agent key"})
	}
	inst := &model.Instance{
		LocationID:     req.LocationID,
		ClientID:       req.ClientID,
		ClientPassword: req.ClientPassword,
		AgentID:        req.AgentID,
		AgentPassword:  req.AgentPassword,
		PropertyID:     req.PropertyID,
		UseTraining:    req.UseTraining,
		AgentKeyHash:   hash,
	}
	if err := h.Instances.Upsert(c.Request().Context(), inst); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not store instance"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"location_id": inst.LocationID, "message": "instance provisioned"})
}
