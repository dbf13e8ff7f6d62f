package usage

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resumematch-backend/internal/shared/server/middleware"
	"resumematch-backend/internal/shared/server/respond"
)

// Handler exposes usage endpoints.
type Handler struct {
	Svc *Service
	// AllowReset exposes the development-only reset endpoint.
	AllowReset bool
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, allowReset bool) *Handler {
	return &Handler{Svc: svc, AllowReset: allowReset}
}

// RegisterRoutes attaches usage routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/usage", h.getUsage)
	rg.POST("/usage/upgrade", h.upgrade)
	if h.AllowReset {
		rg.POST("/usage/reset", h.reset)
	}
}

func (h *Handler) getUsage(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	u, err := h.Svc.Get(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch usage", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"plan":      u.Plan,
		"limit":     u.Limit,
		"used":      u.Used,
		"remaining": u.Remaining(),
		"unlimited": u.Unlimited(),
	})
}

// upgrade runs the demo checkout: no real payment provider, a synthetic
// payment reference is recorded and the plan flips to pro.
func (h *Handler) upgrade(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	paymentID := fmt.Sprintf("pay_demo_%d", time.Now().Unix())
	u, err := h.Svc.Upgrade(c.Request.Context(), userID, paymentID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to upgrade plan", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"plan":      u.Plan,
		"paymentId": u.PaymentID,
	})
}

func (h *Handler) reset(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	u, err := h.Svc.Reset(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to reset usage", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"plan": u.Plan,
		"used": u.Used,
	})
}
