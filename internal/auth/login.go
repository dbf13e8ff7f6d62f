package auth

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	sharedauth "resumematch-backend/internal/shared/auth"
	"resumematch-backend/internal/shared/server/respond"
	"resumematch-backend/internal/shared/telemetry"
)

// Service handles credential login against the configured account.
type Service struct {
	user string
	pass string
}

// NewService builds a login Service for the configured credentials.
func NewService(user, pass string) *Service {
	return &Service{user: user, pass: pass}
}

// RegisterRoutes attaches auth routes.
func (s *Service) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", s.login)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Service) login(c *gin.Context) {
	if s.user == "" || s.pass == "" {
		respond.Error(c, http.StatusInternalServerError, "auth_not_configured", "login not configured", nil)
		return
	}

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.user)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.pass)) == 1
	if !userOK || !passOK {
		telemetry.Info("auth.login_failed", map[string]any{"username": req.Username})
		respond.Error(c, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password", nil)
		return
	}

	token, err := sharedauth.SignJWT(sharedauth.Claims{
		Sub:  "user:" + req.Username,
		Name: req.Username,
		Exp:  time.Now().UTC().Add(24 * time.Hour).Unix(),
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue token", nil)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"userId": "user:" + req.Username,
			"name":   req.Username,
		},
	})
}
