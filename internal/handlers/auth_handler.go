package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/gamenight-api/internal/auth"
	"github.com/gravadigital/gamenight-api/internal/config"
	"github.com/gravadigital/gamenight-api/internal/logger"
)

type AuthHandler struct {
	cfg *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

type LoginRequest struct {
	Passcode string `json:"passcode" binding:"required"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	if err := auth.CheckPasscode(h.cfg.Auth.HostPasscodeHash, req.Passcode); err != nil {
		logger.Handler("auth").Warn("Rejected login attempt", "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid passcode",
		})
		return
	}

	ttl := time.Duration(h.cfg.Auth.TokenTTLMinutes) * time.Minute
	token, err := auth.IssueHostToken([]byte(h.cfg.Auth.JWTSecret), ttl)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to issue token",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_at": time.Now().Add(ttl).UTC(),
	})
}
