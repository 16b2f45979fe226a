package handlers

import (
	"net/http"

	"github.com/creativehub205/ladies-tailor-shop/api/middleware"
	"github.com/creativehub205/ladies-tailor-shop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AuthHandler handles login and logout
type AuthHandler struct {
	service service.Service
	log     *logrus.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(svc service.Service, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		service: svc,
		log:     log,
	}
}

// Login exchanges credentials for a session token
func (h *AuthHandler) Login(c *gin.Context) {
	var in service.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, ErrInvalidRequest, h.log)
		return
	}

	result, err := h.service.Login(c.Request.Context(), in)
	if err != nil {
		RespondError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": result.Token,
		"tailor": gin.H{
			"id":        result.Tailor.ID,
			"username":  result.Tailor.Username,
			"shop_name": result.Tailor.ShopName,
		},
	})
}

// Logout revokes the token the request was made with
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		RespondError(c, ErrTokenRequired, h.log)
		return
	}

	if err := h.service.Logout(c.Request.Context(), claims); err != nil {
		RespondError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
