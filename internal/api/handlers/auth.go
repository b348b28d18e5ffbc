package handlers

import (
	"net/http"

	"meal-planner/internal/core/auth"

	"github.com/gin-gonic/gin"
)

// AuthHandler exchanges Mini App init data for a bearer token.
type AuthHandler struct {
	auth *auth.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// LoginRequest carries the raw initData string from the Mini App.
type LoginRequest struct {
	InitData string `json:"init_data" binding:"required"`
}

// Login handles POST /auth/telegram.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	session, err := h.auth.Login(c.Request.Context(), req.InitData)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}
