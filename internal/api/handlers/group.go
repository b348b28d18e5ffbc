package handlers

import (
	"net/http"

	"meal-planner/internal/api/middleware"
	"meal-planner/internal/core/group"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// GroupHandler serves group lifecycle and preferences.
type GroupHandler struct {
	groups *group.Service
}

// NewGroupHandler creates a new group handler.
func NewGroupHandler(groupService *group.Service) *GroupHandler {
	return &GroupHandler{groups: groupService}
}

// Create handles POST /groups.
func (h *GroupHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, common.ErrUnauthorized)
		return
	}

	var req group.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	created, err := h.groups.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// JoinRequest carries the invite code.
type JoinRequest struct {
	InviteCode string `json:"invite_code" binding:"required"`
}

// Join handles POST /groups/join.
func (h *GroupHandler) Join(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, common.ErrUnauthorized)
		return
	}

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	joined, err := h.groups.Join(c.Request.Context(), userID, req.InviteCode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, joined)
}

// GetMine handles GET /groups/me.
func (h *GroupHandler) GetMine(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, common.ErrUnauthorized)
		return
	}

	g, err := h.groups.GetMine(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if g == nil {
		respondError(c, common.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, g)
}

// Get handles GET /groups/:groupID.
func (h *GroupHandler) Get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, common.ErrUnauthorized)
		return
	}
	groupID, ok := pathUUID(c, "groupID")
	if !ok {
		return
	}

	g, err := h.groups.Get(c.Request.Context(), groupID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// UpdatePreferences handles PATCH /groups/:groupID/preferences.
func (h *GroupHandler) UpdatePreferences(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, common.ErrUnauthorized)
		return
	}
	groupID, ok := pathUUID(c, "groupID")
	if !ok {
		return
	}

	var req group.PreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	updated, err := h.groups.UpdatePreferences(c.Request.Context(), groupID, userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
