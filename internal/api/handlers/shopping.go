package handlers

import (
	"net/http"

	"meal-planner/internal/api/middleware"
	"meal-planner/internal/core/shopping"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// ShoppingHandler serves the aggregated list and the manual lines in it.
type ShoppingHandler struct {
	shopping *shopping.Service
}

// NewShoppingHandler creates a new shopping list handler.
func NewShoppingHandler(shoppingService *shopping.Service) *ShoppingHandler {
	return &ShoppingHandler{shopping: shoppingService}
}

// List handles GET /groups/:groupID/shopping-list.
func (h *ShoppingHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, common.ErrUnauthorized)
		return
	}
	groupID, ok := pathUUID(c, "groupID")
	if !ok {
		return
	}

	list, err := h.shopping.List(c.Request.Context(), groupID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ListManual handles GET /groups/:groupID/ingredients.
func (h *ShoppingHandler) ListManual(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, common.ErrUnauthorized)
		return
	}
	groupID, ok := pathUUID(c, "groupID")
	if !ok {
		return
	}

	items, err := h.shopping.ListManual(c.Request.Context(), groupID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": items, "count": len(items)})
}

// AddManual handles POST /groups/:groupID/ingredients.
func (h *ShoppingHandler) AddManual(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, common.ErrUnauthorized)
		return
	}
	groupID, ok := pathUUID(c, "groupID")
	if !ok {
		return
	}

	var req shopping.ManualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	item, err := h.shopping.AddManual(c.Request.Context(), groupID, userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateManual handles PATCH /manual-ingredients/:itemID.
func (h *ShoppingHandler) UpdateManual(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, common.ErrUnauthorized)
		return
	}
	itemID, ok := pathUUID(c, "itemID")
	if !ok {
		return
	}

	var req shopping.ManualUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	item, err := h.shopping.UpdateManual(c.Request.Context(), itemID, userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteManual handles DELETE /manual-ingredients/:itemID.
func (h *ShoppingHandler) DeleteManual(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, common.ErrUnauthorized)
		return
	}
	itemID, ok := pathUUID(c, "itemID")
	if !ok {
		return
	}

	if err := h.shopping.DeleteManual(c.Request.Context(), itemID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
