package handlers

import (
	"net/http"
	"time"

	"meal-planner/internal/api/middleware"
	"meal-planner/internal/core/ai"
	"meal-planner/internal/core/dish"
	"meal-planner/internal/models"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// DishHandler serves the dish lifecycle.
type DishHandler struct {
	dishes *dish.Service
}

// NewDishHandler creates a new dish handler.
func NewDishHandler(dishService *dish.Service) *DishHandler {
	return &DishHandler{dishes: dishService}
}

// CreateDishResponse pairs the stored dish with the outcome of its AI
// resolution so the client can explain a missing recipe.
type CreateDishResponse struct {
	Dish      *models.Dish `json:"dish"`
	AIStatus  ai.Status    `json:"ai_status"`
	FromCache bool         `json:"from_cache"`
}

// Create handles POST /groups/:groupID/dishes. A not-food rejection
// answers 422 with the model's message; any other generation failure
// still answers 201, just without recipe and ingredients.
func (h *DishHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, common.ErrUnauthorized)
		return
	}
	groupID, ok := pathUUID(c, "groupID")
	if !ok {
		return
	}

	var req dish.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.dishes.Create(c.Request.Context(), groupID, userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateDishResponse{
		Dish:      result.Dish,
		AIStatus:  result.Resolution.Status,
		FromCache: result.Resolution.FromCache,
	})
}

// List handles GET /groups/:groupID/dishes with optional from/to date
// bounds in RFC 3339.
func (h *DishHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, common.ErrUnauthorized)
		return
	}
	groupID, ok := pathUUID(c, "groupID")
	if !ok {
		return
	}

	from, ok := queryTime(c, "from")
	if !ok {
		return
	}
	to, ok := queryTime(c, "to")
	if !ok {
		return
	}

	dishes, err := h.dishes.List(c.Request.Context(), groupID, userID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dishes": dishes, "count": len(dishes)})
}

// Get handles GET /dishes/:dishID.
func (h *DishHandler) Get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, common.ErrUnauthorized)
		return
	}
	dishID, ok := pathUUID(c, "dishID")
	if !ok {
		return
	}

	d, err := h.dishes.Get(c.Request.Context(), dishID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// Update handles PATCH /dishes/:dishID.
func (h *DishHandler) Update(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, common.ErrUnauthorized)
		return
	}
	dishID, ok := pathUUID(c, "dishID")
	if !ok {
		return
	}

	var req dish.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	updated, err := h.dishes.Update(c.Request.Context(), dishID, userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /dishes/:dishID.
func (h *DishHandler) Delete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, common.ErrUnauthorized)
		return
	}
	dishID, ok := pathUUID(c, "dishID")
	if !ok {
		return
	}

	if err := h.dishes.Delete(c.Request.Context(), dishID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PurchasedRequest toggles one ingredient line.
type PurchasedRequest struct {
	Purchased *bool `json:"purchased" binding:"required"`
}

// SetIngredientPurchased handles PATCH /ingredients/:ingredientID.
func (h *DishHandler) SetIngredientPurchased(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, common.ErrUnauthorized)
		return
	}
	ingredientID, ok := pathUUID(c, "ingredientID")
	if !ok {
		return
	}

	var req PurchasedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	updated, err := h.dishes.SetIngredientPurchased(c.Request.Context(), ingredientID, userID, *req.Purchased)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func queryTime(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "invalid " + name + " timestamp",
		})
		return nil, false
	}
	return &t, true
}
