package handlers

import (
	"errors"
	"net/http"

	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// respondError maps domain errors onto the API error payload. Validation
// messages are user-facing and pass through verbatim; storage failures
// are logged and masked.
func respondError(c *gin.Context, err error) {
	var custom *common.CustomError
	if errors.As(err, &custom) {
		c.JSON(custom.Status, common.ErrorResponse{
			Code:    custom.Code,
			Message: custom.Message,
		})
		return
	}

	switch {
	case common.IsValidationError(err):
		c.JSON(http.StatusUnprocessableEntity, common.ErrorResponse{
			Code:    common.ErrCodeValidationFailed,
			Message: err.Error(),
		})
	case common.IsAuthorizationError(err):
		c.JSON(http.StatusForbidden, common.ErrorResponse{
			Code:    common.ErrCodeForbidden,
			Message: err.Error(),
		})
	default:
		common.LogError("request failed",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{
			Code:    common.ErrCodeInternalError,
			Message: "internal server error",
		})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, common.ErrorResponse{
		Code:    common.ErrCodeInvalidRequest,
		Message: "invalid request",
		Details: err.Error(),
	})
}

// pathUUID parses a :param path segment as a UUID, answering 400 itself
// on failure.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "invalid " + name,
		})
		return uuid.Nil, false
	}
	return id, true
}
