package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"BidSentinel/internal/api/models"
)

// ErrorHandler middleware handles panics and errors
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		message := "An unexpected error occurred"
		if err, ok := recovered.(string); ok {
			message = err
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INTERNAL_ERROR", Message: message},
		})
	})
}

// NotFound answers unknown routes in the API error shape.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, models.ErrorResponse{
		Error: models.ErrorDetail{Code: "NOT_FOUND", Message: "Not found"},
	})
}
