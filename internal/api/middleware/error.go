package middleware

import (
	"fmt"
	"net/http"

	"solar-storage-sim/internal/api/models"
	"solar-storage-sim/internal/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler middleware handles panics
func ErrorHandler(log logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.Nop()
	}
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Errorf("panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)

		msg := "An unexpected error occurred"
		switch v := recovered.(type) {
		case string:
			msg = v
		case error:
			msg = v.Error()
		case fmt.Stringer:
			msg = v.String()
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INTERNAL_ERROR", Message: msg},
		})
	})
}
