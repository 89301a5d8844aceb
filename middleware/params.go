package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ValidateIDParams rejects the request unless every named path parameter
// that is present is a UUID.
func ValidateIDParams(names ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, name := range names {
			value, ok := c.Params.Get(name)
			if !ok {
				continue
			}
			if _, err := uuid.Parse(value); err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
					"success": false,
					"message": "Invalid Id",
				})
				return
			}
		}
		c.Next()
	}
}
