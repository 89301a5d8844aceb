package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var blockedOrigins = []string{
	"localhost",
	"127.0.0.1",
	"192.168.",
	"10.0.",
	"172.16.",
}

// AllowOrigin admits explicitly listed origins and any origin that is not on
// a private or loopback network.
func AllowOrigin(allowed []string) func(origin string) bool {
	return func(origin string) bool {
		for _, a := range allowed {
			if a == origin {
				return true
			}
		}
		for _, b := range blockedOrigins {
			if strings.Contains(origin, b) {
				return false
			}
		}
		return true
	}
}

func CORS(allowed []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOriginFunc:  AllowOrigin(allowed),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
