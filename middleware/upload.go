package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const maxImageSize = 5 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

// ImageUpload checks the multipart file in field and stores its header in
// the context under "image".
func ImageUpload(field string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageSize)

		fileHeader, err := c.FormFile(field)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "No image uploaded",
			})
			return
		}
		if !allowedImageTypes[fileHeader.Header.Get("Content-Type")] {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Only image files are allowed!",
			})
			return
		}

		c.Set("image", fileHeader)
		c.Next()
	}
}
