package apikey

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HeaderName carries the public API key issued to the web client.
const HeaderName = "apikey"

// Middleware rejects requests that do not present the configured public key.
// An empty key disables the check.
func Middleware(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		presented := c.GetHeader(HeaderName)
		if presented == "" {
			presented = c.Query(HeaderName)
		}
		if subtle.ConstantTimeCompare([]byte(presented), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{
				"code":    "INVALID_API_KEY",
				"message": "missing or invalid api key",
				"status":  http.StatusUnauthorized,
			}})
			return
		}
		c.Next()
	}
}
