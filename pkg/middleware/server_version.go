package middleware

import (
	"github.com/gin-gonic/gin"
)

// ServerHeader is the response header used to disclose the server version
const ServerHeader = "Server"

// ServerVersion sets the Server response header to product/version.
// An empty version discloses the product name only.
func ServerVersion(product, version string) gin.HandlerFunc {
	value := product
	if version != "" {
		value = product + "/" + version
	}
	return func(c *gin.Context) {
		c.Header(ServerHeader, value)
		c.Next()
	}
}
