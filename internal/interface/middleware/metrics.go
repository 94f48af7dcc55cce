package middleware

import (
	"expvar"
	"strconv"

	"github.com/gin-gonic/gin"
)

var httpRequests = expvar.NewMap("blog_http_requests")

// CountRequests tallies responses by status class (2xx, 4xx, ...).
func CountRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		httpRequests.Add(strconv.Itoa(c.Writer.Status()/100)+"xx", 1)
	}
}
