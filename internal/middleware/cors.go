package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

const (
	corsAllowHeaders = "Content-Type, Authorization, X-Request-ID, X-Cron-Token"
	corsAllowMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
)

// CORSMiddleware ecoa a origem quando ela está na lista.
// Lista vazia aceita qualquer origem (ambiente de desenvolvimento).
func CORSMiddleware(allowed []string) gin.HandlerFunc {
	allowAll := len(allowed) == 0
	origins := lo.SliceToMap(allowed, func(o string) (string, struct{}) {
		return strings.TrimRight(o, "/"), struct{}{}
	})

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		_, known := origins[origin]
		if origin != "" && (allowAll || known) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			h.Set("Access-Control-Allow-Methods", corsAllowMethods)
			h.Set("Access-Control-Expose-Headers", HeaderRequestID)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
