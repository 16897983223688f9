package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
)

const HeaderCronToken = "X-Cron-Token"

// CronToken libera os gatilhos internos (cron, automações) por segredo
// compartilhado. Token vazio na configuração desliga as rotas.
func CronToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			httperr.Abort(c, http.StatusNotFound, "not_found", "Rota não encontrada.")
			return
		}

		got := c.GetHeader(HeaderCronToken)
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_cron_token", "Token inválido.")
			return
		}

		c.Next()
	}
}
