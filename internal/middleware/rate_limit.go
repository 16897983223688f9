package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
)

// Limiter conta pedidos por chave numa janela.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit protege as rotas públicas por IP e slug. Sem limiter é no-op;
// com o Redis fora do ar o pedido passa e o erro vai para o log.
func RateLimit(limiter Limiter, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		key := c.ClientIP() + ":" + c.Param("slug")

		ok, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Warn("rate limiter unavailable", "err", err)
			c.Next()
			return
		}
		if !ok {
			httperr.Abort(c, http.StatusTooManyRequests, "rate_limited", "Muitas tentativas. Aguarde um minuto.")
			return
		}

		c.Next()
	}
}
