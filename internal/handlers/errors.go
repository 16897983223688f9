package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/middleware"
)

// businessMessages traduz os códigos de negócio para o usuário final.
var businessMessages = map[string]string{
	"company_not_found":     "Barbearia não encontrada.",
	"barber_not_found":      "Barbeiro não encontrado.",
	"appointment_not_found": "Agendamento não encontrado.",
	"block_not_found":       "Bloqueio não encontrado.",
	"invalid_state":         "Este agendamento não pode mais ser alterado.",
}

// writeUseCaseError mapeia os erros dos use cases para HTTP:
// validação 422, conflito de agenda 409, negócio 400/404, resto 500.
func writeUseCaseError(c *gin.Context, log *slog.Logger, err error) {
	if ve, ok := httperr.AsValidation(err); ok {
		httperr.Validation(c, ve)
		return
	}

	var ce httperr.ConflictError
	if errors.As(err, &ce) {
		httperr.Conflict(c, ce.Code, ce.Message)
		return
	}

	if code, ok := httperr.BusinessCode(err); ok {
		msg := businessMessages[code]
		if msg == "" {
			msg = "Não foi possível concluir a operação."
		}
		if strings.HasSuffix(code, "_not_found") {
			httperr.NotFound(c, code, msg)
			return
		}
		httperr.BadRequest(c, code, msg)
		return
	}

	log.Error("unexpected error",
		"path", c.FullPath(),
		"err", err,
	)
	httperr.Write(c, http.StatusInternalServerError, "internal_error", "Erro interno. Tente novamente.")
}

func orDefault(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.Default()
	}
	return log
}

// userIDFrom devolve o usuário autenticado para a auditoria.
func userIDFrom(c *gin.Context) *uint {
	v, ok := c.Get(middleware.ContextUserID)
	if !ok {
		return nil
	}
	id, ok := v.(uint)
	if !ok {
		return nil
	}
	return &id
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// parseUintQuery aceita ausente como 0.
func parseUintQuery(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, true
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}
