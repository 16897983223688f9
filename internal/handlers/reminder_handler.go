package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-agenda/internal/usecase/reminder"
)

type ReminderHandler struct {
	run     *reminder.RunReminders
	timeout time.Duration
	log     *slog.Logger
}

func NewReminderHandler(run *reminder.RunReminders, timeout time.Duration, log *slog.Logger) *ReminderHandler {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &ReminderHandler{run: run, timeout: timeout, log: orDefault(log)}
}

// Run dispara uma passada de lembretes; chamado pelo cron externo.
func (h *ReminderHandler) Run(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	res, err := h.run.Execute(ctx)
	if err != nil {
		writeUseCaseError(c, h.log, err)
		return
	}

	status := http.StatusOK
	if res.AlreadyRunning {
		status = http.StatusAccepted
	}
	c.JSON(status, res)
}
