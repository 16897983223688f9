package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/httpresp"
	"github.com/BruksfildServices01/barber-agenda/internal/middleware"
	"github.com/BruksfildServices01/barber-agenda/internal/usecase/block"
)

type BlockHandler struct {
	registry *block.Registry
	log      *slog.Logger
}

func NewBlockHandler(registry *block.Registry, log *slog.Logger) *BlockHandler {
	return &BlockHandler{registry: registry, log: orDefault(log)}
}

type CreateBlockRequest struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	BarberID uint   `json:"barber_id"` // 0 = todos
	Reason   string `json:"reason"`
}

type BatchBlockRequest struct {
	Date   string            `json:"date"`
	Reason string            `json:"reason"`
	Items  []block.BatchItem `json:"items"`
}

func (h *BlockHandler) List(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	blocks, err := h.registry.List(c.Request.Context(), companyID, c.Query("date"))
	if err != nil {
		writeUseCaseError(c, h.log, err)
		return
	}

	httpresp.List(c, blocks)
}

func (h *BlockHandler) Create(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	var req CreateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	res, err := h.registry.Create(c.Request.Context(), block.Input{
		CompanyID: companyID,
		UserID:    userIDFrom(c),
		Date:      req.Date,
		Time:      req.Time,
		BarberID:  req.BarberID,
		Reason:    req.Reason,
	})
	if err != nil {
		writeUseCaseError(c, h.log, err)
		return
	}

	if res.Superseded {
		c.JSON(http.StatusOK, gin.H{
			"code":  "superseded_by_general",
			"block": res.Block,
		})
		return
	}

	c.JSON(http.StatusCreated, res.Block)
}

func (h *BlockHandler) Batch(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	var req BatchBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}
	if len(req.Items) == 0 {
		httperr.BadRequest(c, "empty_batch", "Informe ao menos um horário.")
		return
	}

	res, err := h.registry.CreateBatch(c.Request.Context(), block.BatchInput{
		CompanyID: companyID,
		UserID:    userIDFrom(c),
		Date:      req.Date,
		Items:     req.Items,
		Reason:    req.Reason,
	})
	if err != nil {
		writeUseCaseError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// Delete recebe o escopo por query: ?date=&time=&barber_id= (vazio = geral).
func (h *BlockHandler) Delete(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	barberID, ok := parseUintQuery(c, "barber_id")
	if !ok {
		httperr.BadRequest(c, "invalid_barber_id", "Barbeiro inválido.")
		return
	}

	err := h.registry.Delete(c.Request.Context(), block.Input{
		CompanyID: companyID,
		UserID:    userIDFrom(c),
		Date:      c.Query("date"),
		Time:      c.Query("time"),
		BarberID:  barberID,
	})
	if err != nil {
		writeUseCaseError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}
