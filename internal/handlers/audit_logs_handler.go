package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/httpresp"
	"github.com/BruksfildServices01/barber-agenda/internal/middleware"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

type pageParams struct {
	Page  int
	Limit int
}

func (p pageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// readPage aplica os padrões; limite fora de [1, max] volta para def.
func readPage(c *gin.Context, def, max int) pageParams {
	page, _ := strconv.Atoi(c.Query("page"))
	if page <= 0 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	if limit <= 0 || limit > max {
		limit = def
	}
	return pageParams{Page: page, Limit: limit}
}

// auditFilters monta o WHERE dos filtros opcionais (action, entity,
// entity_id e intervalo from/to em dias UTC, com "to" inclusivo).
func auditFilters(q *gorm.DB, c *gin.Context) *gorm.DB {
	for _, col := range []string{"action", "entity", "entity_id"} {
		if v := c.Query(col); v != "" {
			q = q.Where(col+" = ?", v)
		}
	}

	if from, ok := parseDay(c.Query("from")); ok {
		q = q.Where("created_at >= ?", from)
	}
	if to, ok := parseDay(c.Query("to")); ok {
		q = q.Where("created_at < ?", to.AddDate(0, 0, 1))
	}
	return q
}

func parseDay(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	return d, err == nil
}

// List devolve o histórico da empresa, mais recente primeiro.
func (h *AuditLogsHandler) List(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)
	p := readPage(c, 50, 200)

	q := auditFilters(
		h.db.WithContext(c.Request.Context()).
			Model(&models.AuditLog{}).
			Where("company_id = ?", companyID),
		c,
	)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "audit_count_failed", "Erro ao contar logs.")
		return
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Limit(p.Limit).
		Offset(p.Offset()).
		Find(&logs).Error; err != nil {

		httperr.Internal(c, "audit_list_failed", "Erro ao listar logs.")
		return
	}

	httpresp.Page(c, logs, p.Page, p.Limit, total)
}
