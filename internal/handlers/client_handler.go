package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/httpresp"
	"github.com/BruksfildServices01/barber-agenda/internal/middleware"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

type ClientHandler struct {
	db *gorm.DB
}

func NewClientHandler(db *gorm.DB) *ClientHandler {
	return &ClientHandler{db: db}
}

// clientSearch casa nome e rede social sem caixa; o telefone
// compara só os dígitos digitados.
func clientSearch(q *gorm.DB, term string) *gorm.DB {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return q
	}

	like := "%" + term + "%"
	digits := onlyDigits(term)
	if digits == "" {
		return q.Where("LOWER(name) LIKE ? OR LOWER(social) LIKE ?", like, like)
	}
	return q.Where(
		"LOWER(name) LIKE ? OR LOWER(social) LIKE ? OR phone LIKE ?",
		like, like, "%"+digits+"%",
	)
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// List: clientes da empresa, paginados, mais recentes primeiro.
func (h *ClientHandler) List(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)
	p := readPage(c, 100, 500)

	q := clientSearch(
		h.db.WithContext(c.Request.Context()).
			Model(&models.Client{}).
			Where("company_id = ?", companyID),
		c.Query("query"),
	)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_count_clients", "Erro ao contar clientes.")
		return
	}

	var clients []models.Client
	if err := q.
		Order("created_at DESC").
		Limit(p.Limit).
		Offset(p.Offset()).
		Find(&clients).Error; err != nil {

		httperr.Internal(c, "failed_to_list_clients", "Erro ao listar clientes.")
		return
	}

	httpresp.Page(c, clients, p.Page, p.Limit, total)
}
