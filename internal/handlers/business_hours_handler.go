package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/middleware"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

type BusinessHoursHandler struct {
	db *gorm.DB
}

func NewBusinessHoursHandler(db *gorm.DB) *BusinessHoursHandler {
	return &BusinessHoursHandler{db: db}
}

type BusinessDayConfig struct {
	Weekday   int    `json:"weekday"`
	Closed    bool   `json:"closed"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

type BusinessHoursUpdateRequest struct {
	Days []BusinessDayConfig `json:"days" binding:"required"`
}

func (h *BusinessHoursHandler) Get(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	var hours []models.BusinessHours
	if err := h.db.
		Where("company_id = ?", companyID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {

		httperr.Internal(c, "failed_to_get_business_hours", "Erro ao buscar horários.")
		return
	}

	c.JSON(http.StatusOK, hours)
}

// Update grava por dia da semana; dias não enviados continuam como estão.
func (h *BusinessHoursHandler) Update(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	var req BusinessHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	rows, ve := businessHoursRows(companyID, req.Days)
	if ve != nil {
		httperr.Validation(c, ve)
		return
	}

	if len(rows) > 0 {
		err := h.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "company_id"}, {Name: "weekday"}},
			DoUpdates: clause.AssignmentColumns([]string{"open_time", "close_time", "closed", "updated_at"}),
		}).Create(&rows).Error
		if err != nil {
			httperr.Internal(c, "failed_to_save_business_hours", "Erro ao salvar horários.")
			return
		}
	}

	h.Get(c)
}

func businessHoursRows(companyID uint, days []BusinessDayConfig) ([]models.BusinessHours, *httperr.ValidationError) {
	ve := &httperr.ValidationError{}
	seen := map[int]bool{}
	rows := make([]models.BusinessHours, 0, len(days))

	for i, d := range days {
		field := fmt.Sprintf("days[%d]", i)

		if d.Weekday < 0 || d.Weekday > 6 {
			ve.Add(field+".weekday", "invalid_weekday", "Dia da semana deve ser de 0 (domingo) a 6.")
			continue
		}
		if seen[d.Weekday] {
			ve.Add(field+".weekday", "duplicate_weekday", "Dia da semana repetido.")
			continue
		}
		seen[d.Weekday] = true

		row := models.BusinessHours{
			CompanyID: companyID,
			Weekday:   d.Weekday,
			Closed:    d.Closed,
		}
		if !d.Closed {
			row.OpenTime = strings.TrimSpace(d.OpenTime)
			row.CloseTime = strings.TrimSpace(d.CloseTime)
			validateHours(ve, field+".open_time", field+".close_time", row.OpenTime, row.CloseTime)
		}
		rows = append(rows, row)
	}

	if len(ve.Problems) > 0 {
		return nil, ve
	}
	return rows, nil
}
