package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-agenda/internal/domain/scheduling"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/middleware"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
	"github.com/BruksfildServices01/barber-agenda/internal/timezone"
)

type CompanyHandler struct {
	db *gorm.DB
}

func NewCompanyHandler(db *gorm.DB) *CompanyHandler {
	return &CompanyHandler{db: db}
}

type UpdateCompanyRequest struct {
	Name        *string `json:"name"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	Timezone    *string `json:"timezone"`
	OpenTime    *string `json:"open_time"`
	CloseTime   *string `json:"close_time"`
	SlotMinutes *int    `json:"slot_minutes"`
}

func (h *CompanyHandler) Get(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	var company models.Company
	if err := h.db.First(&company, companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "company_not_found", "Barbearia não encontrada.")
			return
		}
		httperr.Internal(c, "failed_to_get_company", "Erro ao buscar dados da barbearia.")
		return
	}

	c.JSON(http.StatusOK, company)
}

func (h *CompanyHandler) Update(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	var company models.Company
	if err := h.db.First(&company, companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "company_not_found", "Barbearia não encontrada.")
			return
		}
		httperr.Internal(c, "failed_to_get_company", "Erro ao buscar dados da barbearia.")
		return
	}

	var req UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	if err := applyCompanyUpdate(&company, req); err != nil {
		httperr.Validation(c, err)
		return
	}

	if err := h.db.Save(&company).Error; err != nil {
		httperr.Internal(c, "failed_to_update_company", "Erro ao salvar as configurações da barbearia.")
		return
	}

	c.JSON(http.StatusOK, company)
}

// applyCompanyUpdate valida o conjunto final de horários, não só os campos enviados.
func applyCompanyUpdate(company *models.Company, req UpdateCompanyRequest) *httperr.ValidationError {
	ve := &httperr.ValidationError{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			ve.Add("name", "required", "Informe o nome da barbearia.")
		}
		company.Name = name
	}
	if req.Phone != nil {
		company.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		company.Address = strings.TrimSpace(*req.Address)
	}
	if req.Timezone != nil {
		tz := strings.TrimSpace(*req.Timezone)
		if !timezone.IsValid(tz) {
			ve.Add("timezone", "invalid_timezone", "Fuso horário inválido.")
		}
		company.Timezone = tz
	}
	if req.OpenTime != nil {
		company.OpenTime = strings.TrimSpace(*req.OpenTime)
	}
	if req.CloseTime != nil {
		company.CloseTime = strings.TrimSpace(*req.CloseTime)
	}
	if req.SlotMinutes != nil {
		if *req.SlotMinutes < 5 || *req.SlotMinutes > 240 {
			ve.Add("slot_minutes", "invalid_interval", "Intervalo deve ficar entre 5 e 240 minutos.")
		}
		company.SlotMinutes = *req.SlotMinutes
	}

	validateHours(ve, "open_time", "close_time", company.OpenTime, company.CloseTime)

	if len(ve.Problems) == 0 {
		return nil
	}
	return ve
}

func validateHours(ve *httperr.ValidationError, openField, closeField, open, close string) {
	o, okOpen := scheduling.ParseHM(open)
	if !okOpen {
		ve.Add(openField, "invalid_time", "Horário de abertura inválido.")
	}
	cl, okClose := scheduling.ParseHM(close)
	if !okClose {
		ve.Add(closeField, "invalid_time", "Horário de fechamento inválido.")
	}
	if okOpen && okClose && cl <= o {
		ve.Add(closeField, "close_before_open", "Fechamento deve ser depois da abertura.")
	}
}
