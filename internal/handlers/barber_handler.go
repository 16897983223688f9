package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/messaging"
	"github.com/BruksfildServices01/barber-agenda/internal/middleware"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

type BarberHandler struct {
	db *gorm.DB
}

func NewBarberHandler(db *gorm.DB) *BarberHandler {
	return &BarberHandler{db: db}
}

type CreateBarberRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
}

type UpdateBarberRequest struct {
	Name   *string `json:"name,omitempty"`
	Phone  *string `json:"phone,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

func (h *BarberHandler) List(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	q := h.db.Where("company_id = ?", companyID)
	if c.Query("active") == "true" {
		q = q.Where("active = ?", true)
	}

	var barbers []models.Barber
	if err := q.Order("id ASC").Find(&barbers).Error; err != nil {
		httperr.Internal(c, "failed_to_list_barbers", "Erro ao listar barbeiros.")
		return
	}

	c.JSON(http.StatusOK, barbers)
}

func (h *BarberHandler) Create(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	var req CreateBarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		httperr.BadRequest(c, "invalid_name", "Informe o nome do barbeiro.")
		return
	}

	phone, ok := barberPhone(c, req.Phone)
	if !ok {
		return
	}

	barber := models.Barber{
		CompanyID: companyID,
		Name:      name,
		Phone:     phone,
		Active:    true,
	}

	if err := h.db.Create(&barber).Error; err != nil {
		httperr.Internal(c, "failed_to_create_barber", "Erro ao cadastrar barbeiro.")
		return
	}

	c.JSON(http.StatusCreated, barber)
}

// Update não apaga: desativar tira o barbeiro da disponibilidade
// e mantém os agendamentos existentes.
func (h *BarberHandler) Update(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	id, ok := parseUintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Barbeiro inválido.")
		return
	}

	var barber models.Barber
	if err := h.db.
		Where("id = ? AND company_id = ?", id, companyID).
		First(&barber).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "barber_not_found", "Barbeiro não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_barber", "Erro ao buscar barbeiro.")
		return
	}

	var req UpdateBarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.BadRequest(c, "invalid_name", "Informe o nome do barbeiro.")
			return
		}
		barber.Name = name
	}
	if req.Phone != nil {
		phone, ok := barberPhone(c, *req.Phone)
		if !ok {
			return
		}
		barber.Phone = phone
	}
	if req.Active != nil {
		barber.Active = *req.Active
	}

	if err := h.db.Save(&barber).Error; err != nil {
		httperr.Internal(c, "failed_to_update_barber", "Erro ao salvar barbeiro.")
		return
	}

	c.JSON(http.StatusOK, barber)
}

// barberPhone aceita vazio; se informado, grava em E.164.
func barberPhone(c *gin.Context, raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", true
	}
	phone, err := messaging.NormalizePhone(raw)
	if err != nil {
		httperr.BadRequest(c, "invalid_phone", "Telefone inválido.")
		return "", false
	}
	return phone, true
}
