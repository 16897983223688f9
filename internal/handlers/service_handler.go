package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/middleware"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Key         string          `json:"key"`
	Label       string          `json:"label"`
	Description string          `json:"description"`
	DurationMin int             `json:"duration_min"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
}

// A chave não muda depois de criada: agendamentos guardam só a chave.
type UpdateServiceRequest struct {
	Label       *string          `json:"label,omitempty"`
	Description *string          `json:"description,omitempty"`
	DurationMin *int             `json:"duration_min,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Active      *bool            `json:"active,omitempty"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	activeStr := strings.TrimSpace(c.Query("active"))

	q := h.db.Where("company_id = ?", companyID)

	switch activeStr {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}

	var services []models.Service
	if err := q.Order("duration_min ASC, key ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	c.JSON(http.StatusOK, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	service := models.Service{
		CompanyID:   companyID,
		Key:         normalizeServiceKey(req.Key),
		Label:       strings.TrimSpace(req.Label),
		Description: strings.TrimSpace(req.Description),
		DurationMin: req.DurationMin,
		Price:       req.Price,
		Category:    strings.ToLower(strings.TrimSpace(req.Category)),
		Active:      true,
	}

	if ve := validateService(&service); ve != nil {
		httperr.Validation(c, ve)
		return
	}

	if err := h.db.Create(&service).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "service_key_exists", "Já existe um serviço com essa chave.")
			return
		}
		httperr.Internal(c, "failed_to_create_service", "Erro ao criar serviço.")
		return
	}

	c.JSON(http.StatusCreated, service)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	id, ok := parseUintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Serviço inválido.")
		return
	}

	var service models.Service
	if err := h.db.
		Where("id = ? AND company_id = ?", id, companyID).
		First(&service).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "service_not_found", "Serviço não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_service", "Erro ao buscar serviço.")
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	if req.Label != nil {
		service.Label = strings.TrimSpace(*req.Label)
	}
	if req.Description != nil {
		service.Description = strings.TrimSpace(*req.Description)
	}
	if req.DurationMin != nil {
		service.DurationMin = *req.DurationMin
	}
	if req.Price != nil {
		service.Price = *req.Price
	}
	if req.Category != nil {
		service.Category = strings.ToLower(strings.TrimSpace(*req.Category))
	}
	if req.Active != nil {
		service.Active = *req.Active
	}

	if ve := validateService(&service); ve != nil {
		httperr.Validation(c, ve)
		return
	}

	if err := h.db.Save(&service).Error; err != nil {
		httperr.Internal(c, "failed_to_update_service", "Erro ao salvar serviço.")
		return
	}

	c.JSON(http.StatusOK, service)
}

// normalizeServiceKey: "Corte Barba" -> "corte_barba".
func normalizeServiceKey(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	return strings.Join(strings.Fields(key), "_")
}

func validateService(s *models.Service) *httperr.ValidationError {
	ve := &httperr.ValidationError{}

	if s.Key == "" || strings.Contains(s.Key, ",") {
		ve.Add("key", "invalid_key", "Chave do serviço inválida.")
	}
	if s.Label == "" {
		ve.Add("label", "required", "Informe o nome do serviço.")
	}
	if s.DurationMin <= 0 || s.DurationMin > 600 {
		ve.Add("duration_min", "invalid_duration", "Duração deve ser maior que zero.")
	}
	if s.Price.IsNegative() {
		ve.Add("price", "invalid_price", "Preço não pode ser negativo.")
	}

	if len(ve.Problems) == 0 {
		return nil
	}
	return ve
}
