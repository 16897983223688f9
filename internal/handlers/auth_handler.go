package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-agenda/internal/config"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/middleware"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
	"github.com/BruksfildServices01/barber-agenda/internal/timezone"
	"github.com/BruksfildServices01/barber-agenda/internal/validators"
)

type AuthHandler struct {
	db       *gorm.DB
	config   *config.Config
	resolver validators.Resolver
	log      *slog.Logger
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, log *slog.Logger) *AuthHandler {
	return &AuthHandler{db: db, config: cfg, log: orDefault(log)}
}

// --------- Requests ---------

type RegisterRequest struct {
	CompanyName    string `json:"company_name" binding:"required"`
	CompanySlug    string `json:"company_slug" binding:"required"`
	CompanyPhone   string `json:"company_phone"`
	CompanyAddress string `json:"company_address"`
	Timezone       string `json:"timezone"`

	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.CompanySlug))
	if !validators.IsValidSlug(slug) {
		httperr.BadRequest(c, "invalid_slug", "Use apenas letras minúsculas, números e hífen.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.IsEmailDomainValid(c.Request.Context(), h.resolver, email) {
		httperr.BadRequest(c, "invalid_email_domain", "O domínio do e-mail informado não parece ser válido.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Erro ao processar a senha.")
		return
	}

	company := models.Company{
		Name:    strings.TrimSpace(req.CompanyName),
		Slug:    slug,
		Phone:   strings.TrimSpace(req.CompanyPhone),
		Address: strings.TrimSpace(req.CompanyAddress),
	}
	if tz := strings.TrimSpace(req.Timezone); tz != "" {
		if !timezone.IsValid(tz) {
			httperr.BadRequest(c, "invalid_timezone", "Fuso horário inválido.")
			return
		}
		company.Timezone = tz
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         "owner",
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&company).Error; err != nil {
			return err
		}
		user.CompanyID = company.ID
		return tx.Create(&user).Error
	})
	if err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "already_registered", "Slug ou e-mail já cadastrado.")
			return
		}
		h.log.Error("register failed", "slug", slug, "err", err)
		httperr.Internal(c, "failed_to_register", "Erro ao criar a conta.")
		return
	}

	token, err := middleware.IssueToken(h.config, user.ID, company.ID, user.Role, time.Now())
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao gerar o token.")
		return
	}

	user.Company = company
	c.JSON(http.StatusCreated, authResponse(&user, token))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Company").
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "E-mail ou senha inválidos.")
			return
		}
		httperr.Internal(c, "internal_error", "Erro interno. Tente novamente.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "E-mail ou senha inválidos.")
		return
	}

	token, err := middleware.IssueToken(h.config, user.ID, user.CompanyID, user.Role, time.Now())
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao gerar o token.")
		return
	}

	c.JSON(http.StatusOK, authResponse(&user, token))
}

func authResponse(user *models.User, token string) gin.H {
	return gin.H{
		"user":    userJSON(user),
		"company": companyJSON(&user.Company),
		"token":   token,
	}
}

func userJSON(user *models.User) gin.H {
	return gin.H{
		"id":         user.ID,
		"name":       user.Name,
		"email":      user.Email,
		"phone":      user.Phone,
		"role":       user.Role,
		"company_id": user.CompanyID,
	}
}

func companyJSON(company *models.Company) gin.H {
	return gin.H{
		"id":       company.ID,
		"name":     company.Name,
		"slug":     company.Slug,
		"phone":    company.Phone,
		"address":  company.Address,
		"timezone": company.Timezone,
	}
}
