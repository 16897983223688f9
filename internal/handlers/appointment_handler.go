package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-agenda/internal/domain/scheduling"
	"github.com/BruksfildServices01/barber-agenda/internal/dto"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/httpresp"
	"github.com/BruksfildServices01/barber-agenda/internal/middleware"
	"github.com/BruksfildServices01/barber-agenda/internal/usecase/appointment"
)

type AppointmentHandler struct {
	create       *appointment.CreateInternalAppointment
	cancel       *appointment.CancelAppointment
	listByDate   *appointment.ListAppointmentsByDate
	listByMonth  *appointment.ListAppointmentsByMonth
	calendar     *appointment.GetCalendar
	availability *appointment.GetAvailability
	log          *slog.Logger
}

func NewAppointmentHandler(d appointment.Deps) *AppointmentHandler {
	d.Log = orDefault(d.Log)
	return &AppointmentHandler{
		create:       appointment.NewCreateInternalAppointment(d),
		cancel:       appointment.NewCancelAppointment(d.Repo, d.Audit),
		listByDate:   appointment.NewListAppointmentsByDate(d.Repo),
		listByMonth:  appointment.NewListAppointmentsByMonth(d.Repo),
		calendar:     appointment.NewGetCalendar(d.Repo, d.Log),
		availability: appointment.NewGetAvailability(d.Repo, d.Metrics, d.Log),
		log:          d.Log,
	}
}

type CreateAppointmentRequest struct {
	BarberID       uint     `json:"barber_id"`
	Date           string   `json:"date"`
	Time           string   `json:"time"`
	Services       []string `json:"services"`
	CustomerName   string   `json:"customer_name"`
	CustomerPhone  string   `json:"customer_phone"`
	CustomerSocial string   `json:"customer_social"`
	Notes          string   `json:"notes"`
}

// ======================================================
// CREATE (CAMINHO INTERNO)
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), appointment.BookingInput{
		CompanyID:      companyID,
		BarberID:       req.BarberID,
		Date:           req.Date,
		Time:           req.Time,
		Services:       req.Services,
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		CustomerSocial: req.CustomerSocial,
		Notes:          req.Notes,
		UserID:         userIDFrom(c),
	})
	if err != nil {
		writeUseCaseError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromAppointment(*ap))
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	barberID, ok := parseUintQuery(c, "barber_id")
	if !ok {
		httperr.BadRequest(c, "invalid_barber_id", "Barbeiro inválido.")
		return
	}

	items, err := h.listByDate.Execute(c.Request.Context(), companyID, barberID, c.Query("date"))
	if err != nil {
		writeUseCaseError(c, h.log, err)
		return
	}

	httpresp.List(c, items)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	yearStr := c.Query("year")
	monthStr := c.Query("month")

	if yearStr == "" || monthStr == "" {
		httperr.BadRequest(c, "missing_year_or_month", "Ano e mês são obrigatórios.")
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_year", "Ano inválido.")
		return
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_month", "Mês inválido.")
		return
	}

	barberID, ok := parseUintQuery(c, "barber_id")
	if !ok {
		httperr.BadRequest(c, "invalid_barber_id", "Barbeiro inválido.")
		return
	}

	items, err := h.listByMonth.Execute(c.Request.Context(), companyID, barberID, year, month)
	if err != nil {
		writeUseCaseError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": items,
	})
}

// ======================================================
// CANCEL
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	id, ok := parseUintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Agendamento inválido.")
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), companyID, userIDFrom(c), id)
	if err != nil {
		writeUseCaseError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromAppointment(*ap))
}

// ======================================================
// CALENDAR + AVAILABILITY
// ======================================================

func (h *AppointmentHandler) Calendar(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	view, err := h.calendar.Execute(c.Request.Context(), companyID, c.Query("date"))
	if err != nil {
		writeUseCaseError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *AppointmentHandler) Availability(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	view, err := h.availability.Execute(c.Request.Context(), appointment.AvailabilityInput{
		CompanyID: companyID,
		Date:      c.Query("date"),
		Services:  scheduling.SplitKeys(c.Query("services")),
	})
	if err != nil {
		writeUseCaseError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, view)
}
