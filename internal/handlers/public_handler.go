package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-agenda/internal/domain/scheduling"
	"github.com/BruksfildServices01/barber-agenda/internal/dto"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/usecase/appointment"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	catalog      *appointment.GetCatalog
	availability *appointment.GetAvailability
	barberSlots  *appointment.GetBarberAvailability
	book         *appointment.BookAppointment
	log          *slog.Logger
}

func NewPublicHandler(d appointment.Deps) *PublicHandler {
	d.Log = orDefault(d.Log)
	return &PublicHandler{
		catalog:      appointment.NewGetCatalog(d.Repo, d.Log),
		availability: appointment.NewGetAvailability(d.Repo, d.Metrics, d.Log),
		barberSlots:  appointment.NewGetBarberAvailability(d.Repo, d.Metrics, d.Log),
		book:         appointment.NewBookAppointment(d),
		log:          d.Log,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateAppointmentRequest struct {
	BarberID       uint     `json:"barber_id"`
	Date           string   `json:"date"` // YYYY-MM-DD
	Time           string   `json:"time"` // HH:MM
	Services       []string `json:"services"`
	CustomerName   string   `json:"customer_name"`
	CustomerPhone  string   `json:"customer_phone"`
	CustomerSocial string   `json:"customer_social"`
	Notes          string   `json:"notes"`
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	view, err := h.catalog.Execute(c.Request.Context(), 0, c.Param("slug"))
	if err != nil {
		writeUseCaseError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	view, err := h.availability.Execute(c.Request.Context(), appointment.AvailabilityInput{
		Slug:     c.Param("slug"),
		Date:     c.Query("date"),
		Services: scheduling.SplitKeys(c.Query("services")),
	})
	if err != nil {
		writeUseCaseError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *PublicHandler) BarberAvailability(c *gin.Context) {
	barbers, err := h.barberSlots.Execute(c.Request.Context(), appointment.AvailabilityInput{
		Slug:     c.Param("slug"),
		Date:     c.Query("date"),
		Time:     c.Query("time"),
		Services: scheduling.SplitKeys(c.Query("services")),
	})
	if err != nil {
		writeUseCaseError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":    c.Query("date"),
		"time":    c.Query("time"),
		"barbers": barbers,
	})
}

////////////////////////////////////////////////////////
// CREATE APPOINTMENT (CLIENTE)
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	var req PublicCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.book.Execute(c.Request.Context(), appointment.BookingInput{
		Slug:           c.Param("slug"),
		BarberID:       req.BarberID,
		Date:           req.Date,
		Time:           req.Time,
		Services:       req.Services,
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		CustomerSocial: req.CustomerSocial,
		Notes:          req.Notes,
	})
	if err != nil {
		writeUseCaseError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromAppointment(*ap))
}
