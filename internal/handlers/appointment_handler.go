package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create       *ucAppointment.CreateAppointment
	availability *ucAppointment.GetAvailability
	cancel       *ucAppointment.CancelAppointment
	complete     *ucAppointment.CompleteAppointment
	listByDate   *ucAppointment.ListAppointmentsByDate

	loc *time.Location
	log *zap.Logger
}

func NewAppointmentHandler(
	create *ucAppointment.CreateAppointment,
	availability *ucAppointment.GetAvailability,
	cancel *ucAppointment.CancelAppointment,
	complete *ucAppointment.CompleteAppointment,
	listByDate *ucAppointment.ListAppointmentsByDate,
	loc *time.Location,
	log *zap.Logger,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:       create,
		availability: availability,
		cancel:       cancel,
		complete:     complete,
		listByDate:   listByDate,
		loc:          loc,
		log:          log,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type AvailableSlotsQuery struct {
	Date            string `form:"date" binding:"required,ymd"`
	BarberID        string `form:"barberId" binding:"required"`
	ServiceDuration int    `form:"serviceDuration"`
	ServiceID       string `form:"serviceId"`
}

type CreateAppointmentRequest struct {
	BarberID  string `json:"barber_id" binding:"required"`
	ServiceID string `json:"service_id" binding:"required"`

	// YYYY-MM-DDTHH:MM[:SS], horário de parede da barbearia
	Start string `json:"start" binding:"required"`

	// Opcional: por padrão usa o nome do usuário logado.
	ClientName string `json:"client_name" binding:"max=100"`

	// Só admin: reserva em nome de outro cliente.
	ClientID string `json:"client_id"`
}

type CompleteAppointmentRequest struct {
	PaymentMethod string `json:"payment_method" binding:"payment_method"`
}

type ListAppointmentsQuery struct {
	Date     string `form:"date" binding:"required,ymd"`
	BarberID string `form:"barberId"`
}

// ======================================================
// AVAILABLE SLOTS
// ======================================================

func (h *AppointmentHandler) AvailableSlots(c *gin.Context) {
	var q AvailableSlotsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeBindError(c, err)
		return
	}

	if q.ServiceID == "" && q.ServiceDuration <= 0 {
		httperr.BadRequest(c, "invalid_duration", "Informe serviceId ou serviceDuration.")
		return
	}

	date, err := timezone.ParseDate(q.Date, h.loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		BarberID:        q.BarberID,
		ServiceID:       q.ServiceID,
		DurationMinutes: q.ServiceDuration,
		Date:            date,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, slots)
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	start, err := timezone.ParseLocalDateTime(req.Start, h.loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_start", "Data ou hora inválida.")
		return
	}

	userID := c.GetString(middleware.ContextUserID)
	clientID := userID
	clientName := req.ClientName

	if req.ClientID != "" && req.ClientID != userID {
		if !middleware.IsAdmin(c) {
			httperr.Forbidden(c, "forbidden", "Só administradores podem agendar para outro cliente.")
			return
		}
		// nome vazio: o caso de uso usa o do cadastro do cliente
		clientID = req.ClientID
	} else if clientName == "" {
		clientName = c.GetString(middleware.ContextUserName)
	}

	ap, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		ClientID:   clientID,
		ClientName: clientName,
		BarberID:   req.BarberID,
		ServiceID:  req.ServiceID,
		Start:      start,
		BookedBy:   userID,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.Created(c, dto.NewAppointmentDTO(*ap, h.loc))
}

// ======================================================
// CANCEL / COMPLETE
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	ap, err := h.cancel.Execute(c.Request.Context(), ucAppointment.CancelAppointmentInput{
		AppointmentID: c.Param("id"),
		ActorID:       c.GetString(middleware.ContextUserID),
		IsAdmin:       middleware.IsAdmin(c),
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, dto.NewAppointmentDTO(*ap, h.loc))
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	var req CompleteAppointmentRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}
	}

	ap, err := h.complete.Execute(c.Request.Context(), ucAppointment.CompleteAppointmentInput{
		AppointmentID: c.Param("id"),
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		ActorID:       c.GetString(middleware.ContextUserID),
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, dto.NewAppointmentDTO(*ap, h.loc))
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	var q ListAppointmentsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeBindError(c, err)
		return
	}

	date, err := timezone.ParseDate(q.Date, h.loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	aps, err := h.listByDate.Execute(c.Request.Context(), q.BarberID, date)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.List(c, aps)
}
