package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// AppointmentDTO é o agendamento como trafega na API: o início vai como
// horário de parede da barbearia, sem offset.
type AppointmentDTO struct {
	ID         string `json:"id"`
	ClientID   string `json:"client_id"`
	ClientName string `json:"client_name"`
	BarberID   string `json:"barber_id"`
	ServiceID  string `json:"service_id"`

	Start  string `json:"start"`
	Status string `json:"status"`

	PriceAtBooking decimal.Decimal `json:"price_at_booking"`
	PaymentMethod  *string         `json:"payment_method,omitempty"`

	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func NewAppointmentDTO(ap models.Appointment, loc *time.Location) AppointmentDTO {
	return AppointmentDTO{
		ID:             ap.ID,
		ClientID:       ap.ClientID,
		ClientName:     ap.ClientName,
		BarberID:       ap.BarberID,
		ServiceID:      ap.ServiceID,
		Start:          timezone.FormatLocal(ap.StartTime, loc),
		Status:         ap.Status,
		PriceAtBooking: ap.PriceAtBooking,
		PaymentMethod:  ap.PaymentMethod,
		CancelledAt:    ap.CancelledAt,
		CompletedAt:    ap.CompletedAt,
		CreatedAt:      ap.CreatedAt,
	}
}

func NewAppointmentDTOs(aps []models.Appointment, loc *time.Location) []AppointmentDTO {
	out := make([]AppointmentDTO, 0, len(aps))
	for _, ap := range aps {
		out = append(out, NewAppointmentDTO(ap, loc))
	}
	return out
}

// ClientAppointmentsDTO é a visão do cliente: seus agendamentos e quantos
// atendimentos já foram concluídos (cartão fidelidade).
type ClientAppointmentsDTO struct {
	Appointments   []AppointmentDTO `json:"appointments"`
	CompletedCount int              `json:"completed_count"`
}
