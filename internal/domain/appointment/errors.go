package appointment

import (
	"errors"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

// Falhas de negócio: esperadas, devolvidas ao cliente, não logadas como erro.
var (
	ErrServiceNotFound      = httperr.ErrBusiness("service_not_found")
	ErrBarberNotFound       = httperr.ErrBusiness("barber_not_found")
	ErrClientNotFound       = httperr.ErrBusiness("client_not_found")
	ErrSlotUnavailable      = httperr.ErrBusiness("slot_unavailable")
	ErrPastBooking          = httperr.ErrBusiness("past_booking")
	ErrInvalidDuration      = httperr.ErrBusiness("invalid_duration")
	ErrInvalidInput         = httperr.ErrBusiness("invalid_input")
	ErrInvalidState         = httperr.ErrBusiness("invalid_state")
	ErrInvalidPaymentMethod = httperr.ErrBusiness("invalid_payment_method")
	ErrAppointmentNotFound  = httperr.ErrBusiness("appointment_not_found")
)

// ErrScheduleBusy indica que a agenda do barbeiro ficou travada além do
// tempo limite. É temporário: a mesma requisição pode ser repetida.
var ErrScheduleBusy = errors.New("barber schedule busy")

// ErrNotFound é o retorno dos repositórios quando o registro não existe.
var ErrNotFound = errors.New("record not found")
