package appointment

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Cancel(ap *models.Appointment, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	return nil
}

// Complete conclui o atendimento. O método de pagamento é opcional, mas se
// informado precisa ser um dos aceitos no balcão.
func Complete(ap *models.Appointment, method PaymentMethod, now time.Time) error {
	if method != "" && !method.Valid() {
		return ErrInvalidPaymentMethod
	}
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	if method != "" {
		m := string(method)
		ap.PaymentMethod = &m
	}
	return nil
}
