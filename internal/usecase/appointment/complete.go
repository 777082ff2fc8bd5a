package appointment

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type CompleteAppointmentInput struct {
	AppointmentID string
	PaymentMethod domain.PaymentMethod
	ActorID       string
}

type CompleteAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   timezone.Clock
	loc   *time.Location
	log   *zap.Logger
}

func NewCompleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	now timezone.Clock,
	loc *time.Location,
	log *zap.Logger,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:  repo,
		audit: audit,
		now:   now,
		loc:   loc,
		log:   log.With(zap.String("usecase", "complete_appointment")),
	}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	in CompleteAppointmentInput,
) (*models.Appointment, error) {

	if in.PaymentMethod != "" && !in.PaymentMethod.Valid() {
		return nil, domain.ErrInvalidPaymentMethod
	}

	ap, err := transition(ctx, uc.repo, in.AppointmentID, func(ap *models.Appointment) error {
		return domain.Complete(ap, in.PaymentMethod, uc.now())
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  in.ActorID,
		Action:   "appointment_completed",
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]any{
			"start":            timezone.FormatLocal(ap.StartTime, uc.loc),
			"payment_method":   in.PaymentMethod,
			"price_at_booking": ap.PriceAtBooking.StringFixed(2),
		},
	})

	uc.log.Info("appointment completed",
		zap.String("appointment_id", ap.ID),
		zap.String("payment_method", string(in.PaymentMethod)),
	)

	return ap, nil
}
