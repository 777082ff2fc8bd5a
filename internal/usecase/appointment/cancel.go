package appointment

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type CancelAppointmentInput struct {
	AppointmentID string

	// Quem pede o cancelamento. Cliente só cancela o próprio agendamento.
	ActorID string
	IsAdmin bool
}

type CancelAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   timezone.Clock
	loc   *time.Location
	log   *zap.Logger
}

func NewCancelAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	now timezone.Clock,
	loc *time.Location,
	log *zap.Logger,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		audit: audit,
		now:   now,
		loc:   loc,
		log:   log.With(zap.String("usecase", "cancel_appointment")),
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	in CancelAppointmentInput,
) (*models.Appointment, error) {

	ap, err := transition(ctx, uc.repo, in.AppointmentID, func(ap *models.Appointment) error {
		// não revela a existência de agendamentos de outros clientes
		if !in.IsAdmin && ap.ClientID != in.ActorID {
			return domain.ErrAppointmentNotFound
		}
		return domain.Cancel(ap, uc.now())
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  in.ActorID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]any{
			"barber_id": ap.BarberID,
			"start":     timezone.FormatLocal(ap.StartTime, uc.loc),
		},
	})

	uc.log.Info("appointment cancelled",
		zap.String("appointment_id", ap.ID),
		zap.String("actor_id", in.ActorID),
	)

	return ap, nil
}

// transition relê o agendamento sob o lock do barbeiro, aplica change e
// grava.
func transition(
	ctx context.Context,
	repo domain.Repository,
	appointmentID string,
	change func(ap *models.Appointment) error,
) (*models.Appointment, error) {

	current, err := repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, err
	}

	var out *models.Appointment

	err = repo.Atomically(ctx, current.BarberID, func(tx domain.Repository) error {
		ap, err := tx.GetAppointment(ctx, appointmentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrAppointmentNotFound
			}
			return err
		}

		if err := change(ap); err != nil {
			return err
		}

		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}

		out = ap
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}
