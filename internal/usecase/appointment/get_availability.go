package appointment

import (
	"context"
	"errors"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type GetAvailability struct {
	repo domain.Repository
	now  timezone.Clock
}

func NewGetAvailability(repo domain.Repository, now timezone.Clock) *GetAvailability {
	return &GetAvailability{repo: repo, now: now}
}

// Execute devolve os horários livres do barbeiro no dia. Quando ServiceID
// vem preenchido, a duração atual do serviço substitui DurationMinutes.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]string, error) {

	duration := in.DurationMinutes

	if in.ServiceID != "" {
		service, err := uc.repo.GetService(ctx, in.ServiceID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrServiceNotFound
			}
			return nil, err
		}
		duration = service.DurationMinutes
	}

	if duration <= 0 {
		return nil, domain.ErrInvalidDuration
	}

	if _, err := uc.repo.GetBarber(ctx, in.BarberID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrBarberNotFound
		}
		return nil, err
	}

	existing, err := loadOccupancies(ctx, uc.repo, in.BarberID, in.Date)
	if err != nil {
		return nil, err
	}

	return domain.ComputeAvailableSlots(
		in.Date,
		in.BarberID,
		duration,
		existing,
		uc.now(),
	)
}
