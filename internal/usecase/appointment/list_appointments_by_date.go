package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(
	repo domain.Repository,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
	}
}

// Execute lista a agenda do dia (todos os status). barberID vazio traz
// todos os barbeiros.
func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	barberID string,
	date time.Time,
) ([]dto.AppointmentDTO, error) {

	start := timezone.StartOfDay(date)
	end := start.AddDate(0, 0, 1)

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		barberID,
		start,
		end,
	)
	if err != nil {
		return nil, err
	}

	return dto.NewAppointmentDTOs(appointments, date.Location()), nil
}
