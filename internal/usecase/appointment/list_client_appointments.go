package appointment

import (
	"context"
	"sort"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
)

type ListClientAppointments struct {
	repo domain.Repository
	loc  *time.Location
}

func NewListClientAppointments(repo domain.Repository, loc *time.Location) *ListClientAppointments {
	return &ListClientAppointments{repo: repo, loc: loc}
}

// Execute devolve os agendamentos do cliente, mais recentes primeiro.
func (uc *ListClientAppointments) Execute(
	ctx context.Context,
	clientID string,
) (*dto.ClientAppointmentsDTO, error) {

	aps, err := uc.repo.ListAppointmentsForClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(aps, func(i, j int) bool {
		return aps[i].StartTime.After(aps[j].StartTime)
	})

	completed := 0
	for _, ap := range aps {
		if ap.Status == string(domain.StatusCompleted) {
			completed++
		}
	}

	return &dto.ClientAppointmentsDTO{
		Appointments:   dto.NewAppointmentDTOs(aps, uc.loc),
		CompletedCount: completed,
	}, nil
}
