// Package memory implementa o repositório de agenda em memória. Usado nos
// testes dos casos de uso e dos handlers.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/keylock"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type Store struct {
	mu sync.RWMutex

	services     map[string]models.Service
	barbers      map[string]models.Barber
	users        map[string]models.User
	appointments map[string]models.Appointment

	locks       *keylock.Locker
	lockTimeout time.Duration
}

func NewStore(lockTimeout time.Duration) *Store {
	return &Store{
		services:     make(map[string]models.Service),
		barbers:      make(map[string]models.Barber),
		users:        make(map[string]models.User),
		appointments: make(map[string]models.Appointment),
		locks:        keylock.New(),
		lockTimeout:  lockTimeout,
	}
}

// --------------------------------------------------
// Catálogo
// --------------------------------------------------

func (s *Store) PutService(svc models.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services[svc.ID] = svc
}

// DeleteService remove o serviço do catálogo. Agendamentos antigos
// continuam apontando para o id.
func (s *Store) DeleteService(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.services, id)
}

func (s *Store) PutBarber(b models.Barber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.barbers[b.ID] = b
}

func (s *Store) PutUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *Store) GetService(_ context.Context, id string) (*models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	svc, ok := s.services[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &svc, nil
}

func (s *Store) GetBarber(_ context.Context, id string) (*models.Barber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.barbers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (s *Store) GetClient(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok || u.Role != models.RoleClient {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (s *Store) ServiceDurations(_ context.Context, ids []string) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]int, len(ids))
	for _, id := range ids {
		if svc, ok := s.services[id]; ok {
			out[id] = svc.DurationMinutes
		}
	}
	return out, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (s *Store) ListActiveAppointmentsForDay(
	_ context.Context,
	barberID string,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {
	return s.filter(func(ap models.Appointment) bool {
		return ap.BarberID == barberID &&
			ap.Status != string(domain.StatusCancelled) &&
			!ap.StartTime.Before(start) &&
			ap.StartTime.Before(end)
	}), nil
}

func (s *Store) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.appointments[ap.ID]; exists {
		return errors.New("memory: duplicate appointment id")
	}

	now := time.Now()
	ap.CreatedAt = now
	ap.UpdatedAt = now
	s.appointments[ap.ID] = *ap
	return nil
}

// Atomically serializa por barbeiro com o keylock. Não há rollback: os
// casos de uso só escrevem no último passo.
func (s *Store) Atomically(
	ctx context.Context,
	barberID string,
	fn func(tx domain.Repository) error,
) error {
	unlock, err := s.locks.Lock(ctx, barberID, s.lockTimeout)
	if err != nil {
		if errors.Is(err, keylock.ErrTimeout) {
			return domain.ErrScheduleBusy
		}
		return err
	}
	defer unlock()

	return fn(s)
}

func (s *Store) GetAppointment(_ context.Context, id string) (*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ap, ok := s.appointments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &ap, nil
}

func (s *Store) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.appointments[ap.ID]; !ok {
		return domain.ErrNotFound
	}
	ap.UpdatedAt = time.Now()
	s.appointments[ap.ID] = *ap
	return nil
}

func (s *Store) ListAppointmentsForPeriod(
	_ context.Context,
	barberID string,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {
	return s.filter(func(ap models.Appointment) bool {
		return (barberID == "" || ap.BarberID == barberID) &&
			!ap.StartTime.Before(start) &&
			ap.StartTime.Before(end)
	}), nil
}

func (s *Store) ListAppointmentsForClient(_ context.Context, clientID string) ([]models.Appointment, error) {
	return s.filter(func(ap models.Appointment) bool {
		return ap.ClientID == clientID
	}), nil
}

func (s *Store) filter(keep func(models.Appointment) bool) []models.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Appointment{}
	for _, ap := range s.appointments {
		if keep(ap) {
			out = append(out, ap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

var _ domain.Repository = (*Store)(nil)
