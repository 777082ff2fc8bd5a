package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/infra/memory"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

var shopLoc = time.FixedZone("BRT", -3*60*60)

// 2024-06-01 08:00, antes da abertura.
var testNow = time.Date(2024, 6, 1, 8, 0, 0, 0, shopLoc)

type fixture struct {
	store    *memory.Store
	create   *CreateAppointment
	slots    *GetAvailability
	cancel   *CancelAppointment
	complete *CompleteAppointment
}

func newFixture(t *testing.T, lockTimeout time.Duration) *fixture {
	t.Helper()

	store := memory.NewStore(lockTimeout)
	store.PutBarber(models.Barber{ID: "b1", Name: "João Silva", Rating: 4.8})
	store.PutBarber(models.Barber{ID: "b2", Name: "Marcos Santos", Rating: 4.5})
	store.PutService(models.Service{ID: "corte", Name: "Corte de Cabelo", Price: decimal.NewFromInt(50), DurationMinutes: 45})
	store.PutService(models.Service{ID: "barba", Name: "Barba Completa", Price: decimal.NewFromInt(35), DurationMinutes: 30})
	store.PutService(models.Service{ID: "combo", Name: "Cabelo + Barba", Price: decimal.NewFromInt(80), DurationMinutes: 75})

	clock := timezone.FixedClock(testNow)
	log := zap.NewNop()

	return &fixture{
		store:    store,
		create:   NewCreateAppointment(store, nil, clock, shopLoc, log),
		slots:    NewGetAvailability(store, clock),
		cancel:   NewCancelAppointment(store, nil, clock, shopLoc, log),
		complete: NewCompleteAppointment(store, nil, clock, shopLoc, log),
	}
}

func at(hour, minute int) time.Time {
	return time.Date(2024, 6, 1, hour, minute, 0, 0, shopLoc)
}

func (f *fixture) book(t *testing.T, client, barber, service string, start time.Time) *models.Appointment {
	t.Helper()

	ap, err := f.create.Execute(context.Background(), CreateAppointmentInput{
		ClientID:   client,
		ClientName: "Cliente " + client,
		BarberID:   barber,
		ServiceID:  service,
		Start:      start,
	})
	if err != nil {
		t.Fatalf("book %s at %s: %v", service, start.Format("15:04"), err)
	}
	return ap
}

func has(slots []string, hm string) bool {
	for _, s := range slots {
		if s == hm {
			return true
		}
	}
	return false
}
