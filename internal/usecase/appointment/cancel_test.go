package appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type captureSink struct {
	mu     sync.Mutex
	events []audit.Event
}

func (s *captureSink) Name() string { return "capture" }

func (s *captureSink) Write(_ context.Context, ev audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

// storedInUTC grava um agendamento com o início em UTC, como o driver do
// Postgres devolve timestamptz.
func storedInUTC(t *testing.T, f *fixture, id string, start time.Time) {
	t.Helper()
	err := f.store.CreateAppointment(context.Background(), &models.Appointment{
		ID:             id,
		ClientID:       "c1",
		ClientName:     "Cliente c1",
		BarberID:       "b1",
		ServiceID:      "barba",
		StartTime:      start.UTC(),
		Status:         string(domain.InitialStatus()),
		PriceAtBooking: decimal.NewFromInt(35),
	})
	if err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}
}

func TestLifecycleAuditUsesShopWallClock(t *testing.T) {
	f := newFixture(t, time.Second)
	ctx := context.Background()

	storedInUTC(t, f, "ap-cancel", at(10, 0))
	storedInUTC(t, f, "ap-complete", at(15, 30))

	sink := &captureSink{}
	dispatcher := audit.NewDispatcher(zap.NewNop(), sink)
	clock := func() time.Time { return testNow }

	cancel := NewCancelAppointment(f.store, dispatcher, clock, shopLoc, zap.NewNop())
	complete := NewCompleteAppointment(f.store, dispatcher, clock, shopLoc, zap.NewNop())

	if _, err := cancel.Execute(ctx, CancelAppointmentInput{AppointmentID: "ap-cancel", ActorID: "c1"}); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if _, err := complete.Execute(ctx, CompleteAppointmentInput{AppointmentID: "ap-complete", PaymentMethod: domain.PaymentPix, ActorID: "adm"}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	dispatcher.Close()

	want := map[string]string{
		"appointment_cancelled": "2024-06-01T10:00:00",
		"appointment_completed": "2024-06-01T15:30:00",
	}
	if len(sink.events) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(sink.events))
	}
	for _, ev := range sink.events {
		meta, ok := ev.Metadata.(map[string]any)
		if !ok {
			t.Fatalf("%s: unexpected metadata %T", ev.Action, ev.Metadata)
		}
		if meta["start"] != want[ev.Action] {
			t.Fatalf("%s: start = %v, want %s", ev.Action, meta["start"], want[ev.Action])
		}
	}
}

func TestCancelAppointment_FreesSlot(t *testing.T) {
	f := newFixture(t, time.Second)
	ctx := context.Background()

	ap := f.book(t, "c1", "b1", "barba", at(14, 0))

	cancelled, err := f.cancel.Execute(ctx, CancelAppointmentInput{AppointmentID: ap.ID, ActorID: "c1"})
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != string(domain.StatusCancelled) || cancelled.CancelledAt == nil {
		t.Fatalf("unexpected appointment after cancel: %+v", cancelled)
	}

	slots, _ := f.slots.Execute(ctx, domain.AvailabilityInput{BarberID: "b1", DurationMinutes: 30, Date: at(0, 0)})
	if !has(slots, "14:00") {
		t.Fatalf("14:00 should be free after cancelling, got %v", slots)
	}

	f.book(t, "c2", "b1", "barba", at(14, 0))
}

func TestCancelAppointment_Ownership(t *testing.T) {
	f := newFixture(t, time.Second)
	ctx := context.Background()

	ap := f.book(t, "c1", "b1", "barba", at(14, 0))

	_, err := f.cancel.Execute(ctx, CancelAppointmentInput{AppointmentID: ap.ID, ActorID: "intruso"})
	if !errors.Is(err, domain.ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound for another client, got %v", err)
	}

	if _, err := f.cancel.Execute(ctx, CancelAppointmentInput{AppointmentID: ap.ID, ActorID: "admin", IsAdmin: true}); err != nil {
		t.Fatalf("admin cancel: %v", err)
	}

	_, err = f.cancel.Execute(ctx, CancelAppointmentInput{AppointmentID: ap.ID, ActorID: "c1"})
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState cancelling twice, got %v", err)
	}
}

func TestCancelAppointment_NotFound(t *testing.T) {
	f := newFixture(t, time.Second)

	_, err := f.cancel.Execute(context.Background(), CancelAppointmentInput{AppointmentID: "missing", IsAdmin: true})
	if !errors.Is(err, domain.ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound, got %v", err)
	}
}
