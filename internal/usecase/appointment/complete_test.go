package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
)

func TestCompleteAppointment(t *testing.T) {
	f := newFixture(t, time.Second)
	ctx := context.Background()

	ap := f.book(t, "c1", "b1", "corte", at(9, 0))

	done, err := f.complete.Execute(ctx, CompleteAppointmentInput{
		AppointmentID: ap.ID,
		PaymentMethod: domain.PaymentPix,
		ActorID:       "admin",
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if done.Status != string(domain.StatusCompleted) || done.PaymentMethod == nil || *done.PaymentMethod != "pix" {
		t.Fatalf("unexpected appointment after complete: %+v", done)
	}

	// concluído continua ocupando o horário
	slots, _ := f.slots.Execute(ctx, domain.AvailabilityInput{BarberID: "b1", DurationMinutes: 30, Date: at(0, 0)})
	if has(slots, "09:00") {
		t.Fatalf("completed appointment must keep 09:00 busy")
	}

	if _, err := f.cancel.Execute(ctx, CancelAppointmentInput{AppointmentID: ap.ID, IsAdmin: true}); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState cancelling a completed appointment, got %v", err)
	}
}

func TestCompleteAppointment_Errors(t *testing.T) {
	f := newFixture(t, time.Second)
	ctx := context.Background()

	ap := f.book(t, "c1", "b1", "corte", at(9, 0))

	if _, err := f.complete.Execute(ctx, CompleteAppointmentInput{AppointmentID: ap.ID, PaymentMethod: "cheque"}); !errors.Is(err, domain.ErrInvalidPaymentMethod) {
		t.Fatalf("expected ErrInvalidPaymentMethod, got %v", err)
	}

	if _, err := f.cancel.Execute(ctx, CancelAppointmentInput{AppointmentID: ap.ID, ActorID: "c1"}); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if _, err := f.complete.Execute(ctx, CompleteAppointmentInput{AppointmentID: ap.ID}); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState completing a cancelled appointment, got %v", err)
	}

	if _, err := f.complete.Execute(ctx, CompleteAppointmentInput{AppointmentID: "missing"}); !errors.Is(err, domain.ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound, got %v", err)
	}
}
