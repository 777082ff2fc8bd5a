package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
)

func TestGetAvailability_ServiceIDOverridesDuration(t *testing.T) {
	f := newFixture(t, time.Second)

	// combo: 75 min, último início possível 19:30
	slots, err := f.slots.Execute(context.Background(), domain.AvailabilityInput{
		BarberID:        "b1",
		ServiceID:       "combo",
		DurationMinutes: 15,
		Date:            at(0, 0),
	})
	if err != nil {
		t.Fatalf("GetAvailability: %v", err)
	}
	if slots[len(slots)-1] != "19:30" {
		t.Fatalf("expected last slot 19:30, got %v", slots)
	}
}

func TestGetAvailability_Errors(t *testing.T) {
	cases := []struct {
		name string
		in   domain.AvailabilityInput
		want error
	}{
		{"unknown service", domain.AvailabilityInput{BarberID: "b1", ServiceID: "nope", Date: at(0, 0)}, domain.ErrServiceNotFound},
		{"zero duration", domain.AvailabilityInput{BarberID: "b1", Date: at(0, 0)}, domain.ErrInvalidDuration},
		{"unknown barber", domain.AvailabilityInput{BarberID: "nope", DurationMinutes: 30, Date: at(0, 0)}, domain.ErrBarberNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, time.Second)
			if _, err := f.slots.Execute(context.Background(), tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestGetAvailability_FullyBookedDayIsEmptyNotError(t *testing.T) {
	f := newFixture(t, time.Second)

	for minute := 9 * 60; minute < 21*60; minute += 30 {
		f.book(t, "c", "b1", "barba", at(0, minute))
	}

	slots, err := f.slots.Execute(context.Background(), domain.AvailabilityInput{
		BarberID: "b1", DurationMinutes: 30, Date: at(0, 0),
	})
	if err != nil {
		t.Fatalf("GetAvailability: %v", err)
	}
	if slots == nil || len(slots) != 0 {
		t.Fatalf("expected empty, non-nil list, got %#v", slots)
	}
}
