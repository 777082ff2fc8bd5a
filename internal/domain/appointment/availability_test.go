package appointment

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

var testLoc = time.FixedZone("BRT", -3*60*60)

func at(day time.Time, hour, minute int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, testLoc)
}

func fullGrid(durationMinutes int) []string {
	var out []string
	for minute := OpenHour * 60; minute < CloseHour*60; minute += SlotStepMinutes {
		if minute+durationMinutes > CloseHour*60 {
			continue
		}
		out = append(out, time.Date(2000, 1, 1, 0, minute, 0, 0, time.UTC).Format("15:04"))
	}
	return out
}

func contains(slots []string, hm string) bool {
	for _, s := range slots {
		if s == hm {
			return true
		}
	}
	return false
}

func TestComputeAvailableSlots_EmptyDayReturnsWholeGrid(t *testing.T) {
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, testLoc)

	slots, err := ComputeAvailableSlots(day, "b1", 30, nil, day)
	if err != nil {
		t.Fatalf("ComputeAvailableSlots: %v", err)
	}

	want := fullGrid(30)
	if len(slots) != len(want) || len(slots) != 24 {
		t.Fatalf("expected %d slots, got %d (%v)", len(want), len(slots), slots)
	}
	for i := range want {
		if slots[i] != want[i] {
			t.Fatalf("slot %d: expected %s, got %s", i, want[i], slots[i])
		}
	}
	if slots[0] != "09:00" || slots[len(slots)-1] != "20:30" {
		t.Fatalf("unexpected bounds: first=%s last=%s", slots[0], slots[len(slots)-1])
	}
}

func TestComputeAvailableSlots_FortyFiveMinuteAppointment(t *testing.T) {
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, testLoc)
	existing := []Occupancy{
		{BarberID: "B", Start: at(day, 10, 0), DurationMinutes: 45, Status: StatusConfirmed},
	}

	slots, err := ComputeAvailableSlots(day, "B", 30, existing, day)
	if err != nil {
		t.Fatalf("ComputeAvailableSlots: %v", err)
	}

	// 09:30 termina 10:00: encosta, não conflita.
	for _, hm := range []string{"09:00", "09:30", "11:00"} {
		if !contains(slots, hm) {
			t.Fatalf("expected %s in %v", hm, slots)
		}
	}
	// 10:00 e 10:30 sobrepõem [10:00,10:45). 09:45 e 10:45 não estão na grade.
	for _, hm := range []string{"09:45", "10:00", "10:30", "10:45"} {
		if contains(slots, hm) {
			t.Fatalf("did not expect %s in %v", hm, slots)
		}
	}
	if len(slots) != 22 {
		t.Fatalf("expected 22 slots, got %d", len(slots))
	}
}

func TestComputeAvailableSlots_BackToBackIsAllowed(t *testing.T) {
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, testLoc)
	existing := []Occupancy{
		{BarberID: "B", Start: at(day, 10, 0), DurationMinutes: 30, Status: StatusConfirmed},
	}

	for _, duration := range []int{15, 30, 60, 120} {
		slots, err := ComputeAvailableSlots(day, "B", duration, existing, day)
		if err != nil {
			t.Fatalf("ComputeAvailableSlots(%d): %v", duration, err)
		}
		if !contains(slots, "10:30") {
			t.Fatalf("duration %d: slot right after the appointment must be offered, got %v", duration, slots)
		}
		if contains(slots, "10:00") {
			t.Fatalf("duration %d: occupied slot offered", duration)
		}
	}

	slots, _ := ComputeAvailableSlots(day, "B", 30, existing, day)
	if !contains(slots, "09:30") {
		t.Fatalf("slot ending exactly at the appointment start must be offered, got %v", slots)
	}
}

func TestComputeAvailableSlots_ClosingTime(t *testing.T) {
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, testLoc)

	slots, err := ComputeAvailableSlots(day, "B", 75, nil, day)
	if err != nil {
		t.Fatalf("ComputeAvailableSlots: %v", err)
	}
	if contains(slots, "20:30") || contains(slots, "20:00") {
		t.Fatalf("75 minute service must not overrun 21:00, got %v", slots)
	}
	if slots[len(slots)-1] != "19:30" {
		t.Fatalf("expected last slot 19:30, got %s", slots[len(slots)-1])
	}

	// termina exatamente no fechamento
	slots, _ = ComputeAvailableSlots(day, "B", 60, nil, day)
	if slots[len(slots)-1] != "20:00" {
		t.Fatalf("expected 20:00 (ends at 21:00) as last slot, got %v", slots)
	}

	// serviço maior que o expediente
	slots, _ = ComputeAvailableSlots(day, "B", 13*60, nil, day)
	if len(slots) != 0 {
		t.Fatalf("expected no slots, got %v", slots)
	}
}

func TestComputeAvailableSlots_SkipsPast(t *testing.T) {
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, testLoc)

	slots, _ := ComputeAvailableSlots(day, "B", 30, nil, at(day, 12, 10))
	if slots[0] != "12:30" {
		t.Fatalf("expected first slot 12:30, got %v", slots)
	}

	// comparação no instante: o slot que começa agora ainda vale
	slots, _ = ComputeAvailableSlots(day, "B", 30, nil, at(day, 12, 0))
	if slots[0] != "12:00" {
		t.Fatalf("expected first slot 12:00, got %v", slots)
	}

	// dia inteiro no passado
	slots, _ = ComputeAvailableSlots(day, "B", 30, nil, day.AddDate(0, 0, 1))
	if len(slots) != 0 {
		t.Fatalf("expected no slots for a past day, got %v", slots)
	}
}

func TestComputeAvailableSlots_IgnoresCancelledAndOtherBarbers(t *testing.T) {
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, testLoc)
	existing := []Occupancy{
		{BarberID: "B", Start: at(day, 10, 0), DurationMinutes: 60, Status: StatusCancelled},
		{BarberID: "other", Start: at(day, 14, 0), DurationMinutes: 60, Status: StatusConfirmed},
		{BarberID: "B", Start: at(day, 16, 0), DurationMinutes: 30, Status: StatusCompleted},
	}

	slots, err := ComputeAvailableSlots(day, "B", 30, existing, day)
	if err != nil {
		t.Fatalf("ComputeAvailableSlots: %v", err)
	}
	for _, hm := range []string{"10:00", "10:30", "14:00", "14:30"} {
		if !contains(slots, hm) {
			t.Fatalf("expected %s to be free, got %v", hm, slots)
		}
	}
	// concluído continua ocupando a agenda
	if contains(slots, "16:00") {
		t.Fatalf("completed appointment must still block 16:00")
	}
}

func TestComputeAvailableSlots_CancellationFreesSlot(t *testing.T) {
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, testLoc)
	existing := []Occupancy{
		{BarberID: "B", Start: at(day, 15, 0), DurationMinutes: 30, Status: StatusConfirmed},
	}

	before, _ := ComputeAvailableSlots(day, "B", 30, existing, day)
	if contains(before, "15:00") {
		t.Fatalf("15:00 should be blocked before cancelling")
	}

	existing[0].Status = StatusCancelled
	after, _ := ComputeAvailableSlots(day, "B", 30, existing, day)
	if !contains(after, "15:00") {
		t.Fatalf("15:00 should be free after cancelling, got %v", after)
	}
}

func TestComputeAvailableSlots_RejectsNonPositiveDuration(t *testing.T) {
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, testLoc)

	for _, d := range []int{0, -30} {
		if _, err := ComputeAvailableSlots(day, "B", d, nil, day); !errors.Is(err, ErrInvalidDuration) {
			t.Fatalf("duration %d: expected ErrInvalidDuration, got %v", d, err)
		}
	}
}

func TestComputeAvailableSlots_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, testLoc)
	closeAt := at(day, CloseHour, 0)

	for iter := 0; iter < 200; iter++ {
		var existing []Occupancy
		n := rng.Intn(6)
		for i := 0; i < n; i++ {
			existing = append(existing, Occupancy{
				BarberID:        "B",
				Start:           at(day, 9+rng.Intn(12), rng.Intn(4)*15),
				DurationMinutes: 15 + rng.Intn(8)*15,
				Status:          StatusConfirmed,
			})
		}
		duration := 15 + rng.Intn(12)*15
		now := at(day, 8+rng.Intn(14), rng.Intn(60))

		slots, err := ComputeAvailableSlots(day, "B", duration, existing, now)
		if err != nil {
			t.Fatalf("ComputeAvailableSlots: %v", err)
		}

		var prev time.Time
		for _, hm := range slots {
			parsed, err := time.ParseInLocation("2006-01-02 15:04", "2024-06-01 "+hm, testLoc)
			if err != nil {
				t.Fatalf("slot %q is not HH:MM: %v", hm, err)
			}
			end := parsed.Add(time.Duration(duration) * time.Minute)

			if parsed.Before(now) {
				t.Fatalf("slot %s is before now %s", hm, now.Format("15:04"))
			}
			if end.After(closeAt) {
				t.Fatalf("slot %s (+%dmin) overruns closing", hm, duration)
			}
			if mins := parsed.Hour()*60 + parsed.Minute() - OpenHour*60; mins < 0 || mins%SlotStepMinutes != 0 {
				t.Fatalf("slot %s is off the grid", hm)
			}
			if !prev.IsZero() && !parsed.After(prev) {
				t.Fatalf("slots not in ascending order: %v", slots)
			}
			prev = parsed

			for _, o := range existing {
				if Overlaps(parsed, end, o.Start, o.End()) {
					t.Fatalf("slot %s (+%dmin) overlaps appointment at %s", hm, duration, o.Start.Format("15:04"))
				}
			}
		}
	}
}

func TestToOccupanciesUsesCurrentCatalogAndDefault(t *testing.T) {
	start := time.Date(2024, 6, 1, 10, 0, 0, 0, testLoc)
	aps := []models.Appointment{
		{BarberID: "B", ServiceID: "s1", StartTime: start, Status: string(StatusConfirmed)},
		{BarberID: "B", ServiceID: "gone", StartTime: start.Add(time.Hour), Status: string(StatusConfirmed)},
	}

	occ := ToOccupancies(aps, map[string]int{"s1": 45})
	if occ[0].DurationMinutes != 45 {
		t.Fatalf("expected catalog duration 45, got %d", occ[0].DurationMinutes)
	}
	if occ[1].DurationMinutes != DefaultDurationMinutes {
		t.Fatalf("expected default duration for deleted service, got %d", occ[1].DurationMinutes)
	}
	if !occ[0].End().Equal(start.Add(45 * time.Minute)) {
		t.Fatalf("unexpected end: %s", occ[0].End())
	}
}

func TestIsOffered(t *testing.T) {
	slots := []string{"09:00", "09:30"}
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, testLoc)

	if !IsOffered(slots, at(day, 9, 30)) {
		t.Fatalf("09:30 should be offered")
	}
	if IsOffered(slots, at(day, 9, 15)) {
		t.Fatalf("09:15 is off the grid")
	}
	if IsOffered(slots, at(day, 9, 30).Add(time.Second)) {
		t.Fatalf("seconds must not match a slot")
	}
}
