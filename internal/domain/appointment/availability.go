package appointment

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Horário de funcionamento e grade fixos da barbearia.
const (
	OpenHour  = 9
	CloseHour = 21

	SlotStepMinutes = 30

	// Duração assumida quando o serviço de um agendamento não existe mais.
	DefaultDurationMinutes = 30
)

type AvailabilityInput struct {
	BarberID        string
	ServiceID       string
	DurationMinutes int
	Date            time.Time
}

// Occupancy é um agendamento existente com a duração já resolvida.
type Occupancy struct {
	BarberID        string
	Start           time.Time
	DurationMinutes int
	Status          Status
}

func (o Occupancy) End() time.Time {
	return o.Start.Add(time.Duration(o.DurationMinutes) * time.Minute)
}

// Overlaps compara intervalos semiabertos [s1,e1) e [s2,e2). Encostar nas
// pontas não é conflito.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && e1.After(s2)
}

// ToOccupancies resolve a duração de cada agendamento pelo catálogo ATUAL.
// O preço fica congelado no agendamento, a duração não: editar a duração de
// um serviço muda como os agendamentos antigos ocupam a agenda. Essa
// assimetria é intencional e não deve ser "corrigida".
func ToOccupancies(aps []models.Appointment, durations map[string]int) []Occupancy {
	out := make([]Occupancy, 0, len(aps))
	for _, ap := range aps {
		d, ok := durations[ap.ServiceID]
		if !ok || d <= 0 {
			d = DefaultDurationMinutes
		}
		out = append(out, Occupancy{
			BarberID:        ap.BarberID,
			Start:           ap.StartTime,
			DurationMinutes: d,
			Status:          Status(ap.Status),
		})
	}
	return out
}

// ComputeAvailableSlots devolve os inícios livres ("HH:MM", em ordem) para
// o barbeiro no dia de date. Função pura: pode ser chamada concorrentemente.
//
// Entradas de outro barbeiro ou canceladas são ignoradas.
func ComputeAvailableSlots(
	date time.Time,
	barberID string,
	durationMinutes int,
	existing []Occupancy,
	now time.Time,
) ([]string, error) {

	if durationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}

	loc := date.Location()
	y, m, d := date.Date()

	closeAt := time.Date(y, m, d, CloseHour, 0, 0, 0, loc)
	duration := time.Duration(durationMinutes) * time.Minute

	busy := make([]Occupancy, 0, len(existing))
	for _, o := range existing {
		if o.BarberID != barberID || o.Status == StatusCancelled {
			continue
		}
		busy = append(busy, o)
	}
	sort.Slice(busy, func(i, j int) bool { return busy[i].Start.Before(busy[j].Start) })

	slots := []string{}

	for minute := OpenHour * 60; minute < CloseHour*60; minute += SlotStepMinutes {
		slotStart := time.Date(y, m, d, 0, minute, 0, 0, loc)
		slotEnd := slotStart.Add(duration)

		// passado
		if slotStart.Before(now) {
			continue
		}

		// passa do fechamento
		if slotEnd.After(closeAt) {
			continue
		}

		if conflictsWithAny(slotStart, slotEnd, busy) {
			continue
		}

		slots = append(slots, slotStart.Format("15:04"))
	}

	return slots, nil
}

func conflictsWithAny(start, end time.Time, busy []Occupancy) bool {
	for _, b := range busy {
		if !b.Start.Before(end) {
			// ordenado por início: os próximos também começam depois
			return false
		}
		if Overlaps(start, end, b.Start, b.End()) {
			return true
		}
	}
	return false
}

// IsOffered diz se start aparece na lista de slots do seu próprio dia.
// Horários fora da grade (ex.: 10:15 ou com segundos) nunca são oferecidos.
func IsOffered(slots []string, start time.Time) bool {
	if start.Second() != 0 || start.Nanosecond() != 0 {
		return false
	}
	hm := start.Format("15:04")
	for _, s := range slots {
		if s == hm {
			return true
		}
	}
	return false
}
