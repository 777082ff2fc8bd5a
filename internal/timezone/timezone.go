package timezone

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

const DefaultTimezone = "America/Sao_Paulo"

const (
	DateLayout = "2006-01-02"

	// Instante local, sem offset. É assim que a agenda trafega.
	LocalDateTimeLayout = "2006-01-02T15:04:05"
)

var localDateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// ======================================================
// CLOCK
// ======================================================

// Clock devolve o instante atual. Os casos de uso recebem um Clock para que
// os testes possam fixar o "agora".
type Clock func() time.Time

func SystemClock(loc *time.Location) Clock {
	return func() time.Time {
		return time.Now().In(loc)
	}
}

func FixedClock(t time.Time) Clock {
	return func() time.Time {
		return t
	}
}

// ======================================================
// PARSE
// ======================================================

func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

// ParseLocalDateTime interpreta um horário de parede (sem offset) no fuso
// da barbearia.
func ParseLocalDateTime(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range localDateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid local date time %q", s)
}

// StartOfDay devolve 00:00 do dia de t, no fuso de t.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func FormatLocal(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(LocalDateTimeLayout)
}
