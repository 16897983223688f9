package timezone

import (
	"time"
	_ "time/tzdata"
)

const (
	DefaultTimezone = "America/Sao_Paulo"

	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04"
)

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location resolve o fuso do tenant; inválido ou vazio cai no padrão.
func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}

// In converte um instante para o fuso do tenant.
func In(tz string, t time.Time) time.Time {
	return t.In(Location(tz))
}

// Today é a data local do tenant em now.
func Today(tz string, now time.Time) string {
	return In(tz, now).Format(DateLayout)
}

func ParseDate(tz, date string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, date, Location(tz))
}

// At monta o instante de uma data + "HH:MM" no fuso do tenant.
func At(tz, date, hm string) (time.Time, error) {
	return time.ParseInLocation(DateTimeLayout, date+" "+hm, Location(tz))
}

// MonthRange devolve [primeiro dia do mês, primeiro dia do mês seguinte).
func MonthRange(year int, month time.Month) (string, string) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start.Format(DateLayout), start.AddDate(0, 1, 0).Format(DateLayout)
}

// NextDay soma um dia a uma data "YYYY-MM-DD".
func NextDay(date string) (string, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", err
	}
	return d.AddDate(0, 0, 1).Format(DateLayout), nil
}
