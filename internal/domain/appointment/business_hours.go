package appointment

import (
	"time"

	"github.com/BruksfildServices01/barber-agenda/internal/domain/scheduling"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

const (
	DefaultOpenTime    = "09:00"
	DefaultCloseTime   = "20:00"
	DefaultSlotMinutes = 30
)

// DayHours é o expediente efetivo de uma data.
type DayHours struct {
	Open     string
	Close    string
	Interval int
	Closed   bool
}

// ResolveDayHours aplica a precedência: linha do dia da semana, depois o
// padrão da empresa, depois o padrão do sistema.
func ResolveDayHours(company *models.Company, wh *models.BusinessHours) DayHours {
	day := DayHours{
		Open:     DefaultOpenTime,
		Close:    DefaultCloseTime,
		Interval: DefaultSlotMinutes,
	}

	if company != nil {
		if _, ok := scheduling.ParseHM(company.OpenTime); ok {
			day.Open = company.OpenTime
		}
		if _, ok := scheduling.ParseHM(company.CloseTime); ok {
			day.Close = company.CloseTime
		}
		if company.SlotMinutes > 0 {
			day.Interval = company.SlotMinutes
		}
	}

	if wh == nil {
		return day
	}

	if wh.Closed {
		day.Closed = true
		return day
	}

	_, okOpen := scheduling.ParseHM(wh.OpenTime)
	_, okClose := scheduling.ParseHM(wh.CloseTime)
	if okOpen && okClose {
		day.Open = wh.OpenTime
		day.Close = wh.CloseTime
	}

	return day
}

// Grid devolve a grade do dia; dia fechado gera grade vazia.
func (d DayHours) Grid() scheduling.Grid {
	if d.Closed {
		return scheduling.NewGrid(d.Open, d.Open, d.Interval)
	}
	return scheduling.NewGrid(d.Open, d.Close, d.Interval)
}

func Weekday(date time.Time) int {
	return int(date.Weekday())
}
