package scheduling

import "time"

const (
	ReminderLeadFrom = 85 * time.Minute
	ReminderLeadTo   = 95 * time.Minute
)

// DateWindow limita uma busca a uma data e a um trecho [From, To] do dia.
type DateWindow struct {
	Date string
	From string
	To   string
}

// ReminderWindows calcula a janela [now+85m, now+95m] no fuso de now.
// Se a janela cruza a meia-noite, vira duas: o fim de hoje e o começo de amanhã.
func ReminderWindows(now time.Time) []DateWindow {
	from := now.Add(ReminderLeadFrom)
	to := now.Add(ReminderLeadTo)

	fromDate := from.Format("2006-01-02")
	toDate := to.Format("2006-01-02")

	if fromDate == toDate {
		return []DateWindow{{
			Date: fromDate,
			From: ClockOf(from),
			To:   ClockOf(to),
		}}
	}

	return []DateWindow{
		{Date: fromDate, From: ClockOf(from), To: "23:59"},
		{Date: toDate, From: "00:00", To: ClockOf(to)},
	}
}
