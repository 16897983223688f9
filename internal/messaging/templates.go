package messaging

import (
	"fmt"
	"strings"
	"time"
)

type AppointmentMessage struct {
	CompanyName  string
	CustomerName string
	BarberName   string
	Date         string
	Time         string
	Services     []string
}

func firstName(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.IndexByte(name, ' '); i > 0 {
		return name[:i]
	}
	return name
}

// displayDate converte YYYY-MM-DD para DD/MM/YYYY.
func displayDate(date string) string {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return d.Format("02/01/2006")
}

func ConfirmationText(m AppointmentMessage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Olá, %s! Seu horário na %s está confirmado.\n", firstName(m.CustomerName), m.CompanyName)
	fmt.Fprintf(&b, "Data: %s às %s\n", displayDate(m.Date), m.Time)
	if m.BarberName != "" {
		fmt.Fprintf(&b, "Barbeiro: %s\n", m.BarberName)
	}
	if len(m.Services) > 0 {
		fmt.Fprintf(&b, "Serviços: %s\n", strings.Join(m.Services, ", "))
	}
	b.WriteString("Se precisar remarcar, responda esta mensagem.")
	return b.String()
}

func ReminderText(m AppointmentMessage) string {
	return fmt.Sprintf(
		"Olá, %s! Passando para lembrar do seu horário em %s às %s na %s. Até já!",
		firstName(m.CustomerName),
		displayDate(m.Date),
		m.Time,
		m.CompanyName,
	)
}
