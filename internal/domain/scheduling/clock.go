package scheduling

import (
	"fmt"
	"time"
)

// MinutesPerDay é o limite superior (exclusivo) de um horário do dia.
const MinutesPerDay = 24 * 60

// ParseHM converte "HH:MM" em minutos desde a meia-noite.
// Aceita apenas o formato estrito de dois dígitos ("9:00" é inválido).
func ParseHM(hm string) (int, bool) {
	if len(hm) != 5 || hm[2] != ':' {
		return 0, false
	}

	h, ok := twoDigits(hm[0], hm[1])
	if !ok || h > 23 {
		return 0, false
	}

	m, ok := twoDigits(hm[3], hm[4])
	if !ok || m > 59 {
		return 0, false
	}

	return h*60 + m, true
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}

// FormatHM é o inverso de ParseHM. Valores fora do dia são normalizados.
func FormatHM(minutes int) string {
	minutes = ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// AddMinutes soma minutos a um horário "HH:MM" sem dar a volta no dia.
// O resultado pode passar de 24:00 apenas no valor numérico retornado.
func AddMinutes(hm string, minutes int) (int, bool) {
	start, ok := ParseHM(hm)
	if !ok {
		return 0, false
	}
	return start + minutes, true
}

// EndTime devolve o "HH:MM" de término de um atendimento.
// Retorna false quando o término cruza a meia-noite.
func EndTime(start string, minutes int) (string, bool) {
	end, ok := AddMinutes(start, minutes)
	if !ok || end >= MinutesPerDay {
		return "", false
	}
	return FormatHM(end), true
}

// ClockOf devolve o "HH:MM" de um instante no fuso em que ele já está.
func ClockOf(t time.Time) string {
	return t.Format("15:04")
}
