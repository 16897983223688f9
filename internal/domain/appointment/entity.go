package appointment

import (
	"time"

	"github.com/BruksfildServices01/barber-agenda/internal/domain/scheduling"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Cancel(ap *models.Appointment, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	return nil
}

func IsScheduled(ap models.Appointment) bool {
	return Status(ap.Status) == StatusScheduled
}

// ToBookings converte os agendamentos ativos para o formato da ocupação.
func ToBookings(aps []models.Appointment) []scheduling.Booking {
	out := make([]scheduling.Booking, 0, len(aps))
	for _, ap := range aps {
		if !IsScheduled(ap) {
			continue
		}
		out = append(out, scheduling.Booking{
			ID:          ap.ID,
			BarberID:    ap.BarberID,
			Start:       ap.Time,
			DurationMin: ap.TotalMinutes,
		})
	}
	return out
}

// ToBlockSet agrupa os bloqueios do dia em gerais e por barbeiro.
func ToBlockSet(blocks []models.Block) scheduling.BlockSet {
	bs := scheduling.NewBlockSet()
	for _, b := range blocks {
		bs.Add(b.Time, b.BarberID)
	}
	return bs
}
