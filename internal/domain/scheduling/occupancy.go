package scheduling

// Booking é o mínimo de um agendamento que a ocupação precisa conhecer.
type Booking struct {
	ID          uint
	BarberID    uint
	Start       string
	DurationMin int
}

type OccupancyEntry struct {
	AppointmentID uint `json:"appointment_id"`
	IsStart       bool `json:"is_start"`
	Slots         int  `json:"slots"`
}

// Occupancy: barbeiro -> slot -> entrada. Derivado a cada leitura, nunca persistido.
type Occupancy map[uint]map[string]OccupancyEntry

func (o Occupancy) At(barberID uint, slot string) (OccupancyEntry, bool) {
	e, ok := o[barberID][slot]
	return e, ok
}

// BuildOccupancy posiciona cada agendamento na grade a partir do slot de início.
// Quem começa fora da grade fica de fora; o trecho que passa do fim é truncado.
// Só agendamentos com status scheduled devem ser passados.
func BuildOccupancy(bookings []Booking, grid Grid) Occupancy {
	occ := Occupancy{}

	for _, b := range bookings {
		startIdx, ok := grid.IndexOf(b.Start)
		if !ok {
			continue
		}

		minutes := b.DurationMin
		if minutes <= 0 {
			minutes = grid.Interval
		}
		span := MinutesToSlots(minutes, grid.Interval)

		perSlot, ok := occ[b.BarberID]
		if !ok {
			perSlot = map[string]OccupancyEntry{}
			occ[b.BarberID] = perSlot
		}

		for i := 0; i < span; i++ {
			idx := startIdx + i
			if idx >= grid.Len() {
				break
			}
			perSlot[grid.Slots[idx]] = OccupancyEntry{
				AppointmentID: b.ID,
				IsStart:       i == 0,
				Slots:         span,
			}
		}
	}

	return occ
}
