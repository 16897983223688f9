package scheduling

// IsAvailable decide se o barbeiro está livre durante todo o trecho contíguo
// de slotsNeeded slots a partir de start. Não existe reserva parcial.
func IsAvailable(
	barberID uint,
	start string,
	slotsNeeded int,
	grid Grid,
	blocked map[string]struct{},
	occ Occupancy,
) bool {

	if barberID == 0 {
		return false
	}

	startIdx, ok := grid.IndexOf(start)
	if !ok {
		return false
	}

	if slotsNeeded < 1 {
		slotsNeeded = 1
	}

	for i := 0; i < slotsNeeded; i++ {
		idx := startIdx + i
		if idx >= grid.Len() {
			return false
		}

		slot := grid.Slots[idx]
		if _, ok := blocked[slot]; ok {
			return false
		}
		if _, ok := occ.At(barberID, slot); ok {
			return false
		}
	}

	return true
}

// CountAvailable conta quantos barbeiros atendem o mesmo trecho.
func CountAvailable(
	barberIDs []uint,
	start string,
	slotsNeeded int,
	grid Grid,
	blocks BlockSet,
	occ Occupancy,
) int {

	n := 0
	for _, id := range barberIDs {
		if IsAvailable(id, start, slotsNeeded, grid, blocks.For(id), occ) {
			n++
		}
	}
	return n
}

// Interval é um intervalo semiaberto [Start, End) em minutos do dia.
type Interval struct {
	Start int
	End   int
}

func (a Interval) Overlaps(b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// SpanSlots lista os slots da grade cobertos por [start, start+minutes).
// Usado pelo caminho interno para conferir bloqueios sem montar a ocupação.
func SpanSlots(grid Grid, start string, minutes int) []string {
	from, ok := ParseHM(start)
	if !ok {
		return nil
	}
	span := Interval{Start: from, End: from + max(minutes, 1)}

	out := []string{}
	for _, s := range grid.Slots {
		m, _ := ParseHM(s)
		if span.Overlaps(Interval{Start: m, End: m + grid.Interval}) {
			out = append(out, s)
		}
	}
	return out
}
