package scheduling

// ===============================
// Time Grid
// ===============================

// GenerateSlots produz os horários de início a partir de open, de interval em
// interval, parando estritamente antes de close. Entrada inválida gera lista vazia.
func GenerateSlots(open, close string, interval int) []string {
	start, ok1 := ParseHM(open)
	end, ok2 := ParseHM(close)
	if !ok1 || !ok2 || interval <= 0 {
		return []string{}
	}

	slots := make([]string, 0, max(0, (end-start+interval-1)/interval))
	for cur := start; cur < end; cur += interval {
		slots = append(slots, FormatHM(cur))
	}
	return slots
}

// Grid é a grade de um dia: os slots em ordem e o índice de cada um.
type Grid struct {
	Open     string
	Close    string
	Interval int
	Slots    []string

	index map[string]int
}

func NewGrid(open, close string, interval int) Grid {
	slots := GenerateSlots(open, close, interval)

	index := make(map[string]int, len(slots))
	for i, s := range slots {
		index[s] = i
	}

	return Grid{
		Open:     open,
		Close:    close,
		Interval: interval,
		Slots:    slots,
		index:    index,
	}
}

// IndexOf localiza um slot na grade em O(1).
func (g Grid) IndexOf(slot string) (int, bool) {
	i, ok := g.index[slot]
	return i, ok
}

func (g Grid) Contains(slot string) bool {
	_, ok := g.index[slot]
	return ok
}

func (g Grid) Len() int {
	return len(g.Slots)
}

func (g Grid) Empty() bool {
	return len(g.Slots) == 0
}

// FitsBeforeClose verifica se um atendimento de minutes minutos iniciado em
// start termina até o horário de fechamento.
func (g Grid) FitsBeforeClose(start string, minutes int) bool {
	end, ok := AddMinutes(start, minutes)
	if !ok {
		return false
	}
	closeAt, ok := ParseHM(g.Close)
	if !ok {
		return false
	}
	return end <= closeAt
}
