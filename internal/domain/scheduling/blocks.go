package scheduling

// GeneralBlock identifica um bloqueio que vale para todos os barbeiros.
const GeneralBlock uint = 0

type BlockEntry struct {
	Slot     string
	BarberID uint
}

// BlockSet é o conjunto de bloqueios de um dia.
type BlockSet struct {
	general   map[string]struct{}
	perBarber map[uint]map[string]struct{}
}

func NewBlockSet(entries ...BlockEntry) BlockSet {
	bs := BlockSet{
		general:   map[string]struct{}{},
		perBarber: map[uint]map[string]struct{}{},
	}
	for _, e := range entries {
		bs.Add(e.Slot, e.BarberID)
	}
	return bs
}

func (bs BlockSet) Add(slot string, barberID uint) {
	if barberID == GeneralBlock {
		bs.general[slot] = struct{}{}
		return
	}
	m, ok := bs.perBarber[barberID]
	if !ok {
		m = map[string]struct{}{}
		bs.perBarber[barberID] = m
	}
	m[slot] = struct{}{}
}

// For devolve os slots bloqueados para um barbeiro: gerais ∪ próprios.
// Com GeneralBlock devolve só os gerais.
func (bs BlockSet) For(barberID uint) map[string]struct{} {
	out := make(map[string]struct{}, len(bs.general)+len(bs.perBarber[barberID]))
	for s := range bs.general {
		out[s] = struct{}{}
	}
	if barberID != GeneralBlock {
		for s := range bs.perBarber[barberID] {
			out[s] = struct{}{}
		}
	}
	return out
}

func (bs BlockSet) IsBlocked(barberID uint, slot string) bool {
	if _, ok := bs.general[slot]; ok {
		return true
	}
	_, ok := bs.perBarber[barberID][slot]
	return ok
}

func (bs BlockSet) IsGeneral(slot string) bool {
	_, ok := bs.general[slot]
	return ok
}
