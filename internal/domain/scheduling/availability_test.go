package scheduling

import (
	"math/rand"
	"testing"
)

func businessDay() Grid {
	return NewGrid("09:00", "20:00", 30)
}

func TestBuildOccupancyMarksSpan(t *testing.T) {
	g := businessDay()

	occ := BuildOccupancy([]Booking{
		{ID: 7, BarberID: 1, Start: "10:00", DurationMin: 50},
	}, g)

	first, ok := occ.At(1, "10:00")
	if !ok || !first.IsStart || first.AppointmentID != 7 || first.Slots != 2 {
		t.Fatalf("10:00 entry = %+v,%v", first, ok)
	}
	second, ok := occ.At(1, "10:30")
	if !ok || second.IsStart || second.AppointmentID != 7 {
		t.Fatalf("10:30 entry = %+v,%v", second, ok)
	}
	if _, ok := occ.At(1, "11:00"); ok {
		t.Fatalf("11:00 must be free")
	}
	if _, ok := occ.At(2, "10:00"); ok {
		t.Fatalf("other barbers must not be affected")
	}
}

func TestBuildOccupancyEdgeCases(t *testing.T) {
	g := businessDay()

	occ := BuildOccupancy([]Booking{
		{ID: 1, BarberID: 1, Start: "10:15", DurationMin: 30},
		{ID: 2, BarberID: 1, Start: "12:00", DurationMin: 0},
		{ID: 3, BarberID: 1, Start: "19:30", DurationMin: 90},
	}, g)

	if len(occ[1]) != 2 {
		t.Fatalf("expected 2 occupied slots (unaligned skipped, truncated at end), got %d: %v", len(occ[1]), occ[1])
	}
	if e, ok := occ.At(1, "12:00"); !ok || e.Slots != 1 {
		t.Fatalf("zero duration should claim one interval, got %+v,%v", e, ok)
	}
	if _, ok := occ.At(1, "12:30"); ok {
		t.Fatalf("zero duration must not claim a second slot")
	}
	if e, ok := occ.At(1, "19:30"); !ok || !e.IsStart {
		t.Fatalf("last slot should be marked as start, got %+v,%v", e, ok)
	}
}

func TestIsAvailableScenario(t *testing.T) {
	g := businessDay()
	occ := BuildOccupancy([]Booking{{ID: 1, BarberID: 1, Start: "10:00", DurationMin: 50}}, g)
	none := map[string]struct{}{}

	for _, slots := range []int{1, 2, 3} {
		if IsAvailable(1, "10:00", slots, g, none, occ) {
			t.Fatalf("10:00 must be unavailable for %d slots", slots)
		}
		if IsAvailable(1, "10:30", slots, g, none, occ) {
			t.Fatalf("10:30 must be unavailable for %d slots", slots)
		}
	}
	if !IsAvailable(1, "11:00", 2, g, none, occ) {
		t.Fatalf("11:00 must be available")
	}
	if IsAvailable(1, "09:30", 2, g, none, occ) {
		t.Fatalf("09:30 for 2 slots runs into 10:00")
	}
	if !IsAvailable(2, "10:00", 2, g, none, occ) {
		t.Fatalf("barber 2 is free at 10:00")
	}
}

func TestIsAvailableRejections(t *testing.T) {
	g := businessDay()
	occ := Occupancy{}
	blocked := map[string]struct{}{"15:30": {}}

	cases := []struct {
		name   string
		barber uint
		start  string
		slots  int
		want   bool
	}{
		{"no barber", 0, "10:00", 1, false},
		{"unknown slot", 1, "10:10", 1, false},
		{"runs past grid", 1, "19:30", 2, false},
		{"last slot fits", 1, "19:30", 1, true},
		{"blocked in the middle", 1, "15:00", 2, false},
		{"blocked at start", 1, "15:30", 1, false},
		{"zero slots treated as one", 1, "16:00", 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsAvailable(tc.barber, tc.start, tc.slots, g, blocked, occ); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

// Para qualquer trecho, disponível só se cada slot estiver livre.
func TestIsAvailableNoPartialReservation(t *testing.T) {
	g := businessDay()
	rng := rand.New(rand.NewSource(42))

	for iter := 0; iter < 500; iter++ {
		occ := Occupancy{1: {}}
		blocked := map[string]struct{}{}
		for _, s := range g.Slots {
			switch rng.Intn(6) {
			case 0:
				occ[1][s] = OccupancyEntry{AppointmentID: 99}
			case 1:
				blocked[s] = struct{}{}
			}
		}

		startIdx := rng.Intn(g.Len())
		need := 1 + rng.Intn(4)

		want := startIdx+need <= g.Len()
		for i := 0; want && i < need; i++ {
			s := g.Slots[startIdx+i]
			_, busy := occ[1][s]
			_, blk := blocked[s]
			if busy || blk {
				want = false
			}
		}

		if got := IsAvailable(1, g.Slots[startIdx], need, g, blocked, occ); got != want {
			t.Fatalf("iter %d: start=%s need=%d got %v want %v", iter, g.Slots[startIdx], need, got, want)
		}
	}
}

func TestCountAvailableUsesGeneralAndBarberBlocks(t *testing.T) {
	g := businessDay()
	blocks := NewBlockSet(
		BlockEntry{Slot: "14:00", BarberID: GeneralBlock},
		BlockEntry{Slot: "15:00", BarberID: 2},
	)
	occ := BuildOccupancy([]Booking{{ID: 1, BarberID: 3, Start: "15:00", DurationMin: 30}}, g)
	barbers := []uint{1, 2, 3}

	if n := CountAvailable(barbers, "14:00", 1, g, blocks, occ); n != 0 {
		t.Fatalf("general block must close every barber, got %d", n)
	}
	if n := CountAvailable(barbers, "15:00", 1, g, blocks, occ); n != 1 {
		t.Fatalf("only barber 1 is free at 15:00, got %d", n)
	}
	if n := CountAvailable(barbers, "16:00", 1, g, blocks, occ); n != 3 {
		t.Fatalf("everyone is free at 16:00, got %d", n)
	}
}

func TestBlockSetUnion(t *testing.T) {
	bs := NewBlockSet(
		BlockEntry{Slot: "10:00", BarberID: GeneralBlock},
		BlockEntry{Slot: "11:00", BarberID: 5},
	)

	for5 := bs.For(5)
	if _, ok := for5["10:00"]; !ok {
		t.Fatalf("general slot missing for barber 5")
	}
	if _, ok := for5["11:00"]; !ok {
		t.Fatalf("own slot missing for barber 5")
	}
	if _, ok := bs.For(6)["11:00"]; ok {
		t.Fatalf("barber 6 must not see barber 5's block")
	}
	if len(bs.For(GeneralBlock)) != 1 {
		t.Fatalf("general view must only contain general blocks")
	}
}

func TestSpanSlots(t *testing.T) {
	g := businessDay()

	got := SpanSlots(g, "10:00", 50)
	if len(got) != 2 || got[0] != "10:00" || got[1] != "10:30" {
		t.Fatalf("SpanSlots(10:00, 50) = %v", got)
	}
	if got := SpanSlots(g, "10:15", 30); len(got) != 2 {
		t.Fatalf("unaligned start should touch two slots, got %v", got)
	}
}

func TestIntervalOverlaps(t *testing.T) {
	a := Interval{Start: 600, End: 650}
	if a.Overlaps(Interval{Start: 650, End: 700}) {
		t.Fatalf("touching intervals do not overlap")
	}
	if !a.Overlaps(Interval{Start: 640, End: 700}) {
		t.Fatalf("intervals sharing 10 minutes overlap")
	}
}
