package appointment

import (
	"context"
	"errors"
	"testing"

	"github.com/BruksfildServices01/barber-agenda/internal/domain/scheduling"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

func (e *env) gridView(hour, minute int) *GetAvailability {
	uc := NewGetAvailability(e.repo, e.metrics, e.log)
	uc.now = clock(hour, minute)
	return uc
}

func slotCount(t *testing.T, v *AvailabilityView, slot string) int {
	t.Helper()
	for _, s := range v.Slots {
		if s.Time == slot {
			return s.Available
		}
	}
	t.Fatalf("slot %s not in view", slot)
	return -1
}

func TestAvailabilityCountsFreeBarbers(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	if _, err := e.book(clock(8, 0)).Execute(ctx, e.input(e.b1.ID, "10:00", "11987654321", "corte")); err != nil {
		t.Fatal(err)
	}
	_ = e.repo.UpsertBlock(ctx, &models.Block{CompanyID: e.company.ID, Date: day, Time: "16:00"})

	v, err := e.gridView(8, 0).Execute(ctx, AvailabilityInput{
		Slug: "central", Date: day, Services: []string{"corte"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(v.Slots) != 22 || v.SlotsNeeded != 2 || v.Barbers != 2 {
		t.Fatalf("unexpected view header: slots=%d needed=%d barbers=%d", len(v.Slots), v.SlotsNeeded, v.Barbers)
	}

	tests := []struct {
		slot string
		want int
	}{
		{"09:00", 2},
		{"09:30", 1}, // 09:30-10:20 cruza o agendamento do barbeiro 1
		{"10:00", 1},
		{"10:30", 1},
		{"11:00", 2},
		{"15:30", 0}, // o trecho alcança o bloqueio geral das 16:00
		{"16:00", 0},
		{"16:30", 2},
		{"19:00", 2},
		{"19:30", 0}, // terminaria depois das 20:00
	}

	for _, tt := range tests {
		if got := slotCount(t, v, tt.slot); got != tt.want {
			t.Errorf("%s: expected %d free, got %d", tt.slot, tt.want, got)
		}
	}
}

func TestAvailabilityHidesPastSlots(t *testing.T) {
	e := newEnv(t)

	v, err := e.gridView(12, 10).Execute(context.Background(), AvailabilityInput{CompanyID: e.company.ID, Date: day})
	if err != nil {
		t.Fatal(err)
	}

	if slotCount(t, v, "12:00") != 0 || slotCount(t, v, "12:30") != 2 {
		t.Fatalf("expected 12:00 closed and 12:30 open")
	}
}

func TestAvailabilityDegradesOnReadFailures(t *testing.T) {
	e := newEnv(t)
	boom := errors.New("relation does not exist")
	e.repo.FailOn("ListBlocks", boom)
	e.repo.FailOn("ListActiveServices", boom)
	e.repo.FailOn("GetBusinessHours", boom)

	v, err := e.gridView(8, 0).Execute(context.Background(), AvailabilityInput{
		CompanyID: e.company.ID, Date: day, Services: []string{"barba"},
	})
	if err != nil {
		t.Fatalf("read path should degrade, got %v", err)
	}
	if len(v.Slots) != 22 || slotCount(t, v, "09:00") != 2 {
		t.Fatalf("expected default grid with both barbers free")
	}
}

func TestAvailabilityWithoutBarbers(t *testing.T) {
	e := newEnv(t)
	e.repo.FailOn("ListActiveBarbers", errors.New("timeout"))

	v, err := e.gridView(8, 0).Execute(context.Background(), AvailabilityInput{CompanyID: e.company.ID, Date: day})
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range v.Slots {
		if s.Available != 0 {
			t.Fatalf("no barbers means nothing free, got %d at %s", s.Available, s.Time)
		}
	}
}

func TestAvailabilityRejectsBadDate(t *testing.T) {
	e := newEnv(t)
	_, err := e.gridView(8, 0).Execute(context.Background(), AvailabilityInput{CompanyID: e.company.ID, Date: "2030-13-01"})
	if ve, ok := httperr.AsValidation(err); !ok || !ve.Has("date") {
		t.Fatalf("expected date problem, got %v", err)
	}
}

func TestBarberAvailabilityReasons(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	if _, err := e.book(clock(8, 0)).Execute(ctx, e.input(e.b1.ID, "10:00", "11987654321", "barba")); err != nil {
		t.Fatal(err)
	}
	_ = e.repo.UpsertBlock(ctx, &models.Block{CompanyID: e.company.ID, Date: day, Time: "10:00", BarberID: e.b2.ID})

	list, err := e.barberView(clock(8, 0)).Execute(ctx, AvailabilityInput{
		CompanyID: e.company.ID, Date: day, Time: "10:00", Services: []string{"barba"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if r := availableFor(t, list, e.b1.ID).Reason; r != "occupied" {
		t.Errorf("barber 1: expected occupied, got %q", r)
	}
	if r := availableFor(t, list, e.b2.ID).Reason; r != "blocked" {
		t.Errorf("barber 2: expected blocked, got %q", r)
	}

	list, err = e.barberView(clock(8, 0)).Execute(ctx, AvailabilityInput{
		CompanyID: e.company.ID, Date: day, Time: "19:30", Services: []string{"corte"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if r := availableFor(t, list, e.b1.ID).Reason; r != "ends_after_closing" {
		t.Errorf("expected ends_after_closing, got %q", r)
	}
}

func TestCalendarMarksStartAndContinuation(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	ap, err := e.book(clock(8, 0)).Execute(ctx, e.input(e.b1.ID, "10:00", "11987654321", "corte"))
	if err != nil {
		t.Fatal(err)
	}
	_ = e.repo.UpsertBlock(ctx, &models.Block{CompanyID: e.company.ID, Date: day, Time: "12:00"})

	// horário legado fora da grade
	e.repo.AddAppointment(models.Appointment{
		CompanyID: e.company.ID, BarberID: e.b2.ID, Date: day, Time: "13:15",
		TotalMinutes: 30, Status: "scheduled",
	})

	uc := NewGetCalendar(e.repo, e.log)
	uc.now = clock(8, 0)

	v, err := uc.Execute(ctx, e.company.ID, day)
	if err != nil {
		t.Fatal(err)
	}

	rows := map[string]CalendarRow{}
	for _, r := range v.Rows {
		rows[r.Time] = r
	}

	start := rows["10:00"].Cells[0]
	if start.Appointment == nil || start.Appointment.ID != ap.ID || start.Slots != 2 || start.Continuation {
		t.Fatalf("unexpected start cell: %+v", start)
	}
	if next := rows["10:30"].Cells[0]; !next.Continuation || next.Appointment != nil {
		t.Fatalf("unexpected continuation cell: %+v", next)
	}
	if !rows["12:00"].GeneralBlock || !rows["12:00"].Cells[1].Blocked {
		t.Fatalf("general block should reach every barber")
	}
	if len(v.Unplaced) != 1 || v.Unplaced[0].Time != "13:15" {
		t.Fatalf("expected the off-grid appointment as unplaced, got %+v", v.Unplaced)
	}
}

func TestCalendarKeepsInactiveBarberColumn(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	gone := e.repo.AddBarber(models.Barber{CompanyID: e.company.ID, Name: "Carlos", Active: false})
	e.repo.AddAppointment(models.Appointment{
		CompanyID: e.company.ID, BarberID: gone.ID, Date: day, Time: "11:00",
		TotalMinutes: 30, Status: "scheduled",
	})

	uc := NewGetCalendar(e.repo, e.log)
	uc.now = clock(8, 0)

	v, err := uc.Execute(ctx, e.company.ID, day)
	if err != nil {
		t.Fatal(err)
	}

	last := v.Barbers[len(v.Barbers)-1]
	if last.ID != gone.ID || !last.ReadOnly || last.Name != "Carlos" {
		t.Fatalf("expected a read-only column for the inactive barber, got %+v", v.Barbers)
	}
	for _, b := range v.Barbers[:len(v.Barbers)-1] {
		if b.ReadOnly {
			t.Fatalf("active barber marked read-only: %+v", b)
		}
	}
	if len(v.Unplaced) != 0 {
		t.Fatalf("appointment of an inactive barber should be placed, got %+v", v.Unplaced)
	}

	for _, r := range v.Rows {
		if r.Time != "11:00" {
			continue
		}
		cell := r.Cells[len(r.Cells)-1]
		if cell.BarberID != gone.ID || cell.Appointment == nil {
			t.Fatalf("unexpected cell for inactive barber: %+v", cell)
		}
		return
	}
	t.Fatal("11:00 row missing")
}

func TestListingsIncludeCancelled(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	ap, err := e.book(clock(8, 0)).Execute(ctx, e.input(e.b1.ID, "10:00", "11987654321", "corte"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewCancelAppointment(e.repo, nil).Execute(ctx, e.company.ID, nil, ap.ID); err != nil {
		t.Fatal(err)
	}

	byDate, err := NewListAppointmentsByDate(e.repo).Execute(ctx, e.company.ID, 0, day)
	if err != nil {
		t.Fatal(err)
	}
	if len(byDate) != 1 || byDate[0].Status != "cancelled" {
		t.Fatalf("expected the cancelled appointment, got %+v", byDate)
	}

	byMonth, err := NewListAppointmentsByMonth(e.repo).Execute(ctx, e.company.ID, e.b2.ID, 2030, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(byMonth) != 0 {
		t.Fatalf("barber filter ignored: %+v", byMonth)
	}

	if _, err := NewListAppointmentsByMonth(e.repo).Execute(ctx, e.company.ID, 0, 2030, 13); err == nil {
		t.Fatal("expected invalid month")
	}
}

func TestCatalogFallsBackToDefault(t *testing.T) {
	e := newEnv(t)

	v, err := NewGetCatalog(e.repo, e.log).Execute(context.Background(), 0, "central")
	if err != nil {
		t.Fatal(err)
	}
	if v.Source != scheduling.CatalogFromDefault || len(v.Services) != len(scheduling.DefaultCatalog()) {
		t.Fatalf("expected default catalog, got %+v", v)
	}
	if v.Services[0].Key != "sobrancelha" {
		t.Fatalf("expected shortest service first, got %s", v.Services[0].Key)
	}
}
