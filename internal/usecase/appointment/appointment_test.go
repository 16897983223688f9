package appointment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/logging"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
	"github.com/BruksfildServices01/barber-agenda/internal/telemetry"
	"github.com/BruksfildServices01/barber-agenda/internal/testutil/memrepo"
	"github.com/BruksfildServices01/barber-agenda/internal/timezone"
)

// ==============================
// Fixtures
// ==============================

const day = "2030-03-04" // segunda-feira

var saoPaulo = timezone.Location("America/Sao_Paulo")

func clock(hour, minute int) func() time.Time {
	return func() time.Time {
		return time.Date(2030, 3, 4, hour, minute, 0, 0, saoPaulo)
	}
}

type recordingSender struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (s *recordingSender) ProviderID() string { return "recording" }

func (s *recordingSender) Send(_ context.Context, phone, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, phone)
	return s.err
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type env struct {
	repo    *memrepo.Repo
	company models.Company
	b1, b2  models.Barber
	sender  *recordingSender
	metrics *telemetry.Metrics
	log     *slog.Logger
}

func newEnv(t *testing.T) *env {
	t.Helper()

	repo := memrepo.New()
	company := repo.AddCompany(models.Company{
		Name:        "Barbearia Central",
		Slug:        "central",
		Timezone:    "America/Sao_Paulo",
		OpenTime:    "09:00",
		CloseTime:   "20:00",
		SlotMinutes: 30,
	})

	return &env{
		repo:    repo,
		company: company,
		b1:      repo.AddBarber(models.Barber{CompanyID: company.ID, Name: "João", Active: true}),
		b2:      repo.AddBarber(models.Barber{CompanyID: company.ID, Name: "Pedro", Active: true}),
		sender:  &recordingSender{},
		metrics: telemetry.NewMetrics(),
		log:     logging.Discard(),
	}
}

func (e *env) deps() Deps {
	return Deps{Repo: e.repo, Sender: e.sender, Metrics: e.metrics, Log: e.log}
}

func (e *env) book(now func() time.Time) *BookAppointment {
	uc := NewBookAppointment(e.deps())
	uc.now = now
	return uc
}

func (e *env) internal(now func() time.Time) *CreateInternalAppointment {
	uc := NewCreateInternalAppointment(e.deps())
	uc.now = now
	return uc
}

func (e *env) barberView(now func() time.Time) *GetBarberAvailability {
	uc := NewGetBarberAvailability(e.repo, e.metrics, e.log)
	uc.now = now
	return uc
}

func (e *env) input(barberID uint, slot, phone string, services ...string) BookingInput {
	return BookingInput{
		CompanyID:     e.company.ID,
		BarberID:      barberID,
		Date:          day,
		Time:          slot,
		Services:      services,
		CustomerName:  "Carlos Silva",
		CustomerPhone: phone,
	}
}

func availableFor(t *testing.T, list []BarberAvailability, barberID uint) BarberAvailability {
	t.Helper()
	for _, b := range list {
		if b.BarberID == barberID {
			return b
		}
	}
	t.Fatalf("barber %d not in result", barberID)
	return BarberAvailability{}
}

func conflictCode(err error) string {
	var ce httperr.ConflictError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// ==============================
// Booking + cancel scenario
// ==============================

func TestBookThenCancelFreesSlots(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	now := clock(8, 0)

	ap, err := e.book(now).Execute(ctx, e.input(e.b1.ID, "10:00", "11 98765-4321", "corte"))
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	if ap.EndsAt != "10:50" || ap.TotalMinutes != 50 {
		t.Fatalf("expected 10:00-10:50 / 50min, got ends_at=%s minutes=%d", ap.EndsAt, ap.TotalMinutes)
	}
	if ap.Status != string(domain.StatusScheduled) || ap.Origin != string(domain.OriginPublic) {
		t.Fatalf("unexpected status/origin: %s/%s", ap.Status, ap.Origin)
	}
	if ap.CustomerPhone != "+5511987654321" {
		t.Fatalf("phone not normalized: %s", ap.CustomerPhone)
	}
	if !ap.TotalPrice.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("expected price 40, got %s", ap.TotalPrice)
	}
	if e.sender.count() != 1 {
		t.Fatalf("expected one confirmation, got %d", e.sender.count())
	}

	view := e.barberView(now)

	cases := []struct {
		slot string
		free bool
	}{
		{"10:00", false},
		{"10:30", false},
		{"11:00", true},
	}

	for _, tc := range cases {
		for _, services := range [][]string{{"sobrancelha"}, {"corte"}, {"barba"}} {
			list, err := view.Execute(ctx, AvailabilityInput{
				CompanyID: e.company.ID, Date: day, Time: tc.slot, Services: services,
			})
			if err != nil {
				t.Fatalf("availability: %v", err)
			}
			if got := availableFor(t, list, e.b1.ID).Available; got != tc.free {
				t.Errorf("barber 1 at %s %v: expected available=%v, got %v", tc.slot, services, tc.free, got)
			}
			if !availableFor(t, list, e.b2.ID).Available {
				t.Errorf("barber 2 at %s should stay available", tc.slot)
			}
		}
	}

	cancel := NewCancelAppointment(e.repo, nil)
	if _, err := cancel.Execute(ctx, e.company.ID, nil, ap.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	for _, slot := range []string{"10:00", "10:30"} {
		list, err := view.Execute(ctx, AvailabilityInput{
			CompanyID: e.company.ID, Date: day, Time: slot, Services: []string{"sobrancelha"},
		})
		if err != nil {
			t.Fatalf("availability: %v", err)
		}
		if !availableFor(t, list, e.b1.ID).Available {
			t.Errorf("barber 1 should be free at %s after cancel", slot)
		}
		if !availableFor(t, list, e.b2.ID).Available {
			t.Errorf("barber 2 should be unaffected at %s", slot)
		}
	}

	if _, err := cancel.Execute(ctx, e.company.ID, nil, ap.ID); !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("second cancel should be invalid_state, got %v", err)
	}
}

func TestCancelUnknownAppointment(t *testing.T) {
	e := newEnv(t)
	_, err := NewCancelAppointment(e.repo, nil).Execute(context.Background(), e.company.ID, nil, 999)
	if !httperr.IsBusiness(err, "appointment_not_found") {
		t.Fatalf("expected appointment_not_found, got %v", err)
	}
}

// ==============================
// Conflicts
// ==============================

func TestBookRejections(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		setup func(e *env)
		in    func(e *env) BookingInput
		code  string
	}{
		{
			name: "duplicate submission",
			setup: func(e *env) {
				if _, err := e.book(clock(8, 0)).Execute(ctx, e.input(e.b1.ID, "10:00", "11987654321", "barba")); err != nil {
					panic(err)
				}
			},
			in:   func(e *env) BookingInput { return e.input(e.b1.ID, "10:00", "(11) 98765-4321", "barba") },
			code: "duplicate_booking",
		},
		{
			name: "other customer on same span",
			setup: func(e *env) {
				if _, err := e.book(clock(8, 0)).Execute(ctx, e.input(e.b1.ID, "10:00", "11987654321", "corte")); err != nil {
					panic(err)
				}
			},
			in:   func(e *env) BookingInput { return e.input(e.b1.ID, "10:30", "11912345678", "barba") },
			code: "slot_unavailable",
		},
		{
			name: "general block inside span",
			setup: func(e *env) {
				_ = e.repo.UpsertBlock(ctx, &models.Block{CompanyID: e.company.ID, Date: day, Time: "10:30"})
			},
			in:   func(e *env) BookingInput { return e.input(e.b1.ID, "10:00", "11987654321", "corte") },
			code: "blocked",
		},
		{
			name: "barber block at start",
			setup: func(e *env) {
				_ = e.repo.UpsertBlock(ctx, &models.Block{CompanyID: e.company.ID, Date: day, Time: "10:00", BarberID: e.b1.ID})
			},
			in:   func(e *env) BookingInput { return e.input(e.b1.ID, "10:00", "11987654321", "barba") },
			code: "blocked",
		},
		{
			name: "runs past closing",
			in:   func(e *env) BookingInput { return e.input(e.b1.ID, "19:30", "11987654321", "corte") },
			code: "ends_after_closing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			if tt.setup != nil {
				tt.setup(e)
			}

			_, err := e.book(clock(8, 0)).Execute(ctx, tt.in(e))
			if got := conflictCode(err); got != tt.code {
				t.Fatalf("expected conflict %q, got %v", tt.code, err)
			}
		})
	}
}

func TestBarberBlockDoesNotAffectOthers(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	_ = e.repo.UpsertBlock(ctx, &models.Block{CompanyID: e.company.ID, Date: day, Time: "10:00", BarberID: e.b1.ID})

	if _, err := e.book(clock(8, 0)).Execute(ctx, e.input(e.b2.ID, "10:00", "11987654321", "barba")); err != nil {
		t.Fatalf("barber 2 should be bookable: %v", err)
	}
}

// ==============================
// Validation
// ==============================

func TestBookAccumulatesValidationProblems(t *testing.T) {
	e := newEnv(t)

	_, err := e.book(clock(8, 0)).Execute(context.Background(), BookingInput{
		CompanyID:     e.company.ID,
		Date:          "04/03/2030",
		Time:          "9h",
		Services:      []string{"inexistente"},
		CustomerPhone: "123",
	})

	ve, ok := httperr.AsValidation(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}

	for _, field := range []string{"customer_name", "customer_phone", "date", "barber_id", "services", "time"} {
		if !ve.Has(field) {
			t.Errorf("expected problem for %s, got %+v", field, ve.Problems)
		}
	}
	if n := len(e.repo.Appointments()); n != 0 {
		t.Fatalf("nothing should be stored, got %d", n)
	}
}

func TestBookValidationCases(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		now   func() time.Time
		setup func(e *env)
		in    func(e *env) BookingInput
		field string
	}{
		{
			name:  "slot already passed today",
			now:   clock(12, 10),
			in:    func(e *env) BookingInput { return e.input(e.b1.ID, "12:00", "11987654321", "barba") },
			field: "time",
		},
		{
			name: "date in the past",
			now:  clock(8, 0),
			in: func(e *env) BookingInput {
				in := e.input(e.b1.ID, "10:00", "11987654321", "barba")
				in.Date = "2030-03-03"
				return in
			},
			field: "date",
		},
		{
			name: "closed weekday",
			now:  clock(8, 0),
			setup: func(e *env) {
				e.repo.AddBusinessHours(models.BusinessHours{CompanyID: e.company.ID, Weekday: 1, Closed: true})
			},
			in:    func(e *env) BookingInput { return e.input(e.b1.ID, "10:00", "11987654321", "barba") },
			field: "date",
		},
		{
			name:  "slot off the grid",
			now:   clock(8, 0),
			in:    func(e *env) BookingInput { return e.input(e.b1.ID, "10:15", "11987654321", "barba") },
			field: "time",
		},
		{
			name: "inactive barber",
			now:  clock(8, 0),
			in: func(e *env) BookingInput {
				off := e.repo.AddBarber(models.Barber{CompanyID: e.company.ID, Name: "Folga", Active: false})
				return e.input(off.ID, "10:00", "11987654321", "barba")
			},
			field: "barber_id",
		},
		{
			name: "barber from another company",
			now:  clock(8, 0),
			in: func(e *env) BookingInput {
				other := e.repo.AddCompany(models.Company{Name: "Outra", Slug: "outra", Timezone: "America/Sao_Paulo"})
				stranger := e.repo.AddBarber(models.Barber{CompanyID: other.ID, Name: "Zé", Active: true})
				return e.input(stranger.ID, "10:00", "11987654321", "barba")
			},
			field: "barber_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			if tt.setup != nil {
				tt.setup(e)
			}

			_, err := e.book(tt.now).Execute(ctx, tt.in(e))
			ve, ok := httperr.AsValidation(err)
			if !ok {
				t.Fatalf("expected validation error, got %v", err)
			}
			if !ve.Has(tt.field) {
				t.Fatalf("expected problem on %s, got %+v", tt.field, ve.Problems)
			}
		})
	}
}

func TestBookUnknownCompany(t *testing.T) {
	e := newEnv(t)
	_, err := e.book(clock(8, 0)).Execute(context.Background(), BookingInput{Slug: "nao-existe"})
	if !httperr.IsBusiness(err, "company_not_found") {
		t.Fatalf("expected company_not_found, got %v", err)
	}
}

func TestBookUsesTenantCatalog(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.repo.AddService(models.Service{
		CompanyID: e.company.ID, Key: "degrade", Label: "Degradê",
		Price: decimal.NewFromInt(45), DurationMin: 40, Active: true,
	})

	ap, err := e.book(clock(8, 0)).Execute(ctx, e.input(e.b1.ID, "10:00", "11987654321", "degrade"))
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if ap.EndsAt != "10:40" {
		t.Fatalf("expected 10:40, got %s", ap.EndsAt)
	}

	// com catálogo próprio o padrão deixa de valer
	_, err = e.book(clock(8, 0)).Execute(ctx, e.input(e.b2.ID, "10:00", "11912345678", "corte"))
	if ve, ok := httperr.AsValidation(err); !ok || !ve.Has("services") {
		t.Fatalf("expected services problem, got %v", err)
	}
}

// ==============================
// Collaborators and storage
// ==============================

func TestBookSurvivesMessagingFailure(t *testing.T) {
	e := newEnv(t)
	e.sender.err = errors.New("provider down")

	ap, err := e.book(clock(8, 0)).Execute(context.Background(), e.input(e.b1.ID, "10:00", "11987654321", "barba"))
	if err != nil {
		t.Fatalf("booking must not fail on messaging error: %v", err)
	}
	if ap.ID == 0 || e.sender.count() != 1 {
		t.Fatalf("expected stored appointment and one attempt")
	}
}

func TestBookPropagatesStorageErrors(t *testing.T) {
	e := newEnv(t)
	boom := errors.New("connection reset")
	e.repo.FailOn("ListBlocks", boom)

	_, err := e.book(clock(8, 0)).Execute(context.Background(), e.input(e.b1.ID, "10:00", "11987654321", "barba"))
	if !errors.Is(err, boom) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if len(e.repo.Appointments()) != 0 || len(e.repo.Clients()) != 0 {
		t.Fatalf("transaction should have rolled back")
	}
}

// ==============================
// Internal path
// ==============================

func TestInternalPath(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	staff := uint(7)

	first := e.input(e.b1.ID, "10:00", "11987654321", "corte")
	first.UserID = &staff
	ap, err := e.internal(clock(8, 0)).Execute(ctx, first)
	if err != nil {
		t.Fatalf("internal booking: %v", err)
	}
	if ap.Origin != string(domain.OriginInternal) {
		t.Fatalf("expected internal origin, got %s", ap.Origin)
	}

	tests := []struct {
		name  string
		setup func()
		in    BookingInput
		code  string
	}{
		{"overlapping tail", nil, e.input(e.b1.ID, "10:30", "11912345678", "barba"), "slot_unavailable"},
		{"after the appointment", nil, e.input(e.b1.ID, "11:00", "11912345678", "barba"), ""},
		{"other barber same slot", nil, e.input(e.b2.ID, "10:00", "11912345678", "barba"), ""},
		{
			"general block",
			func() { _ = e.repo.UpsertBlock(ctx, &models.Block{CompanyID: e.company.ID, Date: day, Time: "15:30"}) },
			e.input(e.b2.ID, "15:00", "11955555555", "corte"),
			"blocked",
		},
		{"past closing", nil, e.input(e.b2.ID, "19:30", "11955555555", "corte"), "ends_after_closing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
			}
			_, err := e.internal(clock(8, 0)).Execute(ctx, tt.in)
			if tt.code == "" {
				if err != nil {
					t.Fatalf("expected success, got %v", err)
				}
				return
			}
			if got := conflictCode(err); got != tt.code {
				t.Fatalf("expected %q, got %v", tt.code, err)
			}
		})
	}
}

func TestOffGridAppointmentConflictsOnBothPaths(t *testing.T) {
	ctx := context.Background()

	legacyStart := time.Date(2030, 3, 4, 10, 15, 0, 0, saoPaulo)

	tests := []struct {
		slot string
		code string
	}{
		{"10:00", "slot_unavailable"},
		{"10:30", "slot_unavailable"},
		{"09:00", ""},
		{"11:00", ""},
	}

	for _, path := range []string{"public", "internal"} {
		for _, tt := range tests {
			t.Run(path+" "+tt.slot, func(t *testing.T) {
				e := newEnv(t)
				e.repo.AddAppointment(models.Appointment{
					CompanyID: e.company.ID, BarberID: e.b1.ID, Date: day, Time: "10:15",
					StartAt: legacyStart, EndAt: legacyStart.Add(30 * time.Minute),
					TotalMinutes: 30, Status: string(domain.StatusScheduled),
				})

				in := e.input(e.b1.ID, tt.slot, "11987654321", "corte")

				var err error
				if path == "public" {
					_, err = e.book(clock(8, 0)).Execute(ctx, in)
				} else {
					_, err = e.internal(clock(8, 0)).Execute(ctx, in)
				}

				if tt.code == "" {
					if err != nil {
						t.Fatalf("expected success, got %v", err)
					}
					return
				}
				if got := conflictCode(err); got != tt.code {
					t.Fatalf("expected %q, got %v", tt.code, err)
				}
			})
		}
	}
}

// ==============================
// Non-overlap property
// ==============================

func TestWriterNeverStoresOverlaps(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	rng := rand.New(rand.NewSource(7))

	keys := []string{"corte", "barba", "corte_barba", "sobrancelha", "pigmentacao"}
	barbers := []uint{e.b1.ID, e.b2.ID}
	public := e.book(clock(8, 0))
	internal := e.internal(clock(8, 0))

	accepted := 0
	for i := 0; i < 300; i++ {
		slot := fmt.Sprintf("%02d:%02d", 9+rng.Intn(11), 30*rng.Intn(2))

		var services []string
		for _, k := range keys {
			if rng.Intn(3) == 0 {
				services = append(services, k)
			}
		}
		if len(services) == 0 {
			services = []string{keys[rng.Intn(len(keys))]}
		}

		in := e.input(barbers[rng.Intn(2)], slot, fmt.Sprintf("119%08d", rng.Intn(100000000)), services...)

		var err error
		if rng.Intn(2) == 0 {
			_, err = public.Execute(ctx, in)
		} else {
			_, err = internal.Execute(ctx, in)
		}

		if err == nil {
			accepted++
			continue
		}
		if !httperr.IsConflict(err, "") {
			t.Fatalf("attempt %d: unexpected error %v", i, err)
		}
	}

	if accepted == 0 {
		t.Fatal("expected at least one accepted booking")
	}
	assertNoOverlap(t, e.repo.Appointments())
}

func TestConcurrentBookingsSameSpan(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.repo.EnforceNoOverlap()

	uc := e.book(clock(8, 0))

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := uc.Execute(ctx, e.input(e.b1.ID, "14:00", fmt.Sprintf("1198000%04d", i), "corte_barba"))
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if ok != 1 {
		t.Fatalf("expected exactly one winner, got %d", ok)
	}
	assertNoOverlap(t, e.repo.Appointments())
}

func assertNoOverlap(t *testing.T, aps []models.Appointment) {
	t.Helper()
	for i := range aps {
		for j := i + 1; j < len(aps); j++ {
			a, b := aps[i], aps[j]
			if a.BarberID != b.BarberID || a.Date != b.Date {
				continue
			}
			if !domain.IsScheduled(a) || !domain.IsScheduled(b) {
				continue
			}
			if a.StartAt.Before(b.EndAt) && b.StartAt.Before(a.EndAt) {
				t.Fatalf("overlap: #%d %s-%s and #%d %s-%s", a.ID, a.Time, a.EndsAt, b.ID, b.Time, b.EndsAt)
			}
		}
	}
}
