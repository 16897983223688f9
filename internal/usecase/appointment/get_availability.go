package appointment

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/domain/scheduling"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
	"github.com/BruksfildServices01/barber-agenda/internal/telemetry"
	"github.com/BruksfildServices01/barber-agenda/internal/timezone"
)

type AvailabilityInput struct {
	CompanyID uint
	Slug      string
	Date      string
	Time      string // só para a consulta por barbeiro
	Services  []string
}

type SlotAvailability struct {
	Time      string `json:"time"`
	Available int    `json:"available"`
}

type AvailabilityView struct {
	Date         string             `json:"date"`
	Open         string             `json:"open"`
	Close        string             `json:"close"`
	Interval     int                `json:"interval"`
	Closed       bool               `json:"closed"`
	Services     []string           `json:"services"`
	TotalMinutes int                `json:"total_minutes"`
	SlotsNeeded  int                `json:"slots_needed"`
	Barbers      int                `json:"barbers"`
	Slots        []SlotAvailability `json:"slots"`
}

type BarberAvailability struct {
	BarberID  uint   `json:"barber_id"`
	Name      string `json:"name"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// ======================================================
// GRID + CONTAGEM DE BARBEIROS LIVRES
// ======================================================

type GetAvailability struct {
	repo    domain.Repository
	metrics *telemetry.Metrics
	log     *slog.Logger
	now     func() time.Time
}

func NewGetAvailability(
	repo domain.Repository,
	metrics *telemetry.Metrics,
	log *slog.Logger,
) *GetAvailability {
	if log == nil {
		log = slog.Default()
	}
	return &GetAvailability{
		repo:    repo,
		metrics: metrics,
		log:     log,
		now:     time.Now,
	}
}

// query reúne o que as duas consultas precisam: empresa, dia e seleção.
type query struct {
	company     *models.Company
	day         dayState
	selection   scheduling.Selection
	minutes     int
	slotsNeeded int
	today       string
	nowHM       string
}

func (uc *GetAvailability) prepare(ctx context.Context, in AvailabilityInput) (*query, error) {
	company, err := findCompany(ctx, uc.repo, in.CompanyID, in.Slug)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = timezone.Today(company.Timezone, now)
	}

	day, err := loadDay(ctx, uc.repo, uc.log, company, date)
	if err != nil {
		ve := &httperr.ValidationError{}
		ve.Add("date", "invalid_date", "Data inválida.")
		return nil, ve
	}

	catalog, _ := loadCatalog(ctx, uc.repo, uc.log, company.ID)
	sel := scheduling.Calculate(scheduling.NormalizeServices(in.Services, catalog), catalog)

	// sem seleção a grade mostra quem está livre em um slot
	minutes := sel.TotalMinutes
	if minutes <= 0 {
		minutes = day.Grid.Interval
	}

	return &query{
		company:     company,
		day:         day,
		selection:   sel,
		minutes:     minutes,
		slotsNeeded: scheduling.MinutesToSlots(minutes, day.Grid.Interval),
		today:       timezone.Today(company.Timezone, now),
		nowHM:       scheduling.ClockOf(timezone.In(company.Timezone, now)),
	}, nil
}

// bookable cobre o que vale para qualquer barbeiro: passado e fechamento.
func (q *query) bookable(slot string) bool {
	if q.day.Date < q.today || pastSlot(q.today, q.nowHM, q.day.Date, slot) {
		return false
	}
	return q.day.Grid.FitsBeforeClose(slot, q.minutes)
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) (*AvailabilityView, error) {

	q, err := uc.prepare(ctx, in)
	if err != nil {
		return nil, err
	}
	uc.metrics.AvailabilityQueried("grid")

	d := q.day
	view := &AvailabilityView{
		Date:         d.Date,
		Open:         d.Hours.Open,
		Close:        d.Hours.Close,
		Interval:     d.Grid.Interval,
		Closed:       d.Hours.Closed,
		Services:     q.selection.Keys,
		TotalMinutes: q.selection.TotalMinutes,
		SlotsNeeded:  q.slotsNeeded,
		Barbers:      len(d.Barbers),
		Slots:        make([]SlotAvailability, 0, d.Grid.Len()),
	}
	if view.Services == nil {
		view.Services = []string{}
	}

	ids := d.BarberIDs()
	for _, slot := range d.Grid.Slots {
		n := 0
		if q.bookable(slot) {
			n = scheduling.CountAvailable(ids, slot, q.slotsNeeded, d.Grid, d.Blocks, d.Occupancy)
		}
		view.Slots = append(view.Slots, SlotAvailability{Time: slot, Available: n})
	}

	return view, nil
}

// ======================================================
// BARBEIROS LIVRES PARA UM HORÁRIO
// ======================================================

type GetBarberAvailability struct {
	*GetAvailability
}

func NewGetBarberAvailability(
	repo domain.Repository,
	metrics *telemetry.Metrics,
	log *slog.Logger,
) *GetBarberAvailability {
	return &GetBarberAvailability{GetAvailability: NewGetAvailability(repo, metrics, log)}
}

func (uc *GetBarberAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) ([]BarberAvailability, error) {

	slot := strings.TrimSpace(in.Time)
	if _, ok := scheduling.ParseHM(slot); !ok {
		ve := &httperr.ValidationError{}
		ve.Add("time", "invalid_time", "Horário inválido.")
		return nil, ve
	}

	q, err := uc.prepare(ctx, in)
	if err != nil {
		return nil, err
	}
	uc.metrics.AvailabilityQueried("barbers")

	d := q.day
	out := make([]BarberAvailability, 0, len(d.Barbers))

	for _, b := range d.Barbers {
		item := BarberAvailability{BarberID: b.ID, Name: b.Name}

		switch {
		case !d.Grid.Contains(slot):
			item.Reason = "not_in_grid"
		case !q.bookable(slot):
			if q.day.Grid.FitsBeforeClose(slot, q.minutes) {
				item.Reason = "past"
			} else {
				item.Reason = "ends_after_closing"
			}
		case !scheduling.IsAvailable(b.ID, slot, q.slotsNeeded, d.Grid, d.Blocks.For(b.ID), d.Occupancy):
			item.Reason = firstConflict(b.ID, slot, q.slotsNeeded, d.Grid, d.Blocks, d.Occupancy)
		default:
			item.Available = true
		}

		out = append(out, item)
	}

	return out, nil
}
