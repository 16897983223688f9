package appointment

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/dto"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/timezone"
)

// CalendarBarber com ReadOnly é um barbeiro inativo que ainda tem
// agendamentos no dia; aparece só para consulta.
type CalendarBarber struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	ReadOnly bool   `json:"read_only,omitempty"`
}

// CalendarCell é o estado de um barbeiro em um slot.
// Appointment vem só no primeiro slot; os seguintes são continuação.
type CalendarCell struct {
	BarberID     uint                    `json:"barber_id"`
	Blocked      bool                    `json:"blocked"`
	Continuation bool                    `json:"continuation"`
	Slots        int                     `json:"slots,omitempty"`
	Appointment  *dto.AppointmentListDTO `json:"appointment,omitempty"`
}

type CalendarRow struct {
	Time         string         `json:"time"`
	GeneralBlock bool           `json:"general_block"`
	Cells        []CalendarCell `json:"cells"`
}

type CalendarView struct {
	Date     string           `json:"date"`
	Open     string           `json:"open"`
	Close    string           `json:"close"`
	Interval int              `json:"interval"`
	Closed   bool             `json:"closed"`
	Barbers  []CalendarBarber `json:"barbers"`
	Rows     []CalendarRow    `json:"rows"`

	// agendamentos fora da grade (horário desalinhado ou dia fechado)
	Unplaced []dto.AppointmentListDTO `json:"unplaced"`
}

type GetCalendar struct {
	repo domain.Repository
	log  *slog.Logger
	now  func() time.Time
}

func NewGetCalendar(repo domain.Repository, log *slog.Logger) *GetCalendar {
	if log == nil {
		log = slog.Default()
	}
	return &GetCalendar{repo: repo, log: log, now: time.Now}
}

func (uc *GetCalendar) Execute(
	ctx context.Context,
	companyID uint,
	date string,
) (*CalendarView, error) {

	company, err := findCompany(ctx, uc.repo, companyID, "")
	if err != nil {
		return nil, err
	}

	date = strings.TrimSpace(date)
	if date == "" {
		date = timezone.Today(company.Timezone, uc.now())
	}

	d, err := loadDay(ctx, uc.repo, uc.log, company, date)
	if err != nil {
		ve := &httperr.ValidationError{}
		ve.Add("date", "invalid_date", "Data inválida.")
		return nil, ve
	}

	byID := make(map[uint]dto.AppointmentListDTO, len(d.Scheduled))
	for _, ap := range d.Scheduled {
		byID[ap.ID] = dto.FromAppointment(ap)
	}

	view := &CalendarView{
		Date:     d.Date,
		Open:     d.Hours.Open,
		Close:    d.Hours.Close,
		Interval: d.Grid.Interval,
		Closed:   d.Hours.Closed,
		Barbers:  make([]CalendarBarber, 0, len(d.Barbers)),
		Rows:     make([]CalendarRow, 0, d.Grid.Len()),
		Unplaced: []dto.AppointmentListDTO{},
	}

	for _, b := range d.Barbers {
		view.Barbers = append(view.Barbers, CalendarBarber{ID: b.ID, Name: b.Name})
	}
	view.Barbers = append(view.Barbers, uc.inactiveColumns(ctx, company.ID, d)...)

	placed := map[uint]bool{}

	for _, slot := range d.Grid.Slots {
		row := CalendarRow{
			Time:         slot,
			GeneralBlock: d.Blocks.IsGeneral(slot),
			Cells:        make([]CalendarCell, 0, len(view.Barbers)),
		}

		for _, b := range view.Barbers {
			cell := CalendarCell{
				BarberID: b.ID,
				Blocked:  d.Blocks.IsBlocked(b.ID, slot),
			}

			if e, ok := d.Occupancy.At(b.ID, slot); ok {
				placed[e.AppointmentID] = true
				cell.Continuation = !e.IsStart
				if e.IsStart {
					item := byID[e.AppointmentID]
					cell.Appointment = &item
					cell.Slots = e.Slots
				}
			}

			row.Cells = append(row.Cells, cell)
		}

		view.Rows = append(view.Rows, row)
	}

	for _, ap := range d.Scheduled {
		if !placed[ap.ID] {
			view.Unplaced = append(view.Unplaced, byID[ap.ID])
		}
	}

	return view, nil
}

// inactiveColumns devolve, na ordem dos agendamentos, os barbeiros fora da
// lista de ativos que ainda têm horário marcado no dia.
func (uc *GetCalendar) inactiveColumns(ctx context.Context, companyID uint, d dayState) []CalendarBarber {
	active := make(map[uint]bool, len(d.Barbers))
	for _, b := range d.Barbers {
		active[b.ID] = true
	}

	var cols []CalendarBarber
	for _, ap := range d.Scheduled {
		if active[ap.BarberID] {
			continue
		}
		active[ap.BarberID] = true

		col := CalendarBarber{ID: ap.BarberID, ReadOnly: true}
		if b, err := uc.repo.GetBarber(ctx, companyID, ap.BarberID); err == nil {
			col.Name = b.Name
		} else {
			uc.log.Warn("barber unavailable for calendar",
				"company_id", companyID, "barber_id", ap.BarberID, "err", err)
		}
		cols = append(cols, col)
	}
	return cols
}
