package appointment

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/domain/scheduling"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
	"github.com/BruksfildServices01/barber-agenda/internal/timezone"
)

// findCompany resolve o tenant pelo id (painel) ou pelo slug (página pública).
func findCompany(
	ctx context.Context,
	repo domain.Repository,
	companyID uint,
	slug string,
) (*models.Company, error) {

	var (
		company *models.Company
		err     error
	)

	switch {
	case companyID != 0:
		company, err = repo.GetCompanyByID(ctx, companyID)
	case strings.TrimSpace(slug) != "":
		company, err = repo.GetCompanyBySlug(ctx, strings.TrimSpace(slug))
	default:
		return nil, httperr.ErrBusiness("company_not_found")
	}

	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness("company_not_found")
	}
	return company, err
}

// dayState é a fotografia de um dia usada pelas consultas de disponibilidade.
type dayState struct {
	Date      string
	Hours     domain.DayHours
	Grid      scheduling.Grid
	BlockRows []models.Block
	Blocks    scheduling.BlockSet
	Scheduled []models.Appointment
	Occupancy scheduling.Occupancy
	Barbers   []models.Barber
}

func (d dayState) BarberIDs() []uint {
	ids := make([]uint, 0, len(d.Barbers))
	for _, b := range d.Barbers {
		ids = append(ids, b.ID)
	}
	return ids
}

// loadDay monta o dia para leitura. Falhas nas tabelas auxiliares viram
// conjunto vazio (com warning) em vez de derrubar a consulta.
func loadDay(
	ctx context.Context,
	repo domain.Repository,
	log *slog.Logger,
	company *models.Company,
	date string,
) (dayState, error) {

	day, err := timezone.ParseDate(company.Timezone, date)
	if err != nil {
		return dayState{}, err
	}

	wh, err := repo.GetBusinessHours(ctx, company.ID, domain.Weekday(day))
	if err != nil {
		log.Warn("business hours unavailable, using company defaults",
			"company_id", company.ID, "err", err)
		wh = nil
	}
	hours := domain.ResolveDayHours(company, wh)

	blocks, err := repo.ListBlocks(ctx, company.ID, date)
	if err != nil {
		log.Warn("blocks unavailable", "company_id", company.ID, "date", date, "err", err)
		blocks = nil
	}

	scheduled, err := repo.ListScheduledForDay(ctx, company.ID, date)
	if err != nil {
		log.Warn("appointments unavailable", "company_id", company.ID, "date", date, "err", err)
		scheduled = nil
	}

	barbers, err := repo.ListActiveBarbers(ctx, company.ID)
	if err != nil {
		log.Warn("barbers unavailable", "company_id", company.ID, "err", err)
		barbers = nil
	}

	grid := hours.Grid()

	return dayState{
		Date:      date,
		Hours:     hours,
		Grid:      grid,
		BlockRows: blocks,
		Blocks:    domain.ToBlockSet(blocks),
		Scheduled: scheduled,
		Occupancy: scheduling.BuildOccupancy(domain.ToBookings(scheduled), grid),
		Barbers:   barbers,
	}, nil
}

// loadCatalog resolve o catálogo da empresa, caindo no padrão quando a
// empresa não tem serviços ativos ou a tabela não pode ser lida.
func loadCatalog(
	ctx context.Context,
	repo domain.Repository,
	log *slog.Logger,
	companyID uint,
) (scheduling.Catalog, scheduling.CatalogSource) {

	rows, err := repo.ListActiveServices(ctx, companyID)
	if err != nil {
		log.Warn("services unavailable, using default catalog", "company_id", companyID, "err", err)
		rows = nil
	}

	services := make([]scheduling.Service, 0, len(rows))
	for _, s := range rows {
		services = append(services, scheduling.Service{
			Key:         s.Key,
			Label:       s.Label,
			Price:       s.Price,
			DurationMin: s.DurationMin,
		})
	}

	return scheduling.ResolveCatalog(services, scheduling.DefaultCatalog())
}

// pastSlot indica se o slot de hoje já começou no fuso da empresa.
func pastSlot(today, nowHM, date, slot string) bool {
	return date == today && slot < nowHM
}

// firstConflict devolve o motivo do primeiro slot que impede o trecho.
func firstConflict(
	barberID uint,
	slot string,
	slotsNeeded int,
	grid scheduling.Grid,
	blocks scheduling.BlockSet,
	occ scheduling.Occupancy,
) string {

	start, _ := grid.IndexOf(slot)
	for i := 0; i < max(slotsNeeded, 1); i++ {
		idx := start + i
		if idx >= grid.Len() {
			return "ends_after_closing"
		}
		if blocks.IsBlocked(barberID, grid.Slots[idx]) {
			return "blocked"
		}
		if _, ok := occ.At(barberID, grid.Slots[idx]); ok {
			return "occupied"
		}
	}
	return "occupied"
}
