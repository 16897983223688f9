package block

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/BruksfildServices01/barber-agenda/internal/audit"
	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/domain/scheduling"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
	"github.com/BruksfildServices01/barber-agenda/internal/timezone"
)

type Input struct {
	CompanyID uint
	UserID    *uint
	Date      string
	Time      string
	BarberID  uint // 0 = bloqueio geral
	Reason    string
}

type BatchItem struct {
	Time     string `json:"time"`
	BarberID uint   `json:"barber_id"`
}

type BatchInput struct {
	CompanyID uint
	UserID    *uint
	Date      string
	Items     []BatchItem
	Reason    string
}

type Skipped struct {
	Time     string `json:"time"`
	BarberID uint   `json:"barber_id"`
	Code     string `json:"code"`
}

// Created traz o bloqueio gravado. Superseded indica que já havia um
// bloqueio geral no slot; nesse caso Block é esse geral e nada foi gravado.
type Created struct {
	Block      models.Block
	Superseded bool
}

type BatchResult struct {
	Applied int       `json:"applied"`
	Skipped []Skipped `json:"skipped"`
}

// ======================================================
// REGISTRY
// ======================================================

// Registry concentra os comandos e consultas de bloqueio de agenda.
type Registry struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	log   *slog.Logger
}

func NewRegistry(
	repo domain.Repository,
	audit *audit.Dispatcher,
	log *slog.Logger,
) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{repo: repo, audit: audit, log: log}
}

func (r *Registry) validDate(ctx context.Context, companyID uint, date string) (*models.Company, error) {
	company, err := r.repo.GetCompanyByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness("company_not_found")
		}
		return nil, err
	}

	if _, err := timezone.ParseDate(company.Timezone, date); err != nil {
		ve := &httperr.ValidationError{}
		ve.Add("date", "invalid_date", "Data inválida.")
		return nil, ve
	}
	return company, nil
}

// apply grava um bloqueio respeitando a regra de que o geral sempre vence:
// o geral apaga os específicos do mesmo slot e o específico sob um geral é ignorado.
func apply(ctx context.Context, tx domain.Repository, b *models.Block, existing scheduling.BlockSet) (bool, error) {
	if b.IsGeneral() {
		if err := tx.DeleteBarberBlocksAt(ctx, b.CompanyID, b.Date, b.Time); err != nil {
			return false, err
		}
		existing.Add(b.Time, scheduling.GeneralBlock)
	} else if existing.IsGeneral(b.Time) {
		return false, nil
	}

	if err := tx.UpsertBlock(ctx, b); err != nil {
		return false, err
	}
	return true, nil
}

// ------------------------------------------------------
// Create
// ------------------------------------------------------

func (r *Registry) Create(ctx context.Context, in Input) (*Created, error) {
	date := strings.TrimSpace(in.Date)
	slot := strings.TrimSpace(in.Time)

	company, err := r.validDate(ctx, in.CompanyID, date)
	if err != nil {
		return nil, err
	}

	if _, ok := scheduling.ParseHM(slot); !ok {
		ve := &httperr.ValidationError{}
		ve.Add("time", "invalid_time", "Horário inválido.")
		return nil, ve
	}

	if in.BarberID != 0 {
		if _, err := r.repo.GetBarber(ctx, company.ID, in.BarberID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, httperr.ErrBusiness("barber_not_found")
			}
			return nil, err
		}
	}

	b := &models.Block{
		CompanyID: company.ID,
		Date:      date,
		Time:      slot,
		BarberID:  in.BarberID,
		Reason:    strings.TrimSpace(in.Reason),
		CreatedBy: in.UserID,
	}

	var general *models.Block
	err = r.repo.Transaction(ctx, func(tx domain.Repository) error {
		rows, err := tx.ListBlocks(ctx, company.ID, date)
		if err != nil {
			return err
		}
		stored, err := apply(ctx, tx, b, domain.ToBlockSet(rows))
		if err != nil || stored {
			return err
		}
		for i := range rows {
			if rows[i].Time == slot && rows[i].IsGeneral() {
				general = &rows[i]
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if general != nil {
		return &Created{Block: *general, Superseded: true}, nil
	}

	r.audit.Dispatch(audit.Event{
		CompanyID: company.ID,
		UserID:    in.UserID,
		Action:    "block_created",
		Entity:    "block",
		Metadata: map[string]any{
			"date":      date,
			"time":      slot,
			"barber_id": in.BarberID,
		},
	})

	return &Created{Block: *b}, nil
}

// ------------------------------------------------------
// Batch
// ------------------------------------------------------

// CreateBatch aplica todos os bloqueios de uma data numa única transação.
// Horários malformados são pulados e devolvidos; qualquer outra falha desfaz tudo.
func (r *Registry) CreateBatch(ctx context.Context, in BatchInput) (*BatchResult, error) {
	date := strings.TrimSpace(in.Date)

	company, err := r.validDate(ctx, in.CompanyID, date)
	if err != nil {
		return nil, err
	}

	barbers, err := r.repo.ListActiveBarbers(ctx, company.ID)
	if err != nil {
		return nil, err
	}
	known := make(map[uint]bool, len(barbers))
	for _, b := range barbers {
		known[b.ID] = true
	}

	res := &BatchResult{Skipped: []Skipped{}}
	var pending []*models.Block

	for _, item := range in.Items {
		slot := strings.TrimSpace(item.Time)

		switch {
		case !validHM(slot):
			res.Skipped = append(res.Skipped, Skipped{Time: item.Time, BarberID: item.BarberID, Code: "invalid_time"})
		case item.BarberID != 0 && !known[item.BarberID]:
			res.Skipped = append(res.Skipped, Skipped{Time: slot, BarberID: item.BarberID, Code: "barber_not_found"})
		default:
			pending = append(pending, &models.Block{
				CompanyID: company.ID,
				Date:      date,
				Time:      slot,
				BarberID:  item.BarberID,
				Reason:    strings.TrimSpace(in.Reason),
				CreatedBy: in.UserID,
			})
		}
	}

	// gerais primeiro para que os específicos do mesmo slot sejam descartados
	generalFirst(pending)

	err = r.repo.Transaction(ctx, func(tx domain.Repository) error {
		rows, err := tx.ListBlocks(ctx, company.ID, date)
		if err != nil {
			return err
		}
		set := domain.ToBlockSet(rows)

		applied := 0
		for _, b := range pending {
			ok, err := apply(ctx, tx, b, set)
			if err != nil {
				return err
			}
			if ok {
				applied++
			}
		}
		res.Applied = applied
		return nil
	})
	if err != nil {
		r.log.Error("block batch rolled back",
			"company_id", company.ID, "date", date, "err", err)
		return nil, err
	}

	r.audit.Dispatch(audit.Event{
		CompanyID: company.ID,
		UserID:    in.UserID,
		Action:    "block_batch_created",
		Entity:    "block",
		Metadata: map[string]any{
			"date":    date,
			"applied": res.Applied,
			"skipped": len(res.Skipped),
		},
	})

	return res, nil
}

func validHM(s string) bool {
	_, ok := scheduling.ParseHM(s)
	return ok
}

func generalFirst(blocks []*models.Block) {
	i := 0
	for j, b := range blocks {
		if b.IsGeneral() {
			blocks[i], blocks[j] = blocks[j], blocks[i]
			i++
		}
	}
}

// ------------------------------------------------------
// Delete / List
// ------------------------------------------------------

// Delete remove exatamente o bloqueio (data, horário, escopo) informado.
func (r *Registry) Delete(ctx context.Context, in Input) error {
	date := strings.TrimSpace(in.Date)
	slot := strings.TrimSpace(in.Time)

	company, err := r.validDate(ctx, in.CompanyID, date)
	if err != nil {
		return err
	}

	n, err := r.repo.DeleteBlock(ctx, company.ID, date, slot, in.BarberID)
	if err != nil {
		return err
	}
	if n == 0 {
		return httperr.ErrBusiness("block_not_found")
	}

	r.audit.Dispatch(audit.Event{
		CompanyID: company.ID,
		UserID:    in.UserID,
		Action:    "block_deleted",
		Entity:    "block",
		Metadata: map[string]any{
			"date":      date,
			"time":      slot,
			"barber_id": in.BarberID,
		},
	})

	return nil
}

func (r *Registry) List(ctx context.Context, companyID uint, date string) ([]models.Block, error) {
	date = strings.TrimSpace(date)

	company, err := r.validDate(ctx, companyID, date)
	if err != nil {
		return nil, err
	}

	blocks, err := r.repo.ListBlocks(ctx, company.ID, date)
	if err != nil {
		r.log.Warn("blocks unavailable", "company_id", company.ID, "date", date, "err", err)
		return []models.Block{}, nil
	}
	if blocks == nil {
		blocks = []models.Block{}
	}
	return blocks, nil
}
