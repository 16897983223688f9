package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/domain/scheduling"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

// CreateInternalAppointment é o agendamento lançado pela equipe no painel.
// Confere conflito por intervalo de tempo em vez de montar a ocupação do dia.
type CreateInternalAppointment struct {
	writer
}

func NewCreateInternalAppointment(d Deps) *CreateInternalAppointment {
	return &CreateInternalAppointment{writer: newWriter(d)}
}

func (uc *CreateInternalAppointment) Execute(
	ctx context.Context,
	in BookingInput,
) (*models.Appointment, error) {

	p, err := uc.plan(ctx, in)
	if err != nil {
		return nil, uc.reject(err)
	}

	var created *models.Appointment

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if _, err := tx.LockBarber(ctx, p.Company.ID, p.Barber.ID); err != nil {
			return err
		}

		if err := checkDuplicate(ctx, tx, p); err != nil {
			return err
		}

		// --------------------------------------------------
		// Bloqueios em qualquer slot tocado pelo atendimento
		// --------------------------------------------------
		blocks, err := tx.ListBlocks(ctx, p.Company.ID, p.Date)
		if err != nil {
			return err
		}
		bs := domain.ToBlockSet(blocks)

		for _, slot := range scheduling.SpanSlots(p.Grid, p.Slot, p.Selection.TotalMinutes) {
			if bs.IsBlocked(p.Barber.ID, slot) {
				return errBlocked
			}
		}

		start, _ := p.Grid.IndexOf(p.Slot)
		if start+p.SlotsNeeded > p.Grid.Len() {
			return errEndsAfterClosing
		}

		// --------------------------------------------------
		// Sobreposição real [início, fim)
		// --------------------------------------------------
		conflict, err := tx.HasTimeConflict(ctx, p.Company.ID, p.Barber.ID, p.StartAt, p.EndAt)
		if err != nil {
			return err
		}
		if conflict {
			return errSlotUnavailable
		}

		created, err = persist(ctx, tx, p, domain.OriginInternal, in.Notes)
		return err
	})
	if err != nil {
		return nil, uc.reject(err)
	}

	uc.after(ctx, p, created, in.UserID)
	return created, nil
}
