// Package memrepo é um Repository em memória para testes de use case.
// Transações são serializadas e desfeitas por snapshot em caso de erro.
package memrepo

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/domain/scheduling"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

type data struct {
	companies    []models.Company
	hours        []models.BusinessHours
	services     []models.Service
	barbers      []models.Barber
	blocks       []models.Block
	clients      []models.Client
	appointments []models.Appointment
	nextID       uint
}

func (d *data) clone() data {
	return data{
		companies:    slices.Clone(d.companies),
		hours:        slices.Clone(d.hours),
		services:     slices.Clone(d.services),
		barbers:      slices.Clone(d.barbers),
		blocks:       slices.Clone(d.blocks),
		clients:      slices.Clone(d.clients),
		appointments: slices.Clone(d.appointments),
		nextID:       d.nextID,
	}
}

type shared struct {
	mu   sync.Mutex
	txMu sync.Mutex
	d    data
	fail map[string]fault

	// EnforceNoOverlap imita a constraint de exclusão do Postgres.
	enforceNoOverlap bool
}

type Repo struct {
	s    *shared
	inTx bool
}

func New() *Repo {
	return &Repo{s: &shared{fail: map[string]fault{}}}
}

// EnforceNoOverlap faz CreateAppointment recusar sobreposição como o banco faria.
func (r *Repo) EnforceNoOverlap() *Repo {
	r.s.enforceNoOverlap = true
	return r
}

type fault struct {
	err  error
	skip int
}

// FailOn faz o método indicado devolver err.
func (r *Repo) FailOn(method string, err error) {
	r.FailAfter(method, 0, err)
}

// FailAfter deixa passar n chamadas e falha a partir da seguinte.
func (r *Repo) FailAfter(method string, n int, err error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.fail[method] = fault{err: err, skip: n}
}

func (r *Repo) failure(method string) error {
	f, ok := r.s.fail[method]
	if !ok {
		return nil
	}
	if f.skip > 0 {
		f.skip--
		r.s.fail[method] = f
		return nil
	}
	return f.err
}

func (r *Repo) id() uint {
	r.s.d.nextID++
	return r.s.d.nextID
}

// ==============================
// Seed helpers
// ==============================

func (r *Repo) AddCompany(c models.Company) models.Company {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c.ID == 0 {
		c.ID = r.id()
	}
	r.s.d.companies = append(r.s.d.companies, c)
	return c
}

func (r *Repo) AddBarber(b models.Barber) models.Barber {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b.ID == 0 {
		b.ID = r.id()
	}
	r.s.d.barbers = append(r.s.d.barbers, b)
	return b
}

func (r *Repo) AddService(s models.Service) models.Service {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if s.ID == 0 {
		s.ID = r.id()
	}
	r.s.d.services = append(r.s.d.services, s)
	return s
}

func (r *Repo) AddBusinessHours(h models.BusinessHours) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	h.ID = r.id()
	r.s.d.hours = append(r.s.d.hours, h)
}

func (r *Repo) AddAppointment(ap models.Appointment) models.Appointment {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if ap.ID == 0 {
		ap.ID = r.id()
	}
	r.s.d.appointments = append(r.s.d.appointments, ap)
	return ap
}

func (r *Repo) Appointments() []models.Appointment {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return slices.Clone(r.s.d.appointments)
}

func (r *Repo) Blocks() []models.Block {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return slices.Clone(r.s.d.blocks)
}

func (r *Repo) Clients() []models.Client {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return slices.Clone(r.s.d.clients)
}

// ==============================
// Repository
// ==============================

func (r *Repo) Transaction(ctx context.Context, fn func(tx domain.Repository) error) error {
	if r.inTx {
		return fn(r)
	}
	r.s.mu.Lock()
	err := r.failure("Transaction")
	r.s.mu.Unlock()
	if err != nil {
		return err
	}

	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	r.s.mu.Lock()
	snapshot := r.s.d.clone()
	r.s.mu.Unlock()

	if err := fn(&Repo{s: r.s, inTx: true}); err != nil {
		r.s.mu.Lock()
		r.s.d = snapshot
		r.s.mu.Unlock()
		return err
	}
	return nil
}

func (r *Repo) GetCompanyByID(_ context.Context, id uint) (*models.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.failure("GetCompanyByID"); err != nil {
		return nil, err
	}
	for _, c := range r.s.d.companies {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *Repo) GetCompanyBySlug(_ context.Context, slug string) (*models.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.d.companies {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *Repo) ListCompanies(_ context.Context) ([]models.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.failure("ListCompanies"); err != nil {
		return nil, err
	}
	return slices.Clone(r.s.d.companies), nil
}

func (r *Repo) GetBusinessHours(_ context.Context, companyID uint, weekday int) (*models.BusinessHours, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.failure("GetBusinessHours"); err != nil {
		return nil, err
	}
	for _, h := range r.s.d.hours {
		if h.CompanyID == companyID && h.Weekday == weekday {
			return &h, nil
		}
	}
	return nil, nil
}

func (r *Repo) ListActiveServices(_ context.Context, companyID uint) ([]models.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.failure("ListActiveServices"); err != nil {
		return nil, err
	}
	var out []models.Service
	for _, s := range r.s.d.services {
		if s.CompanyID == companyID && s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *Repo) GetBarber(_ context.Context, companyID, barberID uint) (*models.Barber, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.failure("GetBarber"); err != nil {
		return nil, err
	}
	for _, b := range r.s.d.barbers {
		if b.ID == barberID && b.CompanyID == companyID {
			return &b, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *Repo) LockBarber(ctx context.Context, companyID, barberID uint) (*models.Barber, error) {
	// a exclusão mútua já é garantida pelo txMu da transação
	return r.GetBarber(ctx, companyID, barberID)
}

func (r *Repo) ListActiveBarbers(_ context.Context, companyID uint) ([]models.Barber, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.failure("ListActiveBarbers"); err != nil {
		return nil, err
	}
	var out []models.Barber
	for _, b := range r.s.d.barbers {
		if b.CompanyID == companyID && b.Active {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *Repo) ListBlocks(_ context.Context, companyID uint, date string) ([]models.Block, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.failure("ListBlocks"); err != nil {
		return nil, err
	}
	var out []models.Block
	for _, b := range r.s.d.blocks {
		if b.CompanyID == companyID && b.Date == date {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		return out[i].BarberID < out[j].BarberID
	})
	return out, nil
}

func (r *Repo) UpsertBlock(_ context.Context, b *models.Block) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.failure("UpsertBlock"); err != nil {
		return err
	}
	for _, existing := range r.s.d.blocks {
		if existing.CompanyID == b.CompanyID && existing.Date == b.Date &&
			existing.Time == b.Time && existing.BarberID == b.BarberID {
			*b = existing
			return nil
		}
	}
	b.ID = r.id()
	r.s.d.blocks = append(r.s.d.blocks, *b)
	return nil
}

func (r *Repo) DeleteBarberBlocksAt(_ context.Context, companyID uint, date, slot string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.d.blocks = slices.DeleteFunc(r.s.d.blocks, func(b models.Block) bool {
		return b.CompanyID == companyID && b.Date == date && b.Time == slot && b.BarberID != scheduling.GeneralBlock
	})
	return nil
}

func (r *Repo) DeleteBlock(_ context.Context, companyID uint, date, slot string, barberID uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	before := len(r.s.d.blocks)
	r.s.d.blocks = slices.DeleteFunc(r.s.d.blocks, func(b models.Block) bool {
		return b.CompanyID == companyID && b.Date == date && b.Time == slot && b.BarberID == barberID
	})
	return int64(before - len(r.s.d.blocks)), nil
}

func (r *Repo) GetOrCreateClient(_ context.Context, companyID uint, name, phone, social string) (*models.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.d.clients {
		if c.CompanyID == companyID && c.Phone == phone {
			return &c, nil
		}
	}
	c := models.Client{ID: r.id(), CompanyID: companyID, Name: name, Phone: phone, Social: social}
	r.s.d.clients = append(r.s.d.clients, c)
	return &c, nil
}

func (r *Repo) ListScheduledForDay(_ context.Context, companyID uint, date string) ([]models.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.failure("ListScheduledForDay"); err != nil {
		return nil, err
	}
	var out []models.Appointment
	for _, ap := range r.s.d.appointments {
		if ap.CompanyID == companyID && ap.Date == date && ap.Status == string(domain.StatusScheduled) {
			out = append(out, ap)
		}
	}
	return out, nil
}

func (r *Repo) HasDuplicate(_ context.Context, companyID, barberID uint, date, slot, phone string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ap := range r.s.d.appointments {
		if ap.CompanyID == companyID && ap.BarberID == barberID && ap.Date == date &&
			ap.Time == slot && ap.CustomerPhone == phone && ap.Status == string(domain.StatusScheduled) {
			return true, nil
		}
	}
	return false, nil
}

func (r *Repo) HasTimeConflict(_ context.Context, companyID, barberID uint, start, end time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.failure("HasTimeConflict"); err != nil {
		return false, err
	}
	return r.overlaps(companyID, barberID, start, end), nil
}

func (r *Repo) overlaps(companyID, barberID uint, start, end time.Time) bool {
	for _, ap := range r.s.d.appointments {
		if ap.CompanyID != companyID || ap.BarberID != barberID || ap.Status != string(domain.StatusScheduled) {
			continue
		}
		if ap.StartAt.Before(end) && start.Before(ap.EndAt) {
			return true
		}
	}
	return false
}

func (r *Repo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.failure("CreateAppointment"); err != nil {
		return err
	}
	if r.s.enforceNoOverlap && r.overlaps(ap.CompanyID, ap.BarberID, ap.StartAt, ap.EndAt) {
		return httperr.ErrConflict("slot_unavailable", "Horário indisponível para este barbeiro.")
	}
	ap.ID = r.id()
	ap.CreatedAt = time.Now()
	r.s.d.appointments = append(r.s.d.appointments, *ap)
	return nil
}

func (r *Repo) GetAppointment(_ context.Context, companyID, appointmentID uint) (*models.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ap := range r.s.d.appointments {
		if ap.ID == appointmentID && ap.CompanyID == companyID {
			ap.Barber = r.barber(ap.BarberID)
			return &ap, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *Repo) barber(id uint) models.Barber {
	for _, b := range r.s.d.barbers {
		if b.ID == id {
			return b
		}
	}
	return models.Barber{}
}

func (r *Repo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.failure("UpdateAppointment"); err != nil {
		return err
	}
	for i := range r.s.d.appointments {
		if r.s.d.appointments[i].ID == ap.ID {
			r.s.d.appointments[i] = *ap
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *Repo) ListAppointmentsForPeriod(_ context.Context, companyID, barberID uint, fromDate, toDate string) ([]models.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.failure("ListAppointmentsForPeriod"); err != nil {
		return nil, err
	}
	var out []models.Appointment
	for _, ap := range r.s.d.appointments {
		if ap.CompanyID != companyID || ap.Date < fromDate || ap.Date >= toDate {
			continue
		}
		if barberID != 0 && ap.BarberID != barberID {
			continue
		}
		ap.Barber = r.barber(ap.BarberID)
		out = append(out, ap)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (r *Repo) ListReminderCandidates(_ context.Context, companyID uint, date, from, to string) ([]models.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.failure("ListReminderCandidates"); err != nil {
		return nil, err
	}
	var out []models.Appointment
	for _, ap := range r.s.d.appointments {
		if ap.CompanyID == companyID && ap.Date == date && ap.Time >= from && ap.Time <= to &&
			ap.Status == string(domain.StatusScheduled) && ap.ReminderSentAt == nil {
			ap.Barber = r.barber(ap.BarberID)
			out = append(out, ap)
		}
	}
	return out, nil
}

func (r *Repo) MarkReminderSent(_ context.Context, appointmentID uint, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.failure("MarkReminderSent"); err != nil {
		return false, err
	}
	for i := range r.s.d.appointments {
		ap := &r.s.d.appointments[i]
		if ap.ID == appointmentID && ap.ReminderSentAt == nil {
			ap.ReminderSentAt = &at
			return true, nil
		}
	}
	return false, nil
}

var _ domain.Repository = (*Repo)(nil)
