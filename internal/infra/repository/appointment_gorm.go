package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func (r *AppointmentGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// --------------------------------------------------
// Company
// --------------------------------------------------

func (r *AppointmentGormRepository) GetCompanyByID(
	ctx context.Context,
	id uint,
) (*models.Company, error) {

	var company models.Company
	if err := r.db.WithContext(ctx).First(&company, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &company, nil
}

func (r *AppointmentGormRepository) GetCompanyBySlug(
	ctx context.Context,
	slug string,
) (*models.Company, error) {

	var company models.Company
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&company).Error; err != nil {
		return nil, notFound(err)
	}
	return &company, nil
}

func (r *AppointmentGormRepository) ListCompanies(
	ctx context.Context,
) ([]models.Company, error) {

	var companies []models.Company
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *AppointmentGormRepository) GetBusinessHours(
	ctx context.Context,
	companyID uint,
	weekday int,
) (*models.BusinessHours, error) {

	var wh models.BusinessHours
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND weekday = ?", companyID, weekday).
		First(&wh).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wh, nil
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (r *AppointmentGormRepository) ListActiveServices(
	ctx context.Context,
	companyID uint,
) ([]models.Service, error) {

	var services []models.Service
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND active = true", companyID).
		Order("id ASC").
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// --------------------------------------------------
// Barber
// --------------------------------------------------

func (r *AppointmentGormRepository) GetBarber(
	ctx context.Context,
	companyID uint,
	barberID uint,
) (*models.Barber, error) {

	var barber models.Barber
	if err := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", barberID, companyID).
		First(&barber).Error; err != nil {
		return nil, notFound(err)
	}
	return &barber, nil
}

func (r *AppointmentGormRepository) LockBarber(
	ctx context.Context,
	companyID uint,
	barberID uint,
) (*models.Barber, error) {

	var barber models.Barber
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND company_id = ?", barberID, companyID).
		First(&barber).Error; err != nil {
		return nil, notFound(err)
	}
	return &barber, nil
}

func (r *AppointmentGormRepository) ListActiveBarbers(
	ctx context.Context,
	companyID uint,
) ([]models.Barber, error) {

	var barbers []models.Barber
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND active = true", companyID).
		Order("id ASC").
		Find(&barbers).Error; err != nil {
		return nil, err
	}
	return barbers, nil
}

// --------------------------------------------------
// Blocks
// --------------------------------------------------

func (r *AppointmentGormRepository) ListBlocks(
	ctx context.Context,
	companyID uint,
	date string,
) ([]models.Block, error) {

	var blocks []models.Block
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND date = ?", companyID, date).
		Order("time ASC, barber_id ASC").
		Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

func (r *AppointmentGormRepository) UpsertBlock(
	ctx context.Context,
	b *models.Block,
) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "company_id"},
				{Name: "date"},
				{Name: "time"},
				{Name: "barber_id"},
			},
			DoNothing: true,
		}).
		Create(b).Error
	if err != nil || b.ID != 0 {
		return err
	}

	// já existia: devolve a linha gravada
	return r.db.WithContext(ctx).
		Where("company_id = ? AND date = ? AND time = ? AND barber_id = ?",
			b.CompanyID, b.Date, b.Time, b.BarberID).
		First(b).Error
}

func (r *AppointmentGormRepository) DeleteBarberBlocksAt(
	ctx context.Context,
	companyID uint,
	date string,
	slot string,
) error {
	return r.db.WithContext(ctx).
		Where("company_id = ? AND date = ? AND time = ? AND barber_id <> 0", companyID, date, slot).
		Delete(&models.Block{}).Error
}

func (r *AppointmentGormRepository) DeleteBlock(
	ctx context.Context,
	companyID uint,
	date string,
	slot string,
	barberID uint,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Where("company_id = ? AND date = ? AND time = ? AND barber_id = ?", companyID, date, slot, barberID).
		Delete(&models.Block{})
	return res.RowsAffected, res.Error
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *AppointmentGormRepository) GetOrCreateClient(
	ctx context.Context,
	companyID uint,
	name string,
	phone string,
	social string,
) (*models.Client, error) {

	var client models.Client
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND phone = ?", companyID, phone).
		First(&client).Error

	if err == nil {
		return &client, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	client = models.Client{
		CompanyID: companyID,
		Name:      name,
		Phone:     phone,
		Social:    social,
	}

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&client).Error; err != nil {
		return nil, err
	}

	// outro pedido criou o mesmo cliente entre o SELECT e o INSERT
	if client.ID == 0 {
		if err := r.db.WithContext(ctx).
			Where("company_id = ? AND phone = ?", companyID, phone).
			First(&client).Error; err != nil {
			return nil, err
		}
	}

	return &client, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) ListScheduledForDay(
	ctx context.Context,
	companyID uint,
	date string,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND date = ? AND status = ?", companyID, date, string(domain.StatusScheduled)).
		Order("time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) HasDuplicate(
	ctx context.Context,
	companyID uint,
	barberID uint,
	date string,
	slot string,
	phone string,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"company_id = ? AND barber_id = ? AND date = ? AND time = ? AND customer_phone = ? AND status = ?",
			companyID, barberID, date, slot, phone, string(domain.StatusScheduled),
		).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *AppointmentGormRepository) HasTimeConflict(
	ctx context.Context,
	companyID uint,
	barberID uint,
	start time.Time,
	end time.Time,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"company_id = ? AND barber_id = ? AND status = ? AND start_at < ? AND end_at > ?",
			companyID, barberID, string(domain.StatusScheduled), end, start,
		).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	err := r.db.WithContext(ctx).Omit("Barber").Create(ap).Error
	if httperr.IsExclusionConflict(err) {
		return httperr.ErrConflict("slot_unavailable", "Horário indisponível para este barbeiro.")
	}
	return err
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	companyID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Barber").
		Where("id = ? AND company_id = ?", appointmentID, companyID).
		First(&ap).Error; err != nil {
		return nil, notFound(err)
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit("Barber").Save(ap).Error
}

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	companyID uint,
	barberID uint,
	fromDate string,
	toDate string,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Barber").
		Where("company_id = ? AND date >= ? AND date < ?", companyID, fromDate, toDate)

	if barberID != 0 {
		q = q.Where("barber_id = ?", barberID)
	}

	var apps []models.Appointment
	if err := q.
		Order("date ASC, time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

// --------------------------------------------------
// Reminders
// --------------------------------------------------

func (r *AppointmentGormRepository) ListReminderCandidates(
	ctx context.Context,
	companyID uint,
	date string,
	from string,
	to string,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Barber").
		Where(
			"company_id = ? AND date = ? AND time >= ? AND time <= ? AND status = ? AND reminder_sent_at IS NULL",
			companyID, date, from, to, string(domain.StatusScheduled),
		).
		Order("time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) MarkReminderSent(
	ctx context.Context,
	appointmentID uint,
	at time.Time,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND reminder_sent_at IS NULL", appointmentID).
		Update("reminder_sent_at", at)

	return res.RowsAffected == 1, res.Error
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
