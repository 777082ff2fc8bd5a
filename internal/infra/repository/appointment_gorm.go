package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type AppointmentGormRepository struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

func NewAppointmentGormRepository(db *gorm.DB, lockTimeout time.Duration) *AppointmentGormRepository {
	return &AppointmentGormRepository{
		db:          db,
		lockTimeout: lockTimeout,
	}
}

// --------------------------------------------------
// Catálogo
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	id string,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&svc).Error; err != nil {
		return nil, mapErr(err)
	}
	return &svc, nil
}

func (r *AppointmentGormRepository) GetBarber(
	ctx context.Context,
	id string,
) (*models.Barber, error) {

	var b models.Barber
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&b).Error; err != nil {
		return nil, mapErr(err)
	}
	return &b, nil
}

func (r *AppointmentGormRepository) GetClient(
	ctx context.Context,
	id string,
) (*models.User, error) {

	var u models.User
	if err := r.db.WithContext(ctx).
		Where("id = ? AND role = ?", id, models.RoleClient).
		First(&u).Error; err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

// ServiceDurations ignora serviços removidos (soft delete do gorm).
func (r *AppointmentGormRepository) ServiceDurations(
	ctx context.Context,
	serviceIDs []string,
) (map[string]int, error) {

	out := make(map[string]int, len(serviceIDs))
	if len(serviceIDs) == 0 {
		return out, nil
	}

	var rows []models.Service
	if err := r.db.WithContext(ctx).
		Select("id", "duration_minutes").
		Where("id IN ?", serviceIDs).
		Find(&rows).Error; err != nil {
		return nil, mapErr(err)
	}

	for _, s := range rows {
		out[s.ID] = s.DurationMinutes
	}
	return out, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) ListActiveAppointmentsForDay(
	ctx context.Context,
	barberID string,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("id", "barber_id", "service_id", "start_time", "status").
		Where(
			"barber_id = ? AND status <> ? AND start_time >= ? AND start_time < ?",
			barberID, string(domain.StatusCancelled), start, end,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, mapErr(err)
	}

	return apps, nil
}

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return mapErr(r.db.WithContext(ctx).Create(ap).Error)
}

// Atomically abre uma transação e pega um advisory lock transacional pela
// chave do barbeiro. O lock é liberado no commit/rollback. lock_timeout
// limita a espera; ao estourar, o Postgres devolve 55P03.
func (r *AppointmentGormRepository) Atomically(
	ctx context.Context,
	barberID string,
	fn func(tx domain.Repository) error,
) error {

	return mapErr(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if r.lockTimeout > 0 {
			if err := tx.Exec(
				"SELECT set_config('lock_timeout', ?, true)",
				fmt.Sprintf("%dms", r.lockTimeout.Milliseconds()),
			).Error; err != nil {
				return err
			}
		}

		if err := tx.Exec(
			"SELECT pg_advisory_xact_lock(hashtextextended(?, 0))",
			"barber:"+barberID,
		).Error; err != nil {
			return err
		}

		return fn(&AppointmentGormRepository{db: tx, lockTimeout: r.lockTimeout})
	}))
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id string,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&ap).Error; err != nil {
		return nil, mapErr(err)
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return mapErr(r.db.WithContext(ctx).Save(ap).Error)
}

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	barberID string,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Where("start_time >= ? AND start_time < ?", start, end)

	if barberID != "" {
		q = q.Where("barber_id = ?", barberID)
	}

	var apps []models.Appointment
	if err := q.
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, mapErr(err)
	}

	return apps, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForClient(
	ctx context.Context,
	clientID string,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, mapErr(err)
	}

	return apps, nil
}

// --------------------------------------------------
// Erros
// --------------------------------------------------

// ErrStore marca falhas de infraestrutura do banco da agenda.
var ErrStore = errors.New("appointment store")

// mapErr traduz erros do gorm/pgx para os erros do domínio. O resto sobe
// embrulhado em ErrStore, uma única vez.
func mapErr(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrStore) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}

	if IsLockTimeout(err) {
		return domain.ErrScheduleBusy
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) || isStoreFailure(err) {
		return fmt.Errorf("%w: %w", ErrStore, err)
	}

	// erros de negócio devolvidos por fn em Atomically sobem intactos
	return err
}

// IsLockTimeout reconhece 55P03 (lock_not_available), que é o que o
// lock_timeout de Atomically produz. 57014 fica de fora: também é
// statement_timeout e cancelamento de contexto.
func IsLockTimeout(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "55P03"
	}
	return false
}

func isStoreFailure(err error) bool {
	var connErr *pgconn.ConnectError
	return errors.As(err, &connErr) || pgconn.Timeout(err)
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
