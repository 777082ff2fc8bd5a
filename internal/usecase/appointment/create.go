package appointment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	ClientID   string `json:"client_id" validate:"required"`
	ClientName string `json:"client_name" validate:"required,max=100"`
	BarberID   string `json:"barber_id" validate:"required"`
	ServiceID  string `json:"service_id" validate:"required"`

	// Instante já interpretado no fuso da barbearia.
	Start time.Time `json:"start" validate:"required"`

	// Quem faz a reserva. Vazio ou igual a ClientID é o próprio cliente;
	// diferente é um admin reservando para o cliente.
	BookedBy string `json:"booked_by"`
}

func (in CreateAppointmentInput) onBehalf() bool {
	return in.BookedBy != "" && in.BookedBy != in.ClientID
}

func (in CreateAppointmentInput) actor() string {
	if in.BookedBy != "" {
		return in.BookedBy
	}
	return in.ClientID
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   timezone.Clock
	loc   *time.Location
	log   *zap.Logger
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	now timezone.Clock,
	loc *time.Location,
	log *zap.Logger,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		audit: audit,
		now:   now,
		loc:   loc,
		log:   log.With(zap.String("usecase", "create_appointment")),
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute reserva o horário. A checagem de disponibilidade e a gravação
// acontecem dentro de repo.Atomically, então duas reservas simultâneas para
// o mesmo barbeiro nunca enxergam a agenda "antiga" ao mesmo tempo.
func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	in.ClientName = strings.TrimSpace(in.ClientName)

	// reserva feita pelo admin: o cliente precisa existir
	if in.onBehalf() {
		client, err := uc.repo.GetClient(ctx, in.ClientID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrClientNotFound
			}
			return nil, err
		}
		if in.ClientName == "" {
			in.ClientName = client.Name
		}
	}

	if errs := validators.ValidateStruct(in); errs != nil {
		return nil, domain.ErrInvalidInput
	}

	// --------------------------------------------------
	// 1️⃣ Passado
	// --------------------------------------------------
	if in.Start.Before(uc.now()) {
		return nil, domain.ErrPastBooking
	}

	var created *models.Appointment

	err := uc.repo.Atomically(ctx, in.BarberID, func(tx domain.Repository) error {

		// --------------------------------------------------
		// 2️⃣ Serviço (preço e duração atuais)
		// --------------------------------------------------
		service, err := tx.GetService(ctx, in.ServiceID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrServiceNotFound
			}
			return err
		}

		// --------------------------------------------------
		// 3️⃣ Barbeiro
		// --------------------------------------------------
		if _, err := tx.GetBarber(ctx, in.BarberID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrBarberNotFound
			}
			return err
		}

		// --------------------------------------------------
		// 4️⃣ Recalcula a agenda do dia
		// --------------------------------------------------
		existing, err := loadOccupancies(ctx, tx, in.BarberID, in.Start)
		if err != nil {
			return err
		}

		slots, err := domain.ComputeAvailableSlots(
			in.Start,
			in.BarberID,
			service.DurationMinutes,
			existing,
			uc.now(),
		)
		if err != nil {
			return err
		}

		if !domain.IsOffered(slots, in.Start) {
			return domain.ErrSlotUnavailable
		}

		// --------------------------------------------------
		// 5️⃣ Criação (preço congelado)
		// --------------------------------------------------
		ap := &models.Appointment{
			ID:             uuid.NewString(),
			ClientID:       in.ClientID,
			ClientName:     in.ClientName,
			BarberID:       in.BarberID,
			ServiceID:      service.ID,
			StartTime:      in.Start,
			Status:         string(domain.InitialStatus()),
			PriceAtBooking: service.Price,
		}

		if err := tx.CreateAppointment(ctx, ap); err != nil {
			return err
		}

		created = ap
		return nil
	})
	if err != nil {
		uc.logFailure(err, in)
		return nil, err
	}

	// --------------------------------------------------
	// 6️⃣ Auditoria
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		ActorID:  in.actor(),
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: created.ID,
		Metadata: map[string]any{
			"client_id":        created.ClientID,
			"barber_id":        created.BarberID,
			"service_id":       created.ServiceID,
			"start":            timezone.FormatLocal(created.StartTime, uc.loc),
			"price_at_booking": created.PriceAtBooking.StringFixed(2),
		},
	})

	uc.log.Info("appointment created",
		zap.String("appointment_id", created.ID),
		zap.String("barber_id", created.BarberID),
		zap.Time("start", created.StartTime),
	)

	return created, nil
}

func (uc *CreateAppointment) logFailure(err error, in CreateAppointmentInput) {
	fields := []zap.Field{
		zap.String("barber_id", in.BarberID),
		zap.String("service_id", in.ServiceID),
		zap.Time("start", in.Start),
		zap.Error(err),
	}

	if errors.Is(err, domain.ErrScheduleBusy) {
		uc.log.Warn("barber schedule busy", fields...)
		return
	}
	if isBusiness(err) {
		uc.log.Info("appointment rejected", fields...)
		return
	}
	uc.log.Error("create appointment failed", fields...)
}

// loadOccupancies carrega os agendamentos ativos do barbeiro no dia de
// ref, com a duração resolvida pelo catálogo atual.
func loadOccupancies(
	ctx context.Context,
	repo domain.Repository,
	barberID string,
	ref time.Time,
) ([]domain.Occupancy, error) {

	dayStart := timezone.StartOfDay(ref)
	dayEnd := dayStart.AddDate(0, 0, 1)

	aps, err := repo.ListActiveAppointmentsForDay(ctx, barberID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(aps))
	seen := make(map[string]struct{}, len(aps))
	for _, ap := range aps {
		if _, ok := seen[ap.ServiceID]; ok {
			continue
		}
		seen[ap.ServiceID] = struct{}{}
		ids = append(ids, ap.ServiceID)
	}

	durations, err := repo.ServiceDurations(ctx, ids)
	if err != nil {
		return nil, err
	}

	return domain.ToOccupancies(aps, durations), nil
}
