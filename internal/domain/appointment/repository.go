package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Repository é o acesso a dados do motor de agenda. Métodos de leitura
// devolvem ErrNotFound quando o registro não existe.
type Repository interface {
	// -------- Catálogo --------
	GetService(
		ctx context.Context,
		id string,
	) (*models.Service, error)

	GetBarber(
		ctx context.Context,
		id string,
	) (*models.Barber, error)

	// GetClient só encontra usuários com papel de cliente.
	GetClient(
		ctx context.Context,
		id string,
	) (*models.User, error)

	// ServiceDurations devolve a duração atual de cada serviço encontrado.
	// Serviços removidos simplesmente não aparecem no mapa.
	ServiceDurations(
		ctx context.Context,
		serviceIDs []string,
	) (map[string]int, error)

	// -------- Appointment (create / conflict) --------
	ListActiveAppointmentsForDay(
		ctx context.Context,
		barberID string,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// Atomically executa fn com a agenda do barbeiro serializada: nenhuma
	// outra chamada de Atomically para o mesmo barbeiro roda ao mesmo tempo.
	// A espera é limitada; ao estourar, devolve ErrScheduleBusy.
	Atomically(
		ctx context.Context,
		barberID string,
		fn func(tx Repository) error,
	) error

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		id string,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Listagens --------

	// barberID vazio lista todos os barbeiros.
	ListAppointmentsForPeriod(
		ctx context.Context,
		barberID string,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListAppointmentsForClient(
		ctx context.Context,
		clientID string,
	) ([]models.Appointment, error)
}
