package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/navalhatech/agenda-api/internal/models"
)

// Erros de consulta mapeados pela infra (não vazam gorm para os usecases).
var (
	ErrWorkingHoursNotFound = errors.New("working hours not found")
	ErrAppointmentNotFound  = errors.New("appointment not found")
)

type Repository interface {
	// -------- Barbershop --------
	GetBarbershopByID(
		ctx context.Context,
		id uint,
	) (*models.Barbershop, error)

	// Profissional padrão da barbearia (dono), usado quando o cliente
	// não escolhe um barbeiro específico.
	GetOwnerBarber(
		ctx context.Context,
		barbershopID uint,
	) (*models.User, error)

	// -------- Service --------
	GetService(
		ctx context.Context,
		barbershopID uint,
		serviceID uint,
	) (*models.Service, error)

	// -------- Client --------
	GetOrCreateClient(
		ctx context.Context,
		barbershopID uint,
		name string,
		phone string,
		email string,
	) (*models.Client, error)

	// -------- Conflict checks (read-only) --------

	// Agendamentos ativos começando exatamente em start, opcionalmente
	// ignorando um agendamento (reagendamento).
	FindAppointmentsAt(
		ctx context.Context,
		barbershopID uint,
		start time.Time,
		excludeID *uint,
	) ([]models.Appointment, error)

	GetWorkingHours(
		ctx context.Context,
		barberID uint,
		weekday int,
	) (*models.WorkingHours, error)

	// Bloqueios cujo intervalo de datas contém date (YYYY-MM-DD).
	FindBlackoutsForDate(
		ctx context.Context,
		barbershopID uint,
		date string,
	) ([]models.Blackout, error)

	// -------- Appointment (create / reschedule, guarded) --------

	// Criação dentro de transação: recheca sobreposição com lock e insere.
	// Retorna BusinessError("time_conflict") quando o horário já foi tomado.
	CreateAppointmentGuarded(
		ctx context.Context,
		ap *models.Appointment,
	) error

	RescheduleAppointmentGuarded(
		ctx context.Context,
		ap *models.Appointment,
		newStart time.Time,
		newEnd time.Time,
	) error

	// -------- Appointment (state change) --------
	GetAppointmentForBarber(
		ctx context.Context,
		appointmentID uint,
		barberID uint,
	) (*models.Appointment, error)

	GetAppointmentForShop(
		ctx context.Context,
		appointmentID uint,
		barbershopID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Availability --------
	IsWithinWorkingHours(
		ctx context.Context,
		barberID uint,
		start time.Time,
		end time.Time,
	) (bool, error)

	ListAppointmentsForDay(
		ctx context.Context,
		barberID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListAppointmentsForPeriod(
		ctx context.Context,
		barberID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	// -------- Reports --------
	ListCompletedForPeriod(
		ctx context.Context,
		barbershopID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)
}
