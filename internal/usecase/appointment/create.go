package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/navalhatech/agenda-api/internal/audit"
	"github.com/navalhatech/agenda-api/internal/cache"
	domain "github.com/navalhatech/agenda-api/internal/domain/appointment"
	"github.com/navalhatech/agenda-api/internal/httperr"
	"github.com/navalhatech/agenda-api/internal/models"
	"github.com/navalhatech/agenda-api/internal/notification"
	"github.com/navalhatech/agenda-api/internal/timezone"
)

// ======================================================
// ERRORS
// ======================================================

// ConflictError carrega os descritores para o handler devolver ao cliente.
type ConflictError struct {
	Conflicts []domain.ConflictDescriptor
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("booking conflicts: %d", len(e.Conflicts))
}

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	BarbershopID uint

	// nil = cai no profissional padrão (dono)
	BarberID *uint

	ClientName  string
	ClientPhone string
	ClientEmail string

	ServiceID uint

	Date  string
	Time  string
	Notes string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo     domain.Repository
	checker  *CheckConflicts
	audit    *audit.Dispatcher
	notifier *notification.Dispatcher
	cache    *cache.AvailabilityCache
}

func NewCreateAppointment(
	repo domain.Repository,
	checker *CheckConflicts,
	audit *audit.Dispatcher,
	notifier *notification.Dispatcher,
	availCache *cache.AvailabilityCache,
) *CreateAppointment {
	return &CreateAppointment{
		repo:     repo,
		checker:  checker,
		audit:    audit,
		notifier: notifier,
		cache:    availCache,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Barbearia
	// --------------------------------------------------
	shop, err := uc.repo.GetBarbershopByID(ctx, in.BarbershopID)
	if err != nil {
		return nil, httperr.ErrBusiness("barbershop_not_found")
	}

	// --------------------------------------------------
	// 2️⃣ Data / hora no timezone da barbearia
	// --------------------------------------------------
	start, err := timezone.ParseDateTime(in.Date, in.Time, shop.Timezone)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	// --------------------------------------------------
	// 3️⃣ Antecedência mínima
	// --------------------------------------------------
	minAdvance := shop.MinAdvanceMinutes
	if minAdvance <= 0 {
		minAdvance = 120
	}

	now := timezone.NowIn(shop.Timezone)
	if start.Before(now.Add(time.Duration(minAdvance) * time.Minute)) {
		return nil, httperr.ErrBusiness("too_soon")
	}

	// --------------------------------------------------
	// 4️⃣ Serviço
	// --------------------------------------------------
	svc, err := uc.repo.GetService(ctx, in.BarbershopID, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	end := start.Add(time.Duration(svc.DurationMin) * time.Minute)

	// --------------------------------------------------
	// 5️⃣ Verificação de conflitos (ocupação, expediente, bloqueios)
	// --------------------------------------------------
	conflicts, err := uc.checker.Execute(ctx, CheckConflictsInput{
		BarbershopID: in.BarbershopID,
		Date:         in.Date,
		Time:         in.Time,
		BarberID:     in.BarberID,
	})
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, &ConflictError{Conflicts: conflicts}
	}

	// --------------------------------------------------
	// 6️⃣ Profissional efetivo
	// --------------------------------------------------
	barberID := in.BarberID
	if barberID == nil {
		owner, err := uc.repo.GetOwnerBarber(ctx, in.BarbershopID)
		if err != nil {
			return nil, httperr.ErrBusiness("barber_not_found")
		}
		barberID = &owner.ID
	}

	// --------------------------------------------------
	// 7️⃣ Cliente (get or create)
	// --------------------------------------------------
	client, err := uc.repo.GetOrCreateClient(
		ctx,
		in.BarbershopID,
		in.ClientName,
		in.ClientPhone,
		in.ClientEmail,
	)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 8️⃣ Criação guardada (transação + constraint de exclusão)
	// --------------------------------------------------
	// A checagem acima não é transacional: duas requisições simultâneas
	// podem passar por ela. A palavra final é do banco.
	ap := &models.Appointment{
		BarbershopID: in.BarbershopID,
		BarberID:     barberID,
		ClientID:     client.ID,
		ServiceID:    svc.ID,
		StartTime:    start,
		EndTime:      end,
		Status:       string(domain.InitialStatus()),
		Price:        svc.Price,
		Notes:        in.Notes,
	}

	if err := uc.repo.CreateAppointmentGuarded(ctx, ap); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 9️⃣ Auditoria + notificação + invalidação de cache
	// --------------------------------------------------
	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			BarbershopID: in.BarbershopID,
			UserID:       barberID,
			Action:       "appointment_created",
			Entity:       "appointment",
			EntityID:     &ap.ID,
		})
	}

	if uc.notifier != nil {
		uc.notifier.AppointmentCreated(ap, client.Name, client.Email, svc.Name)
	}

	if uc.cache != nil {
		uc.cache.InvalidateDay(ctx, in.BarbershopID, *barberID, in.Date)
	}

	return ap, nil
}
