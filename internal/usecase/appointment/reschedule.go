package appointment

import (
	"context"

	"github.com/navalhatech/agenda-api/internal/audit"
	"github.com/navalhatech/agenda-api/internal/cache"
	domain "github.com/navalhatech/agenda-api/internal/domain/appointment"
	"github.com/navalhatech/agenda-api/internal/httperr"
	"github.com/navalhatech/agenda-api/internal/models"
	"github.com/navalhatech/agenda-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type RescheduleAppointmentInput struct {
	BarbershopID  uint
	AppointmentID uint

	Date string
	Time string
}

// ======================================================
// USE CASE
// ======================================================

type RescheduleAppointment struct {
	repo    domain.Repository
	checker *CheckConflicts
	audit   *audit.Dispatcher
	cache   *cache.AvailabilityCache
}

func NewRescheduleAppointment(
	repo domain.Repository,
	checker *CheckConflicts,
	audit *audit.Dispatcher,
	availCache *cache.AvailabilityCache,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo:    repo,
		checker: checker,
		audit:   audit,
		cache:   availCache,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	in RescheduleAppointmentInput,
) (*models.Appointment, error) {

	shop, err := uc.repo.GetBarbershopByID(ctx, in.BarbershopID)
	if err != nil {
		return nil, httperr.ErrBusiness("barbershop_not_found")
	}

	ap, err := uc.repo.GetAppointmentForShop(ctx, in.AppointmentID, in.BarbershopID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if err := domain.CanReschedule(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	newStart, err := timezone.ParseDateTime(in.Date, in.Time, shop.Timezone)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	duration := ap.EndTime.Sub(ap.StartTime)
	newEnd := newStart.Add(duration)

	// Revalida o novo horário ignorando o próprio agendamento, senão ele
	// conflitaria consigo mesmo.
	conflicts, err := uc.checker.Execute(ctx, CheckConflictsInput{
		BarbershopID:         in.BarbershopID,
		Date:                 in.Date,
		Time:                 in.Time,
		BarberID:             ap.BarberID,
		ExcludeAppointmentID: &ap.ID,
	})
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, &ConflictError{Conflicts: conflicts}
	}

	oldDate := ap.StartTime.Format("2006-01-02")

	if err := uc.repo.RescheduleAppointmentGuarded(ctx, ap, newStart, newEnd); err != nil {
		return nil, err
	}

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			BarbershopID: in.BarbershopID,
			UserID:       ap.BarberID,
			Action:       "appointment_rescheduled",
			Entity:       "appointment",
			EntityID:     &ap.ID,
			Metadata: map[string]any{
				"from": oldDate,
				"to":   in.Date,
				"time": in.Time,
			},
		})
	}

	if uc.cache != nil && ap.BarberID != nil {
		uc.cache.InvalidateDay(ctx, in.BarbershopID, *ap.BarberID, oldDate)
		uc.cache.InvalidateDay(ctx, in.BarbershopID, *ap.BarberID, in.Date)
	}

	return ap, nil
}
