package appointment

import (
	"context"

	"github.com/navalhatech/agenda-api/internal/audit"
	"github.com/navalhatech/agenda-api/internal/cache"
	domain "github.com/navalhatech/agenda-api/internal/domain/appointment"
	"github.com/navalhatech/agenda-api/internal/httperr"
	"github.com/navalhatech/agenda-api/internal/models"
	"github.com/navalhatech/agenda-api/internal/notification"
	"github.com/navalhatech/agenda-api/internal/timezone"
)

type CancelAppointment struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	notifier *notification.Dispatcher
	cache    *cache.AvailabilityCache
}

func NewCancelAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notifier *notification.Dispatcher,
	availCache *cache.AvailabilityCache,
) *CancelAppointment {
	return &CancelAppointment{
		repo:     repo,
		audit:    audit,
		notifier: notifier,
		cache:    availCache,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	barbershopID uint,
	barberID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	shop, err := uc.repo.GetBarbershopByID(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetAppointmentForBarber(ctx, appointmentID, barberID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	now := timezone.NowIn(shop.Timezone)
	if err := domain.Cancel(ap, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			BarbershopID: barbershopID,
			UserID:       &barberID,
			Action:       "appointment_cancelled",
			Entity:       "appointment",
			EntityID:     &ap.ID,
		})
	}

	if uc.notifier != nil {
		uc.notifier.AppointmentCancelled(ap, ap.Client.Name, ap.Client.Email)
	}

	if uc.cache != nil {
		uc.cache.InvalidateDay(ctx, barbershopID, barberID, ap.StartTime.Format("2006-01-02"))
	}

	return ap, nil
}
