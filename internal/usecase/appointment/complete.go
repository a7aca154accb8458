package appointment

import (
	"context"
	"log"

	"github.com/navalhatech/agenda-api/internal/audit"
	domain "github.com/navalhatech/agenda-api/internal/domain/appointment"
	"github.com/navalhatech/agenda-api/internal/httperr"
	"github.com/navalhatech/agenda-api/internal/models"
	"github.com/navalhatech/agenda-api/internal/notification"
	"github.com/navalhatech/agenda-api/internal/payments"
	"github.com/navalhatech/agenda-api/internal/timezone"
)

type CompleteAppointment struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	notifier *notification.Dispatcher
	payments *payments.Client
}

func NewCompleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notifier *notification.Dispatcher,
	paymentsClient *payments.Client,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:     repo,
		audit:    audit,
		notifier: notifier,
		payments: paymentsClient,
	}
}

func (uc *CompleteAppointment) Execute(
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
	if err := domain.Complete(ap, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			BarbershopID: barbershopID,
			UserID:       &barberID,
			Action:       "appointment_completed",
			Entity:       "appointment",
			EntityID:     &ap.ID,
		})
	}

	// cobrança é best-effort: nunca desfaz a conclusão
	if uc.payments != nil && ap.Price > 0 {
		if _, err := uc.payments.ChargeForAppointment(ctx, ap, ap.Service.Name); err != nil {
			log.Println("payment error:", err)
		}
	}

	if uc.notifier != nil {
		uc.notifier.AppointmentCompleted(ap, ap.Client.Name, ap.Client.Email)
	}

	return ap, nil
}
