package appointment

import (
	"context"
	"errors"
	"testing"

	domain "github.com/navalhatech/agenda-api/internal/domain/appointment"
	"github.com/navalhatech/agenda-api/internal/httperr"
	"github.com/navalhatech/agenda-api/internal/models"
)

func createRepo() *fakeRepo {
	repo := baseRepo()
	repo.service = &models.Service{
		ID:           1,
		BarbershopID: 1,
		Name:         "Corte",
		DurationMin:  30,
		Price:        50,
	}
	return repo
}

func newCreateUC(repo *fakeRepo) *CreateAppointment {
	return NewCreateAppointment(repo, NewCheckConflicts(repo), nil, nil, nil)
}

func TestCreateAppointment_Success(t *testing.T) {
	repo := createRepo()
	uc := newCreateUC(repo)

	ap, err := uc.Execute(context.Background(), CreateAppointmentInput{
		BarbershopID: 1,
		BarberID:     uintPtr(10),
		ClientName:   "João",
		ClientPhone:  "11999990000",
		ServiceID:    1,
		Date:         "2030-05-06", // longe o bastante da antecedência mínima
		Time:         "10:00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.created == nil {
		t.Fatal("appointment was not persisted")
	}
	if ap.Status != string(domain.StatusRequested) {
		t.Fatalf("status = %s, want requested", ap.Status)
	}
	if ap.Price != 50 {
		t.Fatalf("price snapshot = %v, want 50", ap.Price)
	}
	if got := ap.EndTime.Sub(ap.StartTime).Minutes(); got != 30 {
		t.Fatalf("duration = %v min, want 30", got)
	}
}

func TestCreateAppointment_TooSoon(t *testing.T) {
	repo := createRepo()
	uc := newCreateUC(repo)

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		BarbershopID: 1,
		BarberID:     uintPtr(10),
		ClientName:   "João",
		ClientPhone:  "11999990000",
		ServiceID:    1,
		Date:         "2020-01-06",
		Time:         "10:00",
	})
	if !httperr.IsBusiness(err, "too_soon") {
		t.Fatalf("expected too_soon, got %v", err)
	}
	if repo.created != nil {
		t.Fatal("appointment must not be persisted")
	}
}

func TestCreateAppointment_ConflictBlocksCreation(t *testing.T) {
	repo := createRepo()
	repo.occupied = []models.Appointment{
		{ID: 1, BarberID: uintPtr(10), Status: "confirmed"},
	}
	uc := newCreateUC(repo)

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		BarbershopID: 1,
		BarberID:     uintPtr(10),
		ClientName:   "João",
		ClientPhone:  "11999990000",
		ServiceID:    1,
		Date:         "2030-05-06",
		Time:         "10:00",
	})

	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if len(ce.Conflicts) == 0 || ce.Conflicts[0].Kind != domain.ConflictStaffUnavailable {
		t.Fatalf("unexpected conflicts: %+v", ce.Conflicts)
	}
	if repo.created != nil {
		t.Fatal("appointment must not be persisted")
	}
}

func TestCreateAppointment_DefaultsToOwnerBarber(t *testing.T) {
	repo := createRepo()
	uc := newCreateUC(repo)

	ap, err := uc.Execute(context.Background(), CreateAppointmentInput{
		BarbershopID: 1,
		ClientName:   "João",
		ClientPhone:  "11999990000",
		ServiceID:    1,
		Date:         "2030-05-06",
		Time:         "10:00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ap.BarberID == nil || *ap.BarberID != repo.owner.ID {
		t.Fatalf("barber = %v, want owner %d", ap.BarberID, repo.owner.ID)
	}
}

func TestCreateAppointment_GuardedConflictPropagates(t *testing.T) {
	repo := createRepo()
	repo.createErr = httperr.ErrBusiness("time_conflict")
	uc := newCreateUC(repo)

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		BarbershopID: 1,
		BarberID:     uintPtr(10),
		ClientName:   "João",
		ClientPhone:  "11999990000",
		ServiceID:    1,
		Date:         "2030-05-06",
		Time:         "10:00",
	})
	if !httperr.IsBusiness(err, "time_conflict") {
		t.Fatalf("expected time_conflict, got %v", err)
	}
}

func TestCreateAppointment_ServiceNotFound(t *testing.T) {
	repo := createRepo()
	repo.serviceErr = errors.New("record not found")
	uc := newCreateUC(repo)

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		BarbershopID: 1,
		BarberID:     uintPtr(10),
		ClientName:   "João",
		ClientPhone:  "11999990000",
		ServiceID:    42,
		Date:         "2030-05-06",
		Time:         "10:00",
	})
	if !httperr.IsBusiness(err, "service_not_found") {
		t.Fatalf("expected service_not_found, got %v", err)
	}
}
