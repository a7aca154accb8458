package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/navalhatech/agenda-api/internal/domain/appointment"
	"github.com/navalhatech/agenda-api/internal/httperr"
	"github.com/navalhatech/agenda-api/internal/models"
)

// ======================================================
// FAKE REPOSITORY
// ======================================================

type fakeRepo struct {
	shop         *models.Barbershop
	shopErr      error
	owner        *models.User
	ownerErr     error
	workingHours *models.WorkingHours
	hoursErr     error
	occupied     []models.Appointment
	occupiedErr  error
	blackouts    []models.Blackout
	blackoutsErr error

	service         *models.Service
	serviceErr      error
	dayAppointments []models.Appointment

	client    *models.Client
	created   *models.Appointment
	createErr error

	lastExcludeID *uint
}

func (f *fakeRepo) GetBarbershopByID(ctx context.Context, id uint) (*models.Barbershop, error) {
	if f.shopErr != nil {
		return nil, f.shopErr
	}
	return f.shop, nil
}

func (f *fakeRepo) GetOwnerBarber(ctx context.Context, barbershopID uint) (*models.User, error) {
	if f.ownerErr != nil {
		return nil, f.ownerErr
	}
	return f.owner, nil
}

func (f *fakeRepo) GetService(ctx context.Context, barbershopID, serviceID uint) (*models.Service, error) {
	if f.serviceErr != nil {
		return nil, f.serviceErr
	}
	if f.service == nil {
		return nil, errors.New("service not configured")
	}
	return f.service, nil
}

func (f *fakeRepo) GetOrCreateClient(ctx context.Context, barbershopID uint, name, phone, email string) (*models.Client, error) {
	if f.client != nil {
		return f.client, nil
	}
	return &models.Client{ID: 1, BarbershopID: barbershopID, Name: name, Phone: phone, Email: email}, nil
}

func (f *fakeRepo) FindAppointmentsAt(ctx context.Context, barbershopID uint, start time.Time, excludeID *uint) ([]models.Appointment, error) {
	f.lastExcludeID = excludeID
	if f.occupiedErr != nil {
		return nil, f.occupiedErr
	}
	return f.occupied, nil
}

func (f *fakeRepo) GetWorkingHours(ctx context.Context, barberID uint, weekday int) (*models.WorkingHours, error) {
	if f.hoursErr != nil {
		return nil, f.hoursErr
	}
	return f.workingHours, nil
}

func (f *fakeRepo) FindBlackoutsForDate(ctx context.Context, barbershopID uint, date string) ([]models.Blackout, error) {
	if f.blackoutsErr != nil {
		return nil, f.blackoutsErr
	}
	return f.blackouts, nil
}

func (f *fakeRepo) CreateAppointmentGuarded(ctx context.Context, ap *models.Appointment) error {
	if f.createErr != nil {
		return f.createErr
	}
	ap.ID = 100
	f.created = ap
	return nil
}

func (f *fakeRepo) RescheduleAppointmentGuarded(ctx context.Context, ap *models.Appointment, newStart, newEnd time.Time) error {
	return errors.New("not used")
}

func (f *fakeRepo) GetAppointmentForBarber(ctx context.Context, appointmentID, barberID uint) (*models.Appointment, error) {
	return nil, errors.New("not used")
}

func (f *fakeRepo) GetAppointmentForShop(ctx context.Context, appointmentID, barbershopID uint) (*models.Appointment, error) {
	return nil, errors.New("not used")
}

func (f *fakeRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	return errors.New("not used")
}

func (f *fakeRepo) IsWithinWorkingHours(ctx context.Context, barberID uint, start, end time.Time) (bool, error) {
	return false, errors.New("not used")
}

func (f *fakeRepo) ListAppointmentsForDay(ctx context.Context, barberID uint, start, end time.Time) ([]models.Appointment, error) {
	return f.dayAppointments, nil
}

func (f *fakeRepo) ListAppointmentsForPeriod(ctx context.Context, barberID uint, start, end time.Time) ([]models.Appointment, error) {
	return nil, errors.New("not used")
}

func (f *fakeRepo) ListCompletedForPeriod(ctx context.Context, barbershopID uint, start, end time.Time) ([]models.Appointment, error) {
	return nil, errors.New("not used")
}

var _ domain.Repository = (*fakeRepo)(nil)

// ======================================================
// HELPERS
// ======================================================

func uintPtr(v uint) *uint {
	return &v
}

func baseRepo() *fakeRepo {
	return &fakeRepo{
		shop:  &models.Barbershop{ID: 1, Timezone: "America/Sao_Paulo"},
		owner: &models.User{ID: 10, Role: "owner"},
		workingHours: &models.WorkingHours{
			BarberID:   10,
			StartTime:  "09:00",
			EndTime:    "18:00",
			LunchStart: "12:00",
			LunchEnd:   "13:00",
			Active:     true,
		},
	}
}

func kinds(conflicts []domain.ConflictDescriptor) []domain.ConflictKind {
	out := make([]domain.ConflictKind, 0, len(conflicts))
	for _, c := range conflicts {
		out = append(out, c.Kind)
	}
	return out
}

func assertKinds(t *testing.T, got []domain.ConflictDescriptor, want ...domain.ConflictKind) {
	t.Helper()

	gotKinds := kinds(got)
	if len(gotKinds) != len(want) {
		t.Fatalf("conflicts = %v, want %v", gotKinds, want)
	}
	for i := range want {
		if gotKinds[i] != want[i] {
			t.Fatalf("conflicts = %v, want %v", gotKinds, want)
		}
	}
}

// ======================================================
// TESTS
// ======================================================

func TestCheckConflicts_FreeSlot(t *testing.T) {
	uc := NewCheckConflicts(baseRepo())

	conflicts, err := uc.Execute(context.Background(), CheckConflictsInput{
		BarbershopID: 1,
		Date:         "2026-09-07",
		Time:         "10:00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conflicts) != 0 {
		t.Fatalf("expected free slot, got %v", kinds(conflicts))
	}
}

func TestCheckConflicts_SlotOccupied(t *testing.T) {
	repo := baseRepo()
	repo.occupied = []models.Appointment{
		{ID: 1, BarberID: uintPtr(10), Status: "confirmed"},
	}
	uc := NewCheckConflicts(repo)

	conflicts, err := uc.Execute(context.Background(), CheckConflictsInput{
		BarbershopID: 1,
		Date:         "2026-09-07",
		Time:         "10:00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, conflicts, domain.ConflictSlotOccupied)
}

func TestCheckConflicts_StaffUnavailable(t *testing.T) {
	repo := baseRepo()
	repo.occupied = []models.Appointment{
		{ID: 1, BarberID: uintPtr(10), Status: "confirmed"},
	}
	uc := NewCheckConflicts(repo)

	conflicts, err := uc.Execute(context.Background(), CheckConflictsInput{
		BarbershopID: 1,
		Date:         "2026-09-07",
		Time:         "10:00",
		BarberID:     uintPtr(10),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, conflicts, domain.ConflictStaffUnavailable)
}

func TestCheckConflicts_OtherBarberBusyDoesNotBlock(t *testing.T) {
	repo := baseRepo()
	repo.occupied = []models.Appointment{
		{ID: 1, BarberID: uintPtr(99), Status: "confirmed"},
	}
	repo.workingHours.BarberID = 10
	uc := NewCheckConflicts(repo)

	conflicts, err := uc.Execute(context.Background(), CheckConflictsInput{
		BarbershopID: 1,
		Date:         "2026-09-07",
		Time:         "10:00",
		BarberID:     uintPtr(10),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conflicts) != 0 {
		t.Fatalf("other barber's appointment should not block, got %v", kinds(conflicts))
	}
}

func TestCheckConflicts_OutsideHours(t *testing.T) {
	uc := NewCheckConflicts(baseRepo())

	cases := []struct {
		name string
		time string
		want bool
	}{
		{"before opening", "08:30", true},
		{"at opening", "09:00", false},
		{"at closing", "18:00", true},
		{"after closing", "19:00", true},
		{"last valid slot", "17:30", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			conflicts, err := uc.Execute(context.Background(), CheckConflictsInput{
				BarbershopID: 1,
				Date:         "2026-09-07",
				Time:         tc.time,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			has := false
			for _, c := range conflicts {
				if c.Kind == domain.ConflictOutsideHours {
					has = true
				}
			}
			if has != tc.want {
				t.Fatalf("time %s: outside_hours = %v, want %v (%v)", tc.time, has, tc.want, kinds(conflicts))
			}
		})
	}
}

func TestCheckConflicts_BreakWindowInclusive(t *testing.T) {
	uc := NewCheckConflicts(baseRepo())

	cases := []struct {
		time string
		want bool
	}{
		{"11:59", false},
		{"12:00", true}, // borda inicial conta
		{"12:30", true},
		{"13:00", true}, // borda final conta
		{"13:01", false},
	}

	for _, tc := range cases {
		conflicts, err := uc.Execute(context.Background(), CheckConflictsInput{
			BarbershopID: 1,
			Date:         "2026-09-07",
			Time:         tc.time,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		has := false
		for _, c := range conflicts {
			if c.Kind == domain.ConflictBreakWindow {
				has = true
			}
		}
		if has != tc.want {
			t.Fatalf("time %s: break_window = %v, want %v", tc.time, has, tc.want)
		}
	}
}

func TestCheckConflicts_ClosedDay(t *testing.T) {
	t.Run("no working hours row", func(t *testing.T) {
		repo := baseRepo()
		repo.workingHours = nil
		repo.hoursErr = domain.ErrWorkingHoursNotFound
		uc := NewCheckConflicts(repo)

		conflicts, err := uc.Execute(context.Background(), CheckConflictsInput{
			BarbershopID: 1,
			Date:         "2026-09-07",
			Time:         "10:00",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertKinds(t, conflicts, domain.ConflictClosedDay)
	})

	t.Run("inactive day", func(t *testing.T) {
		repo := baseRepo()
		repo.workingHours.Active = false
		uc := NewCheckConflicts(repo)

		conflicts, err := uc.Execute(context.Background(), CheckConflictsInput{
			BarbershopID: 1,
			Date:         "2026-09-07",
			Time:         "10:00",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertKinds(t, conflicts, domain.ConflictClosedDay)
	})
}

func TestCheckConflicts_FullDayBlackout(t *testing.T) {
	repo := baseRepo()
	repo.blackouts = []models.Blackout{
		{BarbershopID: 1, StartDate: "2026-09-07", EndDate: "2026-09-07", Reason: "feriado"},
	}
	uc := NewCheckConflicts(repo)

	conflicts, err := uc.Execute(context.Background(), CheckConflictsInput{
		BarbershopID: 1,
		Date:         "2026-09-07",
		Time:         "10:00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, conflicts, domain.ConflictDayBlocked)
}

func TestCheckConflicts_HourRangeBlackout(t *testing.T) {
	repo := baseRepo()
	repo.blackouts = []models.Blackout{
		{
			BarbershopID: 1,
			StartDate:    "2026-09-07",
			EndDate:      "2026-09-07",
			StartHour:    "14:00",
			EndHour:      "16:00",
			Reason:       "manutenção",
		},
	}
	uc := NewCheckConflicts(repo)

	cases := []struct {
		time string
		want bool
	}{
		{"13:30", false},
		{"14:00", true}, // bordas inclusivas
		{"15:00", true},
		{"16:00", true},
		{"16:30", false},
	}

	for _, tc := range cases {
		conflicts, err := uc.Execute(context.Background(), CheckConflictsInput{
			BarbershopID: 1,
			Date:         "2026-09-07",
			Time:         tc.time,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		has := false
		for _, c := range conflicts {
			if c.Kind == domain.ConflictTimeBlocked {
				has = true
			}
		}
		if has != tc.want {
			t.Fatalf("time %s: time_blocked = %v, want %v", tc.time, has, tc.want)
		}
	}
}

func TestCheckConflicts_StaffScopedBlackout(t *testing.T) {
	blackoutFor := func(barberID uint) []models.Blackout {
		return []models.Blackout{
			{
				BarbershopID: 1,
				BarberID:     uintPtr(barberID),
				StartDate:    "2026-09-07",
				EndDate:      "2026-09-07",
				Reason:       "folga",
			},
		}
	}

	t.Run("same barber is blocked", func(t *testing.T) {
		repo := baseRepo()
		repo.blackouts = blackoutFor(10)
		uc := NewCheckConflicts(repo)

		conflicts, err := uc.Execute(context.Background(), CheckConflictsInput{
			BarbershopID: 1,
			Date:         "2026-09-07",
			Time:         "10:00",
			BarberID:     uintPtr(10),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertKinds(t, conflicts, domain.ConflictDayBlocked)
	})

	t.Run("other barber's blackout is skipped", func(t *testing.T) {
		repo := baseRepo()
		repo.blackouts = blackoutFor(99)
		uc := NewCheckConflicts(repo)

		conflicts, err := uc.Execute(context.Background(), CheckConflictsInput{
			BarbershopID: 1,
			Date:         "2026-09-07",
			Time:         "10:00",
			BarberID:     uintPtr(10),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(conflicts) != 0 {
			t.Fatalf("blackout of another barber should be skipped, got %v", kinds(conflicts))
		}
	})

	t.Run("scoped blackout still applies without requested barber", func(t *testing.T) {
		repo := baseRepo()
		repo.blackouts = blackoutFor(99)
		uc := NewCheckConflicts(repo)

		conflicts, err := uc.Execute(context.Background(), CheckConflictsInput{
			BarbershopID: 1,
			Date:         "2026-09-07",
			Time:         "10:00",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertKinds(t, conflicts, domain.ConflictDayBlocked)
	})
}

func TestCheckConflicts_UnionOrdered(t *testing.T) {
	repo := baseRepo()
	repo.occupied = []models.Appointment{
		{ID: 1, BarberID: uintPtr(10), Status: "confirmed"},
	}
	repo.blackouts = []models.Blackout{
		{BarbershopID: 1, StartDate: "2026-09-07", EndDate: "2026-09-07", Reason: "feriado"},
	}
	uc := NewCheckConflicts(repo)

	// fora do expediente + ocupado + bloqueio: três conflitos, na ordem
	// ocupação, expediente, bloqueio
	conflicts, err := uc.Execute(context.Background(), CheckConflictsInput{
		BarbershopID: 1,
		Date:         "2026-09-07",
		Time:         "08:00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, conflicts,
		domain.ConflictSlotOccupied,
		domain.ConflictOutsideHours,
		domain.ConflictDayBlocked,
	)
}

func TestCheckConflicts_Idempotent(t *testing.T) {
	repo := baseRepo()
	repo.occupied = []models.Appointment{
		{ID: 1, BarberID: uintPtr(10), Status: "confirmed"},
	}
	uc := NewCheckConflicts(repo)

	in := CheckConflictsInput{
		BarbershopID: 1,
		Date:         "2026-09-07",
		Time:         "10:00",
	}

	first, err := uc.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := uc.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertKinds(t, second, kinds(first)...)
}

func TestCheckConflicts_FailClosed(t *testing.T) {
	infraErr := errors.New("connection refused")

	cases := []struct {
		name  string
		setup func(*fakeRepo)
	}{
		{"occupancy query fails", func(r *fakeRepo) { r.occupiedErr = infraErr }},
		{"working hours query fails", func(r *fakeRepo) { r.hoursErr = infraErr }},
		{"blackouts query fails", func(r *fakeRepo) { r.blackoutsErr = infraErr }},
		{"owner lookup fails", func(r *fakeRepo) { r.ownerErr = infraErr }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := baseRepo()
			tc.setup(repo)
			uc := NewCheckConflicts(repo)

			conflicts, err := uc.Execute(context.Background(), CheckConflictsInput{
				BarbershopID: 1,
				Date:         "2026-09-07",
				Time:         "10:00",
			})
			if err != nil {
				t.Fatalf("fail-closed must not return error, got %v", err)
			}
			assertKinds(t, conflicts, domain.ConflictCheckFailed)
		})
	}
}

func TestCheckConflicts_BarbershopNotFound(t *testing.T) {
	repo := baseRepo()
	repo.shopErr = errors.New("record not found")
	uc := NewCheckConflicts(repo)

	_, err := uc.Execute(context.Background(), CheckConflictsInput{
		BarbershopID: 42,
		Date:         "2026-09-07",
		Time:         "10:00",
	})
	if !httperr.IsBusiness(err, "barbershop_not_found") {
		t.Fatalf("expected barbershop_not_found, got %v", err)
	}
}

func TestCheckConflicts_InvalidDateOrTime(t *testing.T) {
	uc := NewCheckConflicts(baseRepo())

	for _, in := range []CheckConflictsInput{
		{BarbershopID: 1, Date: "07/09/2026", Time: "10:00"},
		{BarbershopID: 1, Date: "2026-09-07", Time: "10h00"},
		{BarbershopID: 1, Date: "", Time: ""},
	} {
		_, err := uc.Execute(context.Background(), in)
		if !httperr.IsBusiness(err, "invalid_date_or_time") {
			t.Fatalf("input %+v: expected invalid_date_or_time, got %v", in, err)
		}
	}
}

func TestCheckConflicts_PassesExcludeID(t *testing.T) {
	repo := baseRepo()
	uc := NewCheckConflicts(repo)

	exclude := uintPtr(77)
	_, err := uc.Execute(context.Background(), CheckConflictsInput{
		BarbershopID:         1,
		Date:                 "2026-09-07",
		Time:                 "10:00",
		ExcludeAppointmentID: exclude,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.lastExcludeID == nil || *repo.lastExcludeID != 77 {
		t.Fatalf("exclude id not propagated to repository, got %v", repo.lastExcludeID)
	}
}

func TestIsAvailable(t *testing.T) {
	repo := baseRepo()
	uc := NewCheckConflicts(repo)

	ok, err := uc.IsAvailable(context.Background(), CheckConflictsInput{
		BarbershopID: 1,
		Date:         "2026-09-07",
		Time:         "10:00",
	})
	if err != nil || !ok {
		t.Fatalf("expected available, got ok=%v err=%v", ok, err)
	}

	repo.occupied = []models.Appointment{{ID: 1, Status: "requested"}}
	ok, err = uc.IsAvailable(context.Background(), CheckConflictsInput{
		BarbershopID: 1,
		Date:         "2026-09-07",
		Time:         "10:00",
	})
	if err != nil || ok {
		t.Fatalf("expected unavailable, got ok=%v err=%v", ok, err)
	}
}
