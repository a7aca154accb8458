package report

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/navalhatech/agenda-api/internal/domain/appointment"
	"github.com/navalhatech/agenda-api/internal/models"
)

type fakeReportRepo struct {
	domain.Repository

	completed []models.Appointment
	err       error
}

func (f *fakeReportRepo) ListCompletedForPeriod(ctx context.Context, barbershopID uint, start, end time.Time) ([]models.Appointment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.completed, nil
}

func uintPtr(v uint) *uint {
	return &v
}

func TestFinancialReport_Aggregates(t *testing.T) {
	repo := &fakeReportRepo{
		completed: []models.Appointment{
			{ID: 1, ServiceID: 1, Service: models.Service{ID: 1, Name: "Corte"}, BarberID: uintPtr(10), Barber: &models.User{ID: 10, Name: "Rafael"}, Price: 50},
			{ID: 2, ServiceID: 1, Service: models.Service{ID: 1, Name: "Corte"}, BarberID: uintPtr(10), Barber: &models.User{ID: 10, Name: "Rafael"}, Price: 50},
			{ID: 3, ServiceID: 2, Service: models.Service{ID: 2, Name: "Barba"}, BarberID: uintPtr(20), Barber: &models.User{ID: 20, Name: "Diego"}, Price: 30},
		},
	}

	uc := NewFinancialReport(repo)

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	summary, err := uc.Execute(context.Background(), 1, from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.TotalRevenue != 130 {
		t.Fatalf("total = %v, want 130", summary.TotalRevenue)
	}
	if summary.CompletedCount != 3 {
		t.Fatalf("count = %d, want 3", summary.CompletedCount)
	}
	if got := summary.AverageTicket; got < 43.33 || got > 43.34 {
		t.Fatalf("average ticket = %v, want ~43.33", got)
	}

	if len(summary.ByService) != 2 {
		t.Fatalf("by_service = %+v, want 2 entries", summary.ByService)
	}
	// ordenado por receita decrescente
	if summary.ByService[0].ServiceName != "Corte" || summary.ByService[0].Revenue != 100 {
		t.Fatalf("top service = %+v, want Corte/100", summary.ByService[0])
	}
	if summary.ByService[1].ServiceName != "Barba" || summary.ByService[1].Count != 1 {
		t.Fatalf("second service = %+v, want Barba/1", summary.ByService[1])
	}

	if len(summary.ByBarber) != 2 {
		t.Fatalf("by_barber = %+v, want 2 entries", summary.ByBarber)
	}
	if summary.ByBarber[0].BarberName != "Rafael" || summary.ByBarber[0].Revenue != 100 {
		t.Fatalf("top barber = %+v, want Rafael/100", summary.ByBarber[0])
	}
}

func TestFinancialReport_EmptyPeriod(t *testing.T) {
	uc := NewFinancialReport(&fakeReportRepo{})

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	summary, err := uc.Execute(context.Background(), 1, from, from.AddDate(0, 1, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.TotalRevenue != 0 || summary.CompletedCount != 0 || summary.AverageTicket != 0 {
		t.Fatalf("empty period must zero out, got %+v", summary)
	}
	if len(summary.ByService) != 0 || len(summary.ByBarber) != 0 {
		t.Fatalf("empty period must have no groups, got %+v", summary)
	}
}

func TestFinancialReport_QueryErrorPropagates(t *testing.T) {
	uc := NewFinancialReport(&fakeReportRepo{err: errors.New("connection refused")})

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	if _, err := uc.Execute(context.Background(), 1, from, from.AddDate(0, 1, 0)); err == nil {
		t.Fatal("expected error")
	}
}
