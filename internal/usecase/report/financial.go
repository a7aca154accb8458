package report

import (
	"context"
	"sort"
	"time"

	domain "github.com/navalhatech/agenda-api/internal/domain/appointment"
)

// ======================================================
// OUTPUT
// ======================================================

type ServiceRevenue struct {
	ServiceID   uint    `json:"service_id"`
	ServiceName string  `json:"service_name"`
	Count       int     `json:"count"`
	Revenue     float64 `json:"revenue"`
}

type BarberRevenue struct {
	BarberID   uint    `json:"barber_id"`
	BarberName string  `json:"barber_name"`
	Count      int     `json:"count"`
	Revenue    float64 `json:"revenue"`
}

type RevenueSummary struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`

	TotalRevenue   float64 `json:"total_revenue"`
	CompletedCount int     `json:"completed_count"`
	AverageTicket  float64 `json:"average_ticket"`

	ByService []ServiceRevenue `json:"by_service"`
	ByBarber  []BarberRevenue  `json:"by_barber"`
}

// ======================================================
// USE CASE
// ======================================================

// FinancialReport agrega a receita dos atendimentos concluídos no período.
// Só aritmética sobre o resultado da consulta; nada é persistido.
type FinancialReport struct {
	repo domain.Repository
}

func NewFinancialReport(repo domain.Repository) *FinancialReport {
	return &FinancialReport{repo: repo}
}

func (uc *FinancialReport) Execute(
	ctx context.Context,
	barbershopID uint,
	from time.Time,
	to time.Time,
) (*RevenueSummary, error) {

	appointments, err := uc.repo.ListCompletedForPeriod(ctx, barbershopID, from, to)
	if err != nil {
		return nil, err
	}

	summary := &RevenueSummary{
		From: from,
		To:   to,
	}

	byService := map[uint]*ServiceRevenue{}
	byBarber := map[uint]*BarberRevenue{}

	for _, ap := range appointments {
		summary.TotalRevenue += ap.Price
		summary.CompletedCount++

		sr, ok := byService[ap.ServiceID]
		if !ok {
			sr = &ServiceRevenue{
				ServiceID:   ap.ServiceID,
				ServiceName: ap.Service.Name,
			}
			byService[ap.ServiceID] = sr
		}
		sr.Count++
		sr.Revenue += ap.Price

		if ap.BarberID != nil {
			br, ok := byBarber[*ap.BarberID]
			if !ok {
				br = &BarberRevenue{BarberID: *ap.BarberID}
				if ap.Barber != nil {
					br.BarberName = ap.Barber.Name
				}
				byBarber[*ap.BarberID] = br
			}
			br.Count++
			br.Revenue += ap.Price
		}
	}

	if summary.CompletedCount > 0 {
		summary.AverageTicket = summary.TotalRevenue / float64(summary.CompletedCount)
	}

	summary.ByService = make([]ServiceRevenue, 0, len(byService))
	for _, sr := range byService {
		summary.ByService = append(summary.ByService, *sr)
	}
	sort.Slice(summary.ByService, func(i, j int) bool {
		return summary.ByService[i].Revenue > summary.ByService[j].Revenue
	})

	summary.ByBarber = make([]BarberRevenue, 0, len(byBarber))
	for _, br := range byBarber {
		summary.ByBarber = append(summary.ByBarber, *br)
	}
	sort.Slice(summary.ByBarber, func(i, j int) bool {
		return summary.ByBarber[i].Revenue > summary.ByBarber[j].Revenue
	})

	return summary, nil
}
