package appointment

import (
	"context"
	"time"

	"github.com/navalhatech/agenda-api/internal/cache"
	domain "github.com/navalhatech/agenda-api/internal/domain/appointment"
	"github.com/navalhatech/agenda-api/internal/httperr"
)

type GetAvailability struct {
	repo  domain.Repository
	cache *cache.AvailabilityCache
}

func NewGetAvailability(
	repo domain.Repository,
	availCache *cache.AvailabilityCache,
) *GetAvailability {
	return &GetAvailability{
		repo:  repo,
		cache: availCache,
	}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	dateStr := in.Date.Format("2006-01-02")

	if uc.cache != nil {
		if slots, ok := uc.cache.GetSlots(ctx, in.BarbershopID, in.BarberID, in.ServiceID, dateStr); ok {
			return slots, nil
		}
	}

	svc, err := uc.repo.GetService(ctx, in.BarbershopID, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	weekday := int(in.Date.Weekday())

	wh, err := uc.repo.GetWorkingHours(ctx, in.BarberID, weekday)
	if err != nil || !wh.Active {
		return []domain.TimeSlot{}, nil
	}

	loc := in.Date.Location()

	parseHM := func(hm string) time.Time {
		t, _ := time.Parse("15:04", hm)
		return time.Date(
			in.Date.Year(), in.Date.Month(), in.Date.Day(),
			t.Hour(), t.Minute(), 0, 0,
			loc,
		)
	}

	dayStart := parseHM(wh.StartTime)
	dayEnd := parseHM(wh.EndTime)

	hasLunch := wh.LunchStart != "" && wh.LunchEnd != ""
	var lunchStart, lunchEnd time.Time
	if hasLunch {
		lunchStart = parseHM(wh.LunchStart)
		lunchEnd = parseHM(wh.LunchEnd)
	}

	appointments, err := uc.repo.ListAppointmentsForDay(
		ctx,
		in.BarberID,
		dayStart,
		dayEnd,
	)
	if err != nil {
		return nil, err
	}

	// janelas bloqueadas do dia (feriados, folgas, manutenção)
	blackouts, err := uc.repo.FindBlackoutsForDate(ctx, in.BarbershopID, dateStr)
	if err != nil {
		return nil, err
	}

	type window struct{ start, end time.Time }
	var blocked []window

	for _, b := range blackouts {
		if b.BarberID != nil && *b.BarberID != in.BarberID {
			continue
		}
		if b.StartHour == "" || b.EndHour == "" {
			// dia inteiro bloqueado: nenhum slot
			uc.storeSlots(ctx, in, dateStr, []domain.TimeSlot{})
			return []domain.TimeSlot{}, nil
		}
		blocked = append(blocked, window{parseHM(b.StartHour), parseHM(b.EndHour)})
	}

	slotDuration := time.Duration(svc.DurationMin) * time.Minute
	slots := []domain.TimeSlot{}

	apIdx := 0

	for cur := dayStart; cur.Add(slotDuration).Before(dayEnd) || cur.Add(slotDuration).Equal(dayEnd); cur = cur.Add(slotDuration) {

		slotStart := cur
		slotEnd := cur.Add(slotDuration)

		// almoço
		if hasLunch && slotStart.Before(lunchEnd) && slotEnd.After(lunchStart) {
			continue
		}

		// janela bloqueada
		inBlackout := false
		for _, w := range blocked {
			if slotStart.Before(w.end) && slotEnd.After(w.start) {
				inBlackout = true
				break
			}
		}
		if inBlackout {
			continue
		}

		// descarta agendamentos que terminam antes do slot
		for apIdx < len(appointments) && !appointments[apIdx].EndTime.After(slotStart) {
			apIdx++
		}

		// com durações mistas, mais de um agendamento pode alcançar o
		// slot; varre todos que começam antes do fim dele
		conflict := false
		for i := apIdx; i < len(appointments) && appointments[i].StartTime.Before(slotEnd); i++ {
			if slotStart.Before(appointments[i].EndTime) && slotEnd.After(appointments[i].StartTime) {
				conflict = true
				break
			}
		}

		if !conflict {
			slots = append(slots, domain.TimeSlot{
				Start: slotStart.Format("15:04"),
				End:   slotEnd.Format("15:04"),
			})
		}
	}

	uc.storeSlots(ctx, in, dateStr, slots)

	return slots, nil
}

func (uc *GetAvailability) storeSlots(
	ctx context.Context,
	in domain.AvailabilityInput,
	dateStr string,
	slots []domain.TimeSlot,
) {
	if uc.cache != nil {
		uc.cache.SetSlots(ctx, in.BarbershopID, in.BarberID, in.ServiceID, dateStr, slots)
	}
}
