package appointment

import (
	"context"
	"errors"
	"log"

	domain "github.com/navalhatech/agenda-api/internal/domain/appointment"
	"github.com/navalhatech/agenda-api/internal/httperr"
	"github.com/navalhatech/agenda-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CheckConflictsInput struct {
	BarbershopID uint

	Date string // YYYY-MM-DD
	Time string // HH:mm

	// nil = qualquer profissional (checa só ocupação genérica do horário)
	BarberID *uint

	// usado no reagendamento para o horário não conflitar consigo mesmo
	ExcludeAppointmentID *uint
}

// ======================================================
// USE CASE
// ======================================================

// CheckConflicts responde se um horário candidato pode ser reservado e,
// quando não pode, explica por quê. Três verificações independentes
// (ocupação, expediente, bloqueios), resultados unidos na ordem. Somente
// leitura; nenhum efeito colateral.
//
// Falha de infraestrutura em qualquer consulta vira um único descritor
// conservador: nunca respondemos "disponível" sem conseguir verificar.
type CheckConflicts struct {
	repo domain.Repository
}

func NewCheckConflicts(repo domain.Repository) *CheckConflicts {
	return &CheckConflicts{repo: repo}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CheckConflicts) Execute(
	ctx context.Context,
	in CheckConflictsInput,
) ([]domain.ConflictDescriptor, error) {

	shop, err := uc.repo.GetBarbershopByID(ctx, in.BarbershopID)
	if err != nil {
		return nil, httperr.ErrBusiness("barbershop_not_found")
	}

	start, err := timezone.ParseDateTime(in.Date, in.Time, shop.Timezone)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	conflicts := []domain.ConflictDescriptor{}

	// --------------------------------------------------
	// 1️⃣ Ocupação do horário
	// --------------------------------------------------
	// Comparação por igualdade exata do horário de início: a agenda opera
	// em slots fixos e o caminho de escrita recheca sobreposição real de
	// intervalos dentro da transação.
	occupied, err := uc.repo.FindAppointmentsAt(ctx, in.BarbershopID, start, in.ExcludeAppointmentID)
	if err != nil {
		return uc.failClosed(err), nil
	}

	if in.BarberID != nil {
		for _, ap := range occupied {
			if ap.BarberID != nil && *ap.BarberID == *in.BarberID {
				conflicts = append(conflicts, domain.StaffUnavailableConflict())
				break
			}
		}
	} else if len(occupied) > 0 {
		conflicts = append(conflicts, domain.SlotOccupiedConflict())
	}

	// --------------------------------------------------
	// 2️⃣ Expediente do dia
	// --------------------------------------------------
	hoursBarberID, err := uc.resolveBarber(ctx, in)
	if err != nil {
		return uc.failClosed(err), nil
	}

	wh, err := uc.repo.GetWorkingHours(ctx, hoursBarberID, int(start.Weekday()))
	switch {
	case errors.Is(err, domain.ErrWorkingHoursNotFound):
		conflicts = append(conflicts, domain.ClosedDayConflict())

	case err != nil:
		return uc.failClosed(err), nil

	case !wh.Active || wh.StartTime == "" || wh.EndTime == "":
		conflicts = append(conflicts, domain.ClosedDayConflict())

	default:
		// dentro de [abertura, fechamento)
		if in.Time < wh.StartTime || in.Time >= wh.EndTime {
			conflicts = append(conflicts, domain.OutsideHoursConflict(wh.StartTime, wh.EndTime))
		}

		// almoço fecha as duas pontas
		if wh.LunchStart != "" && wh.LunchEnd != "" &&
			in.Time >= wh.LunchStart && in.Time <= wh.LunchEnd {
			conflicts = append(conflicts, domain.BreakWindowConflict(wh.LunchStart, wh.LunchEnd))
		}
	}

	// --------------------------------------------------
	// 3️⃣ Bloqueios de agenda
	// --------------------------------------------------
	blackouts, err := uc.repo.FindBlackoutsForDate(ctx, in.BarbershopID, in.Date)
	if err != nil {
		return uc.failClosed(err), nil
	}

	for _, b := range blackouts {
		// bloqueio de outro profissional não atinge o pedido
		if b.BarberID != nil && in.BarberID != nil && *b.BarberID != *in.BarberID {
			continue
		}

		if b.StartHour == "" || b.EndHour == "" {
			conflicts = append(conflicts, domain.DayBlockedConflict(b.Reason))
			continue
		}

		if in.Time >= b.StartHour && in.Time <= b.EndHour {
			conflicts = append(conflicts, domain.TimeBlockedConflict(b.Reason))
		}
	}

	return conflicts, nil
}

// IsAvailable é o atalho booleano sobre Execute.
func (uc *CheckConflicts) IsAvailable(
	ctx context.Context,
	in CheckConflictsInput,
) (bool, error) {

	conflicts, err := uc.Execute(ctx, in)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}

func (uc *CheckConflicts) resolveBarber(
	ctx context.Context,
	in CheckConflictsInput,
) (uint, error) {

	if in.BarberID != nil {
		return *in.BarberID, nil
	}

	owner, err := uc.repo.GetOwnerBarber(ctx, in.BarbershopID)
	if err != nil {
		return 0, err
	}
	return owner.ID, nil
}

func (uc *CheckConflicts) failClosed(err error) []domain.ConflictDescriptor {
	log.Println("availability check error:", err)
	return []domain.ConflictDescriptor{domain.CheckFailedConflict()}
}
