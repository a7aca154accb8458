package appointment

import "fmt"

// ===============================
// Conflict Descriptors
// ===============================

type ConflictKind string

const (
	ConflictSlotOccupied     ConflictKind = "slot_occupied"
	ConflictStaffUnavailable ConflictKind = "staff_unavailable"
	ConflictClosedDay        ConflictKind = "closed_day"
	ConflictOutsideHours     ConflictKind = "outside_hours"
	ConflictBreakWindow      ConflictKind = "break_window"
	ConflictDayBlocked       ConflictKind = "day_blocked"
	ConflictTimeBlocked      ConflictKind = "time_blocked"
	ConflictCheckFailed      ConflictKind = "availability_check_failed"
)

// ConflictDescriptor é um valor transiente: explica por que um horário não
// pode ser reservado. Nunca é persistido.
type ConflictDescriptor struct {
	Kind        ConflictKind `json:"kind"`
	Message     string       `json:"message"`
	Suggestions []string     `json:"suggestions,omitempty"`
}

func SlotOccupiedConflict() ConflictDescriptor {
	return ConflictDescriptor{
		Kind:        ConflictSlotOccupied,
		Message:     "Horário já reservado.",
		Suggestions: []string{"Escolha outro horário."},
	}
}

func StaffUnavailableConflict() ConflictDescriptor {
	return ConflictDescriptor{
		Kind:        ConflictStaffUnavailable,
		Message:     "Profissional indisponível neste horário.",
		Suggestions: []string{"Escolha outro horário ou outro profissional."},
	}
}

func ClosedDayConflict() ConflictDescriptor {
	return ConflictDescriptor{
		Kind:        ConflictClosedDay,
		Message:     "A barbearia não atende neste dia.",
		Suggestions: []string{"Escolha outra data."},
	}
}

func OutsideHoursConflict(open, close string) ConflictDescriptor {
	return ConflictDescriptor{
		Kind:    ConflictOutsideHours,
		Message: "Fora do horário de atendimento.",
		Suggestions: []string{
			fmt.Sprintf("Atendimento das %s às %s.", open, close),
		},
	}
}

func BreakWindowConflict(start, end string) ConflictDescriptor {
	return ConflictDescriptor{
		Kind:    ConflictBreakWindow,
		Message: "Horário dentro do intervalo de almoço.",
		Suggestions: []string{
			fmt.Sprintf("Intervalo das %s às %s.", start, end),
		},
	}
}

func DayBlockedConflict(reason string) ConflictDescriptor {
	return ConflictDescriptor{
		Kind:        ConflictDayBlocked,
		Message:     fmt.Sprintf("Dia bloqueado: %s", reason),
		Suggestions: []string{"Escolha outra data."},
	}
}

func TimeBlockedConflict(reason string) ConflictDescriptor {
	return ConflictDescriptor{
		Kind:        ConflictTimeBlocked,
		Message:     fmt.Sprintf("Horário bloqueado: %s", reason),
		Suggestions: []string{"Escolha outro horário."},
	}
}

func CheckFailedConflict() ConflictDescriptor {
	return ConflictDescriptor{
		Kind:        ConflictCheckFailed,
		Message:     "Não foi possível verificar a disponibilidade. Tente novamente.",
		Suggestions: []string{"Tente novamente em instantes."},
	}
}
