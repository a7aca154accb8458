package appointment

import "github.com/navalhatech/agenda-api/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusRequested  Status = "requested"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Blocking informa se o status ainda ocupa o horário na agenda.
// Cancelados e concluídos não bloqueiam novos agendamentos.
func (s Status) Blocking() bool {
	switch s {
	case StatusRequested, StatusConfirmed, StatusInProgress:
		return true
	}
	return false
}

// BlockingStatuses na ordem usada pelas queries de conflito.
func BlockingStatuses() []string {
	return []string{
		string(StatusRequested),
		string(StatusConfirmed),
		string(StatusInProgress),
	}
}

// ===============================
// Validations
// ===============================

func CanConfirm(current Status) error {
	if current != StatusRequested {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanStart(current Status) error {
	if current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusInProgress && current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanCancel(current Status) error {
	if !current.Blocking() {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanReschedule(current Status) error {
	if current != StatusRequested && current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func InitialStatus() Status {
	return StatusRequested
}
