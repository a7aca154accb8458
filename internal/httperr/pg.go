package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE 23P01 = exclusion_violation (constraint appointments_no_overlap)
const pgExclusionViolation = "23P01"

// IsExclusionConflict identifica quando o Postgres rejeitou um insert/update
// pela constraint de não-sobreposição de horários.
func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgExclusionViolation
	}
	return false
}
