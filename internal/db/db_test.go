package db

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestOverlapConstraintRangesOverTimestamptz(t *testing.T) {
	// start_time e end_time migram como timestamptz; tsrange não aceita
	// esse tipo e a constraint nunca seria criada.
	if !strings.Contains(appointmentsNoOverlapDDL, "tstzrange(start_time, end_time)") {
		t.Fatalf("constraint must use tstzrange over the appointment columns:\n%s", appointmentsNoOverlapDDL)
	}
	if strings.Contains(appointmentsNoOverlapDDL, "tsrange(") {
		t.Fatalf("tsrange does not apply to timestamptz columns:\n%s", appointmentsNoOverlapDDL)
	}
}

func TestIsDuplicateObject(t *testing.T) {
	dup := &pgconn.PgError{Code: "42710"}

	if !isDuplicateObject(dup) {
		t.Fatal("SQLSTATE 42710 must be treated as constraint already present")
	}
	if !isDuplicateObject(fmt.Errorf("exec ddl: %w", dup)) {
		t.Fatal("wrapped 42710 must still be recognized")
	}
	if isDuplicateObject(&pgconn.PgError{Code: "23P01"}) {
		t.Fatal("other SQLSTATEs must stay fatal")
	}
	if isDuplicateObject(errors.New("connection refused")) {
		t.Fatal("non-postgres errors must stay fatal")
	}
}
