package repository

import (
	"strings"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/navalhatech/agenda-api/internal/models"
)

// DryRun só monta o SQL, sem abrir conexão.
func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(postgres.Open("host=localhost user=agenda dbname=agenda"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}
	return db
}

func overlapWindow() (time.Time, time.Time) {
	start := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	return start, start.Add(30 * time.Minute)
}

func TestOverlapQuery_LocksRowsInsteadOfAggregating(t *testing.T) {
	db := newDryRunDB(t)
	start, end := overlapWindow()

	var rows []models.Appointment
	tx := overlapQuery(db, 10, start, end, nil).Find(&rows)
	if tx.Error != nil {
		t.Fatalf("unexpected error: %v", tx.Error)
	}

	sql := tx.Statement.SQL.String()

	if !strings.Contains(sql, "FOR UPDATE") {
		t.Fatalf("query must lock the conflicting rows, got:\n%s", sql)
	}

	// Postgres rejeita FOR UPDATE combinado com agregados; a contagem
	// tem de acontecer em memória, sobre os ids travados.
	if strings.Contains(strings.ToLower(sql), "count(") {
		t.Fatalf("query must not aggregate under a row lock, got:\n%s", sql)
	}
}

func TestOverlapQuery_ExcludesGivenAppointment(t *testing.T) {
	db := newDryRunDB(t)
	start, end := overlapWindow()

	exclude := uint(7)

	var rows []models.Appointment
	tx := overlapQuery(db, 10, start, end, &exclude).Find(&rows)
	if tx.Error != nil {
		t.Fatalf("unexpected error: %v", tx.Error)
	}

	sql := tx.Statement.SQL.String()
	if !strings.Contains(sql, "id <>") {
		t.Fatalf("reschedule must ignore the appointment being moved, got:\n%s", sql)
	}
}
