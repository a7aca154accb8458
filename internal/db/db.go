package db

import (
	"errors"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/navalhatech/agenda-api/internal/config"
	"github.com/navalhatech/agenda-api/internal/models"
)

// Invariante de não-sobreposição por barbeiro, garantido pelo próprio
// banco: dois agendamentos ativos do mesmo barbeiro nunca coexistem no
// mesmo intervalo, mesmo sob requisições concorrentes. As colunas de
// horário migram como timestamptz, então o range é tstzrange.
const appointmentsNoOverlapDDL = `
        ALTER TABLE appointments
        ADD CONSTRAINT appointments_no_overlap
        EXCLUDE USING gist (
            barber_id WITH =,
            tstzrange(start_time, end_time) WITH &&
        )
        WHERE (status IN ('requested', 'confirmed', 'in_progress') AND barber_id IS NOT NULL)
    `

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Barbershop{},
		&models.User{},
		&models.Service{},
		&models.WorkingHours{},
		&models.Blackout{},
		&models.Client{},
		&models.Appointment{},
		&models.Payment{},
		&models.Notification{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	db.Exec(`
        UPDATE barbershops
        SET timezone = 'America/Sao_Paulo'
        WHERE timezone IS NULL OR timezone = ''
    `)

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		log.Fatalf("failed to enable btree_gist: %v", err)
	}

	// Em reinício a constraint já existe; qualquer outro erro é fatal,
	// senão a API subiria sem a guarda de sobreposição.
	if err := db.Exec(appointmentsNoOverlapDDL).Error; err != nil && !isDuplicateObject(err) {
		log.Fatalf("failed to create overlap constraint: %v", err)
	}

	return db
}

// SQLSTATE 42710 = duplicate_object
func isDuplicateObject(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42710"
}
