package models

import "time"

// Bloqueio de agenda: intervalo de datas, opcionalmente restrito a um
// barbeiro e/ou a uma faixa de horário dentro de cada dia.
type Blackout struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	BarbershopID uint `json:"barbershop_id"`

	// nil = bloqueia a barbearia inteira
	BarberID *uint `json:"barber_id"`

	StartDate string `gorm:"size:10;not null" json:"start_date"` // YYYY-MM-DD
	EndDate   string `gorm:"size:10;not null" json:"end_date"`   // YYYY-MM-DD

	// vazios = dia inteiro bloqueado
	StartHour string `gorm:"size:5" json:"start_hour"` // HH:mm
	EndHour   string `gorm:"size:5" json:"end_hour"`   // HH:mm

	Reason string `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
