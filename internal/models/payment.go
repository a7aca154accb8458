package models

import "time"

type Payment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarbershopID  uint `json:"barbershop_id"`
	AppointmentID uint `json:"appointment_id"`

	Amount   float64 `json:"amount"`
	Status   string  `gorm:"size:20;default:'pending'" json:"status"`
	Provider string  `gorm:"size:20;default:'mercadopago'" json:"provider"`

	// id da preferência no provedor (checkout)
	PreferenceID string `gorm:"size:100" json:"preference_id"`
	CheckoutURL  string `gorm:"size:500" json:"checkout_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
