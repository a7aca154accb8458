package models

import "time"

type Notification struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarbershopID uint   `json:"barbershop_id"`
	DedupeKey    string `gorm:"size:50;uniqueIndex" json:"dedupe_key"`

	Channel   string `gorm:"size:20;default:'email'" json:"channel"`
	Recipient string `gorm:"size:100" json:"recipient"`
	Subject   string `gorm:"size:150" json:"subject"`
	Body      string `gorm:"type:text" json:"body"`

	Status string     `gorm:"size:20;default:'pending'" json:"status"`
	SentAt *time.Time `json:"sent_at"`

	CreatedAt time.Time `json:"created_at"`
}
