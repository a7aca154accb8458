package notification

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/navalhatech/agenda-api/internal/models"
)

type Event struct {
	BarbershopID uint
	Recipient    string
	Subject      string
	Body         string
}

// Dispatcher grava a notificação e tenta o envio por e-mail fora do caminho
// da requisição. Fila cheia descarta: notificação nunca derruba a API.
type Dispatcher struct {
	db     *gorm.DB
	sender EmailSender
	queue  chan Event
}

func NewDispatcher(db *gorm.DB, sender EmailSender) *Dispatcher {
	d := &Dispatcher{
		db:     db,
		sender: sender,
		queue:  make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		d.deliver(ev)
	}
}

func (d *Dispatcher) deliver(ev Event) {
	n := models.Notification{
		BarbershopID: ev.BarbershopID,
		DedupeKey:    uuid.NewString(),
		Channel:      "email",
		Recipient:    ev.Recipient,
		Subject:      ev.Subject,
		Body:         ev.Body,
		Status:       "pending",
	}

	if err := d.db.Create(&n).Error; err != nil {
		log.Println("notification persist error:", err)
		return
	}

	if ev.Recipient == "" || d.sender == nil {
		return
	}

	if err := d.sender.Send(ev.Recipient, ev.Subject, ev.Body); err != nil {
		log.Println("notification send error:", err)
		d.db.Model(&n).Update("status", "failed")
		return
	}

	now := time.Now()
	d.db.Model(&n).Updates(map[string]any{
		"status":  "sent",
		"sent_at": &now,
	})
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		log.Println("notification queue full, dropping event")
	}
}

// --------------------------------------------------
// Templates
// --------------------------------------------------

func (d *Dispatcher) AppointmentCreated(ap *models.Appointment, clientName, clientEmail, serviceName string) {
	d.Dispatch(Event{
		BarbershopID: ap.BarbershopID,
		Recipient:    clientEmail,
		Subject:      "Agendamento recebido",
		Body: fmt.Sprintf(
			"Olá %s, seu agendamento de %s foi registrado para %s.",
			clientName,
			serviceName,
			ap.StartTime.Format("02/01/2006 15:04"),
		),
	})
}

func (d *Dispatcher) AppointmentCancelled(ap *models.Appointment, clientName, clientEmail string) {
	d.Dispatch(Event{
		BarbershopID: ap.BarbershopID,
		Recipient:    clientEmail,
		Subject:      "Agendamento cancelado",
		Body: fmt.Sprintf(
			"Olá %s, seu agendamento de %s foi cancelado.",
			clientName,
			ap.StartTime.Format("02/01/2006 15:04"),
		),
	})
}

func (d *Dispatcher) AppointmentCompleted(ap *models.Appointment, clientName, clientEmail string) {
	d.Dispatch(Event{
		BarbershopID: ap.BarbershopID,
		Recipient:    clientEmail,
		Subject:      "Atendimento concluído",
		Body: fmt.Sprintf(
			"Olá %s, obrigado pela visita! Atendimento de %s concluído.",
			clientName,
			ap.StartTime.Format("02/01/2006 15:04"),
		),
	})
}
