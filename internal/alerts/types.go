package alerts

import (
	"time"

	"github.com/sudo-init-do/gigflow/internal/models"
)

// Task type constants
const (
	TaskWelcomeEmail = "email:welcome"
	TaskHiredEmail   = "email:hired"
)

// Common envelope for email notifications
type EmailEnvelope struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Welcome email payload
type WelcomeEmailPayload struct {
	UserID   string        `json:"user_id"`
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Envelope EmailEnvelope `json:"envelope"`
	SentAt   time.Time     `json:"sent_at"`
}

// Hired email payload (sent to the winning freelancer)
type HiredEmailPayload struct {
	Hired    models.HiredBidView `json:"hired"`
	Email    string              `json:"email"`
	Name     string              `json:"name"`
	Envelope EmailEnvelope       `json:"envelope"`
	SentAt   time.Time           `json:"sent_at"`
}
