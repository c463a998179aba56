package alerts

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/sudo-init-do/gigflow/internal/models"
)

// ensureClient returns a usable client instance
func ensureClient() *asynq.Client {
	if client == nil {
		Init("")
	}
	return client
}

// EnqueueWelcomeEmail schedules a welcome email to a freshly registered user
func EnqueueWelcomeEmail(userID, email, name string) error {
	env := EmailEnvelope{
		To:      email,
		Subject: fmt.Sprintf("Welcome to GigFlow, %s!", name),
		Body:    fmt.Sprintf("Hi %s, thanks for joining GigFlow. Post a gig or start bidding right away.", name),
	}
	payload := WelcomeEmailPayload{UserID: userID, Name: name, Email: email, Envelope: env, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskWelcomeEmail, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}

// EnqueueHiredEmail notifies the winning freelancer after a successful hire
func EnqueueHiredEmail(view *models.HiredBidView, email, name string) error {
	env := EmailEnvelope{
		To:      email,
		Subject: fmt.Sprintf("You have been hired for %q", view.GigTitle),
		Body: fmt.Sprintf("Hi %s,\n\nYour bid of %d on %q was accepted. The client is waiting for you to get started.\n\n— GigFlow",
			name, view.Price, view.GigTitle),
	}
	payload := HiredEmailPayload{Hired: *view, Email: email, Name: name, Envelope: env, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskHiredEmail, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}
