package worker

// email_worker.go
// Processes jobs from QueueEmail: quotations to customers, purchase orders
// to suppliers and sale confirmations, each optionally with a PDF attached.

import (
	"context"
	"encoding/json"

	"github.com/Josmarcito/sistema-durtron/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	To            string `json:"to"`
	Subject       string `json:"subject"`
	Body          string `json:"body"`
	Adjunto       []byte `json:"adjunto,omitempty"` // base64 in JSON
	NombreAdjunto string `json:"nombre_adjunto,omitempty"`
}

// EmailSender is satisfied by *infra.Mailer.
type EmailSender interface {
	Send(to, subject, body string, adjunto []byte, nombreAdjunto string) error
}

// EmailWorker processes email jobs from QueueEmail through a circuit breaker.
type EmailWorker struct {
	sender EmailSender
	cb     *infra.CircuitBreaker
}

func NewEmailWorker(sender EmailSender, cb *infra.CircuitBreaker) *EmailWorker {
	return &EmailWorker{sender: sender, cb: cb}
}

func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return nil
	}
	if payload.To == "" {
		log.Warn().Msg("email_worker: empty recipient, skipping")
		return nil
	}

	err := w.cb.Execute(func() error {
		return w.sender.Send(payload.To, payload.Subject, payload.Body, payload.Adjunto, payload.NombreAdjunto)
	})
	if err != nil {
		log.Error().Err(err).Str("to", payload.To).Str("cb", w.cb.State().String()).Msg("email_worker: send failed")
		return err
	}
	log.Info().Str("to", payload.To).Str("subject", payload.Subject).Msg("email_worker: sent")
	return nil
}
