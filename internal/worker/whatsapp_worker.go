package worker

import (
	"context"
	"encoding/json"

	"github.com/Josmarcito/sistema-durtron/internal/infra"

	"github.com/rs/zerolog/log"
)

// WhatsAppJobPayload is the job envelope sent to QueueWhatsApp.
type WhatsAppJobPayload struct {
	Telefono string `json:"telefono"`
	Mensaje  string `json:"mensaje"`
}

// WhatsAppSender is satisfied by *infra.WhatsAppClient.
type WhatsAppSender interface {
	Enviar(ctx context.Context, telefono, mensaje string) error
}

// WhatsAppWorker delivers QueueWhatsApp jobs through the HTTP gateway.
type WhatsAppWorker struct {
	sender WhatsAppSender
	cb     *infra.CircuitBreaker
}

func NewWhatsAppWorker(sender WhatsAppSender, cb *infra.CircuitBreaker) *WhatsAppWorker {
	return &WhatsAppWorker{sender: sender, cb: cb}
}

func (w *WhatsAppWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload WhatsAppJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("whatsapp_worker: invalid payload")
		return nil
	}
	if payload.Telefono == "" {
		log.Warn().Msg("whatsapp_worker: empty phone, skipping")
		return nil
	}

	err := w.cb.Execute(func() error {
		return w.sender.Enviar(ctx, payload.Telefono, payload.Mensaje)
	})
	if err != nil {
		log.Error().Err(err).Str("telefono", payload.Telefono).Msg("whatsapp_worker: send failed")
		return err
	}
	log.Info().Str("telefono", payload.Telefono).Msg("whatsapp_worker: sent")
	return nil
}
