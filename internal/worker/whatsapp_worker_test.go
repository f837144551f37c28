package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Josmarcito/sistema-durtron/internal/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWhatsApp struct {
	calls []WhatsAppJobPayload
	err   error
}

func (f *fakeWhatsApp) Enviar(_ context.Context, tel, msg string) error {
	f.calls = append(f.calls, WhatsAppJobPayload{Telefono: tel, Mensaje: msg})
	return f.err
}

func TestWhatsAppWorker_Process(t *testing.T) {
	sender := &fakeWhatsApp{}
	w := NewWhatsAppWorker(sender, infra.NewCircuitBreaker(infra.DefaultCBConfig("whatsapp")))

	raw, _ := json.Marshal(WhatsAppJobPayload{Telefono: "523312345678", Mensaje: "Requisicion REQ-2026-0003"})
	require.NoError(t, w.Process(context.Background(), raw))
	require.Len(t, sender.calls, 1)
	assert.Equal(t, "523312345678", sender.calls[0].Telefono)
}

func TestWhatsAppWorker_SkipsEmptyPhoneAndBadPayload(t *testing.T) {
	sender := &fakeWhatsApp{}
	w := NewWhatsAppWorker(sender, infra.NewCircuitBreaker(infra.DefaultCBConfig("whatsapp")))

	raw, _ := json.Marshal(WhatsAppJobPayload{Mensaje: "sin telefono"})
	assert.NoError(t, w.Process(context.Background(), raw))
	assert.NoError(t, w.Process(context.Background(), json.RawMessage(`{`)))
	assert.Empty(t, sender.calls)
}

func TestWhatsAppWorker_ErrorTripsBreaker(t *testing.T) {
	sender := &fakeWhatsApp{err: errors.New("gateway 502")}
	cb := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{Name: "whatsapp", FailureThreshold: 2})
	w := NewWhatsAppWorker(sender, cb)

	raw, _ := json.Marshal(WhatsAppJobPayload{Telefono: "52331", Mensaje: "x"})
	assert.Error(t, w.Process(context.Background(), raw))
	assert.Error(t, w.Process(context.Background(), raw))
	assert.Equal(t, infra.CBOpen, cb.State())

	err := w.Process(context.Background(), raw)
	assert.ErrorIs(t, err, infra.ErrCircuitOpen)
	assert.Len(t, sender.calls, 2)
}
