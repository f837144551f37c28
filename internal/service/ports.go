package service

import (
	"context"

	"github.com/Josmarcito/sistema-durtron/internal/model"
	"github.com/Josmarcito/sistema-durtron/internal/worker"
)

// Renderer produces the printable documents. Implemented by infra.PDFRenderer.
type Renderer interface {
	Etiqueta(u *model.UnidadInventario) ([]byte, error)
	Cotizacion(c *model.Cotizacion) ([]byte, error)
	Requisicion(r *model.Requisicion) ([]byte, error)
}

// Notificador queues outbound messages. Implemented by worker.Dispatcher.
type Notificador interface {
	EnqueueEmail(ctx context.Context, payload worker.EmailJobPayload) error
	EnqueueWhatsApp(ctx context.Context, payload worker.WhatsAppJobPayload) error
}
