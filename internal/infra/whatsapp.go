package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// WhatsAppMessage is the body posted to the messaging gateway.
type WhatsAppMessage struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

// WhatsAppClient posts text messages to an HTTP WhatsApp gateway
// (Twilio-style bridge or a self-hosted one). The gateway owns delivery.
type WhatsAppClient struct {
	gatewayURL string
	token      string
	httpClient *http.Client
}

func NewWhatsAppClient(gatewayURL, token string) *WhatsAppClient {
	return &WhatsAppClient{
		gatewayURL: strings.TrimRight(gatewayURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Configured reports whether a gateway URL was provided.
func (c *WhatsAppClient) Configured() bool { return c.gatewayURL != "" }

// Enviar sends a text message to telefono.
func (c *WhatsAppClient) Enviar(ctx context.Context, telefono, mensaje string) error {
	body, err := json.Marshal(WhatsAppMessage{To: NormalizarTelefono(telefono), Message: mensaje})
	if err != nil {
		return fmt.Errorf("whatsapp: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("whatsapp: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp: gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("whatsapp: gateway returned %d", resp.StatusCode)
	}
	return nil
}

// NormalizarTelefono keeps digits only and prefixes the Mexican country code
// to ten-digit local numbers.
func NormalizarTelefono(telefono string) string {
	var b strings.Builder
	for _, r := range telefono {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 10 {
		return "52" + digits
	}
	return digits
}

// WhatsAppLink builds a click-to-chat URL with a prefilled message.
func WhatsAppLink(telefono, texto string) string {
	return "https://wa.me/" + NormalizarTelefono(telefono) + "?text=" + url.QueryEscape(texto)
}
