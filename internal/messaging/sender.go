package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/BruksfildServices01/barber-agenda/internal/config"
)

// Sender entrega uma mensagem de WhatsApp. Quem chama trata a falha como
// não fatal.
type Sender interface {
	Send(ctx context.Context, phone string, message string) error
	ProviderID() string
}

// NewSender escolhe o provedor configurado; desconhecido vira noop.
func NewSender(cfg config.MessagingConfig) Sender {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := &http.Client{Timeout: timeout}

	switch cfg.Provider {
	case "evolution":
		return NewEvolutionSender(cfg.BaseURL, cfg.Instance, cfg.APIKey, client)
	case "webhook":
		return NewWebhookSender(cfg.BaseURL, cfg.APIKey, client)
	default:
		return NewNoopSender()
	}
}

// ===============================
// Evolution API
// ===============================

type EvolutionSender struct {
	baseURL  string
	instance string
	apiKey   string
	http     *http.Client
}

func NewEvolutionSender(baseURL, instance, apiKey string, client *http.Client) *EvolutionSender {
	return &EvolutionSender{
		baseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		instance: strings.TrimSpace(instance),
		apiKey:   strings.TrimSpace(apiKey),
		http:     client,
	}
}

func (s *EvolutionSender) ProviderID() string {
	return "evolution"
}

func (s *EvolutionSender) Send(ctx context.Context, phone string, message string) error {
	if s.baseURL == "" || s.instance == "" {
		return errors.New("evolution api not configured")
	}

	number, err := WhatsAppNumber(phone)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/message/sendText/%s", s.baseURL, s.instance)
	headers := map[string]string{"apikey": s.apiKey}

	return postJSON(ctx, s.http, url, headers, map[string]string{
		"number": number,
		"text":   message,
	})
}

// ===============================
// Webhook (ActivePieces / Chatwoot bridge)
// ===============================

type WebhookSender struct {
	url   string
	token string
	http  *http.Client
}

func NewWebhookSender(url, token string, client *http.Client) *WebhookSender {
	return &WebhookSender{
		url:   strings.TrimSpace(url),
		token: strings.TrimSpace(token),
		http:  client,
	}
}

func (s *WebhookSender) ProviderID() string {
	return "webhook"
}

func (s *WebhookSender) Send(ctx context.Context, phone string, message string) error {
	if s.url == "" {
		return errors.New("messaging webhook url not configured")
	}

	number, err := WhatsAppNumber(phone)
	if err != nil {
		return err
	}

	headers := map[string]string{}
	if s.token != "" {
		headers["Authorization"] = "Bearer " + s.token
	}

	return postJSON(ctx, s.http, s.url, headers, map[string]string{
		"to":   number,
		"body": message,
	})
}

// ===============================
// Noop
// ===============================

type NoopSender struct{}

func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

func (s *NoopSender) ProviderID() string {
	return "noop"
}

func (s *NoopSender) Send(_ context.Context, _ string, _ string) error {
	return nil
}

func postJSON(
	ctx context.Context,
	client *http.Client,
	url string,
	headers map[string]string,
	payload any,
) error {

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("messaging provider returned %d", resp.StatusCode)
	}
	return nil
}
