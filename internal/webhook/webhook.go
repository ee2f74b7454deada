// Package webhook delivers invoice requests to the business's configured
// endpoint.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/windowrun/windowrun/internal/store"
)

// ErrNoWebhookURL is returned when the business has no endpoint
// configured.
var ErrNoWebhookURL = errors.New("no webhook URL configured")

// Sender posts events to the tenant's webhook endpoint.
type Sender struct {
	http *http.Client
}

// NewSender creates a sender with the given request timeout.
func NewSender(timeout time.Duration) *Sender {
	return &Sender{http: &http.Client{Timeout: timeout}}
}

type invoicePayload struct {
	Event    string          `json:"event"`
	Business invoiceBusiness `json:"business"`
	Customer invoiceCustomer `json:"customer"`
	Job      invoiceJob      `json:"job"`
	QuoteID  string          `json:"quote_id,omitempty"`
}

type invoiceBusiness struct {
	Name string `json:"name"`
	ABN  string `json:"abn"`
}

type invoiceCustomer struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

type invoiceJob struct {
	ID           string    `json:"id"`
	ScheduledFor time.Time `json:"scheduled_for"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Status       string    `json:"status"`
}

// RequestInvoice posts an invoice.requested event for the job to the
// business's webhook URL.
func (s *Sender) RequestInvoice(ctx context.Context, b store.Business, c store.Customer, j store.Job) error {
	if b.WebhookURL == "" {
		return ErrNoWebhookURL
	}

	payload := invoicePayload{
		Event: "invoice.requested",
		Business: invoiceBusiness{
			Name: b.Name,
			ABN:  b.ABN,
		},
		Customer: invoiceCustomer{
			Name:    c.Name,
			Address: c.Address,
			Email:   c.Email,
			Phone:   c.Phone,
		},
		Job: invoiceJob{
			ID:           j.ID,
			ScheduledFor: j.ScheduledDate,
			Description:  j.Description,
			Price:        j.Price,
			Status:       string(j.Status),
		},
		QuoteID: j.QuoteID,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding invoice payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building invoice request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("posting invoice request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("invoice webhook returned status %d", resp.StatusCode)
	}

	return nil
}
