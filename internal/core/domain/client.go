package domain

import "time"

// Client is the counterparty a quotation is issued to. Once a client has
// associated quotations or invoices it is deactivated instead of destroyed,
// so referential history survives.
type Client struct {
	ID           string         `json:"id"`
	OwnerID      string         `json:"owner_id"`
	Name         string         `json:"name"`
	Email        string         `json:"email,omitempty"`
	Phone        string         `json:"phone,omitempty"`
	Company      string         `json:"company,omitempty"`
	Address      string         `json:"address,omitempty"`
	CustomFields map[string]any `json:"custom_fields,omitempty"`
	Active       bool           `json:"active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}
