package domain

import "time"

// Product is a read-only catalog record. The catalog repository owns the
// canonical copy; cart line items carry a snapshot of these fields.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"image"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"-"`
}
