// Package models defines the server-side persistence records.
package models

import (
	"encoding/json"
	"time"
)

// EntityRow is one stored entity set: a fixed id, the whole set as a JSON
// document, and an informational update timestamp.
type EntityRow struct {
	ID        string          `json:"id"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updated_at"`
}
