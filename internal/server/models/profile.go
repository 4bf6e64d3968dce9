package models

import (
	"encoding/json"
	"time"
)

// Profile is the career profile document of an account. Data is a JSON
// object; the assistant reads it when answering.
type Profile struct {
	AccountID string          `json:"-"`
	Data      json.RawMessage `json:"profile"`
	UpdatedAt time.Time       `json:"updated_at"`
}
