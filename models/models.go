package models

import "time"

// Listing statut values used by the fixed public/private queries and the
// resolve transition. The column is free text, these are not enforced.
const (
	StatutOpen     = "fall"
	StatutResolved = "pupa"
)

// Listing is a lost/found item announcement as stored.
type Listing struct {
	Id          int64          `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Details     map[string]any `json:"details"`
	Actif       int            `json:"actif"`
	Statut      string         `json:"statut"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ListingInput carries the client-settable listing fields. Nil pointers mean
// the field was not provided and must be left untouched.
type ListingInput struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Details     map[string]any `json:"details"`
	Actif       *int           `json:"actif"`
	Statut      *string        `json:"statut"`
}

// Device is one recorded installation. Rows are immutable once created and
// device_id carries no uniqueness constraint.
type Device struct {
	Id        int64          `json:"id"`
	DeviceID  string         `json:"device_id"`
	Details   map[string]any `json:"details"`
	CreatedAt time.Time      `json:"created_at"`
}

// DeviceInput carries the client-settable device fields.
type DeviceInput struct {
	DeviceID *string        `json:"device_id"`
	Details  map[string]any `json:"details"`
}

// StatusResponse is the confirmation message shape returned by the
// publish/resolve/delete/installation endpoints.
type StatusResponse struct {
	Message string `json:"message"`
}
