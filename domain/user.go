// Package domain contains core concepts of the messaging system.
// This file defines User entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

import "time"

// User is a directory entry for an authenticated person.
// The ID is opaque and immutable; profile fields are mutable
// by the owning user only.
type User struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Contact     *string   `json:"contact,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
