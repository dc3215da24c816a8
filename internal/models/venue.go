package models

import "github.com/gocql/gocql"

// Venue - entité propriétaire des coupons et des offres.
// Gérée par un service amont : on ne la référence ici que par son id,
// résolu depuis le token par le middleware CurrentVenue.
type Venue struct {
	ID   gocql.UUID `json:"id"`
	Name string     `json:"name,omitempty"`
}
