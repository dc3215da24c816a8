package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Member - utilisateur rattaché à un venue, destinataire des offres.
// Le mot de passe n'est jamais sérialisé (stocké uniquement sous forme de hash bcrypt).
type Member struct {
	ID        gocql.UUID `json:"id"`
	FirstName string     `json:"firstName,omitempty"`
	LastName  string     `json:"lastName,omitempty"`
	Email     string     `json:"email"`
	Password  string     `json:"-"`
	VenueID   gocql.UUID `json:"venueId"`
	IsBroker  bool       `json:"isBroker"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
