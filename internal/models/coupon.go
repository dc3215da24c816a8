package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Coupon - bon de réduction appartenant à un venue, identifié par un code unique
type Coupon struct {
	ID        gocql.UUID `json:"id"`
	Title     string     `json:"title"`
	Code      string     `json:"code"`
	Value     string     `json:"value"` // représentation libre : "10%", "5€", ...
	Expiry    time.Time  `json:"expiry"`
	VenueID   gocql.UUID `json:"venueId"`
	Points    int        `json:"points"`
	Redeemed  bool       `json:"redeemed"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Offer - instance d'un coupon proposée aux membres d'un venue.
// ClaimedBy reste nil tant qu'aucun membre n'a réclamé l'offre.
type Offer struct {
	ID             gocql.UUID  `json:"id"`
	CouponID       gocql.UUID  `json:"couponId"`
	VenueID        gocql.UUID  `json:"venueId"`
	ExpirationDate time.Time   `json:"expirationDate"`
	ClaimedBy      *gocql.UUID `json:"claimedBy,omitempty"`
}

const (
	// Valeurs par défaut à la création d'un coupon
	DefaultCouponPoints = 10
	DefaultCouponTTL    = 7 * 24 * time.Hour // 1 semaine
)
