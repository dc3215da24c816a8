package repository

import (
	"context"
	"errors"

	"github.com/gocql/gocql"

	"dqticket_back_end/internal/database"
	"dqticket_back_end/internal/models"
)

// OfferRepo - accès ScyllaDB aux offres (keyspace offers)
type OfferRepo struct {
	session *gocql.Session
}

func NewOfferRepo(session *gocql.Session) *OfferRepo {
	return &OfferRepo{session: session}
}

func (r *OfferRepo) GetByID(ctx context.Context, id gocql.UUID) (*models.Offer, error) {
	offer := models.Offer{ID: id}
	err := r.session.Query(database.CQLGetOfferByID, id).WithContext(ctx).Scan(
		&offer.CouponID, &offer.VenueID, &offer.ExpirationDate, &offer.ClaimedBy)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &offer, nil
}

// Claim pose claimed_by en LWT : la condition IF claimed_by = null garantit
// qu'une offre ne peut être réclamée qu'une seule fois, même sous
// réclamations concurrentes
func (r *OfferRepo) Claim(ctx context.Context, offerID, memberID gocql.UUID) error {
	previous := make(map[string]interface{})
	applied, err := r.session.Query(
		"UPDATE offers SET claimed_by = ? WHERE id = ? IF claimed_by = null",
		memberID, offerID).WithContext(ctx).MapScanCAS(previous)
	if err != nil {
		return err
	}
	if !applied {
		return ErrAlreadyClaimed
	}

	return nil
}

// ListClaimedBy retourne les offres réclamées par un membre (index secondaire claimed_by)
func (r *OfferRepo) ListClaimedBy(ctx context.Context, memberID gocql.UUID) ([]models.Offer, error) {
	iter := r.session.Query(`SELECT id, coupon_id, venue_id, expiration_date, claimed_by
		FROM offers WHERE claimed_by = ?`, memberID).WithContext(ctx).Iter()

	offers := []models.Offer{}
	for {
		var offer models.Offer
		if !iter.Scan(&offer.ID, &offer.CouponID, &offer.VenueID, &offer.ExpirationDate, &offer.ClaimedBy) {
			break
		}
		offers = append(offers, offer)
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}

	return offers, nil
}
