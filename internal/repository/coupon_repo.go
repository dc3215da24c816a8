package repository

import (
	"context"
	"errors"
	"log"

	"github.com/gocql/gocql"

	"dqticket_back_end/internal/database"
	"dqticket_back_end/internal/models"
)

// CouponRepo - accès ScyllaDB aux coupons (keyspace offers).
// L'unicité du code passe par la table de lookup coupons_by_code,
// réservée en LWT avant l'insertion du couple coupon+offre.
type CouponRepo struct {
	session *gocql.Session
}

func NewCouponRepo(session *gocql.Session) *CouponRepo {
	return &CouponRepo{session: session}
}

// CreateWithOffer insère un coupon et son offre associée.
// 1. Réservation du code (INSERT ... IF NOT EXISTS)
// 2. Batch logged coupon + offre
// 3. Si le batch échoue, la réservation est libérée (compensation)
func (r *CouponRepo) CreateWithOffer(ctx context.Context, coupon *models.Coupon, offer *models.Offer) error {
	applied, err := r.reserveCode(ctx, coupon.Code, coupon.ID)
	if err != nil {
		return err
	}
	if !applied {
		return ErrCodeTaken
	}

	batch := r.session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	batch.Query(`INSERT INTO coupons (id, title, code, value, expiry, venue_id, points, redeemed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		coupon.ID, coupon.Title, coupon.Code, coupon.Value, coupon.Expiry,
		coupon.VenueID, coupon.Points, coupon.Redeemed, coupon.CreatedAt, coupon.UpdatedAt)
	batch.Query(`INSERT INTO offers (id, coupon_id, venue_id, expiration_date, claimed_by)
		VALUES (?, ?, ?, ?, ?)`,
		offer.ID, offer.CouponID, offer.VenueID, offer.ExpirationDate, offer.ClaimedBy)

	if err := r.session.ExecuteBatch(batch); err != nil {
		// Libérer le code réservé pour ne pas laisser un lookup orphelin
		if delErr := r.session.Query("DELETE FROM coupons_by_code WHERE code = ?", coupon.Code).
			WithContext(ctx).Exec(); delErr != nil {
			log.Printf("⚠️ Compensation impossible pour le code %s: %v", coupon.Code, delErr)
		}
		return err
	}

	return nil
}

func (r *CouponRepo) reserveCode(ctx context.Context, code string, couponID gocql.UUID) (bool, error) {
	previous := make(map[string]interface{})
	return r.session.Query("INSERT INTO coupons_by_code (code, coupon_id) VALUES (?, ?) IF NOT EXISTS",
		code, couponID).WithContext(ctx).MapScanCAS(previous)
}

// GetByCode récupère un coupon via la table de lookup.
// La recherche est globale : les codes sont uniques tous venues confondus.
func (r *CouponRepo) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var couponID gocql.UUID
	err := r.session.Query(database.CQLGetCouponIDByCode, code).WithContext(ctx).Scan(&couponID)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return r.getByID(ctx, couponID)
}

func (r *CouponRepo) getByID(ctx context.Context, id gocql.UUID) (*models.Coupon, error) {
	coupon := models.Coupon{ID: id}
	err := r.session.Query(`SELECT title, code, value, expiry, venue_id, points, redeemed, created_at, updated_at
		FROM coupons WHERE id = ?`, id).WithContext(ctx).Scan(
		&coupon.Title, &coupon.Code, &coupon.Value, &coupon.Expiry,
		&coupon.VenueID, &coupon.Points, &coupon.Redeemed, &coupon.CreatedAt, &coupon.UpdatedAt)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &coupon, nil
}

// ListByVenue retourne tous les coupons d'un venue (index secondaire venue_id)
func (r *CouponRepo) ListByVenue(ctx context.Context, venueID gocql.UUID) ([]models.Coupon, error) {
	iter := r.session.Query(`SELECT id, title, code, value, expiry, venue_id, points, redeemed, created_at, updated_at
		FROM coupons WHERE venue_id = ?`, venueID).WithContext(ctx).Iter()

	coupons := []models.Coupon{}
	var coupon models.Coupon
	for iter.Scan(&coupon.ID, &coupon.Title, &coupon.Code, &coupon.Value, &coupon.Expiry,
		&coupon.VenueID, &coupon.Points, &coupon.Redeemed, &coupon.CreatedAt, &coupon.UpdatedAt) {
		coupons = append(coupons, coupon)
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}

	return coupons, nil
}
