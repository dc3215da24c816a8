package repository

import (
	"context"
	"errors"
	"log"

	"github.com/gocql/gocql"

	"dqticket_back_end/internal/database"
	"dqticket_back_end/internal/models"
)

// MemberRepo - accès ScyllaDB aux membres (keyspace members).
// L'unicité de l'email passe par la table de lookup members_by_email,
// même mécanique que coupons_by_code.
type MemberRepo struct {
	session *gocql.Session
}

func NewMemberRepo(session *gocql.Session) *MemberRepo {
	return &MemberRepo{session: session}
}

// Create insère un membre après réservation LWT de son email
func (r *MemberRepo) Create(ctx context.Context, member *models.Member) error {
	previous := make(map[string]interface{})
	applied, err := r.session.Query(
		"INSERT INTO members_by_email (email, member_id) VALUES (?, ?) IF NOT EXISTS",
		member.Email, member.ID).WithContext(ctx).MapScanCAS(previous)
	if err != nil {
		return err
	}
	if !applied {
		return ErrEmailTaken
	}

	err = r.session.Query(`INSERT INTO members (id, first_name, last_name, email, password, venue_id, is_broker, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		member.ID, member.FirstName, member.LastName, member.Email, member.Password,
		member.VenueID, member.IsBroker, member.CreatedAt, member.UpdatedAt).WithContext(ctx).Exec()
	if err != nil {
		// Libérer l'email réservé
		if delErr := r.session.Query("DELETE FROM members_by_email WHERE email = ?", member.Email).
			WithContext(ctx).Exec(); delErr != nil {
			log.Printf("⚠️ Compensation impossible pour l'email %s: %v", member.Email, delErr)
		}
		return err
	}

	return nil
}

// GetByEmail résout l'email via le lookup puis charge le membre
func (r *MemberRepo) GetByEmail(ctx context.Context, email string) (*models.Member, error) {
	var memberID gocql.UUID
	err := r.session.Query(database.CQLGetMemberIDByEmail, email).WithContext(ctx).Scan(&memberID)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, memberID)
}

func (r *MemberRepo) GetByID(ctx context.Context, id gocql.UUID) (*models.Member, error) {
	member := models.Member{ID: id}
	err := r.session.Query(database.CQLGetMemberByID, id).WithContext(ctx).Scan(
		&member.Email, &member.Password, &member.FirstName, &member.LastName,
		&member.VenueID, &member.IsBroker, &member.CreatedAt, &member.UpdatedAt)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &member, nil
}

// ListByVenue retourne les membres d'un venue (index secondaire venue_id),
// utilisé pour la diffusion des offres par email
func (r *MemberRepo) ListByVenue(ctx context.Context, venueID gocql.UUID) ([]models.Member, error) {
	iter := r.session.Query(`SELECT id, first_name, last_name, email, venue_id, is_broker, created_at, updated_at
		FROM members WHERE venue_id = ?`, venueID).WithContext(ctx).Iter()

	members := []models.Member{}
	var member models.Member
	for iter.Scan(&member.ID, &member.FirstName, &member.LastName, &member.Email,
		&member.VenueID, &member.IsBroker, &member.CreatedAt, &member.UpdatedAt) {
		members = append(members, member)
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}

	return members, nil
}
