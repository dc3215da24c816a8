package utils

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"dqticket_back_end/internal/models"
)

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super_secret"
	}
	return []byte(secret)
}

// GenerateMemberJWT signe un token pour un membre authentifié
func GenerateMemberJWT(member models.Member) (string, error) {
	claims := jwt.MapClaims{
		"member_id": member.ID.String(),
		"email":     member.Email,
		"venue_id":  member.VenueID.String(),
		"is_broker": member.IsBroker,
		"exp":       time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// GenerateVenueJWT signe un token de service pour un venue.
// Normalement émis par le backend venues ; exposé ici pour l'outillage et les tests.
func GenerateVenueJWT(venueID string) (string, error) {
	claims := jwt.MapClaims{
		"venue_id": venueID,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}
