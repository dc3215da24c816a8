package middleware

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super_secret"
	}
	return []byte(secret)
}

// parseBearer extrait et valide le JWT du header Authorization
func parseBearer(c *gin.Context) (jwt.MapClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		log.Println("❌ Pas de header Authorization")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token manquant"})
		c.Abort()
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Format Authorization invalide"})
		c.Abort()
		return nil, false
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("méthode de signature inattendue: %v", token.Header["alg"])
		}
		return jwtSecret(), nil
	})
	if err != nil {
		log.Printf("❌ Erreur parsing JWT: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token invalide"})
		c.Abort()
		return nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token invalide"})
		c.Abort()
		return nil, false
	}

	if exp, ok := claims["exp"].(float64); ok {
		if time.Now().Unix() > int64(exp) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token expiré"})
			c.Abort()
			return nil, false
		}
	}

	return claims, true
}

// CurrentVenue résout le venue courant depuis le token de service et le place
// dans le context Gin. Les handlers coupons ne sont jamais atteints sans venue.
func CurrentVenue() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(c)
		if !ok {
			return
		}

		venueID, ok := claims["venue_id"].(string)
		if !ok || venueID == "" {
			log.Printf("❌ venue_id manquant dans claims: %+v", claims)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "venue_id manquant"})
			c.Abort()
			return
		}

		c.Set("venue_id", venueID)
		c.Next()
	}
}
