package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CurrentMember résout le membre courant depuis son token et le place dans le
// context Gin (member_id, email, is_broker)
func CurrentMember() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(c)
		if !ok {
			return
		}

		memberID, ok := claims["member_id"].(string)
		if !ok || memberID == "" {
			log.Printf("❌ member_id manquant dans claims: %+v", claims)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "member_id manquant"})
			c.Abort()
			return
		}

		c.Set("member_id", memberID)
		c.Set("email", claims["email"])

		if isBroker, ok := claims["is_broker"].(bool); ok {
			c.Set("is_broker", isBroker)
		} else {
			c.Set("is_broker", false)
		}

		c.Next()
	}
}
