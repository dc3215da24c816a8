package database

import (
	"log"
	"sync"
)

// Textes CQL des requêtes chaudes (login, lookup coupon par code, lookup offre).
// Partagés avec les repositories pour que le warm-up ci-dessous prépare
// exactement les mêmes statements côté serveur.
const (
	CQLGetMemberIDByEmail = "SELECT member_id FROM members_by_email WHERE email = ?"
	CQLGetMemberByID      = `SELECT email, password, first_name, last_name, venue_id, is_broker, created_at, updated_at
		FROM members WHERE id = ?`
	CQLGetCouponIDByCode = "SELECT coupon_id FROM coupons_by_code WHERE code = ?"
	CQLGetOfferByID      = "SELECT coupon_id, venue_id, expiration_date, claimed_by FROM offers WHERE id = ?"
)

var preparedOnce sync.Once

// InitPreparedStatements force la préparation serveur des requêtes fréquentes
// pour éviter la latence du premier appel
func InitPreparedStatements() {
	preparedOnce.Do(func() {
		membersSession, err := GetMembersSession()
		if err != nil {
			log.Printf("⚠️ Impossible d'initialiser les prepared statements (members): %v", err)
			return
		}
		offersSession, err := GetOffersSession()
		if err != nil {
			log.Printf("⚠️ Impossible d'initialiser les prepared statements (offers): %v", err)
			return
		}

		// gocql prépare et met en cache un statement au premier passage
		_ = membersSession.Query(CQLGetMemberIDByEmail, "").Exec()
		_ = offersSession.Query(CQLGetCouponIDByCode, "").Exec()

		log.Println("✅ Prepared statements initialisés")
	})
}
