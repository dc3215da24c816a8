package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"dqticket_back_end/internal/config"
	"dqticket_back_end/internal/database"
	"dqticket_back_end/internal/handlers/coupon"
	"dqticket_back_end/internal/handlers/member"
	"dqticket_back_end/internal/repository"
	"dqticket_back_end/internal/routes"
	"dqticket_back_end/internal/services"
	"dqticket_back_end/internal/utils"
)

func main() {
	config.Load()

	database.ConnectDatabases()

	// ✅ Pré-préparer les requêtes chaudes
	database.InitPreparedStatements()

	// ✅ Pré-chauffer le cache Redis
	warmupRedisCache()

	offersSession, err := database.GetOffersSession()
	if err != nil {
		log.Fatalf("❌ Session offers indisponible: %v", err)
	}
	membersSession, err := database.GetMembersSession()
	if err != nil {
		log.Fatalf("❌ Session members indisponible: %v", err)
	}

	couponRepo := repository.NewCouponRepo(offersSession)
	offerRepo := repository.NewOfferRepo(offersSession)
	memberRepo := repository.NewMemberRepo(membersSession)

	// File d'envoi des notifications d'offre
	mailQueue := utils.NewMailQueue(256)
	mailQueue.Start()
	defer mailQueue.Stop()

	couponHandler := coupon.NewHandler(couponRepo, offerRepo, memberRepo, mailQueue, services.ElasticIndex{})
	memberHandler := member.NewHandler(memberRepo)

	r := gin.Default()
	routes.RegisterRoutes(r, couponHandler, memberHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Serveur DQTicket lancé sur le port", port)
	r.Run(":" + port)
}

// warmupRedisCache pré-chauffe le cache Redis pour éviter la latence du premier appel
func warmupRedisCache() {
	ctx := context.Background()
	if err := database.Redis.Ping(ctx).Err(); err == nil {
		log.Println("✅ Cache Redis pré-chauffé")
	}
}
