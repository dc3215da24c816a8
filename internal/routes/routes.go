package routes

import (
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"dqticket_back_end/internal/handlers/coupon"
	"dqticket_back_end/internal/handlers/member"
	"dqticket_back_end/internal/middleware"
)

// RegisterRoutes monte l'API coupons/offres.
// Les routes coupons exigent le venue courant, la réclamation et les offres
// réclamées exigent le membre courant.
func RegisterRoutes(r *gin.Engine, couponHandler *coupon.Handler, memberHandler *member.Handler) {
	origins := []string{"http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	api.Use(middleware.APIRateLimit())

	// Membres
	members := api.Group("/members")
	members.POST("", memberHandler.Register)
	members.POST("/login", middleware.LoginRateLimit(), memberHandler.Login)

	// Coupons
	coupons := api.Group("/coupons")
	coupons.POST("/claim/:offerId", middleware.CurrentMember(), couponHandler.Claim)

	venueScoped := coupons.Group("")
	venueScoped.Use(middleware.CurrentVenue())
	venueScoped.POST("", couponHandler.Create)
	venueScoped.GET("", couponHandler.List)
	venueScoped.GET("/search", couponHandler.Search)
	venueScoped.GET("/:code", couponHandler.GetByCode)
	venueScoped.GET("/:code/qr", couponHandler.QR)

	// Offres réclamées par le membre courant
	offers := api.Group("/offers")
	offers.GET("/claimed", middleware.CurrentMember(), couponHandler.ClaimedOffers)
}
