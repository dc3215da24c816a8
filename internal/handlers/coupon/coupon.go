package coupon

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"dqticket_back_end/internal/cache"
	"dqticket_back_end/internal/models"
	"dqticket_back_end/internal/repository"
	"dqticket_back_end/internal/utils"
)

// Stores consommés par les handlers coupons. Interfaces côté consommateur
// pour pouvoir brancher des fakes en test.
type CouponStore interface {
	CreateWithOffer(ctx context.Context, coupon *models.Coupon, offer *models.Offer) error
	ListByVenue(ctx context.Context, venueID gocql.UUID) ([]models.Coupon, error)
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
}

type OfferStore interface {
	GetByID(ctx context.Context, id gocql.UUID) (*models.Offer, error)
	Claim(ctx context.Context, offerID, memberID gocql.UUID) error
	ListClaimedBy(ctx context.Context, memberID gocql.UUID) ([]models.Offer, error)
}

type MemberStore interface {
	ListByVenue(ctx context.Context, venueID gocql.UUID) ([]models.Member, error)
}

// Notifier - file d'envoi des notifications d'offre
type Notifier interface {
	Enqueue(msg utils.OfferMail)
}

// SearchIndex - indexation et recherche plein texte des coupons
type SearchIndex interface {
	IndexCoupon(coupon models.Coupon)
	SearchCoupons(venueID, query string) ([]map[string]interface{}, error)
}

type Handler struct {
	coupons CouponStore
	offers  OfferStore
	members MemberStore
	mails   Notifier
	search  SearchIndex
}

func NewHandler(coupons CouponStore, offers OfferStore, members MemberStore, mails Notifier, search SearchIndex) *Handler {
	return &Handler{
		coupons: coupons,
		offers:  offers,
		members: members,
		mails:   mails,
		search:  search,
	}
}

// uuidFromContext relit un id posé par le middleware et le convertit en UUID
func uuidFromContext(c *gin.Context, key string) (gocql.UUID, bool) {
	raw, exists := c.Get(key)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non autorisé"})
		return gocql.UUID{}, false
	}

	id, err := uuid.Parse(raw.(string))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Identifiant invalide dans le token"})
		return gocql.UUID{}, false
	}

	return gocql.UUID(id), true
}

// Create - Créer un coupon, son offre associée, et notifier les membres du venue
func (h *Handler) Create(c *gin.Context) {
	var req struct {
		Title  string     `json:"title"`
		Code   string     `json:"code"`
		Value  string     `json:"value"`
		Expiry *time.Time `json:"expiry"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	venueID, ok := uuidFromContext(c, "venue_id")
	if !ok {
		return
	}

	now := time.Now().UTC()

	// Le code fourni par le venue fait foi ; sans code on en génère un
	code := req.Code
	if code == "" {
		generated, err := utils.GenerateVoucherCode()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la génération du code"})
			return
		}
		code = generated
	}

	// Expiration par défaut : une semaine
	expiry := now.Add(models.DefaultCouponTTL)
	if req.Expiry != nil {
		expiry = req.Expiry.UTC()
	}

	coupon := models.Coupon{
		ID:        gocql.TimeUUID(),
		Title:     req.Title,
		Code:      code,
		Value:     req.Value,
		Expiry:    expiry,
		VenueID:   venueID,
		Points:    models.DefaultCouponPoints,
		Redeemed:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	offer := models.Offer{
		ID:             gocql.TimeUUID(),
		CouponID:       coupon.ID,
		VenueID:        venueID,
		ExpirationDate: expiry,
	}

	if err := h.coupons.CreateWithOffer(c.Request.Context(), &coupon, &offer); err != nil {
		if errors.Is(err, repository.ErrCodeTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Coupon code already in use"})
			return
		}
		log.Printf("❌ Erreur création coupon: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création du coupon"})
		return
	}

	cache.InvalidateCoupon(coupon.Code)
	h.search.IndexCoupon(coupon)

	// Diffusion de l'offre aux membres du venue, via la file d'envoi.
	// Un échec de listing n'annule pas la création : le coupon existe déjà.
	members, err := h.members.ListByVenue(c.Request.Context(), venueID)
	if err != nil {
		log.Printf("⚠️ Impossible de lister les membres du venue %s: %v", venueID, err)
	}
	for _, m := range members {
		h.mails.Enqueue(utils.OfferMail{
			To:      m.Email,
			Subject: utils.OfferNotificationSubject,
			HTML:    utils.GenerateOfferHTML(coupon.Title),
		})
	}

	log.Printf("✅ Coupon créé: %s (offre %s)", coupon.Code, offer.ID)
	c.JSON(http.StatusCreated, coupon)
}

// List - Tous les coupons du venue courant
func (h *Handler) List(c *gin.Context) {
	venueID, ok := uuidFromContext(c, "venue_id")
	if !ok {
		return
	}

	coupons, err := h.coupons.ListByVenue(c.Request.Context(), venueID)
	if err != nil {
		log.Printf("❌ Erreur récupération coupons: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, coupons)
}

// getCouponByCode factorise lookup (cache puis base) et contrôle d'expiration
func (h *Handler) getCouponByCode(c *gin.Context) (*models.Coupon, bool) {
	code := c.Param("code")

	coupon, hit := cache.GetCoupon(code)
	if !hit {
		var err error
		coupon, err = h.coupons.GetByCode(c.Request.Context(), code)
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
			return nil, false
		}
		if err != nil {
			log.Printf("❌ Erreur récupération coupon %s: %v", code, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
			return nil, false
		}
		cache.SetCoupon(coupon)
	}

	// Comparaison en UTC des deux côtés
	if coupon.Expiry.Before(time.Now().UTC()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Coupon Expired"})
		return nil, false
	}

	return coupon, true
}

// GetByCode - Récupérer un coupon par son code.
// Les codes sont uniques globalement : le lookup n'est pas restreint au venue courant.
func (h *Handler) GetByCode(c *gin.Context) {
	coupon, ok := h.getCouponByCode(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, coupon)
}

// QR - Rendre le code d'un coupon en QR PNG, à scanner à l'entrée
func (h *Handler) QR(c *gin.Context) {
	coupon, ok := h.getCouponByCode(c)
	if !ok {
		return
	}

	png, err := utils.GenerateCouponQR(coupon.Code)
	if err != nil {
		log.Printf("❌ Erreur génération QR pour %s: %v", coupon.Code, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération QR"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// Claim - Réclamer une offre pour le membre courant.
// Le claimed_by est posé en compare-and-swap : une offre ne se réclame qu'une fois.
func (h *Handler) Claim(c *gin.Context) {
	offerUUID, err := uuid.Parse(c.Param("offerId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID offre invalide"})
		return
	}
	offerID := gocql.UUID(offerUUID)

	memberID, ok := uuidFromContext(c, "member_id")
	if !ok {
		return
	}

	offer, err := h.offers.GetByID(c.Request.Context(), offerID)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Offer not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Erreur récupération offre %s: %v", offerID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	// L'expiration prime sur l'état de réclamation
	if offer.ExpirationDate.Before(time.Now().UTC()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Offer has expired"})
		return
	}

	if offer.ClaimedBy != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Offer already claimed"})
		return
	}

	if err := h.offers.Claim(c.Request.Context(), offerID, memberID); err != nil {
		if errors.Is(err, repository.ErrAlreadyClaimed) {
			c.JSON(http.StatusConflict, gin.H{"error": "Offer already claimed"})
			return
		}
		log.Printf("❌ Erreur réclamation offre %s: %v", offerID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	log.Printf("✅ Offre %s réclamée par %s", offerID, memberID)
	c.String(http.StatusOK, "Offer claimed successfully")
}

// ClaimedOffers - Les offres déjà réclamées par le membre courant
func (h *Handler) ClaimedOffers(c *gin.Context) {
	memberID, ok := uuidFromContext(c, "member_id")
	if !ok {
		return
	}

	offers, err := h.offers.ListClaimedBy(c.Request.Context(), memberID)
	if err != nil {
		log.Printf("❌ Erreur récupération offres réclamées: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, offers)
}

// Search - Recherche plein texte dans les coupons du venue courant
func (h *Handler) Search(c *gin.Context) {
	raw, exists := c.Get("venue_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non autorisé"})
		return
	}

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre de recherche 'q' requis"})
		return
	}

	results, err := h.search.SearchCoupons(raw.(string), query)
	if err != nil {
		log.Printf("❌ Erreur recherche coupons: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"total":   len(results),
	})
}
