package coupon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"dqticket_back_end/internal/models"
	"dqticket_back_end/internal/repository"
	"dqticket_back_end/internal/utils"
)

// --- Fakes des stores ---

type fakeCouponStore struct {
	byCode    map[string]*models.Coupon
	offers    []*models.Offer
	createErr error
}

func newFakeCouponStore() *fakeCouponStore {
	return &fakeCouponStore{byCode: make(map[string]*models.Coupon)}
}

func (s *fakeCouponStore) CreateWithOffer(_ context.Context, coupon *models.Coupon, offer *models.Offer) error {
	if s.createErr != nil {
		return s.createErr
	}
	if _, exists := s.byCode[coupon.Code]; exists {
		return repository.ErrCodeTaken
	}
	c := *coupon
	o := *offer
	s.byCode[coupon.Code] = &c
	s.offers = append(s.offers, &o)
	return nil
}

func (s *fakeCouponStore) ListByVenue(_ context.Context, venueID gocql.UUID) ([]models.Coupon, error) {
	coupons := []models.Coupon{}
	for _, c := range s.byCode {
		if c.VenueID == venueID {
			coupons = append(coupons, *c)
		}
	}
	return coupons, nil
}

func (s *fakeCouponStore) GetByCode(_ context.Context, code string) (*models.Coupon, error) {
	c, ok := s.byCode[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

type fakeOfferStore struct {
	byID map[gocql.UUID]*models.Offer
}

func newFakeOfferStore() *fakeOfferStore {
	return &fakeOfferStore{byID: make(map[gocql.UUID]*models.Offer)}
}

func (s *fakeOfferStore) GetByID(_ context.Context, id gocql.UUID) (*models.Offer, error) {
	o, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return o, nil
}

func (s *fakeOfferStore) Claim(_ context.Context, offerID, memberID gocql.UUID) error {
	o, ok := s.byID[offerID]
	if !ok || o.ClaimedBy != nil {
		return repository.ErrAlreadyClaimed
	}
	id := memberID
	o.ClaimedBy = &id
	return nil
}

func (s *fakeOfferStore) ListClaimedBy(_ context.Context, memberID gocql.UUID) ([]models.Offer, error) {
	offers := []models.Offer{}
	for _, o := range s.byID {
		if o.ClaimedBy != nil && *o.ClaimedBy == memberID {
			offers = append(offers, *o)
		}
	}
	return offers, nil
}

type fakeMemberStore struct {
	members []models.Member
}

func (s *fakeMemberStore) ListByVenue(_ context.Context, venueID gocql.UUID) ([]models.Member, error) {
	members := []models.Member{}
	for _, m := range s.members {
		if m.VenueID == venueID {
			members = append(members, m)
		}
	}
	return members, nil
}

type fakeNotifier struct {
	sent []utils.OfferMail
}

func (n *fakeNotifier) Enqueue(msg utils.OfferMail) {
	n.sent = append(n.sent, msg)
}

type fakeSearch struct {
	indexed []models.Coupon
	results []map[string]interface{}
	err     error
}

func (s *fakeSearch) IndexCoupon(coupon models.Coupon) {
	s.indexed = append(s.indexed, coupon)
}

func (s *fakeSearch) SearchCoupons(_, _ string) ([]map[string]interface{}, error) {
	return s.results, s.err
}

// --- Montage du routeur de test ---

type env struct {
	coupons  *fakeCouponStore
	offers   *fakeOfferStore
	members  *fakeMemberStore
	notifier *fakeNotifier
	search   *fakeSearch
	router   *gin.Engine
	venueID  gocql.UUID
	memberID gocql.UUID
}

func setupEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	e := &env{
		coupons:  newFakeCouponStore(),
		offers:   newFakeOfferStore(),
		members:  &fakeMemberStore{},
		notifier: &fakeNotifier{},
		search:   &fakeSearch{},
		venueID:  gocql.TimeUUID(),
		memberID: gocql.TimeUUID(),
	}

	h := NewHandler(e.coupons, e.offers, e.members, e.notifier, e.search)

	withVenue := func(c *gin.Context) { c.Set("venue_id", e.venueID.String()) }
	withMember := func(c *gin.Context) { c.Set("member_id", e.memberID.String()) }

	r := gin.New()
	r.POST("/api/coupons", withVenue, h.Create)
	r.GET("/api/coupons", withVenue, h.List)
	r.GET("/api/coupons/search", withVenue, h.Search)
	r.GET("/api/coupons/:code", withVenue, h.GetByCode)
	r.GET("/api/coupons/:code/qr", withVenue, h.QR)
	r.POST("/api/coupons/claim/:offerId", withMember, h.Claim)
	r.GET("/api/offers/claimed", withMember, h.ClaimedOffers)
	e.router = r

	return e
}

func (e *env) do(method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// --- Création ---

func TestCreateCoupon(t *testing.T) {
	e := setupEnv(t)

	expiry := time.Now().UTC().Add(72 * time.Hour).Format(time.RFC3339)
	body := fmt.Sprintf(`{"title":"Summer Sale","code":"SUM10","value":"10%%","expiry":%q}`, expiry)

	w := e.do(http.MethodPost, "/api/coupons", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, attendu 201 (body: %s)", w.Code, w.Body.String())
	}

	var coupon models.Coupon
	if err := json.Unmarshal(w.Body.Bytes(), &coupon); err != nil {
		t.Fatalf("réponse non décodable: %v", err)
	}
	if coupon.Code != "SUM10" {
		t.Errorf("code = %q, attendu SUM10", coupon.Code)
	}
	if coupon.Points != 10 {
		t.Errorf("points = %d, attendu 10", coupon.Points)
	}
	if !coupon.Redeemed {
		t.Error("redeemed = false, attendu true (défaut du modèle)")
	}
	if coupon.VenueID != e.venueID {
		t.Errorf("venueId = %s, attendu %s", coupon.VenueID, e.venueID)
	}

	// Exactement une offre, même venue et même expiration
	if len(e.coupons.offers) != 1 {
		t.Fatalf("offres créées = %d, attendu 1", len(e.coupons.offers))
	}
	offer := e.coupons.offers[0]
	if offer.VenueID != e.venueID {
		t.Errorf("offer.venueId = %s, attendu %s", offer.VenueID, e.venueID)
	}
	if !offer.ExpirationDate.Equal(coupon.Expiry) {
		t.Errorf("offer.expirationDate = %s, attendu %s", offer.ExpirationDate, coupon.Expiry)
	}
	if offer.CouponID != coupon.ID {
		t.Errorf("offer.couponId = %s, attendu %s", offer.CouponID, coupon.ID)
	}

	if len(e.search.indexed) != 1 {
		t.Errorf("coupons indexés = %d, attendu 1", len(e.search.indexed))
	}
}

func TestCreateCouponNotifiesVenueMembers(t *testing.T) {
	e := setupEnv(t)

	otherVenue := gocql.TimeUUID()
	e.members.members = []models.Member{
		{ID: gocql.TimeUUID(), Email: "a@example.com", VenueID: e.venueID},
		{ID: gocql.TimeUUID(), Email: "b@example.com", VenueID: e.venueID},
		{ID: gocql.TimeUUID(), Email: "c@example.com", VenueID: otherVenue},
	}

	w := e.do(http.MethodPost, "/api/coupons", `{"title":"Happy Hour","code":"HH1","value":"2x1"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, attendu 201", w.Code)
	}

	if len(e.notifier.sent) != 2 {
		t.Fatalf("notifications = %d, attendu 2 (membres du venue uniquement)", len(e.notifier.sent))
	}
	for _, msg := range e.notifier.sent {
		if msg.Subject != "New Offer Available" {
			t.Errorf("sujet = %q, attendu %q", msg.Subject, "New Offer Available")
		}
		if !strings.Contains(msg.HTML, "Happy Hour") {
			t.Errorf("le corps ne mentionne pas le titre: %s", msg.HTML)
		}
	}
}

func TestCreateCouponDuplicateCode(t *testing.T) {
	e := setupEnv(t)

	if w := e.do(http.MethodPost, "/api/coupons", `{"title":"A","code":"DUP","value":"5%"}`); w.Code != http.StatusCreated {
		t.Fatalf("première création: status = %d", w.Code)
	}
	w := e.do(http.MethodPost, "/api/coupons", `{"title":"B","code":"DUP","value":"5%"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, attendu 409 pour code dupliqué", w.Code)
	}
}

func TestCreateCouponDefaults(t *testing.T) {
	e := setupEnv(t)

	before := time.Now().UTC()
	w := e.do(http.MethodPost, "/api/coupons", `{"title":"Sans code","value":"1€"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, attendu 201", w.Code)
	}

	var coupon models.Coupon
	if err := json.Unmarshal(w.Body.Bytes(), &coupon); err != nil {
		t.Fatalf("réponse non décodable: %v", err)
	}

	// Code généré côté serveur : 4 caractères alphanumériques
	if len(coupon.Code) != 4 {
		t.Errorf("code généré = %q, attendu 4 caractères", coupon.Code)
	}

	// Expiration par défaut : une semaine
	want := before.Add(7 * 24 * time.Hour)
	if coupon.Expiry.Before(want.Add(-time.Minute)) || coupon.Expiry.After(want.Add(time.Minute)) {
		t.Errorf("expiry = %s, attendu ~%s", coupon.Expiry, want)
	}
}

func TestCreateCouponInvalidBody(t *testing.T) {
	e := setupEnv(t)

	w := e.do(http.MethodPost, "/api/coupons", `{"title":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, attendu 400", w.Code)
	}
}

// --- Listing ---

func TestListCouponsScopedToVenue(t *testing.T) {
	e := setupEnv(t)

	otherVenue := gocql.TimeUUID()
	e.coupons.byCode["MINE"] = &models.Coupon{ID: gocql.TimeUUID(), Code: "MINE", VenueID: e.venueID}
	e.coupons.byCode["THEIRS"] = &models.Coupon{ID: gocql.TimeUUID(), Code: "THEIRS", VenueID: otherVenue}

	w := e.do(http.MethodGet, "/api/coupons", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, attendu 200", w.Code)
	}

	var coupons []models.Coupon
	if err := json.Unmarshal(w.Body.Bytes(), &coupons); err != nil {
		t.Fatalf("réponse non décodable: %v", err)
	}
	if len(coupons) != 1 || coupons[0].Code != "MINE" {
		t.Fatalf("coupons = %+v, attendu uniquement MINE", coupons)
	}
}

// --- Lookup par code ---

func TestGetCouponByCode(t *testing.T) {
	e := setupEnv(t)

	e.coupons.byCode["OK10"] = &models.Coupon{
		ID:      gocql.TimeUUID(),
		Code:    "OK10",
		VenueID: e.venueID,
		Expiry:  time.Now().UTC().Add(24 * time.Hour),
	}
	e.coupons.byCode["OLD"] = &models.Coupon{
		ID:      gocql.TimeUUID(),
		Code:    "OLD",
		VenueID: e.venueID,
		Expiry:  time.Now().UTC().Add(-24 * time.Hour),
	}

	tests := []struct {
		name           string
		code           string
		expectedStatus int
		expectedSubstr string
	}{
		{"coupon valide", "OK10", http.StatusOK, `"code":"OK10"`},
		{"coupon inconnu", "NOPE", http.StatusNotFound, "Not Found"},
		{"coupon expiré", "OLD", http.StatusBadRequest, "Coupon Expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := e.do(http.MethodGet, "/api/coupons/"+tt.code, "")
			if w.Code != tt.expectedStatus {
				t.Fatalf("status = %d, attendu %d (body: %s)", w.Code, tt.expectedStatus, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), tt.expectedSubstr) {
				t.Errorf("body = %s, attendu contenant %q", w.Body.String(), tt.expectedSubstr)
			}
		})
	}
}

func TestGetCouponQR(t *testing.T) {
	e := setupEnv(t)

	e.coupons.byCode["QR1"] = &models.Coupon{
		ID:      gocql.TimeUUID(),
		Code:    "QR1",
		VenueID: e.venueID,
		Expiry:  time.Now().UTC().Add(24 * time.Hour),
	}

	w := e.do(http.MethodGet, "/api/coupons/QR1/qr", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, attendu 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, attendu image/png", ct)
	}
	if w.Body.Len() == 0 {
		t.Error("PNG vide")
	}
}

// --- Réclamation ---

func TestClaimOffer(t *testing.T) {
	e := setupEnv(t)

	validOffer := gocql.TimeUUID()
	expiredOffer := gocql.TimeUUID()
	claimedOffer := gocql.TimeUUID()
	claimer := gocql.TimeUUID()

	e.offers.byID[validOffer] = &models.Offer{
		ID:             validOffer,
		CouponID:       gocql.TimeUUID(),
		VenueID:        e.venueID,
		ExpirationDate: time.Now().UTC().Add(24 * time.Hour),
	}
	e.offers.byID[expiredOffer] = &models.Offer{
		ID:             expiredOffer,
		CouponID:       gocql.TimeUUID(),
		VenueID:        e.venueID,
		ExpirationDate: time.Now().UTC().Add(-24 * time.Hour),
	}
	e.offers.byID[claimedOffer] = &models.Offer{
		ID:             claimedOffer,
		CouponID:       gocql.TimeUUID(),
		VenueID:        e.venueID,
		ExpirationDate: time.Now().UTC().Add(24 * time.Hour),
		ClaimedBy:      &claimer,
	}

	tests := []struct {
		name           string
		offerID        string
		expectedStatus int
		expectedSubstr string
	}{
		{"offre valide", validOffer.String(), http.StatusOK, "Offer claimed successfully"},
		{"offre inconnue", gocql.TimeUUID().String(), http.StatusNotFound, "Offer not found"},
		{"offre expirée", expiredOffer.String(), http.StatusBadRequest, "Offer has expired"},
		{"offre déjà réclamée", claimedOffer.String(), http.StatusConflict, "Offer already claimed"},
		{"id invalide", "pas-un-uuid", http.StatusBadRequest, "invalide"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := e.do(http.MethodPost, "/api/coupons/claim/"+tt.offerID, "")
			if w.Code != tt.expectedStatus {
				t.Fatalf("status = %d, attendu %d (body: %s)", w.Code, tt.expectedStatus, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), tt.expectedSubstr) {
				t.Errorf("body = %s, attendu contenant %q", w.Body.String(), tt.expectedSubstr)
			}
		})
	}

	// Le claim a bien posé le membre courant
	if claimed := e.offers.byID[validOffer].ClaimedBy; claimed == nil || *claimed != e.memberID {
		t.Errorf("claimedBy = %v, attendu %s", claimed, e.memberID)
	}
}

func TestClaimExpiredOfferEvenIfClaimed(t *testing.T) {
	e := setupEnv(t)

	// Expirée ET déjà réclamée : l'expiration prime
	claimer := gocql.TimeUUID()
	offerID := gocql.TimeUUID()
	e.offers.byID[offerID] = &models.Offer{
		ID:             offerID,
		CouponID:       gocql.TimeUUID(),
		VenueID:        e.venueID,
		ExpirationDate: time.Now().UTC().Add(-time.Hour),
		ClaimedBy:      &claimer,
	}

	w := e.do(http.MethodPost, "/api/coupons/claim/"+offerID.String(), "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, attendu 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Offer has expired") {
		t.Errorf("body = %s, attendu 'Offer has expired'", w.Body.String())
	}
}

func TestClaimedOffers(t *testing.T) {
	e := setupEnv(t)

	mine := gocql.TimeUUID()
	e.offers.byID[mine] = &models.Offer{
		ID:             mine,
		CouponID:       gocql.TimeUUID(),
		VenueID:        e.venueID,
		ExpirationDate: time.Now().UTC().Add(24 * time.Hour),
		ClaimedBy:      &e.memberID,
	}
	other := gocql.TimeUUID()
	otherMember := gocql.TimeUUID()
	e.offers.byID[other] = &models.Offer{
		ID:             other,
		CouponID:       gocql.TimeUUID(),
		VenueID:        e.venueID,
		ExpirationDate: time.Now().UTC().Add(24 * time.Hour),
		ClaimedBy:      &otherMember,
	}

	w := e.do(http.MethodGet, "/api/offers/claimed", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, attendu 200", w.Code)
	}

	var offers []models.Offer
	if err := json.Unmarshal(w.Body.Bytes(), &offers); err != nil {
		t.Fatalf("réponse non décodable: %v", err)
	}
	if len(offers) != 1 || offers[0].ID != mine {
		t.Fatalf("offers = %+v, attendu uniquement %s", offers, mine)
	}
}

// --- Recherche ---

func TestSearchCoupons(t *testing.T) {
	e := setupEnv(t)
	e.search.results = []map[string]interface{}{{"code": "SUM10", "title": "Summer Sale"}}

	w := e.do(http.MethodGet, "/api/coupons/search?q=summer", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, attendu 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "SUM10") {
		t.Errorf("body = %s, attendu contenant SUM10", w.Body.String())
	}

	w = e.do(http.MethodGet, "/api/coupons/search", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status sans q = %d, attendu 400", w.Code)
	}
}
