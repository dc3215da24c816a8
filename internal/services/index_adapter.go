package services

import "dqticket_back_end/internal/models"

// ElasticIndex expose l'indexation/recherche sous forme d'objet, pour
// l'injection dans les handlers
type ElasticIndex struct{}

func (ElasticIndex) IndexCoupon(coupon models.Coupon) {
	IndexCoupon(coupon)
}

func (ElasticIndex) SearchCoupons(venueID, query string) ([]map[string]interface{}, error) {
	return SearchCoupons(venueID, query)
}
