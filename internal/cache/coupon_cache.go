package cache

import (
	"context"
	"encoding/json"
	"time"

	"dqticket_back_end/internal/database"
	"dqticket_back_end/internal/models"
)

const CouponCacheTTL = 5 * time.Minute

// GetCoupon tente de lire un coupon depuis Redis.
// Redis absent (tests, dégradé) = cache miss.
func GetCoupon(code string) (*models.Coupon, bool) {
	if database.Redis == nil {
		return nil, false
	}

	ctx := context.Background()
	data, err := database.Redis.Get(ctx, "coupon:"+code).Result()
	if err != nil {
		return nil, false
	}

	var coupon models.Coupon
	if json.Unmarshal([]byte(data), &coupon) != nil {
		return nil, false
	}

	return &coupon, true
}

// SetCoupon met un coupon en cache après un hit base
func SetCoupon(coupon *models.Coupon) {
	if database.Redis == nil {
		return
	}

	jsonData, err := json.Marshal(coupon)
	if err != nil {
		return
	}

	ctx := context.Background()
	database.Redis.Set(ctx, "coupon:"+coupon.Code, jsonData, CouponCacheTTL)
}

// InvalidateCoupon invalide le cache d'un coupon
func InvalidateCoupon(code string) {
	if database.Redis == nil {
		return
	}

	ctx := context.Background()
	database.Redis.Del(ctx, "coupon:"+code)
}
