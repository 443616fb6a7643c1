package main

import (
	"context"
	"log"
	"time"

	"deal-detector/config"
	"deal-detector/domain/classify"
	"deal-detector/domain/coupon"
)

// Seeds a handful of coupon records for local frontend development.
func main() {
	config.InitConfig()
	config.InitDB()

	store := coupon.NewStore(config.DB)
	ctx := context.Background()

	records := []*coupon.CouponRecord{
		{
			MessageID:       "seed-msg-001",
			Mailbox:         "demo@mailria.com",
			Sender:          "Potbelly Sandwich Works <offers@e.potbelly.com>",
			Subject:         "Free chips and a drink with any sandwich!",
			Timestamp:       time.Now().Add(-2 * time.Hour),
			SenderCompany:   "Potbelly",
			CompanyDomain:   strPtr("potbelly.com"),
			CompanyCategory: strPtr("food"),
			Offers: []classify.Offer{
				{
					ID:           "seed-msg-001_0",
					Brand:        "Potbelly",
					Type:         classify.TypeFreeGift,
					CouponCode:   strPtr("CHIPS24"),
					ExpiryDate:   strPtr("2026-09-15"),
					Title:        "Free chips and drink",
					Description:  "Free chips and a fountain drink with any sandwich purchase",
					CallToAction: "Order now",
				},
			},
		},
		{
			MessageID:       "seed-msg-002",
			Mailbox:         "demo@mailria.com",
			Sender:          "Old Navy <oldnavy@email.oldnavy.com>",
			Subject:         "40% off everything - this weekend only",
			Timestamp:       time.Now().Add(-26 * time.Hour),
			SenderCompany:   "Old Navy",
			CompanyDomain:   strPtr("oldnavy.com"),
			CompanyCategory: strPtr("fashion"),
			Offers: []classify.Offer{
				{
					ID:             "seed-msg-002_0",
					Brand:          "Old Navy",
					Type:           classify.TypeDiscount,
					DiscountAmount: strPtr("40%"),
					ExpiryDate:     strPtr("Limited Time"),
					ExpiryInferred: true,
					Title:          "40% off everything",
					Description:    "Storewide discount on all categories",
					CallToAction:   "Shop the sale",
				},
				{
					ID:           "seed-msg-002_1",
					Brand:        "Old Navy",
					Type:         classify.TypeFreeShipping,
					Title:        "Free shipping over $50",
					Description:  "Free standard shipping on orders over $50",
					CallToAction: "Shop now",
				},
			},
		},
	}

	for _, rec := range records {
		inserted, err := store.Insert(ctx, rec)
		if err != nil {
			log.Fatalf("Failed to seed coupon %s: %v", rec.MessageID, err)
		}
		if inserted {
			log.Printf("Seeded coupon: %s", rec.MessageID)
		} else {
			log.Printf("Coupon already present: %s", rec.MessageID)
		}
	}

	log.Println("Seeding completed!")
}

func strPtr(s string) *string {
	return &s
}
