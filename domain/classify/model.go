package classify

// OfferType is the enumerated kind of a promotional offer.
type OfferType string

const (
	TypeDiscount      OfferType = "discount"
	TypeCoupon        OfferType = "coupon"
	TypeFreeShipping  OfferType = "free_shipping"
	TypeBogo          OfferType = "bogo"
	TypeFreeGift      OfferType = "free_gift"
	TypeLoyaltyPoints OfferType = "loyalty_points"
)

// Valid reports whether the offer type is one of the six allowed tags.
func (t OfferType) Valid() bool {
	switch t {
	case TypeDiscount, TypeCoupon, TypeFreeShipping, TypeBogo, TypeFreeGift, TypeLoyaltyPoints:
		return true
	}
	return false
}

// Offer is one discrete promotional proposition extracted from a
// message. ID is assigned by the assembler, not by the classifier.
type Offer struct {
	ID              string    `json:"id"`
	Brand           string    `json:"offer_brand"`
	Type            OfferType `json:"offer_type"`
	DiscountAmount  *string   `json:"discount_amount"`
	CouponCode      *string   `json:"coupon_code"`
	ExpiryDate      *string   `json:"expiry_date"`
	ExpiryInferred  bool      `json:"expiry_inferred"`
	Title           string    `json:"offer_title"`
	Description     string    `json:"offer_description"`
	MinimumPurchase *string   `json:"minimum_purchase"`
	Terms           *string   `json:"terms_conditions"`
	CallToAction    string    `json:"call_to_action"`
}

// ExtractionResult is the classifier's validated structured answer.
// Exactly one of three shapes: no offer, offers present, or a degraded
// result carrying a failure reason. HasOffer is never true with an
// empty offer list.
type ExtractionResult struct {
	HasOffer      bool
	SenderCompany string
	Offers        []Offer
	FailureReason string
}

// Failed reports whether this is a degraded result. Callers treat a
// degraded result like "no offer" for assembly but may exclude the
// message from success metrics.
func (r ExtractionResult) Failed() bool {
	return r.FailureReason != ""
}

// NoOffer is the result for mail without an actionable offer.
func NoOffer() ExtractionResult {
	return ExtractionResult{}
}

// Degraded is the terminal result for a message whose classification
// failed. It is non-retryable at the pipeline layer.
func Degraded(reason string) ExtractionResult {
	return ExtractionResult{FailureReason: reason}
}
