package classify

import (
	"encoding/json"
	"fmt"
	"strings"
)

// rawResult is the wire shape produced by the classification model.
type rawResult struct {
	HasOffer      bool    `json:"has_offer"`
	SenderCompany string  `json:"sender_company"`
	Offers        []Offer `json:"offers"`
}

// StripFence removes a leading/trailing triple-backtick code fence,
// optionally tagged "json", from a raw model response. Responses without
// a fence pass through unchanged.
func StripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ParseResult parses and validates a raw model response. The model's
// output is untrusted text: the offer type tag and the per-type required
// fields are checked here, at the parse boundary.
func ParseResult(raw string) (ExtractionResult, error) {
	var parsed rawResult
	if err := json.Unmarshal([]byte(StripFence(raw)), &parsed); err != nil {
		return ExtractionResult{}, fmt.Errorf("malformed response: %w", err)
	}

	if !parsed.HasOffer {
		return NoOffer(), nil
	}

	if len(parsed.Offers) == 0 {
		return ExtractionResult{}, fmt.Errorf("has_offer is true but offers is empty")
	}

	for i := range parsed.Offers {
		if err := validateOffer(&parsed.Offers[i]); err != nil {
			return ExtractionResult{}, fmt.Errorf("offer %d: %w", i, err)
		}
	}

	return ExtractionResult{
		HasOffer:      true,
		SenderCompany: parsed.SenderCompany,
		Offers:        parsed.Offers,
	}, nil
}

func validateOffer(o *Offer) error {
	if !o.Type.Valid() {
		return fmt.Errorf("unknown offer type %q", o.Type)
	}

	switch o.Type {
	case TypeDiscount:
		// A discount needs an amount and either a code or a clear
		// shopping path.
		if !present(o.DiscountAmount) {
			return fmt.Errorf("discount offer missing discount_amount")
		}
		if !present(o.CouponCode) && strings.TrimSpace(o.CallToAction) == "" {
			return fmt.Errorf("discount offer missing coupon_code and call_to_action")
		}
	case TypeCoupon:
		if !present(o.CouponCode) {
			return fmt.Errorf("coupon offer missing coupon_code")
		}
	}

	return nil
}

func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
