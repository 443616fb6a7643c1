package coupon

import (
	"fmt"
	"html"

	"github.com/microcosm-cc/bluemonday"

	"deal-detector/domain/classify"
)

// Model output may carry stray markup; records are served to clients
// verbatim, so it is stripped here.
var textPolicy = bluemonday.StrictPolicy()

// Assemble merges an extraction result with message metadata and
// enrichment into zero or one CouponRecord. Degraded and offer-less
// results produce nothing. Offer ids are messageId + "_" + zero-based
// index, which keeps reprocessing deterministic. Performs no I/O and
// cannot fail.
func Assemble(result classify.ExtractionResult, meta MessageMeta, enr Enrichment) *CouponRecord {
	if result.Failed() || !result.HasOffer {
		return nil
	}

	offers := make([]classify.Offer, len(result.Offers))
	copy(offers, result.Offers)

	for i := range offers {
		offers[i].ID = fmt.Sprintf("%s_%d", meta.MessageID, i)
		offers[i].Brand = clean(offers[i].Brand)
		offers[i].Title = clean(offers[i].Title)
		offers[i].Description = clean(offers[i].Description)
		offers[i].CallToAction = clean(offers[i].CallToAction)
		offers[i].Terms = cleanPtr(offers[i].Terms)
	}

	return &CouponRecord{
		MessageID:       meta.MessageID,
		Mailbox:         meta.Mailbox,
		Sender:          meta.Sender,
		Subject:         meta.Subject,
		Timestamp:       meta.Timestamp,
		SenderCompany:   clean(result.SenderCompany),
		CompanyDomain:   enr.CompanyDomain,
		CompanyLogoURL:  enr.CompanyLogoURL,
		CompanyCategory: enr.CompanyCategory,
		Offers:          offers,
	}
}

// clean strips markup and undoes the entity escaping the sanitizer adds,
// so plain text like "Save 20% & more" survives unchanged.
func clean(s string) string {
	return html.UnescapeString(textPolicy.Sanitize(s))
}

func cleanPtr(s *string) *string {
	if s == nil {
		return nil
	}
	cleaned := clean(*s)
	return &cleaned
}
