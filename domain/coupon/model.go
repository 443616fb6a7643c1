package coupon

import (
	"time"

	"deal-detector/domain/classify"
)

// CouponRecord is an offer-bearing email envelope. It is created once
// per qualifying message and never mutated afterwards.
type CouponRecord struct {
	MessageID       string           `json:"message_id"`
	Mailbox         string           `json:"-"`
	Sender          string           `json:"sender"`
	Subject         string           `json:"subject"`
	Timestamp       time.Time        `json:"timestamp"`
	SenderCompany   string           `json:"sender_company"`
	CompanyDomain   *string          `json:"company_domain"`
	CompanyLogoURL  *string          `json:"company_logo_url"`
	CompanyCategory *string          `json:"company_category"`
	Offers          []classify.Offer `json:"offers"`
	CreatedAt       time.Time        `json:"created_at"`
}

// MessageMeta is the envelope metadata the assembler merges with the
// extraction output.
type MessageMeta struct {
	MessageID string
	Mailbox   string
	Sender    string
	Subject   string
	Timestamp time.Time
}

// Enrichment holds externally resolved company fields. All fields are
// nullable; lookup failures degrade to nil.
type Enrichment struct {
	CompanyDomain   *string
	CompanyLogoURL  *string
	CompanyCategory *string
}
