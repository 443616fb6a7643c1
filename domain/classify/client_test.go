package classify

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeGenerator struct {
	response string
	err      error
}

func (f *fakeGenerator) Classify(_ context.Context, _ string) (string, error) {
	return f.response, f.err
}

func offerResponse(expiry string) string {
	body := `{
		"has_offer": true,
		"sender_company": "Potbelly",
		"offers": [{
			"offer_brand": "Potbelly",
			"offer_type": "free_gift",
			"coupon_code": "CHIPS",
			"offer_title": "Free chips",
			"offer_description": "Free chips with any sandwich",
			"call_to_action": "Order now"`
	if expiry != "" {
		body += `, "expiry_date": "` + expiry + `"`
	}
	return body + "}]}"
}

func TestExtractTransportFailureDegrades(t *testing.T) {
	e := NewExtractor(&fakeGenerator{err: errors.New("deadline exceeded")}, time.Second)

	result := e.Extract(context.Background(), Input{Subject: "Sale"})
	if !result.Failed() {
		t.Fatal("expected degraded result")
	}
	if result.FailureReason != "deadline exceeded" {
		t.Errorf("FailureReason = %q", result.FailureReason)
	}
	if result.HasOffer || len(result.Offers) != 0 {
		t.Errorf("degraded result carries offers: %+v", result)
	}
}

func TestExtractUnparseableOutputDegrades(t *testing.T) {
	e := NewExtractor(&fakeGenerator{response: "I could not find any offers, sorry!"}, time.Second)

	result := e.Extract(context.Background(), Input{Subject: "Sale"})
	if !result.Failed() {
		t.Fatal("expected degraded result")
	}
	if result.FailureReason != "parse failure" {
		t.Errorf("FailureReason = %q, want %q", result.FailureReason, "parse failure")
	}
}

func TestExtractExplicitISOExpiryPassesThrough(t *testing.T) {
	e := NewExtractor(&fakeGenerator{response: offerResponse("2025-07-31")}, time.Second)

	result := e.Extract(context.Background(), Input{
		Subject:   "Free chips",
		Timestamp: time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC),
	})
	if result.Failed() || !result.HasOffer {
		t.Fatalf("unexpected result: %+v", result)
	}

	offer := result.Offers[0]
	if offer.ExpiryDate == nil || *offer.ExpiryDate != "2025-07-31" {
		t.Errorf("ExpiryDate = %v, want 2025-07-31", offer.ExpiryDate)
	}
	if offer.ExpiryInferred {
		t.Error("ExpiryInferred = true for explicit ISO date")
	}
}

func TestExtractDescriptiveExpiryFlaggedInferred(t *testing.T) {
	e := NewExtractor(&fakeGenerator{response: offerResponse("end of June")}, time.Second)

	result := e.Extract(context.Background(), Input{Subject: "Free chips"})
	offer := result.Offers[0]
	if offer.ExpiryDate == nil || *offer.ExpiryDate != "end of June" {
		t.Errorf("ExpiryDate = %v, want descriptive phrase preserved", offer.ExpiryDate)
	}
	if !offer.ExpiryInferred {
		t.Error("ExpiryInferred = false for descriptive phrase")
	}
}

func TestExtractMissingExpiryInferredFromSubject(t *testing.T) {
	e := NewExtractor(&fakeGenerator{response: offerResponse("")}, time.Second)

	result := e.Extract(context.Background(), Input{
		Subject:   "Flash Sale, Today Only!",
		Timestamp: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	})
	offer := result.Offers[0]
	if offer.ExpiryDate == nil || *offer.ExpiryDate != "2025-06-01" {
		t.Errorf("ExpiryDate = %v, want 2025-06-01", offer.ExpiryDate)
	}
	if !offer.ExpiryInferred {
		t.Error("ExpiryInferred = false for inferred date")
	}
}

func TestExtractMissingExpiryNoSignalStaysNil(t *testing.T) {
	e := NewExtractor(&fakeGenerator{response: offerResponse("")}, time.Second)

	result := e.Extract(context.Background(), Input{
		Subject:   "Free chips for members",
		Timestamp: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	})
	offer := result.Offers[0]
	if offer.ExpiryDate != nil {
		t.Errorf("ExpiryDate = %q, want nil", *offer.ExpiryDate)
	}
	if offer.ExpiryInferred {
		t.Error("ExpiryInferred = true with no temporal signal")
	}
}
