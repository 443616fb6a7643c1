package coupon

import (
	"testing"
	"time"

	"deal-detector/domain/classify"
)

func testMeta() MessageMeta {
	return MessageMeta{
		MessageID: "abc123",
		Mailbox:   "user@example.com",
		Sender:    "Shop <deals@shop.example.com>",
		Subject:   "Big sale",
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestAssembleAssignsStableOfferIDs(t *testing.T) {
	result := classify.ExtractionResult{
		HasOffer:      true,
		SenderCompany: "Shop",
		Offers: []classify.Offer{
			{Brand: "Shop", Type: classify.TypeFreeShipping, Title: "Free shipping"},
			{Brand: "Shop", Type: classify.TypeBogo, Title: "Buy one get one"},
		},
	}

	rec := Assemble(result, testMeta(), Enrichment{})
	if rec == nil {
		t.Fatal("Assemble returned nil for a valid result")
	}
	if rec.Offers[0].ID != "abc123_0" || rec.Offers[1].ID != "abc123_1" {
		t.Errorf("offer ids = %q, %q", rec.Offers[0].ID, rec.Offers[1].ID)
	}

	// Reassembly from the same inputs yields the same ids.
	again := Assemble(result, testMeta(), Enrichment{})
	if again.Offers[0].ID != rec.Offers[0].ID || again.Offers[1].ID != rec.Offers[1].ID {
		t.Error("offer ids are not stable across reassembly")
	}
}

func TestAssembleNilForDegradedAndNoOffer(t *testing.T) {
	if rec := Assemble(classify.Degraded("timeout"), testMeta(), Enrichment{}); rec != nil {
		t.Errorf("Assemble(degraded) = %+v, want nil", rec)
	}
	if rec := Assemble(classify.NoOffer(), testMeta(), Enrichment{}); rec != nil {
		t.Errorf("Assemble(no offer) = %+v, want nil", rec)
	}
}

func TestAssembleSanitizesTextFields(t *testing.T) {
	terms := `<a href="http://x">See</a> store for details`
	result := classify.ExtractionResult{
		HasOffer:      true,
		SenderCompany: "<b>Shop</b>",
		Offers: []classify.Offer{
			{
				Brand:        "Shop<script>alert(1)</script>",
				Type:         classify.TypeDiscount,
				Title:        "Save 20% & more",
				Description:  "Everything <i>must</i> go",
				CallToAction: "Shop now",
				Terms:        &terms,
			},
		},
	}

	rec := Assemble(result, testMeta(), Enrichment{})
	if rec.SenderCompany != "Shop" {
		t.Errorf("SenderCompany = %q", rec.SenderCompany)
	}

	offer := rec.Offers[0]
	if offer.Brand != "Shop" {
		t.Errorf("Brand = %q", offer.Brand)
	}
	if offer.Title != "Save 20% & more" {
		t.Errorf("Title = %q, entities must survive", offer.Title)
	}
	if offer.Description != "Everything must go" {
		t.Errorf("Description = %q", offer.Description)
	}
	if offer.Terms == nil || *offer.Terms != "See store for details" {
		t.Errorf("Terms = %v", offer.Terms)
	}
}

func TestAssembleDoesNotMutateInput(t *testing.T) {
	result := classify.ExtractionResult{
		HasOffer: true,
		Offers: []classify.Offer{
			{Brand: "<b>Shop</b>", Type: classify.TypeFreeShipping, Title: "Free shipping"},
		},
	}

	Assemble(result, testMeta(), Enrichment{})
	if result.Offers[0].ID != "" || result.Offers[0].Brand != "<b>Shop</b>" {
		t.Errorf("input offers mutated: %+v", result.Offers[0])
	}
}

func TestAssembleCarriesEnrichment(t *testing.T) {
	domain := "shop.example.com"
	logo := "https://logo.example.com/shop.png"
	category := "retail"

	result := classify.ExtractionResult{
		HasOffer: true,
		Offers:   []classify.Offer{{Type: classify.TypeFreeShipping, Title: "Free shipping"}},
	}

	rec := Assemble(result, testMeta(), Enrichment{
		CompanyDomain:   &domain,
		CompanyLogoURL:  &logo,
		CompanyCategory: &category,
	})
	if rec.CompanyDomain == nil || *rec.CompanyDomain != domain {
		t.Errorf("CompanyDomain = %v", rec.CompanyDomain)
	}
	if rec.CompanyLogoURL == nil || *rec.CompanyLogoURL != logo {
		t.Errorf("CompanyLogoURL = %v", rec.CompanyLogoURL)
	}
	if rec.CompanyCategory == nil || *rec.CompanyCategory != category {
		t.Errorf("CompanyCategory = %v", rec.CompanyCategory)
	}
}
