package classify

import (
	"context"
	"strings"
	"time"

	"deal-detector/pkg/logger"
)

// Generator is the raw text-classification call. The returned text is
// untrusted and goes through fence stripping and parse validation.
type Generator interface {
	Classify(ctx context.Context, prompt string) (string, error)
}

// Extractor drives the classification service for one message at a
// time. Extract never fails: every transport or output error collapses
// into a degraded ExtractionResult.
type Extractor struct {
	gen     Generator
	timeout time.Duration
	log     logger.Logger
}

// NewExtractor creates an offer extractor with a bounded per-call timeout.
func NewExtractor(gen Generator, timeout time.Duration) *Extractor {
	return &Extractor{
		gen:     gen,
		timeout: timeout,
		log:     logger.Get().WithComponent("offer_extractor"),
	}
}

// Extract classifies one message's normalized text. The result is either
// a validated offer set, a clean "no offer", or a degraded result with a
// failure reason. It never returns an error to the caller.
func (e *Extractor) Extract(ctx context.Context, in Input) ExtractionResult {
	prompt := BuildPrompt(in)

	cctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.gen.Classify(cctx, prompt)
	if err != nil {
		e.log.Warn("Classification call failed",
			logger.Sender(in.Sender),
			logger.Err(err),
		)
		return Degraded(err.Error())
	}

	result, err := ParseResult(raw)
	if err != nil {
		e.log.Warn("Classification output rejected",
			logger.Sender(in.Sender),
			logger.Err(err),
			logger.String("raw_prefix", prefix(raw, 200)),
		)
		return Degraded("parse failure")
	}

	applyExpiryPolicy(&result, in)
	return result
}

// applyExpiryPolicy enforces the deterministic expiry rules regardless
// of what the model emitted: explicit ISO dates pass through,
// descriptive phrases are flagged as inferred, and missing dates are
// filled from temporal keywords in the subject and offer text.
func applyExpiryPolicy(result *ExtractionResult, in Input) {
	for i := range result.Offers {
		offer := &result.Offers[i]

		if present(offer.ExpiryDate) {
			if !IsISODate(strings.TrimSpace(*offer.ExpiryDate)) {
				offer.ExpiryInferred = true
			}
			continue
		}

		signal := in.Subject + " " + offer.Title + " " + offer.Description
		if phrase, ok := InferExpiry(signal, in.Timestamp); ok {
			offer.ExpiryDate = &phrase
			offer.ExpiryInferred = true
		} else {
			offer.ExpiryDate = nil
			offer.ExpiryInferred = false
		}
	}
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
