package sync

import (
	"context"
	"time"

	"deal-detector/domain/classify"
	"deal-detector/domain/coupon"
	"deal-detector/domain/extract"
	"deal-detector/pkg/logger"
)

// CouponInserter persists assembled records. Implemented by
// coupon.Store.
type CouponInserter interface {
	Insert(ctx context.Context, rec *coupon.CouponRecord) (bool, error)
}

// Enricher resolves company enrichment for a sender address.
// Implemented by enrich.Service.
type Enricher interface {
	Lookup(ctx context.Context, sender string) coupon.Enrichment
}

// Processor runs the full extraction pipeline for a single message:
// content extraction, image text recovery, normalization, offer
// extraction, enrichment, assembly and storage.
type Processor struct {
	source   MailSource
	images   *extract.ImageTextRecoverer
	offers   *classify.Extractor
	enricher Enricher
	coupons  CouponInserter
	log      logger.Logger
}

// NewProcessor wires the pipeline stages together.
func NewProcessor(
	source MailSource,
	images *extract.ImageTextRecoverer,
	offers *classify.Extractor,
	enricher Enricher,
	coupons CouponInserter,
) *Processor {
	return &Processor{
		source:   source,
		images:   images,
		offers:   offers,
		enricher: enricher,
		coupons:  coupons,
		log:      logger.Get().WithComponent("pipeline"),
	}
}

// Outcome is the result of one message's pipeline run. Degraded is
// non-empty when the run completed without usable offer data because of
// a recovered error; such messages are absent from the coupon listing
// but never fail the batch.
type Outcome struct {
	MessageID string
	Stored    bool
	Degraded  string
}

// ProcessMessage runs the pipeline for one message. It never returns an
// error: every failure mode degrades to an Outcome.
func (p *Processor) ProcessMessage(ctx context.Context, mailbox, id string) Outcome {
	outcome := Outcome{MessageID: id}
	log := p.log.WithMailbox(mailbox).WithFields(logger.MessageID(id))

	msg, err := p.source.GetMessage(ctx, mailbox, id)
	if err != nil {
		log.Warn("Failed to fetch message", logger.Err(err))
		outcome.Degraded = "fetch failure: " + err.Error()
		return outcome
	}

	content := extract.Extract(msg)

	plainText := content.PlainText
	if len(content.ImageRefs) > 0 {
		log.Debug("Recovering image text", logger.ImageCount(len(content.ImageRefs)))
		if imgText := p.images.RecoverText(ctx, content.ImageRefs); imgText != "" {
			plainText += "\n" + imgText
		}
	}

	result := p.offers.Extract(ctx, classify.Input{
		Text:      extract.Normalize(plainText),
		Subject:   msg.Subject,
		Sender:    msg.Sender,
		Timestamp: time.UnixMilli(msg.InternalDate),
	})

	if result.Failed() {
		outcome.Degraded = result.FailureReason
		return outcome
	}

	if !result.HasOffer {
		log.Debug("No offer in message")
		return outcome
	}

	rec := coupon.Assemble(result, coupon.MessageMeta{
		MessageID: id,
		Mailbox:   mailbox,
		Sender:    msg.Sender,
		Subject:   msg.Subject,
		Timestamp: time.UnixMilli(msg.InternalDate),
	}, p.enricher.Lookup(ctx, msg.Sender))

	inserted, err := p.coupons.Insert(ctx, rec)
	if err != nil {
		log.Error("Failed to store coupon record", err)
		outcome.Degraded = "store failure: " + err.Error()
		return outcome
	}

	outcome.Stored = inserted
	log.Info("Coupon record assembled",
		logger.Sender(msg.Sender),
		logger.Subject(msg.Subject),
		logger.OfferCount(len(rec.Offers)),
		logger.Bool("inserted", inserted),
	)
	return outcome
}
