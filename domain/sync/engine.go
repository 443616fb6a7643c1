package sync

import (
	"context"
	"errors"
	"fmt"
	stdsync "sync"
	"time"

	"deal-detector/pkg/logger"
)

// DefaultWorkerCount bounds per-batch pipeline concurrency so the OCR
// and classification backends are not overwhelmed.
const DefaultWorkerCount = 5

// Notifier is told when a webhook batch stored new records.
type Notifier interface {
	NotifyNewDeals(ctx context.Context, mailbox string, newRecords int) error
}

// Engine keeps each mailbox's promotional view up to date against the
// mail source's history feed.
//
// Per mailbox it is a two-state machine: no stored cursor means
// uninitialized, and the first full scan moves it to synced. After that
// every notification advances the cursor through a history diff, and
// the cursor only moves once the whole diff batch has been attempted.
// Batches for one mailbox are serialized; different mailboxes run in
// parallel.
type Engine struct {
	source      MailSource
	cursors     CursorStore
	proc        *Processor
	notifier    Notifier // optional
	promoLabel  string
	workerCount int
	log         logger.Logger

	mu    stdsync.Mutex
	locks map[string]*stdsync.Mutex
}

// NewEngine creates a sync engine. promoLabel is the mail source's tag
// for promotional messages; notifier may be nil.
func NewEngine(source MailSource, cursors CursorStore, proc *Processor, notifier Notifier, promoLabel string, workerCount int) *Engine {
	if workerCount <= 0 {
		workerCount = DefaultWorkerCount
	}
	return &Engine{
		source:      source,
		cursors:     cursors,
		proc:        proc,
		notifier:    notifier,
		promoLabel:  promoLabel,
		workerCount: workerCount,
		log:         logger.Get().WithComponent("sync_engine"),
		locks:       make(map[string]*stdsync.Mutex),
	}
}

// mailboxLock returns the serialization lock for one mailbox. The
// cursor read-modify-write is not safe under concurrent execution for
// the same mailbox.
func (e *Engine) mailboxLock(mailbox string) *stdsync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	lock, ok := e.locks[mailbox]
	if !ok {
		lock = &stdsync.Mutex{}
		e.locks[mailbox] = lock
	}
	return lock
}

// HandleNotification processes one push notification carrying a new
// history token. Stale or duplicate tokens are a no-op. A failed diff
// fetch leaves the cursor untouched so the sender's redelivery retries
// the same window; an expired history window forces a full resync.
func (e *Engine) HandleNotification(ctx context.Context, mailbox string, newHistoryID uint64) error {
	lock := e.mailboxLock(mailbox)
	lock.Lock()
	defer lock.Unlock()

	log := e.log.WithMailbox(mailbox)

	cursor, exists, err := e.cursors.Get(ctx, mailbox)
	if err != nil {
		return err
	}

	if !exists {
		log.Info("No cursor for mailbox, running initial full scan")
		return e.fullSyncLocked(ctx, mailbox)
	}

	if newHistoryID <= cursor {
		log.Debug("Stale notification, skipping",
			logger.HistoryID(newHistoryID),
			logger.Any("cursor", cursor),
		)
		return nil
	}

	entries, err := e.source.HistoryDiff(ctx, mailbox, cursor, newHistoryID)
	if errors.Is(err, ErrHistoryExpired) {
		// Never skip forward past an unreadable window: that is silent
		// data loss. Rescan from scratch instead.
		log.Warn("History window expired, falling back to full resync",
			logger.HistoryID(cursor),
		)
		return e.fullSyncLocked(ctx, mailbox)
	}
	if err != nil {
		return fmt.Errorf("history diff for %s failed: %w", mailbox, err)
	}

	ids := e.promotionalIDs(entries)
	log.Info("Processing history diff",
		logger.HistoryID(newHistoryID),
		logger.Count(len(ids)),
	)

	outcomes := e.processBatch(ctx, mailbox, ids)

	// The cursor advances only after every message in the batch has
	// been attempted.
	if err := e.cursors.Set(ctx, mailbox, newHistoryID); err != nil {
		return err
	}

	e.notifyNewDeals(ctx, mailbox, outcomes)
	return nil
}

// FullSync runs a full promotional listing scan and (re)initializes the
// cursor from it. Used for first-time sync, manual resync and the
// expired-history fallback.
func (e *Engine) FullSync(ctx context.Context, mailbox string) error {
	lock := e.mailboxLock(mailbox)
	lock.Lock()
	defer lock.Unlock()

	return e.fullSyncLocked(ctx, mailbox)
}

func (e *Engine) fullSyncLocked(ctx context.Context, mailbox string) error {
	log := e.log.WithMailbox(mailbox)

	ids, historyID, err := e.source.ListPromotional(ctx, mailbox)
	if err != nil {
		return fmt.Errorf("promotional listing for %s failed: %w", mailbox, err)
	}

	log.Info("Running full scan",
		logger.Count(len(ids)),
		logger.HistoryID(historyID),
	)

	outcomes := e.processBatch(ctx, mailbox, ids)

	if err := e.cursors.Set(ctx, mailbox, historyID); err != nil {
		return err
	}

	e.notifyNewDeals(ctx, mailbox, outcomes)
	return nil
}

// promotionalIDs filters the diff to promotional "message added" events
// and deduplicates ids, preserving feed order.
func (e *Engine) promotionalIDs(entries []HistoryEntry) []string {
	seen := make(map[string]bool, len(entries))
	var ids []string
	for _, entry := range entries {
		if seen[entry.MessageID] || !hasLabel(entry.Labels, e.promoLabel) {
			continue
		}
		seen[entry.MessageID] = true
		ids = append(ids, entry.MessageID)
	}
	return ids
}

func hasLabel(labels []string, want string) bool {
	for _, l := range labels {
		if l == want {
			return true
		}
	}
	return false
}

// processBatch fans the batch out to a bounded worker pool and joins on
// every outcome before returning. The join barrier is what makes
// advancing the cursor afterwards safe.
func (e *Engine) processBatch(ctx context.Context, mailbox string, ids []string) []Outcome {
	if len(ids) == 0 {
		return nil
	}

	log := e.log.WithMailbox(mailbox)
	start := time.Now()

	workers := e.workerCount
	if workers > len(ids) {
		workers = len(ids)
	}

	idChan := make(chan string, len(ids))
	resultChan := make(chan Outcome, len(ids))
	var wg stdsync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range idChan {
				resultChan <- e.proc.ProcessMessage(ctx, mailbox, id)
			}
		}()
	}

	for _, id := range ids {
		idChan <- id
	}
	close(idChan)

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	outcomes := make([]Outcome, 0, len(ids))
	stored, degraded := 0, 0
	for outcome := range resultChan {
		if outcome.Stored {
			stored++
		}
		if outcome.Degraded != "" {
			degraded++
			log.Warn("Message degraded",
				logger.MessageID(outcome.MessageID),
				logger.String("reason", outcome.Degraded),
			)
		}
		outcomes = append(outcomes, outcome)
	}

	log.Info("Batch completed",
		logger.BatchSize(len(ids)),
		logger.ProcessedCount(stored),
		logger.FailedCount(degraded),
		logger.Duration("duration_ms", time.Since(start)),
	)
	return outcomes
}

func (e *Engine) notifyNewDeals(ctx context.Context, mailbox string, outcomes []Outcome) {
	if e.notifier == nil {
		return
	}

	stored := 0
	for _, o := range outcomes {
		if o.Stored {
			stored++
		}
	}
	if stored == 0 {
		return
	}

	if err := e.notifier.NotifyNewDeals(ctx, mailbox, stored); err != nil {
		e.log.WithMailbox(mailbox).Warn("Failed to send new-deals notification", logger.Err(err))
	}
}
