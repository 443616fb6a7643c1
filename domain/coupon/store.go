package coupon

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"deal-detector/domain/classify"
)

// Store persists assembled coupon records. Inserts are deduplicated by
// (mailbox, message_id) so reprocessing a diff window after a crash is
// idempotent.
type Store struct {
	db *sqlx.DB
}

// NewStore creates a coupon store backed by the given database.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

type couponRow struct {
	MessageID       string         `db:"message_id"`
	Mailbox         string         `db:"mailbox"`
	Sender          string         `db:"sender"`
	Subject         string         `db:"subject"`
	Timestamp       time.Time      `db:"timestamp"`
	SenderCompany   string         `db:"sender_company"`
	CompanyDomain   sql.NullString `db:"company_domain"`
	CompanyLogoURL  sql.NullString `db:"company_logo_url"`
	CompanyCategory sql.NullString `db:"company_category"`
	OffersJSON      []byte         `db:"offers"`
	CreatedAt       time.Time      `db:"created_at"`
}

// Insert stores a record, ignoring duplicates. Returns whether a new row
// was written.
func (s *Store) Insert(ctx context.Context, rec *CouponRecord) (bool, error) {
	offersJSON, err := json.Marshal(rec.Offers)
	if err != nil {
		return false, fmt.Errorf("failed to marshal offers: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT IGNORE INTO coupons (
			message_id,
			mailbox,
			sender,
			subject,
			timestamp,
			sender_company,
			company_domain,
			company_logo_url,
			company_category,
			offers,
			created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())
	`,
		rec.MessageID,
		rec.Mailbox,
		rec.Sender,
		rec.Subject,
		rec.Timestamp,
		rec.SenderCompany,
		nullable(rec.CompanyDomain),
		nullable(rec.CompanyLogoURL),
		nullable(rec.CompanyCategory),
		offersJSON,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert coupon: %w", err)
	}

	rows, _ := res.RowsAffected()
	return rows > 0, nil
}

// ListByMailbox returns all assembled records for a mailbox, newest
// first. Messages whose classification failed are simply absent.
func (s *Store) ListByMailbox(ctx context.Context, mailbox string) ([]CouponRecord, error) {
	var rows []couponRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT message_id, mailbox, sender, subject, timestamp, sender_company,
		       company_domain, company_logo_url, company_category, offers, created_at
		FROM coupons
		WHERE mailbox = ?
		ORDER BY timestamp DESC
	`, mailbox)
	if err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}

	records := make([]CouponRecord, 0, len(rows))
	for i := range rows {
		rec, err := rows[i].toRecord()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// GetByMessageID returns one record, or sql.ErrNoRows if absent.
func (s *Store) GetByMessageID(ctx context.Context, mailbox, messageID string) (*CouponRecord, error) {
	var row couponRow
	err := s.db.GetContext(ctx, &row, `
		SELECT message_id, mailbox, sender, subject, timestamp, sender_company,
		       company_domain, company_logo_url, company_category, offers, created_at
		FROM coupons
		WHERE mailbox = ? AND message_id = ?
	`, mailbox, messageID)
	if err != nil {
		return nil, err
	}

	rec, err := row.toRecord()
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *couponRow) toRecord() (CouponRecord, error) {
	var offers []classify.Offer
	if len(r.OffersJSON) > 0 {
		if err := json.Unmarshal(r.OffersJSON, &offers); err != nil {
			return CouponRecord{}, fmt.Errorf("failed to unmarshal offers for %s: %w", r.MessageID, err)
		}
	}

	return CouponRecord{
		MessageID:       r.MessageID,
		Mailbox:         r.Mailbox,
		Sender:          r.Sender,
		Subject:         r.Subject,
		Timestamp:       r.Timestamp,
		SenderCompany:   r.SenderCompany,
		CompanyDomain:   fromNull(r.CompanyDomain),
		CompanyLogoURL:  fromNull(r.CompanyLogoURL),
		CompanyCategory: fromNull(r.CompanyCategory),
		Offers:          offers,
		CreatedAt:       r.CreatedAt,
	}, nil
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNull(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
