package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS reports (
    id               TEXT PRIMARY KEY,
    reference_code   TEXT NOT NULL UNIQUE,
    type             TEXT NOT NULL CHECK (type IN ('found', 'lost')),
    name             TEXT NOT NULL DEFAULT '',
    species          TEXT NOT NULL,
    breed            TEXT NOT NULL DEFAULT '',
    color            TEXT NOT NULL DEFAULT '',
    size             TEXT NOT NULL DEFAULT '',
    gender           TEXT NOT NULL DEFAULT 'unknown',
    description      TEXT NOT NULL DEFAULT '',
    location         TEXT NOT NULL,
    found_on         DATE NOT NULL,
    photo_path       TEXT NOT NULL DEFAULT '',
    contact_name     TEXT NOT NULL DEFAULT '',
    contact_email    TEXT NOT NULL DEFAULT '',
    contact_phone    TEXT NOT NULL DEFAULT '',
    reporter_user_id TEXT NOT NULL DEFAULT '',
    status           TEXT NOT NULL DEFAULT 'pending',
    is_verified      BOOLEAN NOT NULL DEFAULT FALSE,
    verified_by      TEXT NOT NULL DEFAULT '',
    verified_at      TIMESTAMPTZ,
    admin_notes      TEXT NOT NULL DEFAULT '',
    created_at       TIMESTAMPTZ NOT NULL,
    updated_at       TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports (created_at DESC);
CREATE INDEX IF NOT EXISTS idx_reports_status ON reports (status);

CREATE TABLE IF NOT EXISTS claims (
    id               TEXT PRIMARY KEY,
    report_id        TEXT NOT NULL REFERENCES reports(id) ON DELETE CASCADE,
    type             TEXT NOT NULL CHECK (type IN ('claim', 'adopt', 'sighting')),
    claimant_name    TEXT NOT NULL,
    claimant_email   TEXT NOT NULL,
    claimant_phone   TEXT NOT NULL DEFAULT '',
    claimant_user_id TEXT NOT NULL DEFAULT '',
    message          TEXT NOT NULL,
    proof            TEXT NOT NULL DEFAULT '',
    status           TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected')),
    reviewed_by      TEXT NOT NULL DEFAULT '',
    review_notes     TEXT NOT NULL DEFAULT '',
    reviewed_at      TIMESTAMPTZ,
    created_at       TIMESTAMPTZ NOT NULL,
    updated_at       TIMESTAMPTZ NOT NULL,
    UNIQUE (report_id, claimant_email)
);

CREATE INDEX IF NOT EXISTS idx_claims_status ON claims (status, created_at);

CREATE TABLE IF NOT EXISTS notifications (
    id                TEXT PRIMARY KEY,
    recipient_user_id TEXT NOT NULL DEFAULT '',
    recipient_email   TEXT NOT NULL DEFAULT '',
    category          TEXT NOT NULL,
    title             TEXT NOT NULL,
    body              TEXT NOT NULL DEFAULT '',
    is_read           BOOLEAN NOT NULL DEFAULT FALSE,
    read_at           TIMESTAMPTZ,
    related_report_id TEXT NOT NULL DEFAULT '',
    related_claim_id  TEXT NOT NULL DEFAULT '',
    action_url        TEXT NOT NULL DEFAULT '',
    created_at        TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications (recipient_user_id, is_read);
CREATE INDEX IF NOT EXISTS idx_notifications_email ON notifications (recipient_email, is_read);
`

// Migrate aplica el schema (idempotente).
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("postgres migrate: %w", err)
	}
	return nil
}
