package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		deleted_at TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name ON categories(name)`,

	`CREATE TABLE IF NOT EXISTS plans (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category_id TEXT REFERENCES categories(id),
		start_date  TEXT,
		end_date    TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		CHECK(start_date IS NULL OR end_date IS NULL OR start_date <= end_date)
	)`,
	`ALTER TABLE plans ADD COLUMN completed_at TEXT`,
	`CREATE INDEX IF NOT EXISTS idx_plans_category ON plans(category_id)`,
	`CREATE INDEX IF NOT EXISTS idx_plans_dates ON plans(start_date, end_date)`,

	`CREATE TABLE IF NOT EXISTS recurrence_rules (
		id                  TEXT PRIMARY KEY,
		plan_id             TEXT NOT NULL UNIQUE REFERENCES plans(id) ON DELETE CASCADE,
		rule_type           TEXT NOT NULL
		                    CHECK(rule_type IN ('daily','weekly','monthly','yearly')),
		recurrence_interval INTEGER NOT NULL CHECK(recurrence_interval > 0),
		days_of_week        TEXT NOT NULL DEFAULT '',
		days_of_month       TEXT NOT NULL DEFAULT '',
		months_of_year      TEXT NOT NULL DEFAULT '',
		created_at          TEXT NOT NULL
	)`,
	// Early stores had no anchor column; see migrateBackfillRuleAnchors.
	`ALTER TABLE recurrence_rules ADD COLUMN anchor_date TEXT NOT NULL DEFAULT ''`,

	`CREATE TABLE IF NOT EXISTS tags (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS plan_tags (
		plan_id TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		tag_id  TEXT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		PRIMARY KEY (plan_id, tag_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_plan_tags_tag ON plan_tags(tag_id)`,
}

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillRuleAnchors(db); err != nil {
		return fmt.Errorf("backfilling rule anchors: %w", err)
	}
	return nil
}

// migrateBackfillRuleAnchors fixes rules stored without an anchor. Such rules
// used to count intervals from the evaluation day, so their schedule drifted.
// The plan's start date is the stable replacement; plans without one fall
// back to the rule's creation date.
func migrateBackfillRuleAnchors(db *sql.DB) error {
	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting backfill transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		UPDATE recurrence_rules
		SET anchor_date = COALESCE(
			(SELECT p.start_date FROM plans p WHERE p.id = recurrence_rules.plan_id),
			substr(created_at, 1, 10))
		WHERE anchor_date = ''`); err != nil {
		return fmt.Errorf("updating anchors: %w", err)
	}
	return tx.Commit()
}
