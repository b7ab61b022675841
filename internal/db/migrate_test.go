package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

const ts = "2025-01-01T00:00:00Z"

func insertPlan(t *testing.T, db *sql.DB, id, start, end string) {
	t.Helper()
	var s, e any
	if start != "" {
		s = start
	}
	if end != "" {
		e = end
	}
	_, err := db.Exec(`INSERT INTO plans (id, title, start_date, end_date, created_at, updated_at)
		VALUES (?, 'Plan', ?, ?, ?, ?)`, id, s, e, ts, ts)
	require.NoError(t, err)
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"categories", "plans", "recurrence_rules", "tags", "plan_tags"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	for _, idx := range []string{"idx_categories_name", "idx_plans_category", "idx_plans_dates", "idx_plan_tags_tag"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk, "foreign keys should be enabled")
}

func TestMigrate_PlanDateRangeCheck(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO plans (id, title, start_date, end_date, created_at, updated_at)
		VALUES ('p1', 'Plan', '2025-02-01', '2025-01-01', ?, ?)`, ts, ts)
	assert.Error(t, err, "start after end should be rejected by CHECK constraint")

	insertPlan(t, db, "p2", "2025-01-01", "")
}

func TestMigrate_RecurrenceRuleConstraints(t *testing.T) {
	db := openTestDB(t)
	insertPlan(t, db, "p1", "2025-01-01", "")

	_, err := db.Exec(`INSERT INTO recurrence_rules (id, plan_id, rule_type, recurrence_interval, anchor_date, created_at)
		VALUES ('r0', 'p1', 'hourly', 1, '2025-01-01', ?)`, ts)
	assert.Error(t, err, "unknown rule type should be rejected")

	_, err = db.Exec(`INSERT INTO recurrence_rules (id, plan_id, rule_type, recurrence_interval, anchor_date, created_at)
		VALUES ('r0', 'p1', 'daily', 0, '2025-01-01', ?)`, ts)
	assert.Error(t, err, "non-positive interval should be rejected")

	_, err = db.Exec(`INSERT INTO recurrence_rules (id, plan_id, rule_type, recurrence_interval, anchor_date, created_at)
		VALUES ('r1', 'p1', 'daily', 1, '2025-01-01', ?)`, ts)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO recurrence_rules (id, plan_id, rule_type, recurrence_interval, anchor_date, created_at)
		VALUES ('r2', 'p1', 'daily', 2, '2025-01-01', ?)`, ts)
	assert.Error(t, err, "a plan owns at most one rule")
}

func TestMigrate_DeletingPlanCascades(t *testing.T) {
	db := openTestDB(t)
	insertPlan(t, db, "p1", "2025-01-01", "")

	_, err := db.Exec(`INSERT INTO recurrence_rules (id, plan_id, rule_type, recurrence_interval, anchor_date, created_at)
		VALUES ('r1', 'p1', 'daily', 1, '2025-01-01', ?)`, ts)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO tags (id, name, created_at) VALUES ('t1', 'home', ?)`, ts)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO plan_tags (plan_id, tag_id) VALUES ('p1', 't1')`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM plans WHERE id = 'p1'`)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM recurrence_rules`).Scan(&n))
	assert.Zero(t, n)
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM plan_tags`).Scan(&n))
	assert.Zero(t, n)
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM tags`).Scan(&n))
	assert.Equal(t, 1, n, "tags outlive their plans")
}

func TestMigrate_PlanTagsPrimaryKey_UniquePair(t *testing.T) {
	db := openTestDB(t)
	insertPlan(t, db, "p1", "", "")
	_, err := db.Exec(`INSERT INTO tags (id, name, created_at) VALUES ('t1', 'home', ?)`, ts)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO plan_tags (plan_id, tag_id) VALUES ('p1', 't1')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO plan_tags (plan_id, tag_id) VALUES ('p1', 't1')`)
	assert.Error(t, err, "duplicate tag link should violate composite primary key")
}
