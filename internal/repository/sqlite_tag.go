package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
)

// SQLiteTagRepo implements TagRepo using a SQLite database.
type SQLiteTagRepo struct {
	db db.DBTX
}

func NewSQLiteTagRepo(conn db.DBTX) *SQLiteTagRepo {
	return &SQLiteTagRepo{db: conn}
}

func (r *SQLiteTagRepo) Create(ctx context.Context, t *domain.Tag) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO tags (id, name, created_at) VALUES (?, ?, ?)`,
		t.ID, t.Name, t.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting tag: %w", err)
	}
	return nil
}

func (r *SQLiteTagRepo) GetByName(ctx context.Context, name string) (*domain.Tag, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM tags WHERE name = ?`, name)
	t, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("tag", name)
	}
	return t, err
}

func (r *SQLiteTagRepo) List(ctx context.Context) ([]*domain.Tag, error) {
	return r.query(ctx, `SELECT id, name, created_at FROM tags ORDER BY name`)
}

// AttachToPlan is idempotent.
func (r *SQLiteTagRepo) AttachToPlan(ctx context.Context, planID, tagID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO plan_tags (plan_id, tag_id) VALUES (?, ?)`, planID, tagID)
	if err != nil {
		return fmt.Errorf("tagging plan: %w", err)
	}
	return nil
}

func (r *SQLiteTagRepo) DetachFromPlan(ctx context.Context, planID, tagID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM plan_tags WHERE plan_id = ? AND tag_id = ?`, planID, tagID)
	if err != nil {
		return fmt.Errorf("untagging plan: %w", err)
	}
	return nil
}

func (r *SQLiteTagRepo) ListByPlan(ctx context.Context, planID string) ([]*domain.Tag, error) {
	return r.query(ctx, `SELECT t.id, t.name, t.created_at FROM tags t
		JOIN plan_tags pt ON pt.tag_id = t.id
		WHERE pt.plan_id = ? ORDER BY t.name`, planID)
}

func (r *SQLiteTagRepo) query(ctx context.Context, query string, args ...any) ([]*domain.Tag, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer rows.Close()

	var out []*domain.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}
	return out, nil
}

func scanTag(s scanner) (*domain.Tag, error) {
	var t domain.Tag
	var createdAtStr string
	if err := s.Scan(&t.ID, &t.Name, &createdAtStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning tag: %w", err)
	}
	var err error
	t.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &t, nil
}
