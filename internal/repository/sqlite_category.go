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

// SQLiteCategoryRepo implements CategoryRepo using a SQLite database.
type SQLiteCategoryRepo struct {
	db db.DBTX
}

func NewSQLiteCategoryRepo(conn db.DBTX) *SQLiteCategoryRepo {
	return &SQLiteCategoryRepo{db: conn}
}

const categorySelect = `SELECT id, name, deleted_at, created_at, updated_at FROM categories`

func (r *SQLiteCategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, deleted_at, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name,
		nullableTimeToString(c.DeletedAt, time.RFC3339),
		c.CreatedAt.Format(time.RFC3339),
		c.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting category: %w", err)
	}
	return nil
}

func (r *SQLiteCategoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	return r.getOne(ctx, categorySelect+` WHERE id = ?`, id)
}

func (r *SQLiteCategoryRepo) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	return r.getOne(ctx, categorySelect+` WHERE name = ?`, name)
}

func (r *SQLiteCategoryRepo) getOne(ctx context.Context, query, key string) (*domain.Category, error) {
	c, err := scanCategory(r.db.QueryRowContext(ctx, query, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("category", key)
	}
	return c, err
}

func (r *SQLiteCategoryRepo) List(ctx context.Context, includeDeleted bool) ([]*domain.Category, error) {
	query := categorySelect + ` WHERE deleted_at IS NULL ORDER BY name`
	if includeDeleted {
		query = categorySelect + ` ORDER BY name`
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var out []*domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}
	return out, nil
}

func (r *SQLiteCategoryRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	ts := at.UTC().Format(time.RFC3339)
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET deleted_at = ?, updated_at = ? WHERE id = ?`, ts, ts, id)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}
	return requireAffected(res, "category", id)
}

func (r *SQLiteCategoryRepo) Restore(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET deleted_at = NULL, updated_at = ? WHERE id = ?`,
		at.UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("restoring category: %w", err)
	}
	return requireAffected(res, "category", id)
}

func scanCategory(s scanner) (*domain.Category, error) {
	var c domain.Category
	var deletedAt sql.NullString
	var createdAtStr, updatedAtStr string
	if err := s.Scan(&c.ID, &c.Name, &deletedAt, &createdAtStr, &updatedAtStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning category: %w", err)
	}
	var err error
	c.CreatedAt, c.UpdatedAt, err = parseTimestamps(createdAtStr, updatedAtStr)
	if err != nil {
		return nil, err
	}
	c.DeletedAt = parseNullableTime(deletedAt, time.RFC3339)
	return &c, nil
}
