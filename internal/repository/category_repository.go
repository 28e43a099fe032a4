package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"focustracker/internal/model"
)

type CategoryRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db, now: time.Now}
}

func (r *CategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, name, color, created_at FROM categories ORDER BY created_at ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		category, scanErr := scanCategory(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		categories = append(categories, *category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT id, name, color, created_at FROM categories WHERE id = ?`,
		id,
	)
	return scanCategory(row)
}

func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*model.Category, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT id, name, color, created_at FROM categories WHERE name = ?`,
		name,
	)
	return scanCategory(row)
}

func (r *CategoryRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM categories`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return count, nil
}

// Create inserts a category. Name validation is the caller's job; only
// uniqueness is enforced here.
func (r *CategoryRepository) Create(ctx context.Context, name, color string) (*model.Category, error) {
	createdAt := r.now().UTC()
	result, err := r.db.ExecContext(
		ctx,
		`INSERT INTO categories (name, color, created_at) VALUES (?, ?, ?)`,
		name,
		color,
		formatTime(createdAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateCategory
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("category id: %w", err)
	}
	return &model.Category{ID: id, Name: name, Color: color, CreatedAt: createdAt}, nil
}

func (r *CategoryRepository) Update(ctx context.Context, id int64, name, color string) error {
	result, err := r.db.ExecContext(
		ctx,
		`UPDATE categories SET name = ?, color = ? WHERE id = ?`,
		name,
		color,
		id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateCategory
		}
		return fmt.Errorf("update category: %w", err)
	}
	return requireAffected(result, "update category")
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireAffected(result, "delete category")
}

func scanCategory(s scanner) (*model.Category, error) {
	category := model.Category{}
	var createdAt string
	if err := s.Scan(&category.ID, &category.Name, &category.Color, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan category: %w", err)
	}

	parsed, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse category created_at: %w", err)
	}
	category.CreatedAt = parsed
	return &category, nil
}

func requireAffected(result sql.Result, op string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
