package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const productColumns = `id, name, description, price, stock, category, status, created_at, updated_at`

// Store handles database operations for products
type Store struct {
	db *sql.DB
}

// NewStore creates a new product store
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*Product, error) {
	var p Product
	var status string
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock,
		&p.Category, &status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Status = Status(status)
	return &p, nil
}

// ListProducts returns all products in insertion order, optionally limited to the given categories.
func (s *Store) ListProducts(ctx context.Context, categories []string) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM catalog.products`
	args := []interface{}{}

	if len(categories) > 0 {
		query += " WHERE category = ANY($1)"
		args = append(args, pq.Array(categories))
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListProducts query: %w", err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("ListProducts scan: %w", err)
		}
		products = append(products, *p)
	}

	return products, rows.Err()
}

// GetProduct retrieves a single product by ID
func (s *Store) GetProduct(ctx context.Context, id int64) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM catalog.products WHERE id = $1`

	p, err := scanProduct(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetProduct query: %w", err)
	}
	return p, nil
}

// CreateProduct inserts a validated product and returns the stored row.
func (s *Store) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	query := `
		INSERT INTO catalog.products (name, description, price, stock, category, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + productColumns

	p, err := scanProduct(s.db.QueryRowContext(ctx, query,
		in.Name, in.Description, in.Price, in.Stock, in.Category, string(in.Status),
	))
	if err != nil {
		return nil, fmt.Errorf("CreateProduct: %w", err)
	}
	return p, nil
}

// UpdateProduct applies the non-nil fields of req and bumps updated_at.
func (s *Store) UpdateProduct(ctx context.Context, id int64, req UpdateProductRequest) (*Product, error) {
	query := "UPDATE catalog.products SET updated_at = now()"
	args := []interface{}{}
	argCount := 0

	set := func(column string, v interface{}) {
		argCount++
		query += fmt.Sprintf(", %s = $%d", column, argCount)
		args = append(args, v)
	}
	if req.Name != nil {
		set("name", *req.Name)
	}
	if req.Description != nil {
		set("description", *req.Description)
	}
	if req.Price != nil {
		set("price", *req.Price)
	}
	if req.Stock != nil {
		set("stock", *req.Stock)
	}
	if req.Category != nil {
		set("category", *req.Category)
	}
	if req.Status != nil {
		set("status", string(*req.Status))
	}

	argCount++
	query += fmt.Sprintf(" WHERE id = $%d RETURNING %s", argCount, productColumns)
	args = append(args, id)

	p, err := scanProduct(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("UpdateProduct: %w", err)
	}
	return p, nil
}

// DeleteProduct deletes a product by ID
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM catalog.products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("DeleteProduct: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("DeleteProduct rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
