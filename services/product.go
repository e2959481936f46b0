package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"chegoou/db"
	"chegoou/models"

	"github.com/jackc/pgx/v5"
)

// Option groups are stored as a JSON column: they are read wholesale with
// the product and never queried on their own.

// AddProduct inserts a menu item and returns its ID.
func AddProduct(ctx context.Context, p *models.Product) (string, error) {
	groupsJSON, err := json.Marshal(p.Groups)
	if err != nil {
		return "", fmt.Errorf("marshal product groups: %w", err)
	}
	var id string
	err = db.Pool.QueryRow(ctx, `
		INSERT INTO products (
			id, company_id, name, description, category, price,
			is_available, pricing_mode, groups, stock
		) VALUES (
			COALESCE(NULLIF($1, ''), gen_random_uuid()::text),
			$2, $3, $4, $5, $6, $7, $8, $9, $10
		)
		RETURNING id`,
		p.ID, p.CompanyID, p.Name, p.Description, p.Category, p.Price,
		p.IsAvailable, p.PricingMode, groupsJSON, p.Stock,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("add product: %w", err)
	}
	return id, nil
}

func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	var groupsJSON []byte
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.Name, &p.Description, &p.Category, &p.Price,
		&p.IsAvailable, &p.PricingMode, &groupsJSON, &p.Stock,
	)
	if err != nil {
		return nil, err
	}
	if len(groupsJSON) > 0 {
		if err := json.Unmarshal(groupsJSON, &p.Groups); err != nil {
			return nil, fmt.Errorf("unmarshal product groups: %w", err)
		}
	}
	return &p, nil
}

// GetProduct loads a product by ID, or nil if not found.
func GetProduct(ctx context.Context, id string) (*models.Product, error) {
	p, err := scanProduct(db.Pool.QueryRow(ctx, `
		SELECT id, company_id, name, description, category, price,
		       is_available, pricing_mode, groups, stock
		FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// ListCompanyProducts returns a company's menu.
func ListCompanyProducts(ctx context.Context, companyID string) ([]models.Product, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, company_id, name, description, category, price,
		       is_available, pricing_mode, groups, stock
		FROM products
		WHERE company_id = $1
		ORDER BY category, name`,
		companyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *p)
	}
	return res, rows.Err()
}

// SetProductAvailability toggles a product on the menu.
func SetProductAvailability(ctx context.Context, id string, available bool) error {
	_, err := db.Pool.Exec(ctx,
		`UPDATE products SET is_available = $1, updated_at = now() WHERE id = $2`, available, id)
	return err
}

// DecrementStock reduces stock after an order; stock never goes below zero.
func DecrementStock(ctx context.Context, id string, qty int) error {
	if qty < 1 {
		return fmt.Errorf("invalid stock decrement: %d", qty)
	}
	_, err := db.Pool.Exec(ctx,
		`UPDATE products SET stock = GREATEST(stock - $1, 0), updated_at = now() WHERE id = $2`, qty, id)
	return err
}
