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

// Cart is a customer's in-progress selection. Lines are stored as JSON so
// the cart survives across sessions. A cart holds items from one company
// only; adding from another company starts over.
type Cart struct {
	CompanyID string             `json:"company_id"`
	Items     []models.OrderItem `json:"items"`
}

// Subtotal sums the cart's product value, before fees.
func (c *Cart) Subtotal() float64 {
	var total float64
	for _, it := range c.Items {
		total += it.UnitPrice * float64(it.Quantity)
	}
	return total
}

// GetCart loads a customer's cart, or an empty one when none exists.
func GetCart(ctx context.Context, userID string) (*Cart, error) {
	var companyID string
	var itemsJSON []byte
	err := db.Pool.QueryRow(ctx,
		`SELECT company_id, items FROM carts WHERE user_id = $1`, userID,
	).Scan(&companyID, &itemsJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &Cart{Items: []models.OrderItem{}}, nil
		}
		return nil, err
	}

	cart := &Cart{CompanyID: companyID, Items: []models.OrderItem{}}
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &cart.Items); err != nil {
			return nil, fmt.Errorf("unmarshal cart items: %w", err)
		}
	}
	return cart, nil
}

// SaveCart upserts a customer's cart.
func SaveCart(ctx context.Context, userID string, cart *Cart) error {
	itemsJSON, err := json.Marshal(cart.Items)
	if err != nil {
		return fmt.Errorf("marshal cart items: %w", err)
	}
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO carts (user_id, company_id, items, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id) DO UPDATE SET
			company_id = $2,
			items = $3,
			updated_at = now()`,
		userID, cart.CompanyID, itemsJSON,
	)
	return err
}

// AddToCart appends an item; a different company replaces the cart contents.
func AddToCart(ctx context.Context, userID, companyID string, item models.OrderItem) (*Cart, error) {
	cart, err := GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.CompanyID != "" && cart.CompanyID != companyID {
		cart = &Cart{Items: []models.OrderItem{}}
	}
	cart.CompanyID = companyID
	cart.Items = append(cart.Items, item)
	if err := SaveCart(ctx, userID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// DeleteCart clears a customer's cart, e.g. after placing the order.
func DeleteCart(ctx context.Context, userID string) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM carts WHERE user_id = $1`, userID)
	return err
}
