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

const (
	OrderStatusPending        = "pending"
	OrderStatusPreparing      = "preparing"
	OrderStatusReady          = "ready"
	OrderStatusWaitingCourier = "waiting_courier"
	OrderStatusDelivering     = "delivering"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
)

var (
	ErrCompanyNotFound     = errors.New("company not found")
	ErrCompanySuspended    = errors.New("company is suspended")
	ErrOutsideDeliveryArea = errors.New("address outside the company delivery area")
	ErrEmptyOrder          = errors.New("order has no items")
	ErrInvalidOrderLine    = errors.New("order line has invalid price or quantity")
)

var validTransitions = map[string][]string{
	OrderStatusPending:        {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing:      {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:          {OrderStatusWaitingCourier, OrderStatusDelivering, OrderStatusDelivered},
	OrderStatusWaitingCourier: {OrderStatusDelivering, OrderStatusCancelled},
	OrderStatusDelivering:     {OrderStatusDelivered},
}

// ValidStatusTransition reports whether an order may move from one status to
// another. Ready orders may go straight to delivered (customer pickup or own
// delivery staff) or into the courier flow.
func ValidStatusTransition(from, to string) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// PlaceOrder validates and inserts a new order. All money values are
// recomputed server-side from the items and the company's pricing; the
// client-side preview is never trusted. sched carries the deployment's
// platform fee formula (zero value = defaults).
func PlaceOrder(ctx context.Context, input models.CreateOrderInput, sched FeeSchedule) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	lines := make([]models.CartLine, len(input.Items))
	for i, it := range input.Items {
		if it.UnitPrice < 0 || it.Quantity < 1 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidOrderLine, it.ProductName)
		}
		lines[i] = models.CartLine{UnitPrice: it.UnitPrice, Quantity: it.Quantity}
	}

	company, err := GetCompany(ctx, input.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, ErrCompanyNotFound
	}
	if company.IsSuspended {
		return nil, ErrCompanySuspended
	}

	distance := DistanceKm(input.DeliveryAddress.Coordinate, company.Address.Coordinate)
	if input.DeliveryMethod == models.DeliveryMethodDelivery {
		if !WithinRadius(distance, company.DeliveryRadiusKm) {
			return nil, fmt.Errorf("%w: %.1fkm > %.1fkm",
				ErrOutsideDeliveryArea, distance, company.DeliveryRadiusKm)
		}
	}

	deliveryFee := ResolveDeliveryFeeSchedule(company, distance, sched)
	totals := ComputeOrderTotals(lines, deliveryFee, company.ServiceFeePercent, input.DeliveryMethod)

	if input.PaymentMethod == models.PaymentMethodCash {
		if err := ValidateCashChange(input.ChangeFor, totals.GrandTotal); err != nil {
			return nil, err
		}
	}

	itemsJSON, err := json.Marshal(input.Items)
	if err != nil {
		return nil, fmt.Errorf("marshal order items: %w", err)
	}

	o := &models.Order{
		CompanyID:       company.ID,
		CompanyName:     company.Name,
		CustomerID:      input.CustomerID,
		CustomerName:    input.CustomerName,
		CustomerPhone:   input.CustomerPhone,
		Items:           input.Items,
		Subtotal:        totals.Subtotal,
		DeliveryFee:     totals.DeliveryFee,
		ServiceFee:      totals.ServiceFee,
		GrandTotal:      totals.GrandTotal,
		DistanceKm:      distance,
		Status:          OrderStatusPending,
		PaymentMethod:   input.PaymentMethod,
		ChangeFor:       input.ChangeFor,
		DeliveryCode:    DeliveryCode(input.CustomerPhone),
		DeliveryType:    company.DeliveryType,
		DeliveryMethod:  input.DeliveryMethod,
		DeliveryAddress: input.DeliveryAddress,
		PickupAddress:   company.Address,
	}

	err = db.Pool.QueryRow(ctx, `
		INSERT INTO orders (
			company_id, company_name, customer_id, customer_name, customer_phone,
			items, subtotal, delivery_fee, service_fee, grand_total, distance_km,
			status, payment_method, change_for, delivery_code,
			delivery_type, delivery_method,
			delivery_street, delivery_number, delivery_neighborhood,
			delivery_city, delivery_zip, delivery_lat, delivery_lng,
			pickup_street, pickup_number, pickup_neighborhood,
			pickup_city, pickup_zip, pickup_lat, pickup_lng
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17,
			$18, $19, $20, $21, $22, $23, $24,
			$25, $26, $27, $28, $29, $30, $31
		)
		RETURNING id, created_at`,
		o.CompanyID, o.CompanyName, o.CustomerID, o.CustomerName, o.CustomerPhone,
		itemsJSON, o.Subtotal, o.DeliveryFee, o.ServiceFee, o.GrandTotal, o.DistanceKm,
		o.Status, o.PaymentMethod, o.ChangeFor, o.DeliveryCode,
		o.DeliveryType, o.DeliveryMethod,
		o.DeliveryAddress.Street, o.DeliveryAddress.Number, o.DeliveryAddress.Neighborhood,
		o.DeliveryAddress.City, o.DeliveryAddress.ZipCode,
		o.DeliveryAddress.Coordinate.Lat, o.DeliveryAddress.Coordinate.Lng,
		o.PickupAddress.Street, o.PickupAddress.Number, o.PickupAddress.Neighborhood,
		o.PickupAddress.City, o.PickupAddress.ZipCode,
		o.PickupAddress.Coordinate.Lat, o.PickupAddress.Coordinate.Lng,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return o, nil
}

const orderColumns = `
	id, company_id, company_name, customer_id, customer_name, customer_phone,
	COALESCE(courier_id, ''), items, subtotal, delivery_fee, service_fee,
	grand_total, distance_km, status, payment_method, change_for, delivery_code,
	delivery_type, delivery_method,
	delivery_street, delivery_number, delivery_neighborhood,
	delivery_city, delivery_zip, delivery_lat, delivery_lng,
	pickup_street, pickup_number, pickup_neighborhood,
	pickup_city, pickup_zip, pickup_lat, pickup_lng,
	created_at`

func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	var itemsJSON []byte
	err := row.Scan(
		&o.ID, &o.CompanyID, &o.CompanyName, &o.CustomerID, &o.CustomerName, &o.CustomerPhone,
		&o.CourierID, &itemsJSON, &o.Subtotal, &o.DeliveryFee, &o.ServiceFee,
		&o.GrandTotal, &o.DistanceKm, &o.Status, &o.PaymentMethod, &o.ChangeFor, &o.DeliveryCode,
		&o.DeliveryType, &o.DeliveryMethod,
		&o.DeliveryAddress.Street, &o.DeliveryAddress.Number, &o.DeliveryAddress.Neighborhood,
		&o.DeliveryAddress.City, &o.DeliveryAddress.ZipCode,
		&o.DeliveryAddress.Coordinate.Lat, &o.DeliveryAddress.Coordinate.Lng,
		&o.PickupAddress.Street, &o.PickupAddress.Number, &o.PickupAddress.Neighborhood,
		&o.PickupAddress.City, &o.PickupAddress.ZipCode,
		&o.PickupAddress.Coordinate.Lat, &o.PickupAddress.Coordinate.Lng,
		&o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return nil, fmt.Errorf("unmarshal order items: %w", err)
		}
	}
	return &o, nil
}

// GetOrder loads an order by ID, or nil if not found.
func GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	o, err := scanOrder(db.Pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return o, nil
}

func listOrders(ctx context.Context, where string, args ...any) ([]models.Order, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE `+where+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *o)
	}
	return res, rows.Err()
}

// ListCustomerOrders returns a customer's orders, newest first.
func ListCustomerOrders(ctx context.Context, customerID string) ([]models.Order, error) {
	return listOrders(ctx, `customer_id = $1`, customerID)
}

// ListCompanyOrders returns a company's orders, newest first.
func ListCompanyOrders(ctx context.Context, companyID string) ([]models.Order, error) {
	return listOrders(ctx, `company_id = $1`, companyID)
}

// ListOpenOrders returns every order not yet delivered or cancelled. The
// courier discovery snapshot is built from this set with EligibleForCourier.
func ListOpenOrders(ctx context.Context) ([]models.Order, error) {
	return listOrders(ctx, `status NOT IN ($1, $2)`, OrderStatusDelivered, OrderStatusCancelled)
}

// UpdateOrderStatus moves an order along its lifecycle, recording the
// transition in order_status_history. Delivery completion for courier-held
// orders goes through ConfirmDelivery instead, which checks the hand-off code.
func UpdateOrderStatus(ctx context.Context, orderID int64, actorID string, newStatus string) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var fromStatus string
	var courierID *string
	err = tx.QueryRow(ctx,
		`SELECT status, courier_id FROM orders WHERE id = $1`, orderID,
	).Scan(&fromStatus, &courierID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("order %d not found", orderID)
		}
		return err
	}

	if !ValidStatusTransition(fromStatus, newStatus) {
		return fmt.Errorf("invalid status transition from %q to %q", fromStatus, newStatus)
	}
	if newStatus == OrderStatusDelivered && courierID != nil {
		return fmt.Errorf("order %d is held by a courier; delivery is confirmed with the hand-off code", orderID)
	}

	// A transition that lost a race against another actor matches 0 rows
	// here; fail the transaction instead of writing a phantom history row.
	var applied int
	err = tx.QueryRow(ctx, `
		UPDATE orders SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
		RETURNING 1`,
		newStatus, orderID, fromStatus,
	).Scan(&applied)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("order %d changed status concurrently", orderID)
		}
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO order_status_history (order_id, from_status, to_status, actor_id)
		VALUES ($1, $2, $3, $4)`,
		orderID, fromStatus, newStatus, actorID,
	)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// GetDailyStats aggregates order revenue for a calendar date (admin report).
func GetDailyStats(ctx context.Context, date string) (*models.DailyStats, error) {
	var s models.DailyStats
	err := db.Pool.QueryRow(ctx, `
		SELECT
			COUNT(*)::int,
			COALESCE(SUM(subtotal), 0),
			COALESCE(SUM(delivery_fee), 0),
			COALESCE(SUM(service_fee), 0),
			COALESCE(SUM(grand_total), 0)
		FROM orders
		WHERE created_at::date = $1::date AND status != $2`,
		date, OrderStatusCancelled,
	).Scan(&s.OrdersCount, &s.ItemsRevenue, &s.DeliveryRevenue, &s.ServiceRevenue, &s.GrandRevenue)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
