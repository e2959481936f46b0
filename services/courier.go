package services

import (
	"context"
	"errors"
	"fmt"

	"chegoou/db"
	"chegoou/models"

	"github.com/jackc/pgx/v5"
)

var (
	ErrOrderTaken       = errors.New("order already taken by another courier")
	ErrOrderUnavailable = errors.New("order not found or not available for pickup")
	ErrWrongCode        = errors.New("wrong hand-off code")
)

// CourierLocation is a courier's last reported GPS fix.
type CourierLocation struct {
	CourierID string
	Lat       float64
	Lng       float64
	UpdatedAt string
}

// SetCourierOnline toggles a courier's availability.
func SetCourierOnline(ctx context.Context, courierID string, online bool) error {
	_, err := db.Pool.Exec(ctx,
		`UPDATE users SET is_online = $1, updated_at = now() WHERE id = $2 AND role = $3`,
		online, courierID, models.RoleCourier)
	return err
}

// UpdateCourierLocation upserts the courier's current position.
func UpdateCourierLocation(ctx context.Context, courierID string, lat, lng float64) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO courier_locations (courier_id, lat, lng, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (courier_id) DO UPDATE SET lat = EXCLUDED.lat, lng = EXCLUDED.lng, updated_at = now()`,
		courierID, lat, lng,
	)
	return err
}

// GetCourierLocation returns the courier's position if reported within the
// last 5 minutes; stale fixes are treated as missing.
func GetCourierLocation(ctx context.Context, courierID string) (*CourierLocation, error) {
	var loc CourierLocation
	err := db.Pool.QueryRow(ctx, `
		SELECT courier_id, lat, lng, updated_at::text
		FROM courier_locations
		WHERE courier_id = $1 AND updated_at > now() - interval '5 minutes'`,
		courierID,
	).Scan(&loc.CourierID, &loc.Lat, &loc.Lng, &loc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &loc, nil
}

// NearbyAvailableOrders returns platform orders waiting for a courier within
// radiusKm of (lat, lng), closest pickup first. Same eligibility rules as
// EligibleForCourier, pushed into SQL so the discovery push loop does not
// have to load every open order.
func NearbyAvailableOrders(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]OrderWithDistance, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.Pool.Query(ctx, `
		SELECT `+orderColumns+`,
		       (6371 * acos(
		           cos(radians($1)) * cos(radians(pickup_lat)) *
		           cos(radians(pickup_lng) - radians($2)) +
		           sin(radians($1)) * sin(radians(pickup_lat))
		       )) AS pickup_km
		FROM orders
		WHERE status IN ($3, $4)
		  AND courier_id IS NULL
		  AND delivery_type = $5
		  AND pickup_lat != 0 AND pickup_lng != 0
		  AND (6371 * acos(
		      cos(radians($1)) * cos(radians(pickup_lat)) *
		      cos(radians(pickup_lng) - radians($2)) +
		      sin(radians($1)) * sin(radians(pickup_lat))
		  )) <= $6
		ORDER BY pickup_km ASC
		LIMIT $7`,
		lat, lng, OrderStatusReady, OrderStatusWaitingCourier,
		models.DeliveryTypePlatform, radiusKm, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderWithDistance
	for rows.Next() {
		var od OrderWithDistance
		var itemsJSON []byte
		o := &od.Order
		err := rows.Scan(
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
			&o.CreatedAt, &od.PickupKm,
		)
		if err != nil {
			return nil, err
		}
		od.DropoffKm = DistanceKm(o.PickupAddress.Coordinate, o.DeliveryAddress.Coordinate)
		out = append(out, od)
	}
	return out, rows.Err()
}

// CourierCandidate is an online courier in range of a pickup point.
type CourierCandidate struct {
	Courier    models.User
	DistanceKm float64
}

// NearbyOnlineCouriers returns up to limit online couriers with a fresh
// location within radiusKm of a pickup point, closest first. Used to push
// newly available orders.
func NearbyOnlineCouriers(ctx context.Context, pickupLat, pickupLng, radiusKm float64, limit int) ([]CourierCandidate, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.Pool.Query(ctx, `
		SELECT u.id, u.name, u.phone, COALESCE(u.notify_chat_id, 0),
		       (6371 * acos(
		           cos(radians($1)) * cos(radians(cl.lat)) *
		           cos(radians(cl.lng) - radians($2)) +
		           sin(radians($1)) * sin(radians(cl.lat))
		       )) AS distance_km
		FROM users u
		INNER JOIN courier_locations cl ON cl.courier_id = u.id
		  AND cl.updated_at >= now() - interval '5 minutes'
		WHERE u.role = $3 AND u.is_online = true
		  AND (6371 * acos(
		      cos(radians($1)) * cos(radians(cl.lat)) *
		      cos(radians(cl.lng) - radians($2)) +
		      sin(radians($1)) * sin(radians(cl.lat))
		  )) <= $4
		ORDER BY distance_km ASC
		LIMIT $5`,
		pickupLat, pickupLng, models.RoleCourier, radiusKm, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CourierCandidate
	for rows.Next() {
		var c CourierCandidate
		if err := rows.Scan(&c.Courier.ID, &c.Courier.Name, &c.Courier.Phone,
			&c.Courier.NotifyChatID, &c.DistanceKm); err != nil {
			return nil, err
		}
		c.Courier.Role = models.RoleCourier
		c.Courier.IsOnline = true
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetCourierByChatID resolves the courier linked to a Telegram chat, or nil.
func GetCourierByChatID(ctx context.Context, chatID int64) (*models.User, error) {
	u, err := scanUser(db.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE notify_chat_id = $1 AND role = $2`,
		chatID, models.RoleCourier))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

// AcceptOrder assigns a courier to an available platform order and moves it
// to delivering. The WHERE courier_id IS NULL guard makes the assignment
// atomic: when two couriers race, exactly one UPDATE matches.
func AcceptOrder(ctx context.Context, orderID int64, courierID string) (*models.Order, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var fromStatus string
	err = tx.QueryRow(ctx, `
		SELECT status FROM orders
		WHERE id = $1 AND status IN ($2, $3) AND courier_id IS NULL AND delivery_type = $4
		FOR UPDATE`,
		orderID, OrderStatusReady, OrderStatusWaitingCourier, models.DeliveryTypePlatform,
	).Scan(&fromStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var existing *string
			checkErr := tx.QueryRow(ctx, `SELECT courier_id FROM orders WHERE id = $1`, orderID).Scan(&existing)
			if checkErr == nil && existing != nil {
				return nil, ErrOrderTaken
			}
			return nil, ErrOrderUnavailable
		}
		return nil, err
	}

	o, err := scanOrder(tx.QueryRow(ctx, `
		UPDATE orders
		SET courier_id = $1, accepted_at = now(), status = $2, updated_at = now()
		WHERE id = $3 AND status = $4 AND courier_id IS NULL
		RETURNING `+orderColumns,
		courierID, OrderStatusDelivering, orderID, fromStatus,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderTaken
		}
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO order_status_history (order_id, from_status, to_status, actor_id)
		VALUES ($1, $2, $3, $4)`,
		orderID, fromStatus, OrderStatusDelivering, courierID,
	)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return o, nil
}

// GetCourierActiveOrder returns the order a courier is currently delivering.
func GetCourierActiveOrder(ctx context.Context, courierID string) (*models.Order, error) {
	o, err := scanOrder(db.Pool.QueryRow(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE courier_id = $1 AND status = $2
		ORDER BY accepted_at DESC
		LIMIT 1`,
		courierID, OrderStatusDelivering,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return o, nil
}

// ConfirmDelivery completes a delivering order after the courier types the
// hand-off code the customer read out. On success the courier is credited
// the delivery fee and the platform books the service fee.
func ConfirmDelivery(ctx context.Context, orderID int64, courierID, code string) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var o models.Order
	err = tx.QueryRow(ctx, `
		SELECT id, company_id, delivery_code, delivery_fee, service_fee, status
		FROM orders WHERE id = $1 AND courier_id = $2`,
		orderID, courierID,
	).Scan(&o.ID, &o.CompanyID, &o.DeliveryCode, &o.DeliveryFee, &o.ServiceFee, &o.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("order %d not found or not assigned to courier", orderID)
		}
		return err
	}
	if o.Status != OrderStatusDelivering {
		return fmt.Errorf("order %d is not out for delivery", orderID)
	}
	if !CheckDeliveryCode(&o, code) {
		return ErrWrongCode
	}

	// The guarded UPDATE is what decides a confirm race: the unlocked SELECT
	// above may let two confirms through, but only one matches status
	// 'delivering' here. The loser must abort before touching the ledger.
	var confirmed int
	err = tx.QueryRow(ctx, `
		UPDATE orders SET status = $1, delivered_at = now(), updated_at = now()
		WHERE id = $2 AND courier_id = $3 AND status = $4
		RETURNING 1`,
		OrderStatusDelivered, orderID, courierID, OrderStatusDelivering,
	).Scan(&confirmed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("order %d was already confirmed", orderID)
		}
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO order_status_history (order_id, from_status, to_status, actor_id)
		VALUES ($1, $2, $3, $4)`,
		orderID, OrderStatusDelivering, OrderStatusDelivered, courierID,
	)
	if err != nil {
		return err
	}

	// Payout ledger: the courier earns the delivery fee, the platform books
	// the service fee against the company.
	if err := recordFinancialTx(ctx, tx, courierID, models.FinancialCredit, o.DeliveryFee,
		"delivery payout", orderID); err != nil {
		return err
	}
	if o.ServiceFee > 0 {
		if err := recordFinancialTx(ctx, tx, o.CompanyID, models.FinancialDebit, o.ServiceFee,
			"marketplace service fee", orderID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
