package services

import (
	"context"
	"errors"
	"fmt"

	"chegoou/db"
	"chegoou/models"

	"github.com/jackc/pgx/v5"
)

// CreateUser inserts a user and returns its ID.
func CreateUser(ctx context.Context, u *models.User) (string, error) {
	switch u.Role {
	case models.RoleClient, models.RolePartner, models.RoleCourier, models.RoleAdmin:
	default:
		return "", fmt.Errorf("invalid user role: %s", u.Role)
	}
	var id string
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO users (id, name, email, phone, role, vehicle_plate, vehicle_type, is_online, notify_chat_id)
		VALUES (
			COALESCE(NULLIF($1, ''), gen_random_uuid()::text),
			$2, $3, $4, $5, NULLIF(TRIM($6), ''), NULLIF(TRIM($7), ''), false, NULLIF($8, 0)
		)
		RETURNING id`,
		u.ID, u.Name, u.Email, u.Phone, u.Role, u.VehiclePlate, u.VehicleType, u.NotifyChatID,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role,
		&u.VehiclePlate, &u.VehicleType, &u.IsOnline, &u.NotifyChatID,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

const userColumns = `
	id, name, email, phone, role,
	COALESCE(vehicle_plate, ''), COALESCE(vehicle_type, ''),
	COALESCE(is_online, false), COALESCE(notify_chat_id, 0)`

// GetUser loads a user by ID, or nil if not found.
func GetUser(ctx context.Context, id string) (*models.User, error) {
	u, err := scanUser(db.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

// GetUserByEmail loads a user by email, or nil if not found.
func GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(db.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

// SetNotifyChatID links the user to a Telegram chat for notifications.
func SetNotifyChatID(ctx context.Context, userID string, chatID int64) error {
	_, err := db.Pool.Exec(ctx,
		`UPDATE users SET notify_chat_id = NULLIF($1, 0), updated_at = now() WHERE id = $2`,
		chatID, userID)
	return err
}

// SaveAddress stores a saved address for a client ("Casa", "Trabalho").
func SaveAddress(ctx context.Context, userID string, a models.Address) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO saved_addresses (user_id, label, street, number, neighborhood, city, zip_code, lat, lng)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		userID, a.Label, a.Street, a.Number, a.Neighborhood, a.City, a.ZipCode,
		a.Coordinate.Lat, a.Coordinate.Lng,
	)
	return err
}

// ListAddresses returns a client's saved addresses in insertion order.
func ListAddresses(ctx context.Context, userID string) ([]models.Address, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT label, street, number, neighborhood, city, zip_code, lat, lng
		FROM saved_addresses
		WHERE user_id = $1
		ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []models.Address
	for rows.Next() {
		var a models.Address
		if err := rows.Scan(&a.Label, &a.Street, &a.Number, &a.Neighborhood,
			&a.City, &a.ZipCode, &a.Coordinate.Lat, &a.Coordinate.Lng); err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

// DeleteAddress removes one saved address by label.
func DeleteAddress(ctx context.Context, userID, label string) error {
	_, err := db.Pool.Exec(ctx,
		`DELETE FROM saved_addresses WHERE user_id = $1 AND label = $2`, userID, label)
	return err
}
