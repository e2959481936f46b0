package services

import (
	"context"
	"errors"
	"fmt"

	"chegoou/db"
	"chegoou/models"

	"github.com/jackc/pgx/v5"
)

const companyColumns = `
	id, owner_user_id, name, description, category, status,
	delivery_type, delivery_radius_km, service_fee_percent,
	own_delivery_fee, platform_override_fee,
	opening_hours, opening_days, is_suspended,
	street, number, neighborhood, city, zip_code, lat, lng`

func scanCompany(row pgx.Row) (*models.Company, error) {
	var c models.Company
	err := row.Scan(
		&c.ID, &c.OwnerUserID, &c.Name, &c.Description, &c.Category, &c.Status,
		&c.DeliveryType, &c.DeliveryRadiusKm, &c.ServiceFeePercent,
		&c.OwnDeliveryFee, &c.PlatformOverrideFee,
		&c.OpeningHours, &c.OpeningDays, &c.IsSuspended,
		&c.Address.Street, &c.Address.Number, &c.Address.Neighborhood,
		&c.Address.City, &c.Address.ZipCode,
		&c.Address.Coordinate.Lat, &c.Address.Coordinate.Lng,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// AddCompany inserts a restaurant partner and returns its ID.
func AddCompany(ctx context.Context, c *models.Company) (string, error) {
	var id string
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO companies (
			id, owner_user_id, name, description, category, status,
			delivery_type, delivery_radius_km, service_fee_percent,
			own_delivery_fee, platform_override_fee,
			opening_hours, opening_days, is_suspended,
			street, number, neighborhood, city, zip_code, lat, lng
		) VALUES (
			COALESCE(NULLIF($1, ''), gen_random_uuid()::text),
			$2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21
		)
		RETURNING id`,
		c.ID, c.OwnerUserID, c.Name, c.Description, c.Category, c.Status,
		c.DeliveryType, c.DeliveryRadiusKm, c.ServiceFeePercent,
		c.OwnDeliveryFee, c.PlatformOverrideFee,
		c.OpeningHours, c.OpeningDays, c.IsSuspended,
		c.Address.Street, c.Address.Number, c.Address.Neighborhood,
		c.Address.City, c.Address.ZipCode,
		c.Address.Coordinate.Lat, c.Address.Coordinate.Lng,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("add company: %w", err)
	}
	return id, nil
}

// GetCompany loads a company by ID, or nil if not found.
func GetCompany(ctx context.Context, id string) (*models.Company, error) {
	c, err := scanCompany(db.Pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// ListCompanies returns every company. The browse view loads the full set and
// filters in memory with NearbyCompanies/FilterCompanies, which is fine at
// tens to low hundreds of partners.
func ListCompanies(ctx context.Context) ([]models.Company, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+companyColumns+` FROM companies ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []models.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *c)
	}
	return res, rows.Err()
}

// SetCompanyStatus sets open/closed.
func SetCompanyStatus(ctx context.Context, id, status string) error {
	if status != models.CompanyStatusOpen && status != models.CompanyStatusClosed {
		return fmt.Errorf("invalid company status: %s", status)
	}
	_, err := db.Pool.Exec(ctx,
		`UPDATE companies SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	return err
}

// SetCompanySuspended blocks or unblocks a company (admin action). Suspended
// companies are hidden from customers and cannot receive orders.
func SetCompanySuspended(ctx context.Context, id string, suspended bool) error {
	_, err := db.Pool.Exec(ctx,
		`UPDATE companies SET is_suspended = $1, updated_at = now() WHERE id = $2`, suspended, id)
	return err
}

// SetPlatformOverrideFee sets the admin flat fee for platform delivery.
// Zero removes the override and the base+per-km formula applies again.
func SetPlatformOverrideFee(ctx context.Context, id string, fee float64) error {
	if fee < 0 {
		return fmt.Errorf("override fee must not be negative: %f", fee)
	}
	_, err := db.Pool.Exec(ctx,
		`UPDATE companies SET platform_override_fee = $1, updated_at = now() WHERE id = $2`, fee, id)
	return err
}

// SetServiceFeePercent updates the marketplace commission for every company
// at once (admin global-settings action).
func SetServiceFeePercent(ctx context.Context, percent float64) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("service fee percent out of range: %f", percent)
	}
	_, err := db.Pool.Exec(ctx,
		`UPDATE companies SET service_fee_percent = $1, updated_at = now()`, percent)
	return err
}
