package services

import (
	"context"
	"errors"
	"fmt"

	"chegoou/db"
	"chegoou/models"

	"github.com/jackc/pgx/v5"
)

func recordFinancialTx(ctx context.Context, tx pgx.Tx, entityID, recordType string, amount float64, description string, orderID int64) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO financial_records (entity_id, type, amount, description, order_id)
		VALUES ($1, $2, $3, $4, NULLIF($5, 0))`,
		entityID, recordType, amount, description, orderID,
	)
	return err
}

// RecordFinancial appends a ledger row for a company or courier.
func RecordFinancial(ctx context.Context, entityID, recordType string, amount float64, description string, orderID int64) error {
	if recordType != models.FinancialCredit && recordType != models.FinancialDebit {
		return fmt.Errorf("invalid financial record type: %s", recordType)
	}
	if amount < 0 {
		return fmt.Errorf("financial amount must not be negative: %f", amount)
	}
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO financial_records (entity_id, type, amount, description, order_id)
		VALUES ($1, $2, $3, $4, NULLIF($5, 0))`,
		entityID, recordType, amount, description, orderID,
	)
	return err
}

// ListFinancialRecords returns an entity's ledger, newest first.
func ListFinancialRecords(ctx context.Context, entityID string) ([]models.FinancialRecord, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, entity_id, type, amount, description, COALESCE(order_id, 0), created_at
		FROM financial_records
		WHERE entity_id = $1
		ORDER BY created_at DESC`,
		entityID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []models.FinancialRecord
	for rows.Next() {
		var r models.FinancialRecord
		if err := rows.Scan(&r.ID, &r.EntityID, &r.Type, &r.Amount, &r.Description, &r.OrderID, &r.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, r)
	}
	return res, rows.Err()
}

// GetBalance returns credits minus debits for a company or courier.
func GetBalance(ctx context.Context, entityID string) (float64, error) {
	var balance float64
	err := db.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(CASE WHEN type = $1 THEN amount ELSE -amount END), 0)
		FROM financial_records
		WHERE entity_id = $2`,
		models.FinancialCredit, entityID,
	).Scan(&balance)
	return balance, err
}

// CreateWithdrawalRequest opens a payout request. The amount must not exceed
// the current balance.
func CreateWithdrawalRequest(ctx context.Context, userID, userName, userType, bankInfo string, amount float64) (int64, error) {
	if userType != models.RolePartner && userType != models.RoleCourier {
		return 0, fmt.Errorf("invalid withdrawal user type: %s", userType)
	}
	if amount <= 0 {
		return 0, fmt.Errorf("withdrawal amount must be positive: %f", amount)
	}
	balance, err := GetBalance(ctx, userID)
	if err != nil {
		return 0, err
	}
	if amount > balance {
		return 0, fmt.Errorf("withdrawal %.2f exceeds balance %.2f", amount, balance)
	}
	var id int64
	err = db.Pool.QueryRow(ctx, `
		INSERT INTO withdrawal_requests (user_id, user_name, user_type, amount, status, bank_info)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		userID, userName, userType, amount, models.WithdrawalPending, bankInfo,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create withdrawal: %w", err)
	}
	return id, nil
}

// ResolveWithdrawalRequest marks a pending request paid or rejected (admin
// action). Paying debits the requester's ledger.
func ResolveWithdrawalRequest(ctx context.Context, requestID int64, status string) error {
	if status != models.WithdrawalPaid && status != models.WithdrawalRejected {
		return fmt.Errorf("invalid withdrawal resolution: %s", status)
	}
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var userID string
	var amount float64
	err = tx.QueryRow(ctx, `
		UPDATE withdrawal_requests SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
		RETURNING user_id, amount`,
		status, requestID, models.WithdrawalPending,
	).Scan(&userID, &amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("withdrawal %d not found or already resolved", requestID)
		}
		return err
	}
	if status == models.WithdrawalPaid {
		if err := recordFinancialTx(ctx, tx, userID, models.FinancialDebit, amount, "withdrawal paid", 0); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// ListPendingWithdrawals returns all pending requests, oldest first.
func ListPendingWithdrawals(ctx context.Context) ([]models.WithdrawalRequest, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, user_id, user_name, user_type, amount, status, bank_info, created_at
		FROM withdrawal_requests
		WHERE status = $1
		ORDER BY created_at`,
		models.WithdrawalPending,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []models.WithdrawalRequest
	for rows.Next() {
		var w models.WithdrawalRequest
		if err := rows.Scan(&w.ID, &w.UserID, &w.UserName, &w.UserType, &w.Amount, &w.Status, &w.BankInfo, &w.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, w)
	}
	return res, rows.Err()
}
