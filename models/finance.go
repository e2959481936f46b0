package models

import "time"

const (
	FinancialCredit = "credit"
	FinancialDebit  = "debit"
)

const (
	WithdrawalPending  = "pending"
	WithdrawalPaid     = "paid"
	WithdrawalRejected = "rejected"
)

// FinancialRecord is one ledger row for a company or courier.
type FinancialRecord struct {
	ID          int64
	EntityID    string // company or courier user ID
	Type        string // credit/debit
	Amount      float64
	Description string
	OrderID     int64
	CreatedAt   time.Time
}

type WithdrawalRequest struct {
	ID        int64
	UserID    string
	UserName  string
	UserType  string // partner/courier
	Amount    float64
	Status    string // pending/paid/rejected
	BankInfo  string
	CreatedAt time.Time
}
