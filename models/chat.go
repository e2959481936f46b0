package models

import "time"

const (
	ChatSenderClient  = "client"
	ChatSenderPartner = "partner"
	ChatSenderSystem  = "system"
)

// ChatMessage is one message in an order's client/partner chat thread.
type ChatMessage struct {
	ID         int64
	OrderID    int64
	SenderID   string
	SenderRole string // client/partner/system
	Text       string
	SentAt     time.Time
}
