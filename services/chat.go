package services

import (
	"context"
	"fmt"
	"strings"

	"chegoou/db"
	"chegoou/models"
)

// SendChatMessage appends a message to an order's client/partner thread.
func SendChatMessage(ctx context.Context, orderID int64, senderID, senderRole, text string) (int64, error) {
	switch senderRole {
	case models.ChatSenderClient, models.ChatSenderPartner, models.ChatSenderSystem:
	default:
		return 0, fmt.Errorf("invalid chat sender role: %s", senderRole)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, fmt.Errorf("empty chat message")
	}
	var id int64
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO chat_messages (order_id, sender_id, sender_role, text)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		orderID, senderID, senderRole, text,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("send chat message: %w", err)
	}
	return id, nil
}

// ListOrderChat returns an order's chat thread, oldest first.
func ListOrderChat(ctx context.Context, orderID int64) ([]models.ChatMessage, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, order_id, sender_id, sender_role, text, sent_at
		FROM chat_messages
		WHERE order_id = $1
		ORDER BY sent_at, id`,
		orderID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.OrderID, &m.SenderID, &m.SenderRole, &m.Text, &m.SentAt); err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, rows.Err()
}
