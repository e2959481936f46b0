package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"chegoou/config"
	"chegoou/models"
	"chegoou/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier pushes order cards over Telegram: pickup offers to nearby online
// couriers and status updates to customers and the admin. It consumes DB
// snapshots on a timer; it owns no order state of its own.
type Notifier struct {
	api *tgbotapi.BotAPI
	cfg *config.Config

	mu     sync.Mutex
	pushed map[int64]map[int64]bool // orderID -> chatID already offered
}

func NewNotifier(cfg *config.Config) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("notify bot: %w", err)
	}
	return &Notifier{
		api:    api,
		cfg:    cfg,
		pushed: make(map[int64]map[int64]bool),
	}, nil
}

func renderKeyboard(card services.CardContent) *tgbotapi.InlineKeyboardMarkup {
	if len(card.Buttons) == 0 {
		return nil
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, row := range card.Buttons {
		var btns []tgbotapi.InlineKeyboardButton
		for _, b := range row {
			if b.URL != "" {
				btns = append(btns, tgbotapi.NewInlineKeyboardButtonURL(b.Text, b.URL))
			} else {
				btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.CallbackData))
			}
		}
		rows = append(rows, btns)
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

func (n *Notifier) send(chatID int64, card services.CardContent) {
	if chatID == 0 {
		return
	}
	msg := tgbotapi.NewMessage(chatID, card.Text)
	if kb := renderKeyboard(card); kb != nil {
		msg.ReplyMarkup = kb
	}
	if _, err := n.api.Send(msg); err != nil {
		log.Printf("notify: send to %d: %v", chatID, err)
	}
}

// PushAvailableOrders offers each courier-eligible order to online couriers
// near its pickup point, once per courier per order.
func (n *Notifier) PushAvailableOrders(ctx context.Context) {
	orders, err := services.ListOpenOrders(ctx)
	if err != nil {
		log.Printf("notify: list open orders: %v", err)
		return
	}
	offerable := make(map[int64]bool, len(orders))
	for _, o := range orders {
		if o.DeliveryType != models.DeliveryTypePlatform {
			continue
		}
		if o.Status != services.OrderStatusReady && o.Status != services.OrderStatusWaitingCourier {
			continue
		}
		offerable[o.ID] = true
		couriers, err := services.NearbyOnlineCouriers(ctx,
			o.PickupAddress.Coordinate.Lat, o.PickupAddress.Coordinate.Lng,
			n.cfg.Delivery.CourierRadiusKm, 10)
		if err != nil {
			log.Printf("notify: nearby couriers for order %d: %v", o.ID, err)
			continue
		}
		for _, c := range couriers {
			chatID := c.Courier.NotifyChatID
			if n.alreadyPushed(o.ID, chatID) {
				continue
			}
			n.send(chatID, services.BuildCourierCard(&o, c.DistanceKm))
			n.markPushed(o.ID, chatID)
		}
	}
	n.pruneOffers(offerable)
}

// pruneOffers drops push bookkeeping for orders that left the offerable set
// (accepted, delivered, cancelled); without it the map grows for the life of
// the process.
func (n *Notifier) pruneOffers(offerable map[int64]bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for orderID := range n.pushed {
		if !offerable[orderID] {
			delete(n.pushed, orderID)
		}
	}
}

func (n *Notifier) alreadyPushed(orderID, chatID int64) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pushed[orderID][chatID]
}

func (n *Notifier) markPushed(orderID, chatID int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.pushed[orderID] == nil {
		n.pushed[orderID] = make(map[int64]bool)
	}
	n.pushed[orderID][chatID] = true
}

// NotifyOrderStatus sends the customer (and admin, if configured) the
// current state of an order.
func (n *Notifier) NotifyOrderStatus(ctx context.Context, orderID int64) {
	o, err := services.GetOrder(ctx, orderID)
	if err != nil || o == nil {
		log.Printf("notify: load order %d: %v", orderID, err)
		return
	}
	customer, err := services.GetUser(ctx, o.CustomerID)
	if err == nil && customer != nil {
		n.send(customer.NotifyChatID, services.BuildCustomerCard(o))
	}
	if n.cfg.Telegram.AdminChatID != 0 {
		n.send(n.cfg.Telegram.AdminChatID, services.BuildAdminCard(o))
	}
}

// Start long-polls Telegram for courier accept callbacks. Blocks; run in a
// goroutine.
func (n *Notifier) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := n.api.GetUpdatesChan(u)
	for update := range updates {
		if update.CallbackQuery == nil {
			continue
		}
		n.handleCallback(update.CallbackQuery)
	}
}

// RunPushLoop re-offers available orders on a fixed interval until ctx ends.
func (n *Notifier) RunPushLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n.PushAvailableOrders(ctx)
		}
	}
}

func (n *Notifier) handleCallback(cb *tgbotapi.CallbackQuery) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	data := cb.Data
	if !strings.HasPrefix(data, "accept:") {
		return
	}
	orderID, err := strconv.ParseInt(strings.TrimPrefix(data, "accept:"), 10, 64)
	if err != nil {
		return
	}

	courier, err := services.GetCourierByChatID(ctx, cb.From.ID)
	if err != nil || courier == nil {
		n.answer(cb, "Link your courier account first.")
		return
	}

	o, err := services.AcceptOrder(ctx, orderID, courier.ID)
	switch {
	case errors.Is(err, services.ErrOrderTaken):
		n.answer(cb, "Too late, another courier took it.")
		return
	case errors.Is(err, services.ErrOrderUnavailable):
		n.answer(cb, "Order is no longer available.")
		return
	case err != nil:
		log.Printf("notify: accept order %d: %v", orderID, err)
		n.answer(cb, "Could not accept the order, try again.")
		return
	}

	n.answer(cb, fmt.Sprintf("Order #%d is yours. Head to %s.", o.ID, o.CompanyName))
	n.NotifyOrderStatus(ctx, o.ID)
}

func (n *Notifier) answer(cb *tgbotapi.CallbackQuery, text string) {
	callback := tgbotapi.NewCallback(cb.ID, text)
	if _, err := n.api.Request(callback); err != nil {
		log.Printf("notify: answer callback: %v", err)
	}
}
