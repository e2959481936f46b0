package services

import (
	"strings"
	"testing"

	"chegoou/models"
)

func TestValidStatusTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{OrderStatusPending, OrderStatusPreparing, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusReady, false},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusPreparing, OrderStatusReady, true},
		{OrderStatusPreparing, OrderStatusPending, false},
		{OrderStatusReady, OrderStatusWaitingCourier, true},
		{OrderStatusReady, OrderStatusDelivering, true},
		{OrderStatusReady, OrderStatusDelivered, true},
		{OrderStatusWaitingCourier, OrderStatusDelivering, true},
		{OrderStatusWaitingCourier, OrderStatusDelivered, false},
		{OrderStatusDelivering, OrderStatusDelivered, true},
		{OrderStatusDelivering, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{"", OrderStatusPending, false},
		{OrderStatusPending, "", false},
	}
	for _, tt := range tests {
		got := ValidStatusTransition(tt.from, tt.to)
		if got != tt.want {
			t.Errorf("ValidStatusTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestBuildCustomerCard(t *testing.T) {
	o := &models.Order{
		ID:             123,
		CompanyName:    "Pizza Hut",
		Status:         OrderStatusDelivering,
		Subtotal:       100,
		DeliveryFee:    12.5,
		ServiceFee:     10,
		GrandTotal:     122.5,
		DeliveryCode:   "5678",
		DeliveryMethod: models.DeliveryMethodDelivery,
	}
	card := BuildCustomerCard(o)
	if !strings.Contains(card.Text, "123") || !strings.Contains(card.Text, "R$ 122.50") {
		t.Errorf("card should contain order id and total: %s", card.Text)
	}
	if !strings.Contains(card.Text, "5678") {
		t.Errorf("delivering card should show the hand-off code: %s", card.Text)
	}

	o.Status = OrderStatusPreparing
	card = BuildCustomerCard(o)
	if strings.Contains(card.Text, "5678") {
		t.Errorf("code must not appear before the order is out for delivery: %s", card.Text)
	}
}

func TestBuildCourierCardCashInfo(t *testing.T) {
	o := &models.Order{
		ID:            7,
		CompanyName:   "Sushi do Mar",
		DeliveryFee:   9,
		GrandTotal:    80,
		PaymentMethod: models.PaymentMethodCash,
		ChangeFor:     100,
	}
	card := BuildCourierCard(o, 2.3)
	if !strings.Contains(card.Text, "R$ 80.00") || !strings.Contains(card.Text, "R$ 100.00") {
		t.Errorf("cash card should show total and change note: %s", card.Text)
	}
	if len(card.Buttons) == 0 || card.Buttons[0][0].CallbackData != "accept:7" {
		t.Errorf("courier card should carry the accept button: %+v", card.Buttons)
	}
}

func TestAcceptOrderRace(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	// Requires a test database:
	// - Insert a platform order with status='waiting_courier', courier_id=NULL
	// - Two couriers call AcceptOrder concurrently
	// - The SELECT ... FOR UPDATE plus WHERE courier_id IS NULL guard lets
	//   exactly one UPDATE match; the loser gets ErrOrderTaken
	// - Winner's order moves to 'delivering' with a status history row
}

func TestConfirmDeliveryPayout(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	// Requires a test database:
	// - Courier holds order in 'delivering' with delivery_code '5678'
	// - ConfirmDelivery with the wrong code returns ErrWrongCode, no change
	// - With the right code: status 'delivered', courier credited the
	//   delivery fee, company debited the service fee
}

func TestConfirmDeliveryDoubleConfirm(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	// Requires a test database:
	// - Two ConfirmDelivery calls for the same order race past the initial
	//   status read; the status-guarded UPDATE matches one of them
	// - The loser gets an error and writes nothing: exactly one courier
	//   credit and one company debit exist in financial_records afterwards
}

func TestUpdateOrderStatusLostRace(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	// Requires a test database:
	// - Two actors read an order in 'preparing' and both try to move it on
	// - Only one transition applies; the other returns an error and no
	//   order_status_history row is written for it
}
