package services

import (
	"fmt"
	"strings"

	"chegoou/models"
)

// CardButton is one inline button (text + callback data or URL).
type CardButton struct {
	Text         string
	CallbackData string
	URL          string // if set, render as URL button instead of callback
}

// CardContent is the text and optional inline keyboard for an order card.
// Services build cards, the bot package renders them; Telegram types never
// leak into this package.
type CardContent struct {
	Text    string
	Buttons [][]CardButton
}

func statusLabel(status string) string {
	switch status {
	case OrderStatusPending:
		return "Pending"
	case OrderStatusPreparing:
		return "Preparing"
	case OrderStatusReady:
		return "Ready"
	case OrderStatusWaitingCourier:
		return "Waiting for courier"
	case OrderStatusDelivering:
		return "Out for delivery"
	case OrderStatusDelivered:
		return "Delivered"
	case OrderStatusCancelled:
		return "Cancelled"
	default:
		return status
	}
}

func formatMoney(v float64) string {
	return fmt.Sprintf("R$ %.2f", v)
}

// BuildCourierCard renders an available order as a pickup offer for a
// courier, with the accept button. pickupKm is the courier-to-restaurant
// distance computed by the caller.
func BuildCourierCard(o *models.Order, pickupKm float64) CardContent {
	var b strings.Builder
	fmt.Fprintf(&b, "Order #%d — %s\n\n", o.ID, o.CompanyName)
	fmt.Fprintf(&b, "Pickup: %s, %s (%s)\n", o.PickupAddress.Street, o.PickupAddress.Number, o.PickupAddress.Neighborhood)
	fmt.Fprintf(&b, "Drop-off: %s, %s (%s)\n", o.DeliveryAddress.Street, o.DeliveryAddress.Number, o.DeliveryAddress.Neighborhood)
	fmt.Fprintf(&b, "Pickup distance: %.1f km\n", pickupKm)
	fmt.Fprintf(&b, "Delivery fee: %s\n", formatMoney(o.DeliveryFee))
	if o.PaymentMethod == models.PaymentMethodCash {
		fmt.Fprintf(&b, "Cash on delivery: %s", formatMoney(o.GrandTotal))
		if o.ChangeFor > 0 {
			fmt.Fprintf(&b, " (change for %s)", formatMoney(o.ChangeFor))
		}
		b.WriteString("\n")
	}
	return CardContent{
		Text: b.String(),
		Buttons: [][]CardButton{{
			{Text: "Accept", CallbackData: fmt.Sprintf("accept:%d", o.ID)},
		}},
	}
}

// BuildCustomerCard renders an order status update for the customer.
func BuildCustomerCard(o *models.Order) CardContent {
	var b strings.Builder
	fmt.Fprintf(&b, "Order #%d — %s\n", o.ID, o.CompanyName)
	fmt.Fprintf(&b, "Status: %s\n\n", statusLabel(o.Status))
	fmt.Fprintf(&b, "Subtotal: %s\n", formatMoney(o.Subtotal))
	if o.DeliveryMethod == models.DeliveryMethodPickup {
		b.WriteString("Pickup at the restaurant\n")
	} else {
		fmt.Fprintf(&b, "Delivery: %s\n", formatMoney(o.DeliveryFee))
	}
	if o.ServiceFee > 0 {
		fmt.Fprintf(&b, "Service fee: %s\n", formatMoney(o.ServiceFee))
	}
	fmt.Fprintf(&b, "Total: %s\n", formatMoney(o.GrandTotal))
	if o.Status == OrderStatusDelivering {
		fmt.Fprintf(&b, "\nHand-off code: %s (tell the courier at the door)", o.DeliveryCode)
	}
	return CardContent{Text: b.String()}
}

// BuildAdminCard renders an order summary for the admin audience.
func BuildAdminCard(o *models.Order) CardContent {
	var b strings.Builder
	fmt.Fprintf(&b, "Order #%d — %s\n", o.ID, o.CompanyName)
	fmt.Fprintf(&b, "Customer: %s\n", o.CustomerName)
	fmt.Fprintf(&b, "Status: %s\n", statusLabel(o.Status))
	fmt.Fprintf(&b, "Type: %s / %s\n", o.DeliveryType, o.DeliveryMethod)
	fmt.Fprintf(&b, "Total: %s (fee %s, service %s)\n",
		formatMoney(o.GrandTotal), formatMoney(o.DeliveryFee), formatMoney(o.ServiceFee))
	if o.CourierID != "" {
		fmt.Fprintf(&b, "Courier: %s\n", o.CourierID)
	}
	return CardContent{Text: b.String()}
}
