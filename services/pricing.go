package services

import (
	"errors"
	"fmt"
	"math"

	"chegoou/models"
)

// Platform delivery fee defaults, used whenever a schedule field is unset.
// Pricing must always produce a number, so missing configuration falls back
// here instead of failing.
const (
	DefaultBaseFee  = 5.00
	DefaultPerKmFee = 1.50
)

var ErrInsufficientChange = errors.New("change amount is below the order total")

// FeeSchedule is the platform-wide base + per-km delivery formula. A zero
// field means "use the default".
type FeeSchedule struct {
	BaseFee  float64
	PerKmFee float64
}

func (s FeeSchedule) withDefaults() FeeSchedule {
	if s.BaseFee == 0 {
		s.BaseFee = DefaultBaseFee
	}
	if s.PerKmFee == 0 {
		s.PerKmFee = DefaultPerKmFee
	}
	return s
}

// ResolveDeliveryFeeSchedule resolves the delivery fee for a company at the
// given distance. Exactly one path applies:
//   - own delivery: the company's flat fee (0 when unset);
//   - platform delivery with an admin override (> 0): the override, flat,
//     regardless of distance;
//   - platform delivery otherwise: base + distance * perKm.
//
// When distanceKm is +Inf the result is +Inf too; callers must treat such a
// company as non-orderable rather than render an infinite fee.
func ResolveDeliveryFeeSchedule(c *models.Company, distanceKm float64, sched FeeSchedule) float64 {
	if c.DeliveryType == models.DeliveryTypeOwn {
		return c.OwnDeliveryFee
	}
	if c.PlatformOverrideFee > 0 {
		return c.PlatformOverrideFee
	}
	sched = sched.withDefaults()
	return sched.BaseFee + distanceKm*sched.PerKmFee
}

// ResolveDeliveryFee is ResolveDeliveryFeeSchedule with the default schedule.
func ResolveDeliveryFee(c *models.Company, distanceKm float64) float64 {
	return ResolveDeliveryFeeSchedule(c, distanceKm, FeeSchedule{})
}

// OrderTotals is the money breakdown shown at checkout and frozen into the
// order row.
type OrderTotals struct {
	Subtotal    float64
	DeliveryFee float64
	ServiceFee  float64
	GrandTotal  float64
}

// ComputeOrderTotals derives the checkout totals from the cart lines.
// The service fee is a percentage of the product subtotal only; the delivery
// fee is never part of its base. Pickup orders pay no delivery fee.
func ComputeOrderTotals(lines []models.CartLine, deliveryFee, serviceFeePercent float64, deliveryMethod string) OrderTotals {
	var subtotal float64
	for _, l := range lines {
		subtotal += l.UnitPrice * float64(l.Quantity)
	}
	if deliveryMethod == models.DeliveryMethodPickup {
		deliveryFee = 0
	}
	serviceFee := subtotal * (serviceFeePercent / 100)
	return OrderTotals{
		Subtotal:    subtotal,
		DeliveryFee: deliveryFee,
		ServiceFee:  serviceFee,
		GrandTotal:  subtotal + deliveryFee + serviceFee,
	}
}

// ValidateCashChange checks the cash-payment invariant: the note the customer
// pays with must cover the grand total. Violations are surfaced, never
// clamped, so the client can correct the amount before placing the order.
func ValidateCashChange(changeFor, grandTotal float64) error {
	if changeFor < grandTotal {
		return fmt.Errorf("%w: change for %.2f, total %.2f", ErrInsufficientChange, changeFor, grandTotal)
	}
	return nil
}

// ProductPrice computes a product's final unit price from the selected
// options per group. Multi-select groups honor the product's pricing mode:
// "average" splits the cost across flavors (half/half pizza), "highest"
// charges the most expensive flavor, "default" sums everything.
func ProductPrice(p *models.Product, selections map[string][]models.ProductOption) float64 {
	total := p.Price
	for _, group := range p.Groups {
		selected := selections[group.ID]
		if len(selected) == 0 {
			continue
		}
		switch {
		case group.Max > 1 && p.PricingMode == models.PricingModeAverage:
			var sum float64
			for _, opt := range selected {
				sum += opt.Price
			}
			total += sum / float64(len(selected))
		case group.Max > 1 && p.PricingMode == models.PricingModeHighest:
			highest := math.Inf(-1)
			for _, opt := range selected {
				if opt.Price > highest {
					highest = opt.Price
				}
			}
			total += highest
		default:
			for _, opt := range selected {
				total += opt.Price
			}
		}
	}
	return total
}
