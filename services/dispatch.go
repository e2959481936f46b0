package services

import (
	"sort"

	"chegoou/models"
)

// DefaultCourierRadiusKm bounds how far from a courier an available pickup
// may be before it stops showing up. Config can override per deployment.
const DefaultCourierRadiusKm = 15

// OrderWithDistance annotates an order with the courier-to-pickup distance.
type OrderWithDistance struct {
	Order     models.Order
	PickupKm  float64
	DropoffKm float64 // pickup-to-customer, for the trip summary
}

// EligibleForCourier returns the orders a platform courier may see and
// accept, closest pickup first. Orders delivered by the restaurant's own
// staff are never shown, and neither are orders already out for delivery;
// those belong to whichever courier accepted them. The radius boundary is
// inclusive. The result is a fresh snapshot; re-invoke on every position or
// order-list change.
func EligibleForCourier(orders []models.Order, courierPos models.Coordinate, radiusKm float64) []OrderWithDistance {
	var out []OrderWithDistance
	for _, o := range orders {
		if o.DeliveryType != models.DeliveryTypePlatform {
			continue
		}
		if o.Status != OrderStatusReady && o.Status != OrderStatusWaitingCourier {
			continue
		}
		d := DistanceKm(courierPos, o.PickupAddress.Coordinate)
		if !WithinRadius(d, radiusKm) {
			continue
		}
		out = append(out, OrderWithDistance{
			Order:     o,
			PickupKm:  d,
			DropoffKm: DistanceKm(o.PickupAddress.Coordinate, o.DeliveryAddress.Coordinate),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PickupKm < out[j].PickupKm
	})
	return out
}

// DeliveryCode derives the hand-off code for an order: the last four digits
// of the customer's phone, "0000" when the phone is too short or has no
// digits. The courier asks the customer for it at the door.
func DeliveryCode(phone string) string {
	digits := make([]byte, 0, len(phone))
	for i := 0; i < len(phone); i++ {
		if phone[i] >= '0' && phone[i] <= '9' {
			digits = append(digits, phone[i])
		}
	}
	if len(digits) < 4 {
		return "0000"
	}
	return string(digits[len(digits)-4:])
}

// CheckDeliveryCode reports whether the code the courier typed matches the
// order's hand-off code.
func CheckDeliveryCode(o *models.Order, code string) bool {
	return o.DeliveryCode != "" && o.DeliveryCode == code
}
