package services

import (
	"testing"

	"chegoou/models"
)

// Pickup points a couple of km apart around central São Paulo.
var courierPos = models.Coordinate{Lat: -23.5505, Lng: -46.6333}

func dispatchOrder(id int64, deliveryType, status string, pickup models.Coordinate) models.Order {
	return models.Order{
		ID:            id,
		DeliveryType:  deliveryType,
		Status:        status,
		PickupAddress: models.Address{Coordinate: pickup},
	}
}

func TestEligibleForCourierFilters(t *testing.T) {
	near := models.Coordinate{Lat: -23.5550, Lng: -46.6400}
	nearer := models.Coordinate{Lat: -23.5510, Lng: -46.6340}
	orders := []models.Order{
		dispatchOrder(1, models.DeliveryTypePlatform, OrderStatusReady, near),
		dispatchOrder(2, models.DeliveryTypeOwn, OrderStatusReady, nearer),
		dispatchOrder(3, models.DeliveryTypePlatform, OrderStatusDelivering, nearer),
		dispatchOrder(4, models.DeliveryTypePlatform, OrderStatusPending, nearer),
		dispatchOrder(5, models.DeliveryTypePlatform, OrderStatusWaitingCourier, nearer),
		dispatchOrder(6, models.DeliveryTypePlatform, OrderStatusReady, models.Coordinate{}),
	}

	got := EligibleForCourier(orders, courierPos, DefaultCourierRadiusKm)
	if len(got) != 2 {
		t.Fatalf("eligible = %d orders, want 2", len(got))
	}
	// Closest pickup first.
	if got[0].Order.ID != 5 || got[1].Order.ID != 1 {
		t.Errorf("order = #%d, #%d; want #5, #1", got[0].Order.ID, got[1].Order.ID)
	}
}

func TestEligibleForCourierOwnDeliveryNeverShown(t *testing.T) {
	// Own-delivery orders stay invisible no matter how close or ready.
	o := dispatchOrder(1, models.DeliveryTypeOwn, OrderStatusWaitingCourier, courierPos)
	if got := EligibleForCourier([]models.Order{o}, courierPos, 1000); len(got) != 0 {
		t.Errorf("own-delivery order leaked into courier list")
	}
}

func TestEligibleForCourierRadiusBoundary(t *testing.T) {
	// ~0.6 km north of the courier.
	pickup := models.Coordinate{Lat: -23.5450, Lng: -46.6333}
	o := dispatchOrder(1, models.DeliveryTypePlatform, OrderStatusReady, pickup)
	exact := DistanceKm(courierPos, pickup)

	if got := EligibleForCourier([]models.Order{o}, courierPos, exact); len(got) != 1 {
		t.Error("order exactly at the radius should be included")
	}
	if got := EligibleForCourier([]models.Order{o}, courierPos, exact-0.01); len(got) != 0 {
		t.Error("order past the radius should be excluded")
	}
}

func TestEligibleForCourierUnknownCourierPosition(t *testing.T) {
	o := dispatchOrder(1, models.DeliveryTypePlatform, OrderStatusReady, courierPos)
	if got := EligibleForCourier([]models.Order{o}, models.Coordinate{}, 1000); len(got) != 0 {
		t.Error("without a GPS fix no order should be offered")
	}
}

func TestDeliveryCode(t *testing.T) {
	tests := []struct {
		phone, want string
	}{
		{"+55 11 91234-5678", "5678"},
		{"11912345678", "5678"},
		{"123", "0000"},
		{"", "0000"},
		{"no digits here", "0000"},
	}
	for _, tt := range tests {
		if got := DeliveryCode(tt.phone); got != tt.want {
			t.Errorf("DeliveryCode(%q) = %q, want %q", tt.phone, got, tt.want)
		}
	}
}

func TestCheckDeliveryCode(t *testing.T) {
	o := &models.Order{DeliveryCode: "5678"}
	if !CheckDeliveryCode(o, "5678") {
		t.Error("matching code rejected")
	}
	if CheckDeliveryCode(o, "0000") {
		t.Error("wrong code accepted")
	}
	if CheckDeliveryCode(&models.Order{}, "") {
		t.Error("empty code must never match")
	}
}
