package services

import (
	"errors"
	"math"
	"testing"

	"chegoou/models"
)

func TestResolveDeliveryFee(t *testing.T) {
	tests := []struct {
		name     string
		company  models.Company
		distance float64
		want     float64
	}{
		{
			"own delivery flat fee",
			models.Company{DeliveryType: models.DeliveryTypeOwn, OwnDeliveryFee: 7},
			20, 7,
		},
		{
			"own delivery unset fee is free",
			models.Company{DeliveryType: models.DeliveryTypeOwn},
			20, 0,
		},
		{
			"platform override beats formula",
			models.Company{DeliveryType: models.DeliveryTypePlatform, PlatformOverrideFee: 8},
			20, 8,
		},
		{
			"platform formula",
			models.Company{DeliveryType: models.DeliveryTypePlatform},
			20, 5.00 + 20*1.50,
		},
		{
			"platform formula zero distance",
			models.Company{DeliveryType: models.DeliveryTypePlatform},
			0, 5.00,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveDeliveryFee(&tt.company, tt.distance)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ResolveDeliveryFee = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveDeliveryFeeUnknownDistance(t *testing.T) {
	c := models.Company{DeliveryType: models.DeliveryTypePlatform}
	if got := ResolveDeliveryFee(&c, math.Inf(1)); !math.IsInf(got, 1) {
		t.Errorf("fee for unknown distance = %v, want +Inf (caller hides it)", got)
	}
}

func TestResolveDeliveryFeeCustomSchedule(t *testing.T) {
	c := models.Company{DeliveryType: models.DeliveryTypePlatform}
	got := ResolveDeliveryFeeSchedule(&c, 10, FeeSchedule{BaseFee: 3, PerKmFee: 2})
	if got != 23 {
		t.Errorf("custom schedule fee = %v, want 23", got)
	}
	// Zero fields fall back to the defaults.
	got = ResolveDeliveryFeeSchedule(&c, 10, FeeSchedule{})
	if got != 5.00+10*1.50 {
		t.Errorf("default schedule fee = %v, want %v", got, 5.00+10*1.50)
	}
}

func TestComputeOrderTotalsServiceFeeBase(t *testing.T) {
	lines := []models.CartLine{
		{UnitPrice: 25, Quantity: 2}, // 50
		{UnitPrice: 50, Quantity: 1}, // 50
	}
	got := ComputeOrderTotals(lines, 10, 10, models.DeliveryMethodDelivery)
	if got.Subtotal != 100 {
		t.Errorf("Subtotal = %v, want 100", got.Subtotal)
	}
	// The service fee base is the product subtotal only, never the delivery
	// fee: 10% of 100 is 10, not 11.
	if got.ServiceFee != 10 {
		t.Errorf("ServiceFee = %v, want 10", got.ServiceFee)
	}
	if got.GrandTotal != 120 {
		t.Errorf("GrandTotal = %v, want 120", got.GrandTotal)
	}
}

func TestComputeOrderTotalsPickup(t *testing.T) {
	lines := []models.CartLine{{UnitPrice: 100, Quantity: 1}}
	got := ComputeOrderTotals(lines, 10, 10, models.DeliveryMethodPickup)
	if got.DeliveryFee != 0 {
		t.Errorf("pickup DeliveryFee = %v, want 0", got.DeliveryFee)
	}
	if got.GrandTotal != 110 {
		t.Errorf("pickup GrandTotal = %v, want 110", got.GrandTotal)
	}
}

func TestComputeOrderTotalsEmptyCart(t *testing.T) {
	got := ComputeOrderTotals(nil, 10, 10, models.DeliveryMethodDelivery)
	if got.Subtotal != 0 || got.ServiceFee != 0 || got.GrandTotal != 10 {
		t.Errorf("empty cart totals = %+v", got)
	}
}

func TestValidateCashChange(t *testing.T) {
	if err := ValidateCashChange(120, 120); err != nil {
		t.Errorf("exact change rejected: %v", err)
	}
	if err := ValidateCashChange(150, 120); err != nil {
		t.Errorf("extra change rejected: %v", err)
	}
	err := ValidateCashChange(119.99, 120)
	if err == nil {
		t.Fatal("change below total should be rejected")
	}
	if !errors.Is(err, ErrInsufficientChange) {
		t.Errorf("error = %v, want ErrInsufficientChange", err)
	}
}

func pizzaProduct(mode string) *models.Product {
	return &models.Product{
		Price:       30,
		PricingMode: mode,
		Groups: []models.ProductGroup{
			{ID: "flavors", Min: 1, Max: 2, Options: []models.ProductOption{
				{ID: "calabresa", Price: 10},
				{ID: "quatro-queijos", Price: 20},
			}},
			{ID: "border", Min: 0, Max: 1, Options: []models.ProductOption{
				{ID: "catupiry", Price: 8},
			}},
		},
	}
}

func TestProductPricePricingModes(t *testing.T) {
	p := pizzaProduct(models.PricingModeDefault)
	twoFlavors := map[string][]models.ProductOption{
		"flavors": {{Price: 10}, {Price: 20}},
	}

	if got := ProductPrice(p, twoFlavors); got != 60 {
		t.Errorf("default mode = %v, want 60 (30 + 10 + 20)", got)
	}

	p = pizzaProduct(models.PricingModeAverage)
	if got := ProductPrice(p, twoFlavors); got != 45 {
		t.Errorf("average mode = %v, want 45 (30 + 15)", got)
	}

	p = pizzaProduct(models.PricingModeHighest)
	if got := ProductPrice(p, twoFlavors); got != 50 {
		t.Errorf("highest mode = %v, want 50 (30 + 20)", got)
	}
}

func TestProductPriceSingleSelectGroupsAlwaysSum(t *testing.T) {
	// average/highest only apply to multi-select groups; a Max=1 group adds
	// its option price as-is.
	p := pizzaProduct(models.PricingModeAverage)
	sel := map[string][]models.ProductOption{
		"border": {{Price: 8}},
	}
	if got := ProductPrice(p, sel); got != 38 {
		t.Errorf("single-select group = %v, want 38", got)
	}
}

func TestProductPriceNoSelections(t *testing.T) {
	p := pizzaProduct(models.PricingModeDefault)
	if got := ProductPrice(p, nil); got != 30 {
		t.Errorf("no selections = %v, want base price 30", got)
	}
}
