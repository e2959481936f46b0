package services

import (
	"math"
	"testing"

	"chegoou/models"
)

var (
	saoPaulo = models.Coordinate{Lat: -23.5505, Lng: -46.6333}
	rio      = models.Coordinate{Lat: -22.9068, Lng: -43.1729}
)

func TestDistanceKmKnownFixture(t *testing.T) {
	d := DistanceKm(saoPaulo, rio)
	if d < 357 || d > 362 {
		t.Errorf("São Paulo -> Rio = %.2f km, want ~357-362", d)
	}
}

func TestDistanceKmSymmetry(t *testing.T) {
	pairs := [][2]models.Coordinate{
		{saoPaulo, rio},
		{{Lat: 1, Lng: 1}, {Lat: -1, Lng: -1}},
		{{Lat: -23.55, Lng: -46.63}, {Lat: -23.56, Lng: -46.64}},
	}
	for _, p := range pairs {
		ab := DistanceKm(p[0], p[1])
		ba := DistanceKm(p[1], p[0])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("DistanceKm not symmetric: %v vs %v", ab, ba)
		}
	}
}

func TestDistanceKmMissingCoordinate(t *testing.T) {
	tests := []struct {
		name string
		a, b models.Coordinate
	}{
		{"zero b", saoPaulo, models.Coordinate{}},
		{"zero a", models.Coordinate{}, rio},
		{"zero lat", models.Coordinate{Lat: 0, Lng: -46.63}, rio},
		{"zero lng", models.Coordinate{Lat: -23.55, Lng: 0}, rio},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if d := DistanceKm(tt.a, tt.b); !math.IsInf(d, 1) {
				t.Errorf("DistanceKm = %v, want +Inf", d)
			}
		})
	}
}

func TestWithinRadius(t *testing.T) {
	if !WithinRadius(5, 5) {
		t.Error("distance equal to radius should be within")
	}
	if WithinRadius(5.01, 5) {
		t.Error("distance past radius should not be within")
	}
	if WithinRadius(math.Inf(1), 1e12) {
		t.Error("infinite distance is never within a finite radius")
	}
}

func companyAt(id string, lat, lng, radius float64) models.Company {
	return models.Company{
		ID:               id,
		Status:           models.CompanyStatusOpen,
		DeliveryType:     models.DeliveryTypePlatform,
		DeliveryRadiusKm: radius,
		Address:          models.Address{Coordinate: models.Coordinate{Lat: lat, Lng: lng}},
	}
}

func TestSortCompaniesByDistance(t *testing.T) {
	far := companyAt("far", -22.9068, -43.1729, 500)  // Rio, ~360km
	near := companyAt("near", -23.5510, -46.6340, 10) // a few hundred meters
	unknown := companyAt("unknown", 0, 0, 10)         // no coordinates

	got := SortCompaniesByDistance(saoPaulo, []models.Company{far, unknown, near})
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Company.ID != "near" || got[1].Company.ID != "far" || got[2].Company.ID != "unknown" {
		t.Errorf("order = %s, %s, %s; want near, far, unknown",
			got[0].Company.ID, got[1].Company.ID, got[2].Company.ID)
	}
	if !math.IsInf(got[2].DistanceKm, 1) {
		t.Errorf("unknown company distance = %v, want +Inf", got[2].DistanceKm)
	}
	if !math.IsInf(got[2].DeliveryFee, 1) {
		t.Errorf("unknown company fee = %v, want +Inf (non-orderable)", got[2].DeliveryFee)
	}
}

func TestNearbyCompaniesFiltering(t *testing.T) {
	near := companyAt("near", -23.5510, -46.6340, 10)
	outOfRange := companyAt("rio", -22.9068, -43.1729, 10) // radius far below 360km
	suspended := companyAt("suspended", -23.5510, -46.6340, 10)
	suspended.IsSuspended = true
	closed := companyAt("closed", -23.5510, -46.6340, 10)
	closed.Status = models.CompanyStatusClosed

	got := NearbyCompanies(saoPaulo, []models.Company{near, outOfRange, suspended, closed})
	if len(got) != 1 || got[0].Company.ID != "near" {
		t.Fatalf("NearbyCompanies kept %d companies, want only %q", len(got), "near")
	}
	if got[0].DeliveryFee <= 0 {
		t.Errorf("resolved fee = %v, want positive platform fee", got[0].DeliveryFee)
	}
}
