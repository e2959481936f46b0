package services

import (
	"math"
	"sort"

	"chegoou/models"
)

const earthRadiusKm = 6371

// DistanceKm returns the haversine distance between two points in kilometres.
// If any component of either point is missing (zero) the distance is +Inf, so
// that entities with an unknown location never look deceptively close to the
// (0,0) origin and fall out of every radius check naturally.
func DistanceKm(a, b models.Coordinate) float64 {
	if a.IsZero() || b.IsZero() {
		return math.Inf(1)
	}
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// WithinRadius reports whether a computed distance falls inside radiusKm.
// An infinite (unknown) distance is never within any radius.
func WithinRadius(distanceKm, radiusKm float64) bool {
	return distanceKm <= radiusKm
}

// CompanyWithDistance annotates a company with its distance from a reference
// point and the delivery fee resolved for that distance.
type CompanyWithDistance struct {
	Company     models.Company
	DistanceKm  float64
	DeliveryFee float64
	Reachable   bool // inside the company's own delivery radius
}

// SortCompaniesByDistance computes the distance of each company from ref and
// returns them closest first. Companies without coordinates sort last.
func SortCompaniesByDistance(ref models.Coordinate, companies []models.Company) []CompanyWithDistance {
	out := make([]CompanyWithDistance, len(companies))
	for i, c := range companies {
		d := DistanceKm(ref, c.Address.Coordinate)
		out[i] = CompanyWithDistance{
			Company:     c,
			DistanceKm:  d,
			DeliveryFee: ResolveDeliveryFee(&c, d),
			Reachable:   WithinRadius(d, c.DeliveryRadiusKm),
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceKm < out[j].DistanceKm
	})
	return out
}

// NearbyCompanies is SortCompaniesByDistance restricted to companies the
// customer can actually order from: open, not suspended, and within their own
// delivery radius. This is the browse-view candidate list.
func NearbyCompanies(ref models.Coordinate, companies []models.Company) []CompanyWithDistance {
	annotated := SortCompaniesByDistance(ref, companies)
	out := annotated[:0]
	for _, cd := range annotated {
		if cd.Company.IsSuspended || cd.Company.Status != models.CompanyStatusOpen {
			continue
		}
		if !cd.Reachable {
			continue
		}
		out = append(out, cd)
	}
	return out
}
