package models

const (
	// DeliveryTypeOwn means the restaurant delivers with its own staff.
	DeliveryTypeOwn = "own"
	// DeliveryTypePlatform means the marketplace courier pool delivers.
	DeliveryTypePlatform = "platform"
)

const (
	CompanyStatusOpen   = "open"
	CompanyStatusClosed = "closed"
)

// Company is a restaurant partner on the marketplace.
type Company struct {
	ID          string
	OwnerUserID string
	Name        string
	Description string
	Category    string
	Status      string // open/closed

	DeliveryType     string  // own/platform
	DeliveryRadiusKm float64 // customers beyond this radius cannot order delivery
	// Marketplace commission, percent of the product subtotal.
	ServiceFeePercent float64
	// OwnDeliveryFee is the flat fee when DeliveryType is own.
	OwnDeliveryFee float64
	// PlatformOverrideFee, when > 0, replaces the base+per-km platform formula.
	// Set by the admin per company.
	PlatformOverrideFee float64

	OpeningHours string
	OpeningDays  []string
	IsSuspended  bool
	Address      Address
}
