package models

const (
	// PricingModeDefault sums every selected option onto the base price.
	PricingModeDefault = "default"
	// PricingModeAverage averages multi-select group options (half/half pizza).
	PricingModeAverage = "average"
	// PricingModeHighest charges the most expensive selected option of a group.
	PricingModeHighest = "highest"
)

// ProductOption is one choice inside a group ("Calabresa", "Borda recheada").
type ProductOption struct {
	ID          string
	Name        string
	Price       float64
	IsAvailable bool
}

// ProductGroup is a set of options with selection bounds, e.g.
// "Escolha o Tamanho" (min 1, max 1) or "Escolha os Sabores" (min 1, max 2).
type ProductGroup struct {
	ID      string
	Name    string
	Min     int
	Max     int
	Options []ProductOption
}

type Product struct {
	ID          string
	CompanyID   string
	Name        string
	Description string
	Category    string
	// Base price. May be 0 when the price comes entirely from required groups.
	Price       float64
	IsAvailable bool
	PricingMode string // default/average/highest
	Groups      []ProductGroup
	Stock       int
}
