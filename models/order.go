package models

import "time"

const (
	PaymentMethodCash = "cash"
	PaymentMethodCard = "card"
	PaymentMethodPix  = "pix"
)

const (
	DeliveryMethodDelivery = "delivery"
	DeliveryMethodPickup   = "pickup"
)

// SelectedOption records one option the customer picked for an order item.
type SelectedOption struct {
	GroupName  string  `json:"group_name"`
	OptionName string  `json:"option_name"`
	Price      float64 `json:"price"`
}

// OrderItem is a cart line frozen into an order. UnitPrice already includes
// any option surcharge resolved by the product pricing mode.
type OrderItem struct {
	ProductID   string           `json:"product_id"`
	ProductName string           `json:"product_name"`
	Quantity    int              `json:"quantity"`
	UnitPrice   float64          `json:"unit_price"`
	Observation string           `json:"observation,omitempty"`
	Options     []SelectedOption `json:"options,omitempty"`
}

// CartLine is the minimal input the pricing engine needs per item.
type CartLine struct {
	UnitPrice float64
	Quantity  int
}

type Order struct {
	ID            int64
	CompanyID     string
	CompanyName   string
	CustomerID    string
	CustomerName  string
	CustomerPhone string
	CourierID     string // empty until a courier accepts
	Items         []OrderItem

	Subtotal    float64
	DeliveryFee float64
	ServiceFee  float64
	GrandTotal  float64
	DistanceKm  float64 // customer-to-restaurant, for the fee breakdown

	Status         string
	PaymentMethod  string // cash/card/pix
	ChangeFor      float64
	DeliveryCode   string // last 4 digits of the customer phone
	DeliveryType   string // own/platform, inherited from company at order time
	DeliveryMethod string // delivery/pickup

	DeliveryAddress Address
	PickupAddress   Address

	CreatedAt time.Time
}

type CreateOrderInput struct {
	CompanyID       string
	CustomerID      string
	CustomerName    string
	CustomerPhone   string
	Items           []OrderItem
	PaymentMethod   string
	ChangeFor       float64
	DeliveryMethod  string
	DeliveryAddress Address
}

type DailyStats struct {
	OrdersCount     int
	ItemsRevenue    float64
	DeliveryRevenue float64
	ServiceRevenue  float64
	GrandRevenue    float64
}
