package models

const (
	RoleClient  = "client"
	RolePartner = "partner"
	RoleCourier = "courier"
	RoleAdmin   = "admin"
)

const (
	VehicleMoto = "moto"
	VehicleBike = "bike"
	VehicleCar  = "car"
)

type User struct {
	ID    string
	Name  string
	Email string
	Phone string
	Role  string

	// Courier fields.
	VehiclePlate string
	VehicleType  string
	IsOnline     bool

	// Where notification messages go (0 when the user never linked Telegram).
	NotifyChatID int64
}
