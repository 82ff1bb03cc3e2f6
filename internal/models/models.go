package models

import "time"

const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

const (
	BookStatusListed = "Listed"
	BookStatusPaid   = "Paid"
)

// ValidRole reports whether role is one of the known user roles.
func ValidRole(role string) bool {
	switch role {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Role           string    `json:"role"`
	SellerVerified bool      `json:"sellerVerified"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Category is reference data seeded at startup and never modified by the
// service afterwards.
type Category struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

type Book struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CategoryID  string    `json:"categoryId"`
	SellerEmail string    `json:"sellerEmail"`
	PriceCents  int64     `json:"priceCents"`
	Status      string    `json:"status"`
	Advertised  bool      `json:"advertised"`
	Reported    bool      `json:"reported"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Booking struct {
	ID            int64     `json:"id"`
	ItemID        int64     `json:"itemId"`
	BuyerEmail    string    `json:"buyerEmail"`
	PriceCents    int64     `json:"priceCents"`
	Paid          bool      `json:"paid"`
	TransactionID string    `json:"transactionId"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Payment is an append-only settlement audit record.
type Payment struct {
	ID            int64     `json:"id"`
	BookingID     int64     `json:"bookingId"`
	ItemID        int64     `json:"itemId"`
	TransactionID string    `json:"transactionId"`
	AmountCents   int64     `json:"amountCents"`
	BuyerEmail    string    `json:"buyerEmail"`
	CreatedAt     time.Time `json:"createdAt"`
}
