package models

import (
	"time"
)

const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
)

const (
	OrderStatusPending   = "PENDING"
	OrderStatusPaid      = "PAID"
	OrderStatusShipped   = "SHIPPED"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	Email        string    `gorm:"uniqueIndex;not null"      json:"email"`
	PasswordHash string    `gorm:"not null"                  json:"-"`
	Name         string    `gorm:"not null"                  json:"name"`
	Role         string    `gorm:"not null;default:CUSTOMER" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"                        json:"id"`
	UserID    uint   `gorm:"index;not null"                    json:"user_id"`
	TokenHash string `gorm:"column:token;uniqueIndex;not null" json:"-"`
	JTI       string `gorm:"not null"                          json:"-"`
	ExpiresAt int64  `gorm:"not null"                          json:"expires_at"`
}

type Category struct {
	ID          uint   `gorm:"primaryKey"           json:"id"`
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `json:"description"`
}

type Product struct {
	ID          uint           `gorm:"primaryKey"                          json:"id"`
	Name        string         `gorm:"not null"                            json:"name"`
	Description string         `json:"description"`
	Price       float64        `gorm:"not null"                            json:"price"`
	Stock       int            `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	CategoryID  uint           `gorm:"index;not null"                      json:"category_id"`
	Category    *Category      `json:"category,omitempty"`
	Images      []ProductImage `gorm:"constraint:OnDelete:CASCADE"         json:"images"`
}

type ProductImage struct {
	ID        uint   `gorm:"primaryKey"         json:"id"`
	ProductID uint   `gorm:"index;not null"     json:"product_id"`
	URL       string `gorm:"not null"           json:"url"`
	Position  int    `gorm:"not null;default:0" json:"position"`
}

type Cart struct {
	ID     uint       `gorm:"primaryKey"           json:"id"`
	UserID uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	Items  []CartItem `json:"items"`
}

type CartItem struct {
	ID        uint     `gorm:"primaryKey"                            json:"id"`
	CartID    uint     `gorm:"uniqueIndex:uq_cart_product;not null"  json:"cart_id"`
	ProductID uint     `gorm:"uniqueIndex:uq_cart_product;not null"  json:"product_id"`
	Quantity  uint     `gorm:"not null;default:1;check:quantity > 0" json:"quantity"`
	Product   *Product `json:"product,omitempty"`
}

type Order struct {
	ID        uint        `gorm:"primaryKey"               json:"id"`
	UserID    uint        `gorm:"index;not null"           json:"user_id"`
	Total     float64     `gorm:"not null"                 json:"total"`
	Status    string      `gorm:"not null;default:PENDING" json:"status"`
	CreatedAt int64       `gorm:"not null"                 json:"created_at"`
	Items     []OrderItem `json:"items"`
	User      *User       `json:"user,omitempty"`
}

// OrderItem freezes the unit price at placement time. Later price changes
// never touch existing orders.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey"                  json:"id"`
	OrderID   uint    `gorm:"index;not null"              json:"order_id"`
	ProductID uint    `gorm:"index;not null"              json:"product_id"`
	Quantity  uint    `gorm:"not null;check:quantity > 0" json:"quantity"`
	Price     float64 `gorm:"not null"                    json:"price"`
}

type WishlistItem struct {
	ID        uint      `gorm:"primaryKey"                               json:"id"`
	UserID    uint      `gorm:"uniqueIndex:uq_wishlist_product;not null" json:"user_id"`
	ProductID uint      `gorm:"uniqueIndex:uq_wishlist_product;not null" json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
	Product   *Product  `json:"product,omitempty"`
}

// ValidOrderStatus reports whether s is one of the five known statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

var orderTransitions = map[string][]string{
	OrderStatusPending: {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:    {OrderStatusShipped},
	OrderStatusShipped: {OrderStatusDelivered},
}

// CanTransitionOrder reports whether an order may move from one status to
// another. CANCELLED and DELIVERED are terminal.
func CanTransitionOrder(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
