package models

import (
	"time"
)

type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "PENDING"
	OrderStatusApproved OrderStatus = "APPROVED"
	OrderStatusRejected OrderStatus = "REJECTED"
	OrderStatusFlagged  OrderStatus = "FLAGGED"
)

type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"  json:"id"`
	Username     string `gorm:"uniqueIndex;not null"      json:"username"`
	PasswordHash string `gorm:"not null"                  json:"-"`
	Email        string `gorm:"uniqueIndex;not null"      json:"email"`
	Role         string `gorm:"not null"                  json:"role"`
}

type Supplier struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name        string `gorm:"not null"                  json:"name"`
	Category    string `gorm:"not null"                  json:"category"`
	ContactInfo string `                                 json:"contactInfo,omitempty"`
	Status      string `gorm:"not null;default:ACTIVE"   json:"status"`
}

type Product struct {
	ID                   int64   `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name                 string  `gorm:"not null"                  json:"name"`
	Price                float64 `gorm:"not null"                  json:"price"`
	MinimumOrderQuantity int     `gorm:"default:1"                 json:"minimumOrderQuantity"`
	SupplierID           int64   `gorm:"index;not null"            json:"supplierId"`
}

// Order items keep a plain product id: deleting a product later does not
// touch existing orders.
type Order struct {
	ID            int64       `gorm:"primaryKey;autoIncrement"                    json:"id"`
	UserID        int64       `gorm:"index;not null"                              json:"userId"`
	OrderDate     time.Time   `gorm:"not null"                                    json:"orderDate"`
	Status        OrderStatus `gorm:"type:varchar(16);not null"                   json:"status"`
	AdminComments *string     `                                                   json:"adminComments,omitempty"`
	Items         []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

type OrderItem struct {
	ID        int64   `gorm:"primaryKey;autoIncrement"       json:"id"`
	OrderID   int64   `gorm:"index;not null"                 json:"orderId"`
	ProductID int64   `gorm:"not null"                       json:"productId"`
	Quantity  int     `gorm:"not null;check:quantity > 0"    json:"quantity"`
	Price     float64 `gorm:"not null;check:price >= 0"      json:"price"`
}

func All() []any {
	return []any{&User{}, &Supplier{}, &Product{}, &Order{}, &OrderItem{}}
}
