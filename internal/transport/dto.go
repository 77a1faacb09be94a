package transport

import (
	"time"

	"github.com/Skotchmaster/inventory_system/internal/models"
)

// Item fields are pointers so that a missing or null value can be told
// apart from zero.
type OrderItemRequest struct {
	ProductID *int64   `json:"productId"`
	Quantity  *int     `json:"quantity"`
	Price     *float64 `json:"price"`
}

// CreateOrderRequest has no userId: the owner is always the caller.
type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items"`
}

type UpdateStatusRequest struct {
	Status        string `json:"status"        query:"status"        form:"status"`
	AdminComments string `json:"adminComments" query:"adminComments" form:"adminComments"`
}

type RegisterRequest struct {
	Username string `json:"username" query:"username" form:"username"`
	Email    string `json:"email"    query:"email"    form:"email"`
	Password string `json:"password" query:"password" form:"password"`
	Role     string `json:"role"     query:"role"     form:"role"`
}

type LoginRequest struct {
	Username string `json:"username" query:"username" form:"username"`
	Password string `json:"password" query:"password" form:"password"`
}

type ProductRequest struct {
	Name                 string   `json:"name"`
	Price                *float64 `json:"price"`
	MinimumOrderQuantity *int     `json:"minimumOrderQuantity"`
	SupplierID           *int64   `json:"supplierId"`
}

type SupplierRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	ContactInfo string `json:"contactInfo"`
	Status      string `json:"status"`
}

type OrderItemDTO struct {
	ProductID int64   `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type OrderDTO struct {
	ID            int64          `json:"id"`
	UserID        int64          `json:"userId"`
	OrderDate     string         `json:"orderDate"`
	Status        string         `json:"status"`
	AdminComments *string        `json:"adminComments,omitempty"`
	Items         []OrderItemDTO `json:"items"`
}

type ProductPage struct {
	Total    int64            `json:"total"`
	Products []models.Product `json:"products"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

func ToOrderDTO(o models.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemDTO{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	return OrderDTO{
		ID:            o.ID,
		UserID:        o.UserID,
		OrderDate:     o.OrderDate.UTC().Format(time.RFC3339),
		Status:        string(o.Status),
		AdminComments: o.AdminComments,
		Items:         items,
	}
}

func ToOrderDTOs(orders []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, ToOrderDTO(o))
	}
	return out
}
