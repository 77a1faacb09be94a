package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/inventory_system/internal/events"
	"github.com/Skotchmaster/inventory_system/internal/models"
	"github.com/Skotchmaster/inventory_system/internal/policy"
	"github.com/Skotchmaster/inventory_system/internal/repo"
	"github.com/Skotchmaster/inventory_system/internal/transport"
	"github.com/Skotchmaster/inventory_system/pkg/logging"
	"github.com/Skotchmaster/inventory_system/pkg/metrics"
	"github.com/Skotchmaster/inventory_system/pkg/principal"
)

type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID int64) ([]models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	SaveOrderStatus(ctx context.Context, order *models.Order) error
	DeleteOrder(ctx context.Context, id int64) error
}

type ProductChecker interface {
	ExistingProductIDs(ctx context.Context, ids []int64) (map[int64]bool, error)
}

// OrderService owns the order lifecycle. Every public method checks the
// access policy itself, so it is safe to call without any HTTP guard.
type OrderService struct {
	Orders   OrderStore
	Products ProductChecker
	Events   events.Publisher
	Now      func() time.Time
}

func NewOrderService(orders OrderStore, products ProductChecker, pub events.Publisher) *OrderService {
	if pub == nil {
		pub = events.Noop{}
	}
	return &OrderService{
		Orders:   orders,
		Products: products,
		Events:   pub,
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

// settableStatuses are the targets UpdateStatus accepts. FLAGGED is a valid
// stored state that can only be set outside this service.
var settableStatuses = map[models.OrderStatus]struct{}{
	models.OrderStatusPending:  {},
	models.OrderStatusApproved: {},
	models.OrderStatusRejected: {},
}

func ParseStatus(s string) (models.OrderStatus, error) {
	st := models.OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := settableStatuses[st]; !ok {
		return "", fmt.Errorf("%w: invalid status %q", ErrValidation, s)
	}
	return st, nil
}

func (svc *OrderService) CreateOrder(ctx context.Context, p principal.Principal, req transport.CreateOrderRequest) (*models.Order, error) {
	if !policy.CanCreateOrder(p) {
		return nil, fmt.Errorf("%w: authentication required", ErrAccessDenied)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: items required", ErrValidation)
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	ids := make([]int64, 0, len(req.Items))
	for i, it := range req.Items {
		if it.ProductID == nil {
			return nil, fmt.Errorf("%w: item %d: productId required", ErrValidation, i)
		}
		if it.Quantity == nil || *it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item %d: quantity must be > 0", ErrValidation, i)
		}
		if it.Price == nil || *it.Price < 0 {
			return nil, fmt.Errorf("%w: item %d: price must be >= 0", ErrValidation, i)
		}

		items = append(items, models.OrderItem{
			ProductID: *it.ProductID,
			Quantity:  *it.Quantity,
			Price:     *it.Price,
		})
		ids = append(ids, *it.ProductID)
	}

	found, err := svc.Products.ExistingProductIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("check products: %w", err)
	}
	for _, id := range ids {
		if !found[id] {
			return nil, fmt.Errorf("%w: product %d does not exist", ErrValidation, id)
		}
	}

	order := &models.Order{
		UserID:    p.UserID,
		OrderDate: svc.Now(),
		Status:    models.OrderStatusPending,
		Items:     items,
	}
	if err := svc.Orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	svc.publish(ctx, events.OrderCreated, order)
	return order, nil
}

// GetOrderByID fetches without any access check.
func (svc *OrderService) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	order, err := svc.Orders.GetOrder(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	return order, nil
}

// GetOrder reports NotFound before AccessDenied: a missing order is 404 for
// every caller, an existing one owned by someone else is 403.
func (svc *OrderService) GetOrder(ctx context.Context, p principal.Principal, id int64) (*models.Order, error) {
	order, err := svc.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanReadOrder(p, order.UserID) {
		return nil, ErrAccessDenied
	}
	return order, nil
}

func (svc *OrderService) ListOrdersForUser(ctx context.Context, p principal.Principal, userID int64) ([]models.Order, error) {
	if !policy.CanListOrders(p, userID) {
		return nil, ErrAccessDenied
	}
	orders, err := svc.Orders.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders of user %d: %w", userID, err)
	}
	return orders, nil
}

// UpdateStatus leaves the stored order untouched on any error. Blank
// comments keep the existing ones.
func (svc *OrderService) UpdateStatus(ctx context.Context, p principal.Principal, id int64, status, comments string) (*models.Order, error) {
	if !policy.CanUpdateStatus(p) {
		return nil, ErrAccessDenied
	}

	order, err := svc.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	st, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}

	order.Status = st
	if strings.TrimSpace(comments) != "" {
		c := comments
		order.AdminComments = &c
	}

	if err := svc.Orders.SaveOrderStatus(ctx, order); err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("save order %d: %w", id, err)
	}

	svc.publish(ctx, events.OrderStatusChanged, order)
	return order, nil
}

func (svc *OrderService) DeleteOrder(ctx context.Context, p principal.Principal, id int64) error {
	order, err := svc.GetOrderByID(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanDeleteOrder(p, order.UserID) {
		return ErrAccessDenied
	}

	if err := svc.Orders.DeleteOrder(ctx, id); err != nil {
		if repo.IsNotFound(err) {
			return fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return fmt.Errorf("delete order %d: %w", id, err)
	}

	svc.publish(ctx, events.OrderDeleted, order)
	return nil
}

// GetHistory lists every order when userID is nil; only admins may do that.
func (svc *OrderService) GetHistory(ctx context.Context, p principal.Principal, userID *int64) ([]models.Order, error) {
	if !policy.CanViewHistory(p, userID) {
		return nil, ErrAccessDenied
	}

	var (
		orders []models.Order
		err    error
	)
	if userID == nil {
		orders, err = svc.Orders.ListOrders(ctx)
	} else {
		orders, err = svc.Orders.ListOrdersByUser(ctx, *userID)
	}
	if err != nil {
		return nil, fmt.Errorf("order history: %w", err)
	}
	return orders, nil
}

func (svc *OrderService) publish(ctx context.Context, typ events.Type, o *models.Order) {
	metrics.OrderTransitions.WithLabelValues(string(typ), string(o.Status)).Inc()

	ev := events.Event{
		Type:    typ,
		OrderID: o.ID,
		UserID:  o.UserID,
		Status:  string(o.Status),
		At:      svc.Now(),
	}
	if err := svc.Events.Publish(ctx, ev); err != nil {
		logging.FromContext(ctx).Warn("publish_event_error",
			"event", typ, "order_id", o.ID, "error", err)
	}
}
