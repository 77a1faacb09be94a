package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/inventory_system/internal/events"
	"github.com/Skotchmaster/inventory_system/internal/models"
	"github.com/Skotchmaster/inventory_system/internal/transport"
	"github.com/Skotchmaster/inventory_system/pkg/principal"
)

func createFor(t *testing.T, svc *OrderService, p principal.Principal) *models.Order {
	t.Helper()
	o, err := svc.CreateOrder(context.Background(), p, transport.CreateOrderRequest{
		Items: []transport.OrderItemRequest{item(1, 2, 10.5)},
	})
	require.NoError(t, err)
	return o
}

func TestCreateOrder_PendingWithDate(t *testing.T) {
	svc, r, pub := newOrderFixture(t)
	fixed := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return fixed }

	o := createFor(t, svc, user10)

	assert.NotZero(t, o.ID)
	assert.Equal(t, models.OrderStatusPending, o.Status)
	assert.Equal(t, int64(10), o.UserID)
	assert.True(t, fixed.Equal(o.OrderDate))
	require.Len(t, o.Items, 1)
	assert.NotZero(t, o.Items[0].ID)
	assert.Equal(t, 2, o.Items[0].Quantity)
	assert.Equal(t, 10.5, o.Items[0].Price)

	stored, err := r.GetOrder(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, stored.Status)
	assert.Len(t, stored.Items, 1)

	assert.Equal(t, []events.Type{events.OrderCreated}, pub.types())
}

func TestCreateOrder_OwnerIsAlwaysCaller(t *testing.T) {
	svc, _, _ := newOrderFixture(t)

	o := createFor(t, svc, user20)
	assert.Equal(t, int64(20), o.UserID)
}

func TestCreateOrder_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		items []transport.OrderItemRequest
	}{
		{"no items", nil},
		{"missing product id", []transport.OrderItemRequest{{Quantity: ptr(1), Price: ptr(1.0)}}},
		{"missing quantity", []transport.OrderItemRequest{{ProductID: ptr(int64(1)), Price: ptr(1.0)}}},
		{"zero quantity", []transport.OrderItemRequest{item(1, 0, 1)}},
		{"missing price", []transport.OrderItemRequest{{ProductID: ptr(int64(1)), Quantity: ptr(1)}}},
		{"negative price", []transport.OrderItemRequest{item(1, 1, -0.01)}},
		{"unknown product", []transport.OrderItemRequest{item(999, 1, 1)}},
		{"one unknown among good", []transport.OrderItemRequest{item(1, 1, 1), item(999, 1, 1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, r, pub := newOrderFixture(t)

			_, err := svc.CreateOrder(context.Background(), user10, transport.CreateOrderRequest{Items: tt.items})
			assert.ErrorIs(t, err, ErrValidation)

			all, err := r.ListOrders(context.Background())
			require.NoError(t, err)
			assert.Empty(t, all, "no order may be persisted")
			assert.Empty(t, pub.types())
		})
	}
}

func TestCreateOrder_FreePriceAllowed(t *testing.T) {
	svc, _, _ := newOrderFixture(t)

	o, err := svc.CreateOrder(context.Background(), user10, transport.CreateOrderRequest{
		Items: []transport.OrderItemRequest{item(1, 1, 0)},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, o.Items[0].Price)
}

func TestCreateOrder_AnonymousDenied(t *testing.T) {
	svc, _, _ := newOrderFixture(t)

	_, err := svc.CreateOrder(context.Background(), principal.Anonymous, transport.CreateOrderRequest{
		Items: []transport.OrderItemRequest{item(1, 1, 1)},
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetOrder_OwnerOrAdmin(t *testing.T) {
	svc, _, _ := newOrderFixture(t)
	ctx := context.Background()
	o := createFor(t, svc, user20)

	tests := []struct {
		name    string
		p       principal.Principal
		wantErr error
	}{
		{"owner", user20, nil},
		{"admin", admin, nil},
		{"other user", user10, ErrAccessDenied},
		{"anonymous", principal.Anonymous, ErrAccessDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.GetOrder(ctx, tt.p, o.ID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, o.ID, got.ID)
		})
	}
}

func TestGetOrder_MissingIsNotFoundForEveryone(t *testing.T) {
	svc, _, _ := newOrderFixture(t)

	for _, p := range []principal.Principal{user10, admin, principal.Anonymous} {
		_, err := svc.GetOrder(context.Background(), p, 4242)
		assert.ErrorIs(t, err, ErrNotFound)
	}
	_, err := svc.GetOrderByID(context.Background(), 4242)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListOrdersForUser(t *testing.T) {
	svc, _, _ := newOrderFixture(t)
	ctx := context.Background()
	createFor(t, svc, user10)
	createFor(t, svc, user10)
	createFor(t, svc, user20)

	mine, err := svc.ListOrdersForUser(ctx, user10, 10)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	_, err = svc.ListOrdersForUser(ctx, user10, 20)
	assert.ErrorIs(t, err, ErrAccessDenied)

	theirs, err := svc.ListOrdersForUser(ctx, admin, 20)
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
}

func TestUpdateStatus_ApproveWithComment(t *testing.T) {
	svc, r, pub := newOrderFixture(t)
	ctx := context.Background()
	o := createFor(t, svc, user10)

	got, err := svc.UpdateStatus(ctx, admin, o.ID, "APPROVED", "ok")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusApproved, got.Status)
	require.NotNil(t, got.AdminComments)
	assert.Equal(t, "ok", *got.AdminComments)

	stored, err := r.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusApproved, stored.Status)
	require.NotNil(t, stored.AdminComments)
	assert.Equal(t, "ok", *stored.AdminComments)

	assert.Equal(t, []events.Type{events.OrderCreated, events.OrderStatusChanged}, pub.types())
}

func TestUpdateStatus_CaseInsensitiveAndReassignable(t *testing.T) {
	svc, _, _ := newOrderFixture(t)
	ctx := context.Background()
	o := createFor(t, svc, user10)

	for _, s := range []string{"approved", "Rejected", " pending ", "APPROVED"} {
		got, err := svc.UpdateStatus(ctx, admin, o.ID, s, "")
		require.NoError(t, err, s)
		assert.Equal(t, models.OrderStatus(strings.ToUpper(strings.TrimSpace(s))), got.Status, s)
	}
}

func TestUpdateStatus_BlankCommentKeepsExisting(t *testing.T) {
	svc, r, _ := newOrderFixture(t)
	ctx := context.Background()
	o := createFor(t, svc, user10)

	_, err := svc.UpdateStatus(ctx, admin, o.ID, "REJECTED", "out of stock")
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, admin, o.ID, "PENDING", "   ")
	require.NoError(t, err)

	stored, err := r.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, stored.Status)
	require.NotNil(t, stored.AdminComments)
	assert.Equal(t, "out of stock", *stored.AdminComments)
}

func TestUpdateStatus_InvalidStatusLeavesOrderUnchanged(t *testing.T) {
	svc, r, _ := newOrderFixture(t)
	ctx := context.Background()
	o := createFor(t, svc, user10)

	for _, s := range []string{"FLAGGED", "SHIPPED", "", "approve"} {
		_, err := svc.UpdateStatus(ctx, admin, o.ID, s, "note")
		assert.ErrorIs(t, err, ErrValidation, s)
	}

	stored, err := r.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, stored.Status)
	assert.Nil(t, stored.AdminComments)
}

func TestUpdateStatus_Errors(t *testing.T) {
	svc, _, _ := newOrderFixture(t)
	ctx := context.Background()
	o := createFor(t, svc, user10)

	_, err := svc.UpdateStatus(ctx, user10, o.ID, "APPROVED", "")
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.UpdateStatus(ctx, admin, 4242, "APPROVED", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteOrder_OtherUserDeniedAndOrderRemains(t *testing.T) {
	svc, r, _ := newOrderFixture(t)
	ctx := context.Background()
	o := createFor(t, svc, user20)

	err := svc.DeleteOrder(ctx, user10, o.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = r.GetOrder(ctx, o.ID)
	assert.NoError(t, err)
}

func TestDeleteOrder_MissingIsAlwaysNotFound(t *testing.T) {
	svc, _, _ := newOrderFixture(t)

	for _, p := range []principal.Principal{user10, admin, principal.Anonymous} {
		err := svc.DeleteOrder(context.Background(), p, 4242)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NotErrorIs(t, err, ErrAccessDenied)
	}
}

func TestDeleteOrder_OwnerAndAdmin(t *testing.T) {
	svc, r, pub := newOrderFixture(t)
	ctx := context.Background()
	mine := createFor(t, svc, user10)
	theirs := createFor(t, svc, user20)

	require.NoError(t, svc.DeleteOrder(ctx, user10, mine.ID))
	require.NoError(t, svc.DeleteOrder(ctx, admin, theirs.ID))

	all, err := r.ListOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	var items int64
	require.NoError(t, r.DB.Model(&models.OrderItem{}).Count(&items).Error)
	assert.Zero(t, items)

	assert.Contains(t, pub.types(), events.OrderDeleted)
}

func TestGetHistory(t *testing.T) {
	svc, _, _ := newOrderFixture(t)
	ctx := context.Background()
	createFor(t, svc, user10)
	createFor(t, svc, user20)
	createFor(t, svc, user20)

	all, err := svc.GetHistory(ctx, admin, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	twenty := int64(20)
	ten := int64(10)

	theirs, err := svc.GetHistory(ctx, admin, &twenty)
	require.NoError(t, err)
	assert.Len(t, theirs, 2)

	mine, err := svc.GetHistory(ctx, user10, &ten)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = svc.GetHistory(ctx, user10, &twenty)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetHistory(ctx, user10, nil)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestPublishFailureDoesNotFailOperation(t *testing.T) {
	svc, _, pub := newOrderFixture(t)
	pub.err = errStore

	o := createFor(t, svc, user10)
	_, err := svc.UpdateStatus(context.Background(), admin, o.ID, "APPROVED", "")
	require.NoError(t, err)
	require.NoError(t, svc.DeleteOrder(context.Background(), admin, o.ID))
	assert.Len(t, pub.types(), 3)
}

type failingProducts struct{}

func (failingProducts) ExistingProductIDs(context.Context, []int64) (map[int64]bool, error) {
	return nil, errStore
}

func TestCreateOrder_StoreFailureIsNotValidation(t *testing.T) {
	r := newTestRepo(t)
	svc := NewOrderService(r, failingProducts{}, nil)

	_, err := svc.CreateOrder(context.Background(), user10, transport.CreateOrderRequest{
		Items: []transport.OrderItemRequest{item(1, 1, 1)},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errStore)
	assert.NotErrorIs(t, err, ErrValidation)
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("rejected")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusRejected, st)

	_, err = ParseStatus("FLAGGED")
	assert.ErrorIs(t, err, ErrValidation)
}
