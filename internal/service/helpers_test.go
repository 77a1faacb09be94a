package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/inventory_system/internal/events"
	"github.com/Skotchmaster/inventory_system/internal/models"
	"github.com/Skotchmaster/inventory_system/internal/repo"
	"github.com/Skotchmaster/inventory_system/internal/transport"
	pkgdb "github.com/Skotchmaster/inventory_system/pkg/db"
	"github.com/Skotchmaster/inventory_system/pkg/principal"
)

var (
	user10 = principal.Principal{Username: "alice", Role: principal.RoleUser, UserID: 10}
	user20 = principal.Principal{Username: "bob", Role: principal.RoleUser, UserID: 20}
	admin  = principal.Principal{Username: "root", Role: principal.RoleAdmin, UserID: 1}
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	ctx := context.Background()
	gdb, err := pkgdb.Open(ctx, "sqlite", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = pkgdb.Close(gdb) })

	r := repo.New(gdb)
	require.NoError(t, r.Migrate(ctx))
	return r
}

// seedProduct inserts a supplier and a product with the given id.
func seedProduct(t *testing.T, r *repo.GormRepo, id int64) {
	t.Helper()

	ctx := context.Background()
	s := models.Supplier{Name: "Acme", Category: "tools", Status: "ACTIVE"}
	require.NoError(t, r.CreateSupplier(ctx, &s))
	require.NoError(t, r.CreateProduct(ctx, &models.Product{ID: id, Name: "widget", Price: 10.5, MinimumOrderQuantity: 1, SupplierID: s.ID}))
}

func newOrderFixture(t *testing.T) (*OrderService, *repo.GormRepo, *recordingPublisher) {
	t.Helper()

	r := newTestRepo(t)
	seedProduct(t, r, 1)
	pub := &recordingPublisher{}
	return NewOrderService(r, r, pub), r, pub
}

func ptr[T any](v T) *T { return &v }

func item(productID int64, qty int, price float64) transport.OrderItemRequest {
	return transport.OrderItemRequest{ProductID: ptr(productID), Quantity: ptr(qty), Price: ptr(price)}
}

var errStore = errors.New("store down")
