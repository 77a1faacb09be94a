package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/inventory_system/internal/models"
	"github.com/Skotchmaster/inventory_system/internal/policy"
	"github.com/Skotchmaster/inventory_system/internal/repo"
	"github.com/Skotchmaster/inventory_system/internal/transport"
	"github.com/Skotchmaster/inventory_system/pkg/logging"
	"github.com/Skotchmaster/inventory_system/pkg/principal"
)

type ProductStore interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error)
	SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	SaveProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	SupplierExists(ctx context.Context, id int64) (bool, error)
}

type ProductIndex interface {
	Enabled() bool
	IndexProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error)
}

type ProductService struct {
	Store ProductStore
	Index ProductIndex
}

func NewProductService(store ProductStore, index ProductIndex) *ProductService {
	return &ProductService{Store: store, Index: index}
}

func (svc *ProductService) Get(ctx context.Context, p principal.Principal, id int64) (*models.Product, error) {
	if !policy.CanReadCatalog(p) {
		return nil, ErrAccessDenied
	}
	prod, err := svc.Store.GetProduct(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "product", id)
	}
	return prod, nil
}

func (svc *ProductService) List(ctx context.Context, p principal.Principal, offset, limit int) (int64, []models.Product, error) {
	if !policy.CanReadCatalog(p) {
		return 0, nil, ErrAccessDenied
	}
	total, items, err := svc.Store.ListProducts(ctx, offset, limit)
	if err != nil {
		return 0, nil, fmt.Errorf("list products: %w", err)
	}
	return total, items, nil
}

// Search queries the index when one is configured and the database
// otherwise.
func (svc *ProductService) Search(ctx context.Context, p principal.Principal, q string, offset, limit int) (int64, []models.Product, error) {
	if !policy.CanReadCatalog(p) {
		return 0, nil, ErrAccessDenied
	}
	if strings.TrimSpace(q) == "" {
		return 0, nil, fmt.Errorf("%w: query required", ErrValidation)
	}

	if svc.Index != nil && svc.Index.Enabled() {
		total, items, err := svc.Index.Search(ctx, q, offset, limit)
		if err != nil {
			return 0, nil, fmt.Errorf("search products: %w", err)
		}
		return total, items, nil
	}

	total, items, err := svc.Store.SearchProducts(ctx, q, offset, limit)
	if err != nil {
		return 0, nil, fmt.Errorf("search products: %w", err)
	}
	return total, items, nil
}

func (svc *ProductService) Create(ctx context.Context, p principal.Principal, req transport.ProductRequest) (*models.Product, error) {
	if !policy.CanManageCatalog(p) {
		return nil, ErrAccessDenied
	}
	prod := &models.Product{}
	if err := svc.apply(ctx, prod, req); err != nil {
		return nil, err
	}
	if err := svc.Store.CreateProduct(ctx, prod); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	svc.mirror(ctx, *prod)
	return prod, nil
}

func (svc *ProductService) Update(ctx context.Context, p principal.Principal, id int64, req transport.ProductRequest) (*models.Product, error) {
	if !policy.CanManageCatalog(p) {
		return nil, ErrAccessDenied
	}
	prod, err := svc.Store.GetProduct(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "product", id)
	}
	if err := svc.apply(ctx, prod, req); err != nil {
		return nil, err
	}
	if err := svc.Store.SaveProduct(ctx, prod); err != nil {
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}
	svc.mirror(ctx, *prod)
	return prod, nil
}

func (svc *ProductService) Delete(ctx context.Context, p principal.Principal, id int64) error {
	if !policy.CanManageCatalog(p) {
		return ErrAccessDenied
	}
	if err := svc.Store.DeleteProduct(ctx, id); err != nil {
		return notFoundOr(err, "product", id)
	}
	if svc.Index != nil {
		if err := svc.Index.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_index_error", "product_id", id, "error", err)
		}
	}
	return nil
}

func (svc *ProductService) apply(ctx context.Context, prod *models.Product, req transport.ProductRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name required", ErrValidation)
	}
	if req.Price == nil || *req.Price < 0 {
		return fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}
	moq := 1
	if req.MinimumOrderQuantity != nil {
		moq = *req.MinimumOrderQuantity
	}
	if moq < 1 {
		return fmt.Errorf("%w: minimumOrderQuantity must be >= 1", ErrValidation)
	}
	if req.SupplierID == nil {
		return fmt.Errorf("%w: supplierId required", ErrValidation)
	}
	ok, err := svc.Store.SupplierExists(ctx, *req.SupplierID)
	if err != nil {
		return fmt.Errorf("check supplier: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: supplier %d does not exist", ErrValidation, *req.SupplierID)
	}

	prod.Name = req.Name
	prod.Price = *req.Price
	prod.MinimumOrderQuantity = moq
	prod.SupplierID = *req.SupplierID
	return nil
}

func (svc *ProductService) mirror(ctx context.Context, prod models.Product) {
	if svc.Index == nil {
		return
	}
	if err := svc.Index.IndexProduct(ctx, prod); err != nil {
		logging.FromContext(ctx).Warn("search_index_error", "product_id", prod.ID, "error", err)
	}
}

type SupplierStore interface {
	GetSupplier(ctx context.Context, id int64) (*models.Supplier, error)
	ListSuppliers(ctx context.Context) ([]models.Supplier, error)
	CreateSupplier(ctx context.Context, s *models.Supplier) error
	SaveSupplier(ctx context.Context, s *models.Supplier) error
	DeleteSupplier(ctx context.Context, id int64) error
	CountProductsBySupplier(ctx context.Context, supplierID int64) (int64, error)
}

type SupplierService struct {
	Store SupplierStore
}

func NewSupplierService(store SupplierStore) *SupplierService {
	return &SupplierService{Store: store}
}

func (svc *SupplierService) Get(ctx context.Context, p principal.Principal, id int64) (*models.Supplier, error) {
	if !policy.CanReadCatalog(p) {
		return nil, ErrAccessDenied
	}
	s, err := svc.Store.GetSupplier(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "supplier", id)
	}
	return s, nil
}

func (svc *SupplierService) List(ctx context.Context, p principal.Principal) ([]models.Supplier, error) {
	if !policy.CanReadCatalog(p) {
		return nil, ErrAccessDenied
	}
	out, err := svc.Store.ListSuppliers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	return out, nil
}

func (svc *SupplierService) Create(ctx context.Context, p principal.Principal, req transport.SupplierRequest) (*models.Supplier, error) {
	if !policy.CanManageCatalog(p) {
		return nil, ErrAccessDenied
	}
	s := &models.Supplier{}
	if err := applySupplier(s, req); err != nil {
		return nil, err
	}
	if err := svc.Store.CreateSupplier(ctx, s); err != nil {
		return nil, fmt.Errorf("create supplier: %w", err)
	}
	return s, nil
}

func (svc *SupplierService) Update(ctx context.Context, p principal.Principal, id int64, req transport.SupplierRequest) (*models.Supplier, error) {
	if !policy.CanManageCatalog(p) {
		return nil, ErrAccessDenied
	}
	s, err := svc.Store.GetSupplier(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "supplier", id)
	}
	if err := applySupplier(s, req); err != nil {
		return nil, err
	}
	if err := svc.Store.SaveSupplier(ctx, s); err != nil {
		return nil, fmt.Errorf("update supplier %d: %w", id, err)
	}
	return s, nil
}

// Delete refuses while products still reference the supplier.
func (svc *SupplierService) Delete(ctx context.Context, p principal.Principal, id int64) error {
	if !policy.CanManageCatalog(p) {
		return ErrAccessDenied
	}
	n, err := svc.Store.CountProductsBySupplier(ctx, id)
	if err != nil {
		return fmt.Errorf("count products of supplier %d: %w", id, err)
	}
	if n > 0 {
		return fmt.Errorf("%w: supplier %d still has %d products", ErrConflict, id, n)
	}
	if err := svc.Store.DeleteSupplier(ctx, id); err != nil {
		return notFoundOr(err, "supplier", id)
	}
	return nil
}

func applySupplier(s *models.Supplier, req transport.SupplierRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name required", ErrValidation)
	}
	if strings.TrimSpace(req.Category) == "" {
		return fmt.Errorf("%w: category required", ErrValidation)
	}
	s.Name = req.Name
	s.Category = req.Category
	s.ContactInfo = req.ContactInfo
	s.Status = strings.ToUpper(strings.TrimSpace(req.Status))
	if s.Status == "" {
		s.Status = "ACTIVE"
	}
	return nil
}

func notFoundOr(err error, what string, id int64) error {
	if repo.IsNotFound(err) {
		return fmt.Errorf("%w: %s %d", ErrNotFound, what, id)
	}
	return fmt.Errorf("%s %d: %w", what, id, err)
}
