package repo

import (
	"context"

	"github.com/Skotchmaster/inventory_system/internal/models"
	"gorm.io/gorm"
)

func (r *GormRepo) GetSupplier(ctx context.Context, id int64) (*models.Supplier, error) {
	var s models.Supplier
	if err := r.DB.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormRepo) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	var out []models.Supplier
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) SupplierExists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Supplier{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) CreateSupplier(ctx context.Context, s *models.Supplier) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

func (r *GormRepo) SaveSupplier(ctx context.Context, s *models.Supplier) error {
	return r.DB.WithContext(ctx).Save(s).Error
}

func (r *GormRepo) DeleteSupplier(ctx context.Context, id int64) error {
	res := r.DB.WithContext(ctx).Delete(&models.Supplier{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) CountProductsBySupplier(ctx context.Context, supplierID int64) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Product{}).Where("supplier_id = ?", supplierID).Count(&count).Error
	return count, err
}
