package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type SellerGormRepository struct {
	db *gorm.DB
}

// DI
func NewSellerGormRepository(db *gorm.DB) *SellerGormRepository {
	return &SellerGormRepository{db: db}
}

func (r *SellerGormRepository) ListAll(ctx context.Context) ([]model.Seller, error) {
	var sellers []model.Seller

	if err := r.db.WithContext(ctx).Order("id asc").Find(&sellers).Error; err != nil {
		return []model.Seller{}, err
	}
	return sellers, nil
}

func (r *SellerGormRepository) FindByID(ctx context.Context, id int64) (model.Seller, error) {
	var s model.Seller

	err := r.db.WithContext(ctx).First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Seller{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Seller{}, err
	}
	return s, nil
}

func (r *SellerGormRepository) ListActivities(ctx context.Context, sellerID int64) ([]model.Activity, error) {
	var activities []model.Activity

	if err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("id asc").
		Find(&activities).Error; err != nil {
		return []model.Activity{}, err
	}
	return activities, nil
}
