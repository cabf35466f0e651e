package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 棚上げ中の商品をカテゴリで一覧
func (r *ProductGormRepository) ListOnshelfByCategory(ctx context.Context, category string) ([]model.Product, error) {
	var products []model.Product

	err := r.db.WithContext(ctx).
		Preload("Formats", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Reviews").
		Joins("Seller").
		Where("products.category = ? AND products.is_onshelf = ?", category, true).
		Order("products.id asc").
		Find(&products).Error
	if err != nil {
		return []model.Product{}, err
	}

	return products, nil
}

// 賣家の棚上げ中の商品一覧と総件数
func (r *ProductGormRepository) ListOnshelfBySeller(ctx context.Context, sellerID int64) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	base := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("products.seller_id = ? AND products.is_onshelf = ?", sellerID, true)

	if err := base.Count(&total).Error; err != nil {
		return []model.Product{}, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("Formats", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Reviews").
		Joins("Seller").
		Where("products.seller_id = ? AND products.is_onshelf = ?", sellerID, true).
		Order("products.id asc").
		Find(&products).Error
	if err != nil {
		return []model.Product{}, 0, err
	}

	return products, total, nil
}

// IDで商品を取得（規格・レビュー・賣家込み）
func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product

	err := r.db.WithContext(ctx).
		Preload("Formats", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Reviews").
		Joins("Seller").
		First(&p, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}
