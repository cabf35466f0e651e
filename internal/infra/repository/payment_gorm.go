package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type PaymentGormRepository struct {
	db *gorm.DB
}

// DI
func NewPaymentGormRepository(db *gorm.DB) *PaymentGormRepository {
	return &PaymentGormRepository{db: db}
}

func (r *PaymentGormRepository) Create(ctx context.Context, p model.Payment) (model.Payment, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Payment{}, err
	}
	return p, nil
}

func (r *PaymentGormRepository) FindByMerchantOrderNo(ctx context.Context, merchantOrderNo string) (model.Payment, error) {
	var p model.Payment

	err := r.db.WithContext(ctx).
		Where("merchant_order_no = ?", merchantOrderNo).
		First(&p).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Payment{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Payment{}, err
	}
	return p, nil
}

// PENDINGの行だけをPAIDへ。二重notifyは2回目がErrNotFoundになる。
func (r *PaymentGormRepository) MarkPaid(ctx context.Context, merchantOrderNo string, tradeNo string, paymentType string, paidAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("merchant_order_no = ? AND status = ?", merchantOrderNo, model.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":       model.PaymentStatusPaid,
			"trade_no":     tradeNo,
			"payment_type": paymentType,
			"paid_at":      paidAt,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *PaymentGormRepository) MarkFailed(ctx context.Context, merchantOrderNo string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("merchant_order_no = ? AND status = ?", merchantOrderNo, model.PaymentStatusPending).
		Update("status", model.PaymentStatusFailed)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
