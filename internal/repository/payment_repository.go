package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

type PaymentRepository interface {
	Create(ctx context.Context, p model.Payment) (model.Payment, error)
	FindByMerchantOrderNo(ctx context.Context, merchantOrderNo string) (model.Payment, error)
	// 支払い完了。PENDINGの行だけを対象にする（notifyの二重配送対策）。
	MarkPaid(ctx context.Context, merchantOrderNo string, tradeNo string, paymentType string, paidAt time.Time) error
	MarkFailed(ctx context.Context, merchantOrderNo string) error
}
