package repository

import (
	"context"

	"app/internal/domain/model"
)

// カート本体と明細の永続化。
// マージや金額の計算はusecase側で行い、ここは保存だけを約束する。
type CartRepository interface {
	FindByUserID(ctx context.Context, userID int64) (model.Cart, error)
	// 無ければ作る（初回追加時のlazy生成）
	GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error)

	ListItems(ctx context.Context, cartID int64) ([]model.CartItem, error)
	CreateItem(ctx context.Context, item model.CartItem) (model.CartItem, error)
	// quantity / unit_price_snapshot / price を更新
	UpdateItem(ctx context.Context, item model.CartItem) error
	DeleteItem(ctx context.Context, cartID int64, productID int64, formatID int64) error
	DeleteAllItems(ctx context.Context, cartID int64) error

	UpdateTotalPrice(ctx context.Context, cartID int64, total int64) error
}
