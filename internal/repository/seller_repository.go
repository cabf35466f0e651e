package repository

import (
	"context"

	"app/internal/domain/model"
)

type SellerRepository interface {
	ListAll(ctx context.Context) ([]model.Seller, error)
	FindByID(ctx context.Context, id int64) (model.Seller, error)
	// 賣家のキャンペーン一覧
	ListActivities(ctx context.Context, sellerID int64) ([]model.Activity, error)
}
