package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 商品の読み取りだけを約束。カタログは本サービスからは書き換えない。
type ProductRepository interface {
	// 棚上げ中の商品をカテゴリで一覧（Seller/Formats/Reviews込み）
	ListOnshelfByCategory(ctx context.Context, category string) ([]model.Product, error)
	// 賣家の棚上げ中の商品一覧と総件数
	ListOnshelfBySeller(ctx context.Context, sellerID int64) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
}
