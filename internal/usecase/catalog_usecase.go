package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"app/internal/cache"
	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 割引タグのラベル
const (
	LabelFreeShipping = "free-shipping voucher"
	LabelDiscount     = "discount voucher"
)

// 商品詳細のpaymentラベル
const (
	LabelPayCreditCard = "credit_card"
	LabelPayOther      = "other"
)

// CatalogUsecase は商品・賣家の公開読み取り（一覧/詳細の整形）です。
// カタログを書き換える操作は持ちません。
type CatalogUsecase struct {
	productRepo repo.ProductRepository
	sellerRepo  repo.SellerRepository
	userRepo    repo.UserRepository
	cache       cache.Cache // nilならキャッシュ無効
}

// DI
func NewCatalogUsecase(
	productRepo repo.ProductRepository,
	sellerRepo repo.SellerRepository,
	userRepo repo.UserRepository,
	c cache.Cache,
) *CatalogUsecase {
	return &CatalogUsecase{
		productRepo: productRepo,
		sellerRepo:  sellerRepo,
		userRepo:    userRepo,
		cache:       c,
	}
}

// 一覧用の商品サマリ
type ProductSummary struct {
	ProductsID     int64    `json:"products_id"`
	ProductsName   string   `json:"products_name"`
	ProductsImages string   `json:"products_images"`
	SellerName     string   `json:"seller_name"`
	Price          int64    `json:"price"`
	TotalSales     int64    `json:"total_sales"`
	Discount       []string `json:"discount"`
	Star           float64  `json:"star"`
}

// 商品詳細
type ProductDetail struct {
	ProductsID         int64    `json:"products_id"`
	ProductsName       string   `json:"products_name"`
	ProductsImages     []string `json:"products_images"`
	ProductsInfo       string   `json:"products_info"`
	ProductionMaterial string   `json:"production_material"`
	ProductionMethod   string   `json:"production_method"`
	ProductionCountry  string   `json:"production_country"`
	Payment            string   `json:"payment"`
	Freight            int64    `json:"freight"`
	Stock              int64    `json:"stock"`
	Price              int64    `json:"price"`
	TotalSales         int64    `json:"total_sales"`
	Discount           []string `json:"discount"`
	Star               float64  `json:"star"`
	TotalCollect       int64    `json:"total_collect"`
}

type ActivityOutput struct {
	ActivityID    int64  `json:"activity_id"`
	ActivityImage string `json:"activity_image"`
}

type SellerDetail struct {
	SellerID    int64            `json:"seller_id"`
	Activities  []ActivityOutput `json:"activities"`
	SellerImage string           `json:"seller_image"`
	SellerName  string           `json:"seller_name"`
	SellerInfo  string           `json:"seller_info"`
}

// ListByCategory はカテゴリ内の棚上げ中商品のサマリ一覧。
func (u *CatalogUsecase) ListByCategory(ctx context.Context, category string) ([]ProductSummary, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid category")
	}

	products, err := u.productRepo.ListOnshelfByCategory(ctx, category)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if len(products) == 0 {
		return nil, NewHTTPError(http.StatusNotFound, "no products found")
	}

	out := make([]ProductSummary, 0, len(products))
	for _, p := range products {
		out = append(out, summarize(p, p.Seller.BossName))
	}
	return out, nil
}

// GetProductDetail は単一商品の詳細。キャッシュがあればそれを返す。
func (u *CatalogUsecase) GetProductDetail(ctx context.Context, productID int64) (ProductDetail, error) {
	if productID <= 0 {
		return ProductDetail{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	key := detailCacheKey(productID)
	if u.cache != nil {
		if data, err := u.cache.Get(ctx, key); err == nil {
			var d ProductDetail
			if err := json.Unmarshal(data, &d); err == nil {
				return d, nil
			}
		}
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return ProductDetail{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return ProductDetail{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	totalCollect, err := u.userRepo.CountCollectors(ctx, productID)
	if err != nil {
		return ProductDetail{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	d := ProductDetail{
		ProductsID:         p.ID,
		ProductsName:       p.Name,
		ProductsImages:     p.Images,
		ProductsInfo:       p.Introduction,
		ProductionMaterial: p.Ingredient,
		ProductionMethod:   p.Production,
		ProductionCountry:  p.Origin,
		Payment:            paymentLabel(p.Pay),
		Freight:            p.Fare,
		Stock:              totalStock(p.Formats),
		Price:              headlinePrice(p.Formats),
		TotalSales:         p.Sold,
		Discount:           discountLabels(p.Tags),
		Star:               averageRating(p.Reviews),
		TotalCollect:       totalCollect,
	}

	if u.cache != nil {
		if data, err := json.Marshal(d); err == nil {
			// キャッシュ書き込みの失敗で詳細取得は落とさない
			_ = u.cache.Set(ctx, key, data)
		}
	}

	return d, nil
}

// ListSellers は全賣家。
func (u *CatalogUsecase) ListSellers(ctx context.Context) ([]model.Seller, error) {
	sellers, err := u.sellerRepo.ListAll(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return sellers, nil
}

// GetSellerDetail は賣家詳細（キャンペーン込み）。
func (u *CatalogUsecase) GetSellerDetail(ctx context.Context, sellerID int64) (SellerDetail, error) {
	if sellerID <= 0 {
		return SellerDetail{}, NewHTTPError(http.StatusBadRequest, "invalid seller id")
	}

	s, err := u.sellerRepo.FindByID(ctx, sellerID)
	if err == repo.ErrNotFound {
		return SellerDetail{}, NewHTTPError(http.StatusNotFound, "seller not found")
	}
	if err != nil {
		return SellerDetail{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	activities, err := u.sellerRepo.ListActivities(ctx, sellerID)
	if err != nil {
		return SellerDetail{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	acts := make([]ActivityOutput, 0, len(activities))
	for _, a := range activities {
		acts = append(acts, ActivityOutput{
			ActivityID:    a.ID,
			ActivityImage: a.Image,
		})
	}

	return SellerDetail{
		SellerID:    s.ID,
		Activities:  acts,
		SellerImage: s.Avatar,
		SellerName:  s.Brand,
		SellerInfo:  s.Introduction,
	}, nil
}

// ListSellerProducts は賣家の棚上げ中商品のサマリ一覧と総件数。
func (u *CatalogUsecase) ListSellerProducts(ctx context.Context, sellerID int64) ([]ProductSummary, int64, error) {
	if sellerID <= 0 {
		return nil, 0, NewHTTPError(http.StatusBadRequest, "invalid seller id")
	}

	products, total, err := u.productRepo.ListOnshelfBySeller(ctx, sellerID)
	if err != nil {
		return nil, 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if len(products) == 0 {
		return nil, 0, NewHTTPError(http.StatusNotFound, "no products found")
	}

	out := make([]ProductSummary, 0, len(products))
	for _, p := range products {
		// 賣家商品一覧はブランド名で表示する
		out = append(out, summarize(p, p.Seller.Brand))
	}
	return out, total, nil
}

func detailCacheKey(productID int64) string {
	return fmt.Sprintf("catalog:product:%d", productID)
}

func summarize(p model.Product, sellerName string) ProductSummary {
	image := ""
	if len(p.Images) > 0 {
		image = p.Images[0]
	}

	return ProductSummary{
		ProductsID:     p.ID,
		ProductsName:   p.Name,
		ProductsImages: image,
		SellerName:     sellerName,
		Price:          headlinePrice(p.Formats),
		TotalSales:     p.Sold,
		Discount:       discountLabels(p.Tags),
		Star:           averageRating(p.Reviews),
	}
}

// averageRating はレビューのstar平均。レビュー0件は0。
func averageRating(reviews []model.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}

	var total int64 = 0
	for _, r := range reviews {
		total += r.Star
	}
	return float64(total) / float64(len(reviews))
}

// discountLabels はタグコードをラベルへ。ラベル順は固定。
// 該当なしはnilを返し、「割引なし」と空リストを区別する。
func discountLabels(tags []int64) []string {
	var labels []string
	if containsTag(tags, model.TagFreeShipping) {
		labels = append(labels, LabelFreeShipping)
	}
	if containsTag(tags, model.TagDiscount) {
		labels = append(labels, LabelDiscount)
	}
	return labels
}

func containsTag(tags []int64, tag int64) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// totalStock は全規格の在庫合計。
func totalStock(formats []model.ProductFormat) int64 {
	var total int64 = 0
	for _, f := range formats {
		total += f.Stock
	}
	return total
}

// headlinePrice は先頭規格の価格（位置規約）。規格なしは0。
func headlinePrice(formats []model.ProductFormat) int64 {
	if len(formats) == 0 {
		return 0
	}
	return formats[0].Price
}

func paymentLabel(pay []int64) string {
	for _, m := range pay {
		if m == model.PayMethodCreditCard {
			return LabelPayCreditCard
		}
	}
	return LabelPayOther
}
