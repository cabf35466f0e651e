package usecase

import (
	"context"
	"net/http"
	"sync"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// CartUsecase は /cart の業務ロジックです。
// 明細のマージと金額の再計算はここで行い、Repositoryは保存だけを担当します。
type CartUsecase struct {
	cartRepo    repo.CartRepository
	productRepo repo.ProductRepository
	locks       *userLocks
}

// DI
func NewCartUsecase(
	cartRepo repo.CartRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		locks:       newUserLocks(),
	}
}

// カート更新はユーザー単位で直列化する。
// load→compute→save が同一ユーザーで交差しないようにするため。
type userLocks struct {
	mu sync.Mutex
	m  map[int64]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{m: make(map[int64]*sync.Mutex)}
}

func (l *userLocks) of(userID int64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	mu, ok := l.m[userID]
	if !ok {
		mu = &sync.Mutex{}
		l.m[userID] = mu
	}
	return mu
}

// 明細のレスポンス。商品の表示項目（名前・画像・運費・支払い方法）を解決して返す。
type CartItemResponse struct {
	ProductID   int64   `json:"product_id"`
	FormatID    int64   `json:"format_id"`
	ProductName string  `json:"product_name"`
	Image       string  `json:"image"`
	Quantity    int64   `json:"quantity"`
	UnitPrice   int64   `json:"unit_price"`
	Price       int64   `json:"price"`
	Fare        int64   `json:"fare"`
	Pay         []int64 `json:"pay"`
}

type CartResponse struct {
	Items      []CartItemResponse `json:"items"`
	TotalPrice int64              `json:"total_price"`
}

type AddItemInput struct {
	ProductID int64
	FormatID  int64
	Quantity  int64
}

type UpdateItemInput struct {
	Quantity int64
}

type SelectedItemInput struct {
	ProductID int64
	FormatID  int64
}

type SelectItemsOutput struct {
	SelectedItems []CartItemResponse
	PayMethods    []int64
	Fare          int64
	TotalPrice    int64
}

// AddItem はカートに追加。同じ (product, format) は数量加算で1明細に保つ。
// 追加のたびにその時点の規格価格をスナップショットし直す（price-lock方針）。
func (u *CartUsecase) AddItem(ctx context.Context, userID int64, in AddItemInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if in.FormatID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid format id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	//商品と規格を解決
	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	format := p.FindFormat(in.FormatID)
	if format == nil {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "format not found")
	}

	mu := u.locks.of(userID)
	mu.Lock()
	defer mu.Unlock()

	//カートは初回追加時に作る
	cart, err := u.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.cartRepo.ListItems(ctx, cart.ID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	merged := false
	for i := range items {
		if !items[i].Matches(in.ProductID, in.FormatID) {
			continue
		}

		items[i].Quantity += in.Quantity
		items[i].UnitPriceSnapshot = format.Price
		items[i].Price = items[i].Quantity * format.Price

		if err := u.cartRepo.UpdateItem(ctx, items[i]); err != nil {
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		merged = true
		break
	}

	if !merged {
		created, err := u.cartRepo.CreateItem(ctx, model.CartItem{
			CartID:            cart.ID,
			ProductID:         in.ProductID,
			FormatID:          in.FormatID,
			Quantity:          in.Quantity,
			UnitPriceSnapshot: format.Price,
			Price:             in.Quantity * format.Price,
		})
		if err != nil {
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		items = append(items, created)
	}

	total := sumItemPrices(items)
	if err := u.cartRepo.UpdateTotalPrice(ctx, cart.ID, total); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, items, total)
}

// GetCart はカート取得。無ければ404。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.cartRepo.FindByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "cart not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.cartRepo.ListItems(ctx, cart.ID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, items, cart.TotalPrice)
}

// SelectItems は部分決済用の選択。選択された明細から
// 共通支払い方法（{1,2,3}との積集合）・最大運費・合計金額を導出する。
func (u *CartUsecase) SelectItems(ctx context.Context, userID int64, selected []SelectedItemInput) (SelectItemsOutput, error) {
	if userID <= 0 {
		return SelectItemsOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if len(selected) == 0 {
		return SelectItemsOutput{}, NewHTTPError(http.StatusBadRequest, "invalid selected items")
	}
	for _, s := range selected {
		if s.ProductID <= 0 || s.FormatID <= 0 {
			return SelectItemsOutput{}, NewHTTPError(http.StatusBadRequest, "invalid selected items")
		}
	}

	cart, err := u.cartRepo.FindByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return SelectItemsOutput{}, NewHTTPError(http.StatusNotFound, "cart not found")
	}
	if err != nil {
		return SelectItemsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.cartRepo.ListItems(ctx, cart.ID)
	if err != nil {
		return SelectItemsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	type pair struct {
		productID int64
		formatID  int64
	}
	want := make(map[pair]struct{}, len(selected))
	for _, s := range selected {
		want[pair{s.ProductID, s.FormatID}] = struct{}{}
	}

	var filtered []model.CartItem
	for _, it := range items {
		if _, ok := want[pair{it.ProductID, it.FormatID}]; ok {
			filtered = append(filtered, it)
		}
	}

	if len(filtered) == 0 {
		return SelectItemsOutput{}, NewHTTPError(http.StatusBadRequest, "selected items not in cart")
	}

	payMethods := []int64{model.PayMethodCreditCard, model.PayMethodATM, model.PayMethodCVS}
	var maxFare int64 = 0
	var totalPrice int64 = 0
	respItems := make([]CartItemResponse, 0, len(filtered))

	for _, it := range filtered {
		p, err := u.productRepo.FindByID(ctx, it.ProductID)
		if err == repo.ErrNotFound {
			return SelectItemsOutput{}, NewHTTPError(http.StatusNotFound, "product not found")
		}
		if err != nil {
			return SelectItemsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// どれかの商品に無い支払い方法は候補から外す
		payMethods = intersectPay(payMethods, p.Pay)

		if p.Fare > maxFare {
			maxFare = p.Fare
		}

		totalPrice += it.Price * it.Quantity

		respItems = append(respItems, itemResponse(it, p))
	}

	return SelectItemsOutput{
		SelectedItems: respItems,
		PayMethods:    payMethods,
		Fare:          maxFare,
		TotalPrice:    totalPrice,
	}, nil
}

// UpdateItem は数量変更。priceは追加時のスナップショット価格から再計算する。
// 在庫との突き合わせはしない。
func (u *CartUsecase) UpdateItem(ctx context.Context, userID int64, productID int64, formatID int64, in UpdateItemInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 || formatID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	mu := u.locks.of(userID)
	mu.Lock()
	defer mu.Unlock()

	cart, err := u.cartRepo.FindByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "cart not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.cartRepo.ListItems(ctx, cart.ID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	found := false
	for i := range items {
		if !items[i].Matches(productID, formatID) {
			continue
		}

		items[i].Quantity = in.Quantity
		items[i].Price = in.Quantity * items[i].UnitPriceSnapshot

		if err := u.cartRepo.UpdateItem(ctx, items[i]); err != nil {
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		found = true
		break
	}

	if !found {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "cart item not found")
	}

	total := sumItemPrices(items)
	if err := u.cartRepo.UpdateTotalPrice(ctx, cart.ID, total); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, items, total)
}

// RemoveItem は明細削除。
func (u *CartUsecase) RemoveItem(ctx context.Context, userID int64, productID int64, formatID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 || formatID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	mu := u.locks.of(userID)
	mu.Lock()
	defer mu.Unlock()

	cart, err := u.cartRepo.FindByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "cart not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	err = u.cartRepo.DeleteItem(ctx, cart.ID, productID, formatID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "cart item not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.cartRepo.ListItems(ctx, cart.ID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	total := sumItemPrices(items)
	if err := u.cartRepo.UpdateTotalPrice(ctx, cart.ID, total); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, items, total)
}

// ClearCart は全明細を空にして合計を0に戻す。カートのレコードは残す。
func (u *CartUsecase) ClearCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	mu := u.locks.of(userID)
	mu.Lock()
	defer mu.Unlock()

	cart, err := u.cartRepo.FindByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "cart not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.cartRepo.DeleteAllItems(ctx, cart.ID); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if err := u.cartRepo.UpdateTotalPrice(ctx, cart.ID, 0); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return CartResponse{Items: []CartItemResponse{}, TotalPrice: 0}, nil
}

// 明細をまとめてCartResponseを作る。商品が消えている明細は表示から外す。
func (u *CartUsecase) buildCartResponse(ctx context.Context, items []model.CartItem, total int64) (CartResponse, error) {
	respItems := make([]CartItemResponse, 0, len(items))

	for _, it := range items {
		p, err := u.productRepo.FindByID(ctx, it.ProductID)
		if err != nil {
			continue
		}

		respItems = append(respItems, itemResponse(it, p))
	}

	return CartResponse{Items: respItems, TotalPrice: total}, nil
}

func itemResponse(it model.CartItem, p model.Product) CartItemResponse {
	image := ""
	if len(p.Images) > 0 {
		image = p.Images[0]
	}

	return CartItemResponse{
		ProductID:   it.ProductID,
		FormatID:    it.FormatID,
		ProductName: p.Name,
		Image:       image,
		Quantity:    it.Quantity,
		UnitPrice:   it.UnitPriceSnapshot,
		Price:       it.Price,
		Fare:        p.Fare,
		Pay:         p.Pay,
	}
}

func sumItemPrices(items []model.CartItem) int64 {
	var total int64 = 0
	for _, it := range items {
		total += it.Price
	}
	return total
}

func intersectPay(methods []int64, pay []int64) []int64 {
	out := make([]int64, 0, len(methods))
	for _, m := range methods {
		for _, p := range pay {
			if m == p {
				out = append(out, m)
				break
			}
		}
	}
	return out
}
