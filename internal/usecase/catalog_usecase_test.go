package usecase

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"app/internal/cache"
	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

type CatalogProductRepoMock struct{ mock.Mock }

func (m *CatalogProductRepoMock) ListOnshelfByCategory(ctx context.Context, category string) ([]model.Product, error) {
	args := m.Called(ctx, category)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *CatalogProductRepoMock) ListOnshelfBySeller(ctx context.Context, sellerID int64) ([]model.Product, int64, error) {
	args := m.Called(ctx, sellerID)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *CatalogProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

type CatalogSellerRepoMock struct{ mock.Mock }

func (m *CatalogSellerRepoMock) ListAll(ctx context.Context) ([]model.Seller, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Seller)
	return items, args.Error(1)
}

func (m *CatalogSellerRepoMock) FindByID(ctx context.Context, id int64) (model.Seller, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(model.Seller)
	return s, args.Error(1)
}

func (m *CatalogSellerRepoMock) ListActivities(ctx context.Context, sellerID int64) ([]model.Activity, error) {
	args := m.Called(ctx, sellerID)
	items, _ := args.Get(0).([]model.Activity)
	return items, args.Error(1)
}

type CatalogUserRepoMock struct{ mock.Mock }

func (m *CatalogUserRepoMock) Create(ctx context.Context, u model.User) (model.User, error) {
	panic("not used in CatalogUsecase tests")
}

func (m *CatalogUserRepoMock) FindByID(ctx context.Context, id int64) (model.User, error) {
	panic("not used in CatalogUsecase tests")
}

func (m *CatalogUserRepoMock) FindByEmail(ctx context.Context, email string) (model.User, error) {
	panic("not used in CatalogUsecase tests")
}

func (m *CatalogUserRepoMock) CountCollectors(ctx context.Context, productID int64) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

type MapCache struct {
	mu sync.Mutex
	m  map[string][]byte
}

func NewMapCache() *MapCache {
	return &MapCache{m: make(map[string][]byte)}
}

func (c *MapCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return v, nil
}

func (c *MapCache) Set(ctx context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
	return nil
}

func (c *MapCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, key)
	return nil
}

// =====================
// 整形ヘルパー
// =====================

func TestAverageRating_NoReviews(t *testing.T) {
	assert.Equal(t, float64(0), averageRating(nil))
}

func TestAverageRating_Mean(t *testing.T) {
	reviews := []model.Review{{Star: 3}, {Star: 5}}
	assert.Equal(t, float64(4), averageRating(reviews))
}

func TestDiscountLabels_NoTags(t *testing.T) {
	assert.Nil(t, discountLabels(nil))
	assert.Nil(t, discountLabels([]int64{7}))
}

func TestDiscountLabels_FixedOrder(t *testing.T) {
	// タグの並びに関係なくラベル順は固定
	labels := discountLabels([]int64{model.TagDiscount, model.TagFreeShipping})
	assert.Equal(t, []string{LabelFreeShipping, LabelDiscount}, labels)
}

func TestDiscountLabels_Single(t *testing.T) {
	assert.Equal(t, []string{LabelDiscount}, discountLabels([]int64{model.TagDiscount}))
}

func TestTotalStock(t *testing.T) {
	formats := []model.ProductFormat{{Stock: 3}, {Stock: 7}}
	assert.Equal(t, int64(10), totalStock(formats))
	assert.Equal(t, int64(0), totalStock(nil))
}

func TestHeadlinePrice(t *testing.T) {
	formats := []model.ProductFormat{{Price: 120}, {Price: 80}}
	assert.Equal(t, int64(120), headlinePrice(formats))
	assert.Equal(t, int64(0), headlinePrice(nil))
}

func TestPaymentLabel(t *testing.T) {
	assert.Equal(t, LabelPayCreditCard, paymentLabel([]int64{2, 1}))
	assert.Equal(t, LabelPayOther, paymentLabel([]int64{2, 3}))
	assert.Equal(t, LabelPayOther, paymentLabel(nil))
}

// =====================
// ListByCategory
// =====================

func TestCatalogUsecase_ListByCategory_Empty(t *testing.T) {
	pRepo := new(CatalogProductRepoMock)
	pRepo.On("ListOnshelfByCategory", mock.Anything, "tea").Return([]model.Product{}, nil)

	uc := NewCatalogUsecase(pRepo, new(CatalogSellerRepoMock), new(CatalogUserRepoMock), nil)

	_, err := uc.ListByCategory(context.Background(), "tea")

	httpErr, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
}

func TestCatalogUsecase_ListByCategory_Success(t *testing.T) {
	products := []model.Product{
		{
			ID:     1,
			Name:   "oolong",
			Images: []string{"a.jpg", "b.jpg"},
			Seller: model.Seller{BossName: "boss"},
			Sold:   12,
			Tags:   []int64{model.TagFreeShipping},
			Formats: []model.ProductFormat{
				{Price: 150, Stock: 5},
				{Price: 200, Stock: 5},
			},
			Reviews: []model.Review{{Star: 4}, {Star: 5}},
		},
	}
	pRepo := new(CatalogProductRepoMock)
	pRepo.On("ListOnshelfByCategory", mock.Anything, "tea").Return(products, nil)

	uc := NewCatalogUsecase(pRepo, new(CatalogSellerRepoMock), new(CatalogUserRepoMock), nil)

	out, err := uc.ListByCategory(context.Background(), "tea")
	assert.NoError(t, err)
	assert.Equal(t, 1, len(out))
	assert.Equal(t, int64(1), out[0].ProductsID)
	assert.Equal(t, "a.jpg", out[0].ProductsImages)
	assert.Equal(t, "boss", out[0].SellerName)
	assert.Equal(t, int64(150), out[0].Price)
	assert.Equal(t, []string{LabelFreeShipping}, out[0].Discount)
	assert.Equal(t, 4.5, out[0].Star)
}

// =====================
// GetProductDetail
// =====================

func TestCatalogUsecase_GetProductDetail_NotFound(t *testing.T) {
	pRepo := new(CatalogProductRepoMock)
	pRepo.On("FindByID", mock.Anything, int64(99)).Return(model.Product{}, repo.ErrNotFound)

	uc := NewCatalogUsecase(pRepo, new(CatalogSellerRepoMock), new(CatalogUserRepoMock), nil)

	_, err := uc.GetProductDetail(context.Background(), 99)

	httpErr, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
}

func TestCatalogUsecase_GetProductDetail_Shapes(t *testing.T) {
	p := model.Product{
		ID:           1,
		Name:         "oolong",
		Images:       []string{"a.jpg"},
		Introduction: "intro",
		Ingredient:   "leaf",
		Production:   "hand",
		Origin:       "tw",
		Fare:         60,
		Pay:          []int64{model.PayMethodCreditCard, model.PayMethodATM},
		Tags:         []int64{model.TagDiscount},
		Sold:         9,
		Formats: []model.ProductFormat{
			{Price: 150, Stock: 3},
			{Price: 200, Stock: 4},
		},
		Reviews: []model.Review{{Star: 5}},
	}
	pRepo := new(CatalogProductRepoMock)
	pRepo.On("FindByID", mock.Anything, int64(1)).Return(p, nil)

	uRepo := new(CatalogUserRepoMock)
	uRepo.On("CountCollectors", mock.Anything, int64(1)).Return(int64(7), nil)

	uc := NewCatalogUsecase(pRepo, new(CatalogSellerRepoMock), uRepo, nil)

	out, err := uc.GetProductDetail(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, LabelPayCreditCard, out.Payment)
	assert.Equal(t, int64(60), out.Freight)
	assert.Equal(t, int64(7), out.Stock)
	assert.Equal(t, int64(150), out.Price)
	assert.Equal(t, []string{LabelDiscount}, out.Discount)
	assert.Equal(t, float64(5), out.Star)
	assert.Equal(t, int64(7), out.TotalCollect)
}

// 2回目はキャッシュから返し、DBへは行かない
func TestCatalogUsecase_GetProductDetail_CacheHit(t *testing.T) {
	p := model.Product{
		ID:      1,
		Name:    "oolong",
		Formats: []model.ProductFormat{{Price: 150, Stock: 3}},
	}
	pRepo := new(CatalogProductRepoMock)
	pRepo.On("FindByID", mock.Anything, int64(1)).Return(p, nil).Once()

	uRepo := new(CatalogUserRepoMock)
	uRepo.On("CountCollectors", mock.Anything, int64(1)).Return(int64(0), nil).Once()

	uc := NewCatalogUsecase(pRepo, new(CatalogSellerRepoMock), uRepo, NewMapCache())
	ctx := context.Background()

	first, err := uc.GetProductDetail(ctx, 1)
	assert.NoError(t, err)

	second, err := uc.GetProductDetail(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, first, second)

	pRepo.AssertExpectations(t)
}

// =====================
// Seller
// =====================

func TestCatalogUsecase_GetSellerDetail_NotFound(t *testing.T) {
	sRepo := new(CatalogSellerRepoMock)
	sRepo.On("FindByID", mock.Anything, int64(9)).Return(model.Seller{}, repo.ErrNotFound)

	uc := NewCatalogUsecase(new(CatalogProductRepoMock), sRepo, new(CatalogUserRepoMock), nil)

	_, err := uc.GetSellerDetail(context.Background(), 9)

	httpErr, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
}

func TestCatalogUsecase_GetSellerDetail_Success(t *testing.T) {
	sRepo := new(CatalogSellerRepoMock)
	sRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Seller{
		ID:           1,
		Brand:        "brand",
		BossName:     "boss",
		Avatar:       "s.jpg",
		Introduction: "info",
	}, nil)
	sRepo.On("ListActivities", mock.Anything, int64(1)).Return([]model.Activity{
		{ID: 5, SellerID: 1, Image: "act.jpg"},
	}, nil)

	uc := NewCatalogUsecase(new(CatalogProductRepoMock), sRepo, new(CatalogUserRepoMock), nil)

	out, err := uc.GetSellerDetail(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, "brand", out.SellerName)
	assert.Equal(t, "s.jpg", out.SellerImage)
	assert.Equal(t, 1, len(out.Activities))
	assert.Equal(t, int64(5), out.Activities[0].ActivityID)
}

// 賣家の商品一覧はブランド名で出す
func TestCatalogUsecase_ListSellerProducts_UsesBrandName(t *testing.T) {
	products := []model.Product{
		{
			ID:      1,
			Name:    "oolong",
			Seller:  model.Seller{Brand: "brand", BossName: "boss"},
			Formats: []model.ProductFormat{{Price: 100}},
		},
	}
	pRepo := new(CatalogProductRepoMock)
	pRepo.On("ListOnshelfBySeller", mock.Anything, int64(1)).Return(products, int64(1), nil)

	uc := NewCatalogUsecase(pRepo, new(CatalogSellerRepoMock), new(CatalogUserRepoMock), nil)

	out, total, err := uc.ListSellerProducts(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "brand", out[0].SellerName)
}

func TestCatalogUsecase_ListSellerProducts_Empty(t *testing.T) {
	pRepo := new(CatalogProductRepoMock)
	pRepo.On("ListOnshelfBySeller", mock.Anything, int64(1)).Return([]model.Product{}, int64(0), nil)

	uc := NewCatalogUsecase(pRepo, new(CatalogSellerRepoMock), new(CatalogUserRepoMock), nil)

	_, _, err := uc.ListSellerProducts(context.Background(), 1)

	httpErr, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
}
