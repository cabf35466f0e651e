package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

type PaymentRepoMock struct{ mock.Mock }

func (m *PaymentRepoMock) Create(ctx context.Context, p model.Payment) (model.Payment, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Payment)
	return created, args.Error(1)
}

func (m *PaymentRepoMock) FindByMerchantOrderNo(ctx context.Context, merchantOrderNo string) (model.Payment, error) {
	args := m.Called(ctx, merchantOrderNo)
	p, _ := args.Get(0).(model.Payment)
	return p, args.Error(1)
}

func (m *PaymentRepoMock) MarkPaid(ctx context.Context, merchantOrderNo string, tradeNo string, paymentType string, paidAt time.Time) error {
	args := m.Called(ctx, merchantOrderNo, tradeNo, paymentType, paidAt)
	return args.Error(0)
}

func (m *PaymentRepoMock) MarkFailed(ctx context.Context, merchantOrderNo string) error {
	args := m.Called(ctx, merchantOrderNo)
	return args.Error(0)
}

type PaymentUserRepoMock struct{ mock.Mock }

func (m *PaymentUserRepoMock) Create(ctx context.Context, u model.User) (model.User, error) {
	panic("not used in PaymentUsecase tests")
}

func (m *PaymentUserRepoMock) FindByID(ctx context.Context, id int64) (model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *PaymentUserRepoMock) FindByEmail(ctx context.Context, email string) (model.User, error) {
	panic("not used in PaymentUsecase tests")
}

func (m *PaymentUserRepoMock) CountCollectors(ctx context.Context, productID int64) (int64, error) {
	panic("not used in PaymentUsecase tests")
}

func paymentTestConfig() config.Config {
	return config.Config{
		MerchantID:    "MS000000001",
		HashKey:       "12345678901234567890123456789012",
		HashIV:        "1234567890123456",
		PayGatewayURL: "https://gateway.example/MPG/mpg_gateway",
		APIDomain:     "https://api.example",
		FEURL:         "https://shop.example",
	}
}

func encodeResult(t *testing.T, cfg config.Config, status string, orderNo string) string {
	t.Helper()

	payload := map[string]interface{}{
		"Status":  status,
		"Message": "ok",
		"Result": map[string]string{
			"MerchantOrderNo": orderNo,
			"TradeNo":         "TN123",
			"PaymentType":     "CREDIT",
			"PayTime":         "2026-01-02 10:20:30",
		},
	}
	b, err := json.Marshal(payload)
	assert.NoError(t, err)

	enc, err := encryptTradeInfo([]byte(cfg.HashKey), []byte(cfg.HashIV), string(b))
	assert.NoError(t, err)
	return enc
}

// =====================
// TradeInfo暗号
// =====================

func TestTradeInfo_EncryptDecryptRoundTrip(t *testing.T) {
	key := []byte("12345678901234567890123456789012")
	iv := []byte("1234567890123456")

	plain := "MerchantID=MS1&Amt=100&MerchantOrderNo=MO1"
	enc, err := encryptTradeInfo(key, iv, plain)
	assert.NoError(t, err)
	assert.NotEqual(t, plain, enc)

	dec, err := decryptTradeInfo(key, iv, enc)
	assert.NoError(t, err)
	assert.Equal(t, plain, dec)
}

func TestTradeSha_Deterministic(t *testing.T) {
	key := []byte("12345678901234567890123456789012")
	iv := []byte("1234567890123456")

	a := tradeSha(key, iv, "abc")
	b := tradeSha(key, iv, "abc")
	assert.Equal(t, a, b)
	assert.Equal(t, strings.ToUpper(a), a)
	assert.NotEqual(t, a, tradeSha(key, iv, "abd"))
}

func TestDecryptTradeInfo_RejectsGarbage(t *testing.T) {
	key := []byte("12345678901234567890123456789012")
	iv := []byte("1234567890123456")

	_, err := decryptTradeInfo(key, iv, "nothex")
	assert.Error(t, err)
}

// =====================
// CreatePayment
// =====================

func TestPaymentUsecase_CreatePayment_InvalidAmount(t *testing.T) {
	uc := NewPaymentUsecase(new(PaymentRepoMock), new(PaymentUserRepoMock), paymentTestConfig())

	_, err := uc.CreatePayment(context.Background(), 1, CreatePaymentInput{Amount: 0, ItemDesc: "tea"})

	httpErr, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
}

func TestPaymentUsecase_CreatePayment_Success(t *testing.T) {
	cfg := paymentTestConfig()

	uRepo := new(PaymentUserRepoMock)
	uRepo.On("FindByID", mock.Anything, int64(1)).Return(model.User{ID: 1, Email: "a@example.com", Name: "a"}, nil)

	pRepo := new(PaymentRepoMock)
	pRepo.On("Create", mock.Anything, mock.MatchedBy(func(p model.Payment) bool {
		return p.UserID == 1 &&
			p.Amount == 670 &&
			p.Status == model.PaymentStatusPending &&
			strings.HasPrefix(p.MerchantOrderNo, "MO")
	})).Return(model.Payment{ID: 1}, nil)

	uc := NewPaymentUsecase(pRepo, uRepo, cfg)

	out, err := uc.CreatePayment(context.Background(), 1, CreatePaymentInput{Amount: 670, ItemDesc: "tea x2"})
	assert.NoError(t, err)
	assert.Equal(t, cfg.MerchantID, out.MerchantID)
	assert.Equal(t, cfg.PayGatewayURL, out.PayGateWay)
	assert.Equal(t, "2.0", out.Version)
	assert.True(t, len(out.MerchantOrderNo) <= 30)

	// TradeShaはTradeInfoから検算できる
	assert.Equal(t, tradeSha([]byte(cfg.HashKey), []byte(cfg.HashIV), out.TradeInfo), out.TradeSha)

	// 復号すると送信パラメータに戻る
	plain, err := decryptTradeInfo([]byte(cfg.HashKey), []byte(cfg.HashIV), out.TradeInfo)
	assert.NoError(t, err)
	assert.Contains(t, plain, "Amt=670")
	assert.Contains(t, plain, "MerchantOrderNo="+out.MerchantOrderNo)

	pRepo.AssertExpectations(t)
}

// =====================
// HandleNotify
// =====================

func TestPaymentUsecase_HandleNotify_BadChecksum(t *testing.T) {
	cfg := paymentTestConfig()
	uc := NewPaymentUsecase(new(PaymentRepoMock), new(PaymentUserRepoMock), cfg)

	enc := encodeResult(t, cfg, "SUCCESS", "MO1")

	err := uc.HandleNotify(context.Background(), enc, "DEADBEEF")

	httpErr, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
}

func TestPaymentUsecase_HandleNotify_MarksPaid(t *testing.T) {
	cfg := paymentTestConfig()
	enc := encodeResult(t, cfg, "SUCCESS", "MO1")
	sha := tradeSha([]byte(cfg.HashKey), []byte(cfg.HashIV), enc)

	pRepo := new(PaymentRepoMock)
	pRepo.On("FindByMerchantOrderNo", mock.Anything, "MO1").Return(model.Payment{ID: 1, MerchantOrderNo: "MO1"}, nil)
	pRepo.On("MarkPaid", mock.Anything, "MO1", "TN123", "CREDIT", mock.Anything).Return(nil)

	uc := NewPaymentUsecase(pRepo, new(PaymentUserRepoMock), cfg)

	err := uc.HandleNotify(context.Background(), enc, sha)
	assert.NoError(t, err)

	pRepo.AssertExpectations(t)
}

// 再送のnotifyは成功扱いで何もしない
func TestPaymentUsecase_HandleNotify_Idempotent(t *testing.T) {
	cfg := paymentTestConfig()
	enc := encodeResult(t, cfg, "SUCCESS", "MO1")
	sha := tradeSha([]byte(cfg.HashKey), []byte(cfg.HashIV), enc)

	pRepo := new(PaymentRepoMock)
	pRepo.On("FindByMerchantOrderNo", mock.Anything, "MO1").Return(model.Payment{ID: 1, MerchantOrderNo: "MO1"}, nil)
	// 2回目以降はPENDING行が無いのでErrNotFoundが返る
	pRepo.On("MarkPaid", mock.Anything, "MO1", "TN123", "CREDIT", mock.Anything).Return(repo.ErrNotFound)

	uc := NewPaymentUsecase(pRepo, new(PaymentUserRepoMock), cfg)

	err := uc.HandleNotify(context.Background(), enc, sha)
	assert.NoError(t, err)
}

func TestPaymentUsecase_HandleNotify_FailureMarksFailed(t *testing.T) {
	cfg := paymentTestConfig()
	enc := encodeResult(t, cfg, "TRA10035", "MO1")
	sha := tradeSha([]byte(cfg.HashKey), []byte(cfg.HashIV), enc)

	pRepo := new(PaymentRepoMock)
	pRepo.On("FindByMerchantOrderNo", mock.Anything, "MO1").Return(model.Payment{ID: 1, MerchantOrderNo: "MO1"}, nil)
	pRepo.On("MarkFailed", mock.Anything, "MO1").Return(nil)

	uc := NewPaymentUsecase(pRepo, new(PaymentUserRepoMock), cfg)

	err := uc.HandleNotify(context.Background(), enc, sha)
	assert.NoError(t, err)

	pRepo.AssertExpectations(t)
}

func TestPaymentUsecase_HandleNotify_UnknownOrder(t *testing.T) {
	cfg := paymentTestConfig()
	enc := encodeResult(t, cfg, "SUCCESS", "MO404")
	sha := tradeSha([]byte(cfg.HashKey), []byte(cfg.HashIV), enc)

	pRepo := new(PaymentRepoMock)
	pRepo.On("FindByMerchantOrderNo", mock.Anything, "MO404").Return(model.Payment{}, repo.ErrNotFound)

	uc := NewPaymentUsecase(pRepo, new(PaymentUserRepoMock), cfg)

	err := uc.HandleNotify(context.Background(), enc, sha)

	httpErr, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
}

// =====================
// HandleReturn
// =====================

func TestPaymentUsecase_HandleReturn_BuildsRedirect(t *testing.T) {
	cfg := paymentTestConfig()
	enc := encodeResult(t, cfg, "SUCCESS", "MO1")

	uc := NewPaymentUsecase(new(PaymentRepoMock), new(PaymentUserRepoMock), cfg)

	location, err := uc.HandleReturn(context.Background(), enc)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(location, cfg.FEURL+"/payment/result?"))
	assert.Contains(t, location, "no=MO1")
	assert.Contains(t, location, "status=SUCCESS")
}

func TestPaymentUsecase_HandleReturn_InvalidPayload(t *testing.T) {
	uc := NewPaymentUsecase(new(PaymentRepoMock), new(PaymentUserRepoMock), paymentTestConfig())

	_, err := uc.HandleReturn(context.Background(), "nothex")

	httpErr, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
}
