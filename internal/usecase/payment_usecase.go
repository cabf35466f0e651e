package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/google/uuid"
)

// ゲートウェイのRespondType
const gatewayRespondJSON = "JSON"

// MPGのバージョン
const gatewayVersion = "2.0"

// PaymentUsecase は決済の開始とコールバック処理です。
// 金額確定はフロント側の選択結果をそのまま受け、在庫とは突き合わせません。
type PaymentUsecase struct {
	paymentRepo repo.PaymentRepository
	userRepo    repo.UserRepository

	merchantID string
	hashKey    []byte
	hashIV     []byte
	gatewayURL string
	apiDomain  string
	feURL      string
}

// DI
func NewPaymentUsecase(
	paymentRepo repo.PaymentRepository,
	userRepo repo.UserRepository,
	cfg config.Config,
) *PaymentUsecase {
	return &PaymentUsecase{
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		merchantID:  cfg.MerchantID,
		hashKey:     []byte(cfg.HashKey),
		hashIV:      []byte(cfg.HashIV),
		gatewayURL:  cfg.PayGatewayURL,
		apiDomain:   cfg.APIDomain,
		feURL:       cfg.FEURL,
	}
}

type CreatePaymentInput struct {
	Amount   int64
	ItemDesc string
}

// フロントがゲートウェイへフォームPOSTするための値一式
type PaymentFormOutput struct {
	MerchantID      string `json:"MerchantID"`
	TradeInfo       string `json:"TradeInfo"`
	TradeSha        string `json:"TradeSha"`
	Version         string `json:"Version"`
	PayGateWay      string `json:"PayGateWay"`
	MerchantOrderNo string `json:"MerchantOrderNo"`
}

// チェックアウト画面に出すユーザー情報
type PaymentUserOutput struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// notify/returnの復号後ペイロード
type gatewayResult struct {
	Status  string `json:"Status"`
	Message string `json:"Message"`
	Result  struct {
		MerchantOrderNo string `json:"MerchantOrderNo"`
		TradeNo         string `json:"TradeNo"`
		PaymentType     string `json:"PaymentType"`
		PayTime         string `json:"PayTime"`
	} `json:"Result"`
}

// CreatePayment はPENDINGの決済レコードを作り、ゲートウェイ用の
// フォーム値（暗号化済みTradeInfoとチェックサム）を返す。
func (u *PaymentUsecase) CreatePayment(ctx context.Context, userID int64, in CreatePaymentInput) (PaymentFormOutput, error) {
	if userID <= 0 {
		return PaymentFormOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.Amount < 1 {
		return PaymentFormOutput{}, NewHTTPError(http.StatusBadRequest, "invalid amount")
	}
	if strings.TrimSpace(in.ItemDesc) == "" {
		return PaymentFormOutput{}, NewHTTPError(http.StatusBadRequest, "item desc required")
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err == repo.ErrNotFound {
		return PaymentFormOutput{}, NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return PaymentFormOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	now := time.Now()
	orderNo := newMerchantOrderNo()

	if _, err := u.paymentRepo.Create(ctx, newPendingPayment(userID, orderNo, in, user.Email, now)); err != nil {
		return PaymentFormOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	v := url.Values{}
	v.Set("MerchantID", u.merchantID)
	v.Set("RespondType", gatewayRespondJSON)
	v.Set("TimeStamp", fmt.Sprintf("%d", now.Unix()))
	v.Set("Version", gatewayVersion)
	v.Set("MerchantOrderNo", orderNo)
	v.Set("Amt", fmt.Sprintf("%d", in.Amount))
	v.Set("ItemDesc", strings.TrimSpace(in.ItemDesc))
	v.Set("Email", user.Email)
	v.Set("NotifyURL", u.apiDomain+"/payment/notify")
	v.Set("ReturnURL", u.apiDomain+"/payment/return")

	tradeInfo, err := encryptTradeInfo(u.hashKey, u.hashIV, v.Encode())
	if err != nil {
		return PaymentFormOutput{}, NewHTTPError(http.StatusInternalServerError, "encrypt error")
	}

	return PaymentFormOutput{
		MerchantID:      u.merchantID,
		TradeInfo:       tradeInfo,
		TradeSha:        tradeSha(u.hashKey, u.hashIV, tradeInfo),
		Version:         gatewayVersion,
		PayGateWay:      u.gatewayURL,
		MerchantOrderNo: orderNo,
	}, nil
}

// PaymentUser はチェックアウトに出す本人情報。
func (u *PaymentUsecase) PaymentUser(ctx context.Context, userID int64) (PaymentUserOutput, error) {
	if userID <= 0 {
		return PaymentUserOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err == repo.ErrNotFound {
		return PaymentUserOutput{}, NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return PaymentUserOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return PaymentUserOutput{Email: user.Email, Name: user.Name}, nil
}

// HandleReturn はブラウザ側の戻り。DBは触らず（確定はnotify側）、
// フロントのリダイレクト先だけを組み立てる。
func (u *PaymentUsecase) HandleReturn(ctx context.Context, tradeInfo string) (string, error) {
	payload, err := u.decodeResult(tradeInfo)
	if err != nil {
		return "", NewHTTPError(http.StatusBadRequest, "invalid trade info")
	}

	q := url.Values{}
	q.Set("no", payload.Result.MerchantOrderNo)
	q.Set("status", payload.Status)

	return u.feURL + "/payment/result?" + q.Encode(), nil
}

// HandleNotify はゲートウェイからのサーバー間通知。チェックサムを検証して
// 決済を確定する。再送されても2回目以降は何もしない。
func (u *PaymentUsecase) HandleNotify(ctx context.Context, tradeInfo string, sha string) error {
	if tradeSha(u.hashKey, u.hashIV, tradeInfo) != strings.ToUpper(strings.TrimSpace(sha)) {
		return NewHTTPError(http.StatusBadRequest, "invalid checksum")
	}

	payload, err := u.decodeResult(tradeInfo)
	if err != nil {
		return NewHTTPError(http.StatusBadRequest, "invalid trade info")
	}

	orderNo := payload.Result.MerchantOrderNo
	if _, err := u.paymentRepo.FindByMerchantOrderNo(ctx, orderNo); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "payment not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if payload.Status != "SUCCESS" {
		if err := u.paymentRepo.MarkFailed(ctx, orderNo); err != nil && err != repo.ErrNotFound {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	}

	paidAt := time.Now()
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", payload.Result.PayTime, time.Local); err == nil {
		paidAt = t
	}

	err = u.paymentRepo.MarkPaid(ctx, orderNo, payload.Result.TradeNo, payload.Result.PaymentType, paidAt)
	if err == repo.ErrNotFound {
		// 既に処理済み
		return nil
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *PaymentUsecase) decodeResult(tradeInfo string) (gatewayResult, error) {
	plain, err := decryptTradeInfo(u.hashKey, u.hashIV, tradeInfo)
	if err != nil {
		return gatewayResult{}, err
	}

	var payload gatewayResult
	if err := json.Unmarshal([]byte(plain), &payload); err != nil {
		return gatewayResult{}, err
	}
	if payload.Result.MerchantOrderNo == "" {
		return gatewayResult{}, fmt.Errorf("missing merchant order no")
	}
	return payload, nil
}

func newPendingPayment(userID int64, orderNo string, in CreatePaymentInput, email string, now time.Time) model.Payment {
	return model.Payment{
		UserID:          userID,
		MerchantOrderNo: orderNo,
		Amount:          in.Amount,
		ItemDesc:        strings.TrimSpace(in.ItemDesc),
		Email:           email,
		Status:          model.PaymentStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// 30文字以内の英数字という制約に合わせ、uuidの先頭20桁を使う。
func newMerchantOrderNo() string {
	return "MO" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:20])
}
