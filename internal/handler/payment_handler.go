package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /paymentのHTTP
type PaymentHandler struct {
	uc *usecase.PaymentUsecase
}

// DI
func NewPaymentHandler(uc *usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

type CreatePaymentRequest struct {
	Amount   int64  `json:"amount"`
	ItemDesc string `json:"itemDesc"`
}

// ゲートウェイからのコールバック（form POST）
type GatewayCallbackRequest struct {
	TradeInfo string `form:"TradeInfo"`
	TradeSha  string `form:"TradeSha"`
}

func (h *PaymentHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/payment")

	g.POST("", h.create, middleware.AuthJWT(cfg))
	g.POST("/user", h.user, middleware.AuthJWT(cfg))

	// コールバックはゲートウェイが叩くので認証なし
	g.POST("/return", h.gatewayReturn)
	g.POST("/notify", h.notify)
}

func (h *PaymentHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Status: false, Message: "unauthorized"})
	}

	var req CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Status: false, Message: "invalid body"})
	}

	out, err := h.uc.CreatePayment(c.Request().Context(), userID, usecase.CreatePaymentInput{
		Amount:   req.Amount,
		ItemDesc: req.ItemDesc,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, DataResponse{Status: true, Data: out})
}

func (h *PaymentHandler) user(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Status: false, Message: "unauthorized"})
	}

	out, err := h.uc.PaymentUser(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, DataResponse{Status: true, Data: out})
}

func (h *PaymentHandler) gatewayReturn(c echo.Context) error {
	var req GatewayCallbackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Status: false, Message: "invalid body"})
	}

	location, err := h.uc.HandleReturn(c.Request().Context(), req.TradeInfo)
	if err != nil {
		return writeError(c, err)
	}

	return c.Redirect(http.StatusFound, location)
}

func (h *PaymentHandler) notify(c echo.Context) error {
	var req GatewayCallbackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Status: false, Message: "invalid body"})
	}

	if err := h.uc.HandleNotify(c.Request().Context(), req.TradeInfo, req.TradeSha); err != nil {
		return writeError(c, err)
	}

	// ゲートウェイは本文で成否を見る
	return c.String(http.StatusOK, "SUCCESS")
}
