package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cartのHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type AddCartRequest struct {
	ProductID int64 `json:"productId"`
	FormatID  int64 `json:"formatId"`
	Quantity  int64 `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int64 `json:"quantity"`
}

type SelectedItemRequest struct {
	ProductID int64 `json:"productId"`
	FormatID  int64 `json:"formatId"`
}

type SelectItemsRequest struct {
	SelectedItems []SelectedItemRequest `json:"selectedItems"`
}

type CartEnvelope struct {
	Status  bool                 `json:"status"`
	Message string               `json:"message"`
	Cart    usecase.CartResponse `json:"cart"`
}

type SelectedEnvelope struct {
	Status        bool                       `json:"status"`
	Message       string                     `json:"message"`
	SelectedItems []usecase.CartItemResponse `json:"selectedItems"`
	PayMethods    []int64                    `json:"payMethods"`
	Fare          int64                      `json:"fare"`
	TotalPrice    int64                      `json:"totalPrice"`
}

// /cart系のルートを登録。全てログイン必須。
func (h *CartHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/cart")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.getCart)
	g.POST("", h.addItem)
	g.POST("/selected", h.selectItems)
	g.PATCH("/:productId/:formatId", h.updateItem)
	g.DELETE("/:productId/:formatId", h.removeItem)
	g.DELETE("", h.clearCart)
}

// AuthJWTが入れたuser_idを取り出す
func getUserIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get(middleware.CtxUserIDKey)
	userID, ok := v.(int64)
	return userID, ok
}

func (h *CartHandler) getCart(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Status: false, Message: "unauthorized"})
	}

	out, err := h.uc.GetCart(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, CartEnvelope{Status: true, Message: "cart fetched", Cart: out})
}

func (h *CartHandler) addItem(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Status: false, Message: "unauthorized"})
	}

	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Status: false, Message: "invalid body"})
	}

	out, err := h.uc.AddItem(c.Request().Context(), userID, usecase.AddItemInput{
		ProductID: req.ProductID,
		FormatID:  req.FormatID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, CartEnvelope{Status: true, Message: "added to cart", Cart: out})
}

func (h *CartHandler) selectItems(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Status: false, Message: "unauthorized"})
	}

	var req SelectItemsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Status: false, Message: "invalid body"})
	}

	selected := make([]usecase.SelectedItemInput, 0, len(req.SelectedItems))
	for _, s := range req.SelectedItems {
		selected = append(selected, usecase.SelectedItemInput{
			ProductID: s.ProductID,
			FormatID:  s.FormatID,
		})
	}

	out, err := h.uc.SelectItems(c.Request().Context(), userID, selected)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SelectedEnvelope{
		Status:        true,
		Message:       "selected items fetched",
		SelectedItems: out.SelectedItems,
		PayMethods:    out.PayMethods,
		Fare:          out.Fare,
		TotalPrice:    out.TotalPrice,
	})
}

func (h *CartHandler) updateItem(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Status: false, Message: "unauthorized"})
	}

	productID, formatID, err := pairParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Status: false, Message: "invalid id"})
	}

	var req UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Status: false, Message: "invalid body"})
	}

	out, err := h.uc.UpdateItem(c.Request().Context(), userID, productID, formatID, usecase.UpdateItemInput{
		Quantity: req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, CartEnvelope{Status: true, Message: "cart item updated", Cart: out})
}

func (h *CartHandler) removeItem(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Status: false, Message: "unauthorized"})
	}

	productID, formatID, err := pairParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Status: false, Message: "invalid id"})
	}

	out, err := h.uc.RemoveItem(c.Request().Context(), userID, productID, formatID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, CartEnvelope{Status: true, Message: "cart item removed", Cart: out})
}

func (h *CartHandler) clearCart(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Status: false, Message: "unauthorized"})
	}

	out, err := h.uc.ClearCart(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, CartEnvelope{Status: true, Message: "cart cleared", Cart: out})
}

func pairParams(c echo.Context) (int64, int64, error) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		return 0, 0, err
	}
	formatID, err := strconv.ParseInt(c.Param("formatId"), 10, 64)
	if err != nil {
		return 0, 0, err
	}
	return productID, formatID, nil
}
