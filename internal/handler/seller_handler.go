package handler

import (
	"net/http"
	"strconv"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /sellersのHTTP
type SellerHandler struct {
	uc *usecase.CatalogUsecase
}

// DI
func NewSellerHandler(uc *usecase.CatalogUsecase) *SellerHandler {
	return &SellerHandler{uc: uc}
}

type SellersResponse struct {
	Status  bool        `json:"status"`
	Sellers interface{} `json:"sellers"`
}

type SellerProductsResponse struct {
	Status        bool        `json:"status"`
	TotalProducts int64       `json:"total_products"`
	Data          interface{} `json:"data"`
}

func (h *SellerHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/sellers", h.list)
	e.GET("/sellers/:sellerId", h.detail)
	e.GET("/sellers/:sellerId/products", h.products)
}

func (h *SellerHandler) list(c echo.Context) error {
	sellers, err := h.uc.ListSellers(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SellersResponse{Status: true, Sellers: sellers})
}

func (h *SellerHandler) detail(c echo.Context) error {
	sellerID, err := strconv.ParseInt(c.Param("sellerId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Status: false, Message: "invalid seller id"})
	}

	out, err := h.uc.GetSellerDetail(c.Request().Context(), sellerID)
	if err != nil {
		return writeError(c, err)
	}

	// フロントの既存契約に合わせて1件でも配列で返す
	return c.JSON(http.StatusOK, DataResponse{Status: true, Data: []usecase.SellerDetail{out}})
}

func (h *SellerHandler) products(c echo.Context) error {
	sellerID, err := strconv.ParseInt(c.Param("sellerId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Status: false, Message: "invalid seller id"})
	}

	out, total, err := h.uc.ListSellerProducts(c.Request().Context(), sellerID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SellerProductsResponse{Status: true, TotalProducts: total, Data: out})
}
