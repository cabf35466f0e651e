package handler

import (
	"net/http"
	"strconv"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

// usecaseの失敗を一箇所でHTTPレスポンスへ変換する。
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Status: false, Message: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Status: false, Message: "internal error"})
}

// /products の公開API
type ProductHandler struct {
	uc *usecase.CatalogUsecase
}

// DI
func NewProductHandler(uc *usecase.CatalogUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

type DataResponse struct {
	Status bool        `json:"status"`
	Data   interface{} `json:"data"`
}

// 公開商品のルートを登録
func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/products/detail/:productId", h.detail)
	e.GET("/products/:category", h.listByCategory)
}

func (h *ProductHandler) listByCategory(c echo.Context) error {
	out, err := h.uc.ListByCategory(c.Request().Context(), c.Param("category"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, DataResponse{Status: true, Data: out})
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Status: false, Message: "invalid product id"})
	}

	out, err := h.uc.GetProductDetail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, DataResponse{Status: true, Data: out})
}
