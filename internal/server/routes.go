package server

import (
	"app/internal/config"
	"app/internal/handler"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(
	e *echo.Echo,
	cfg config.Config,
	authH *handler.AuthHandler,
	productH *handler.ProductHandler,
	sellerH *handler.SellerHandler,
	cartH *handler.CartHandler,
	paymentH *handler.PaymentHandler,
) {
	authH.RegisterRoutes(e)
	productH.RegisterRoutes(e)
	sellerH.RegisterRoutes(e)
	cartH.RegisterRoutes(e, cfg)
	paymentH.RegisterRoutes(e, cfg)
}
