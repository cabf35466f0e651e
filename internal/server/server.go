package server

import (
	"app/internal/config"
	"app/internal/handler"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

func Start(
	cfg config.Config,
	authH *handler.AuthHandler,
	productH *handler.ProductHandler,
	sellerH *handler.SellerHandler,
	cartH *handler.CartHandler,
	paymentH *handler.PaymentHandler,
) error {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.FEURL},
		AllowCredentials: true,
	}))

	RegisterRoutes(e, cfg, authH, productH, sellerH, cartH, paymentH)

	return e.Start(":" + cfg.Port)
}
