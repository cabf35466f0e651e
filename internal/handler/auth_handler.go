package handler

import (
	"errors"
	"net/http"

	auth "app/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

// /authのHTTP
type AuthHandler struct {
	register *auth.RegisterUserUsecase
	login    *auth.LoginUsecase
}

// DI
func NewAuthHandler(register *auth.RegisterUserUsecase, login *auth.LoginUsecase) *AuthHandler {
	return &AuthHandler{register: register, login: login}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/auth/register", h.registerUser)
	e.POST("/auth/login", h.loginUser)
}

func (h *AuthHandler) registerUser(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Status: false, Message: "invalid body"})
	}

	out, err := h.register.Execute(c.Request().Context(), auth.RegisterUserInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusCreated, DataResponse{Status: true, Data: out})
}

func (h *AuthHandler) loginUser(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Status: false, Message: "invalid body"})
	}

	out, err := h.login.Execute(c.Request().Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, DataResponse{Status: true, Data: out})
}

// 認証系はユースケースが番兵エラーを返すのでここでステータスへ落とす
func writeAuthError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Status: false, Message: err.Error()})
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		return c.JSON(http.StatusConflict, ErrorResponse{Status: false, Message: err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Status: false, Message: err.Error()})
	case errors.Is(err, auth.ErrUserInactive):
		return c.JSON(http.StatusForbidden, ErrorResponse{Status: false, Message: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Status: false, Message: "internal error"})
	}
}
