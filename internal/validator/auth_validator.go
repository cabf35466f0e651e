package validator

import (
	"context"
	"regexp"
	"strings"

	"app/internal/repository"
	auth "app/internal/usecase/auth_usecase"
)

type authValidator struct {
	users repository.UserRepository
}

// Usecaseは interface を依存注入
func NewAuthValidator(users repository.UserRepository) auth.Validator {
	return &authValidator{users: users}
}

// サインアップの入力を検証
func (v *authValidator) ValidateRegister(ctx context.Context, email string, password string) error {
	email = strings.TrimSpace(email)

	// 必須チェック
	if email == "" || password == "" {
		return auth.ErrInvalidInput
	}

	// email形式
	if !isEmailLike(email) {
		return auth.ErrInvalidInput
	}

	// パスワード最低文字数（8）
	if len(password) < 8 {
		return auth.ErrInvalidInput
	}

	// email重複チェック（DBが必要）
	if _, err := v.users.FindByEmail(ctx, email); err == nil {
		return auth.ErrEmailAlreadyExists
	}

	return nil
}

// ログインの入力を検証
func (v *authValidator) ValidateLogin(ctx context.Context, email string, password string) error {
	email = strings.TrimSpace(email)

	if email == "" || password == "" {
		return auth.ErrInvalidInput
	}

	if !isEmailLike(email) {
		return auth.ErrInvalidInput
	}

	return nil
}

// 簡易メール形式をチェック
func isEmailLike(s string) bool {
	re := regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	return re.MatchString(s)
}
