package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"app/internal/domain/model"
	"app/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// handlerからusecaseに渡す入力
type LoginInput struct {
	Email    string
	Password string
}

// token 形
type JwtAccessToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// handlerがJSONにして返す
type LoginOutput struct {
	User  model.User     `json:"user"`
	Token JwtAccessToken `json:"token"`
}

// メールまたはパスワードが違う
var ErrInvalidCredentials = errors.New("invalid credentials")

// 停止済みユーザー
var ErrUserInactive = errors.New("user is inactive")

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(userID int64, now time.Time) (token string, expiresAt time.Time, err error)
}

// 入力パスワードと保存したハッシュを比べる約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

type BcryptPasswordVerifier struct{}

func NewBcryptPasswordVerifier() *BcryptPasswordVerifier {
	return &BcryptPasswordVerifier{}
}

func (v *BcryptPasswordVerifier) Verify(plain string, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

type LoginUsecase struct {
	userRepo  repository.UserRepository
	validator Validator
	verifier  PasswordVerifier
	issuer    AccessTokenIssuer
	clock     Clock
}

// DI
func NewLoginUsecase(
	userRepo repository.UserRepository,
	validator Validator,
	verifier PasswordVerifier,
	issuer AccessTokenIssuer,
	clock Clock,
) *LoginUsecase {
	return &LoginUsecase{
		userRepo:  userRepo,
		validator: validator,
		verifier:  verifier,
		issuer:    issuer,
		clock:     clock,
	}
}

// ログイン処理を実行する
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (LoginOutput, error) {
	email := strings.TrimSpace(in.Email)

	if err := u.validator.ValidateLogin(ctx, email, in.Password); err != nil {
		return LoginOutput{}, err
	}

	user, err := u.userRepo.FindByEmail(ctx, email)
	if err == repository.ErrNotFound {
		// ユーザーの有無は外に漏らさない
		return LoginOutput{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginOutput{}, err
	}

	if !u.verifier.Verify(in.Password, user.PasswordHash) {
		return LoginOutput{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return LoginOutput{}, ErrUserInactive
	}

	now := u.clock.Now()
	token, expiresAt, err := u.issuer.Issue(user.ID, now)
	if err != nil {
		return LoginOutput{}, err
	}

	return LoginOutput{
		User: user,
		Token: JwtAccessToken{
			AccessToken: token,
			ExpiresIn:   int(expiresAt.Sub(now).Seconds()),
		},
	}, nil
}
