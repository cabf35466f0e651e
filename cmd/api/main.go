package main

import (
	"log"
	"time"

	"app/internal/cache"
	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/server"
	"app/internal/usecase"
	auth "app/internal/usecase/auth_usecase"
	"app/internal/validator"

	"github.com/golang-jwt/jwt/v4"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func (i *jwtIssuer) Issue(userID int64, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	// .envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		log.Fatal(err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Collect{},
		&model.Seller{},
		&model.Activity{},
		&model.Product{},
		&model.ProductFormat{},
		&model.Review{},
		&model.Cart{},
		&model.CartItem{},
		&model.Payment{},
	); err != nil {
		log.Fatal(err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	sellerRepo := infraRepo.NewSellerGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	paymentRepo := infraRepo.NewPaymentGormRepository(gormDB)

	//カタログキャッシュ（REDIS_ADDR未設定なら素通し）
	var catalogCache cache.Cache
	if cfg.RedisAddr != "" {
		catalogCache = cache.NewRedisCache(redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		}))
	}

	//usecaseに渡す部品
	clock := &realClock{}
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()
	authValidator := validator.NewAuthValidator(userRepo)

	//JWT issuer
	issuer := &jwtIssuer{
		secret:    []byte(cfg.JWTSecret),
		accessTTL: 24 * time.Hour,
	}

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(userRepo, authValidator, hasher, clock)
	loginUC := auth.NewLoginUsecase(userRepo, authValidator, verifier, issuer, clock)
	catalogUC := usecase.NewCatalogUsecase(productRepo, sellerRepo, userRepo, catalogCache)
	cartUC := usecase.NewCartUsecase(cartRepo, productRepo)
	paymentUC := usecase.NewPaymentUsecase(paymentRepo, userRepo, cfg)

	//Handler生成
	authH := handler.NewAuthHandler(registerUC, loginUC)
	productH := handler.NewProductHandler(catalogUC)
	sellerH := handler.NewSellerHandler(catalogUC)
	cartH := handler.NewCartHandler(cartUC)
	paymentH := handler.NewPaymentHandler(paymentUC)

	//Server起動
	if err := server.Start(cfg, authH, productH, sellerH, cartH, paymentH); err != nil {
		log.Fatal(err)
	}
}
