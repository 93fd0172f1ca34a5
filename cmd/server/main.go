package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	myPostgresRepo "github.com/pmelnyk/currency-service/internal/adapters/db/postgres"
	myRedisRepo "github.com/pmelnyk/currency-service/internal/adapters/db/redis"
	myHTTP "github.com/pmelnyk/currency-service/internal/adapters/transport/http"
	"github.com/pmelnyk/currency-service/internal/app/auth/jwt"
	authsvc "github.com/pmelnyk/currency-service/internal/app/auth/service"
	exchangesvc "github.com/pmelnyk/currency-service/internal/app/exchange/service"
	"github.com/pmelnyk/currency-service/internal/infra/config"
	lg "github.com/pmelnyk/currency-service/internal/infra/log"
	"github.com/pmelnyk/currency-service/internal/infra/migrate"
	"github.com/pmelnyk/currency-service/internal/infra/server"
)

func main() {
	zapLog := lg.Must(os.Getenv("LOG_LEVEL"))
	defer zapLog.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("failed to load config", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		zapLog.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zapLog.Fatal("db handle", zap.Error(err))
	}
	defer sqlDB.Close()
	if err := migrate.Up(sqlDB); err != nil {
		zapLog.Fatal("run migrations", zap.Error(err))
	}

	redisCli := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisCli.Close()

	validate := validator.New()

	userRepo := myPostgresRepo.NewUserRepo(db)
	currencyRepo := myPostgresRepo.NewCurrencyRepo(db)
	tokenRepo := myRedisRepo.NewTokenRepo(redisCli)

	jwtUtil, err := jwt.NewJWTUtil(cfg)
	if err != nil {
		zapLog.Fatal("failed to init JWT util", zap.Error(err))
	}

	authService := authsvc.New(userRepo, tokenRepo, jwtUtil, cfg, validate)
	exchangeService := exchangesvc.New(currencyRepo, validate)

	router := myHTTP.NewRouter(authService, exchangeService, cfg, zapLog)

	rootCtx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(rootCtx)

	g.Go(func() error {
		return server.StartHTTPServer(ctx, cfg, router, zapLog)
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		zapLog.Info("shutdown signal received")
	case <-ctx.Done():
	}
	cancel()

	if err := g.Wait(); err != nil {
		zapLog.Error("server terminated", zap.Error(err))
	}
}
