package main

import (
	"log"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/gateway/sslcommerz"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/server"
	"app/internal/usecase"
	"app/internal/validator"

	"github.com/joho/godotenv"
)

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Book{},
		&model.Painting{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	//Repository（GORM実装）生成
	txManager := infraRepo.NewTxManagerGorm(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	bookRepo := infraRepo.NewBookGormRepository(gormDB)
	paintingRepo := infraRepo.NewPaintingGormRepository(gormDB)
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenGormRepository(gormDB)

	//ゲートウェイclient
	gatewayClient := sslcommerz.NewClient(sslcommerz.Config{
		StoreID:       cfg.SSLCommerzStoreID,
		StorePassword: cfg.SSLCommerzStorePwd,
		Live:          cfg.SSLCommerzLive,
	})

	//Usecase生成
	checkoutUC := usecase.NewCheckoutUsecase(txManager, orderRepo, gatewayClient, cfg)
	reconcileUC := usecase.NewPaymentReconcileUsecase(orderRepo, gatewayClient)
	orderUC := usecase.NewOrderUsecase(orderRepo, orderItemRepo)
	bookUC := usecase.NewBookUsecase(bookRepo)
	paintingUC := usecase.NewPaintingUsecase(paintingRepo)
	authUC := usecase.NewAuthUsecase(cfg, userRepo, rtRepo, validator.NewAuthValidator(userRepo))
	adminOrderUC := usecase.NewAdminOrderUsecase(orderRepo, orderItemRepo)
	adminUserUC := usecase.NewAdminUserUsecase(userRepo)
	dashboardUC := usecase.NewDashboardUsecase(orderRepo, bookRepo, paintingRepo, userRepo)

	//Server＋ルーティング
	e := server.New(cfg)

	handler.NewPaymentHandler(checkoutUC, reconcileUC, cfg).RegisterRoutes(e)
	handler.NewOrderHandler(orderUC).RegisterRoutes(e, cfg, userRepo)
	handler.NewBookHandler(bookUC).RegisterRoutes(e)
	handler.NewPaintingHandler(paintingUC).RegisterRoutes(e)
	handler.NewAuthHandler(authUC, cfg).RegisterRoutes(e, cfg, userRepo)
	handler.NewAdminBookHandler(bookUC).RegisterRoutes(e, cfg, userRepo)
	handler.NewAdminPaintingHandler(paintingUC).RegisterRoutes(e, cfg, userRepo)
	handler.NewAdminOrderHandler(adminOrderUC).RegisterRoutes(e, cfg, userRepo)
	handler.NewAdminUserHandler(adminUserUC, authUC).RegisterRoutes(e, cfg, userRepo)
	handler.NewAdminDashboardHandler(dashboardUC).RegisterRoutes(e, cfg, userRepo)

	if err := server.Start(e, cfg); err != nil {
		log.Fatalf("server: %v", err)
	}
}
