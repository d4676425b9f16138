package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sanosuguru/go-ticketing-settlement/internal/api"
	"github.com/sanosuguru/go-ticketing-settlement/internal/api/handler"
	"github.com/sanosuguru/go-ticketing-settlement/internal/application"
	"github.com/sanosuguru/go-ticketing-settlement/internal/config"
	"github.com/sanosuguru/go-ticketing-settlement/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-ticketing-settlement/internal/infrastructure/redis"
	"github.com/sanosuguru/go-ticketing-settlement/internal/pkg/logger"
	"github.com/sanosuguru/go-ticketing-settlement/internal/pkg/metrics"
	"github.com/sanosuguru/go-ticketing-settlement/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env があれば読み込む（本番では環境変数を直接使う）
	_ = godotenv.Load()

	cfg := config.Load()

	env := os.Getenv("APP_ENV")
	logger.Set(logger.NewLogger(env))
	defer logger.Sync()

	m := metrics.Init()

	// PostgreSQL
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("データベース接続に失敗", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.MigrationsPath != "" {
		if err := postgres.RunMigrations(db.DB, cfg.Database.MigrationsPath); err != nil {
			logger.Fatal("マイグレーションに失敗", zap.Error(err))
		}
		logger.Info("マイグレーション完了")
	}

	// Redis
	redisClient := redisinfra.NewClient(&cfg.Redis)
	defer redisClient.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisinfra.Ping(pingCtx, redisClient); err != nil {
		logger.Fatal("Redis接続に失敗", zap.Error(err))
	}

	// リポジトリ
	txManager := postgres.NewTxManager(db)
	bookingRepo := postgres.NewBookingRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	ticketRepo := postgres.NewTicketRepository(db)
	seatRepo := postgres.NewEventSeatRepository(db)
	sequenceRepo := postgres.NewSequenceRepository(db)

	lockManager := redisinfra.NewLockManager(redisClient)
	seatCache := redisinfra.NewSeatCache(redisClient)

	// サービス
	settlementService := application.NewSettlementService(
		bookingRepo, paymentRepo, ticketRepo, seatRepo, sequenceRepo, m)
	bookingService := application.NewBookingService(
		txManager, bookingRepo, paymentRepo, seatRepo, ticketRepo, sequenceRepo,
		lockManager, seatCache)
	ticketService := application.NewTicketService(ticketRepo)
	seatService := application.NewSeatService(seatRepo, seatCache)

	e := api.NewRouter(api.Handlers{
		Health:  handler.NewHealthHandler(),
		Booking: handler.NewBookingHandler(bookingService),
		Payment: handler.NewPaymentHandler(settlementService),
		Ticket:  handler.NewTicketHandler(ticketService),
		Seat:    handler.NewSeatHandler(seatService),
	}, m)

	releaser := worker.NewExpiredBookingReleaser(bookingService, cfg.Worker.ReleaseInterval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("サーバー起動", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		releaser.Start(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("シャットダウン開始")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("サーバーエラー", zap.Error(err))
	}
	logger.Info("正常にシャットダウンしました")
}
