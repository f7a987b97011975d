package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/api"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/api/handler"
	custommw "github.com/sanosuguru/go-cinema-ticket-booking/internal/api/middleware"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/application"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/config"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-cinema-ticket-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/pkg/metrics"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/pkg/retry"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger(os.Getenv("APP_ENV"))
	logger.Set(log)
	defer logger.Sync()

	m := metrics.Init()

	// データベース接続
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatal("データベース接続に失敗しました", zap.Error(err))
	}
	defer db.Close()

	// マイグレーション実行
	if err := postgres.RunMigrations(db.DB, cfg.Database.MigrationsPath); err != nil {
		log.Fatal("マイグレーションに失敗しました", zap.Error(err))
	}

	// Redis接続（失敗してもRedisなし構成で継続する）
	var (
		lockManager application.SeatLockManager
		availCache  *redisinfra.AvailabilityCache
	)
	redisClient := redisinfra.NewClient(&cfg.Redis)
	defer redisClient.Close()
	{
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisinfra.Ping(ctx, redisClient); err != nil {
			log.Warn("Redis接続に失敗したため、分散ロックとキャッシュなしで起動します", zap.Error(err))
		} else {
			lockManager = redisinfra.NewLockManager(redisClient)
			availCache = redisinfra.NewAvailabilityCache(redisClient)
		}
		cancel()
	}

	// リポジトリ
	txManager := postgres.NewTxManager(db)
	movieRepo := postgres.NewMovieRepository(db)
	theaterRepo := postgres.NewTheaterRepository(db)
	seatRepo := postgres.NewSeatRepository(db)
	showtimeRepo := postgres.NewShowtimeRepository(db)
	showSeatRepo := postgres.NewShowSeatRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)

	// 予約エンジン
	policy := retry.Policy{
		MaxAttempts: cfg.Booking.RetryMaxAttempts,
		BaseDelay:   cfg.Booking.RetryBaseDelay,
		Multiplier:  retry.DefaultPolicy.Multiplier,
		MaxDelay:    cfg.Booking.RetryMaxDelay,
	}
	engine := application.NewReservationEngine(txManager, showSeatRepo, policy, m)

	// サービス
	theaterService := application.NewTheaterService(txManager, theaterRepo, seatRepo, cfg.Booking.MaxTheaters)
	showtimeService := application.NewShowtimeService(
		txManager, showtimeRepo, movieRepo, theaterRepo, seatRepo, showSeatRepo, bookingRepo,
		availCache, cfg.Booking.AvailabilityTTL, m,
	)
	movieService := application.NewMovieService(movieRepo, showtimeRepo, showtimeService)
	bookingService := application.NewBookingService(
		engine, bookingRepo, showtimeRepo, theaterRepo, seatRepo,
		lockManager, availCache, cfg.Booking.LockTTL, m,
	)

	// ハンドラー
	movieHandler := handler.NewMovieHandler(movieService)
	theaterHandler := handler.NewTheaterHandler(theaterService)
	showtimeHandler := handler.NewShowtimeHandler(showtimeService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	healthHandler := handler.NewHealthHandler()

	// Echo設定
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	custommw.SetupMiddleware(e)
	e.Use(custommw.PrometheusMiddleware(m))

	// ルーティング
	e.GET("/health", healthHandler.Check)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), custommw.MetricsBasicAuth())

	v1 := e.Group("/api/v1")

	v1.POST("/movies", movieHandler.Create)
	v1.GET("/movies", movieHandler.List)
	v1.GET("/movies/:title", movieHandler.GetByTitle)
	v1.PUT("/movies/:title", movieHandler.Update)
	v1.DELETE("/movies/:title", movieHandler.Delete)

	v1.POST("/theaters", theaterHandler.Create)
	v1.GET("/theaters", theaterHandler.List)
	v1.GET("/theaters/:name", theaterHandler.GetByName)
	v1.GET("/theaters/:name/seats", theaterHandler.ListSeats)

	v1.POST("/showtimes", showtimeHandler.Create)
	v1.GET("/showtimes", showtimeHandler.List)
	v1.GET("/showtimes/:id", showtimeHandler.GetByID)
	v1.PUT("/showtimes/:id", showtimeHandler.Update)
	v1.DELETE("/showtimes/:id", showtimeHandler.Cancel)
	v1.GET("/showtimes/:id/seats", showtimeHandler.ListSlots)
	v1.GET("/showtimes/:id/availability", showtimeHandler.Availability)
	v1.GET("/showtimes/:id/bookings", bookingHandler.ListByShowtime)

	// 予約作成のみレートリミットを適用
	rateLimiter := custommw.NewRateLimiter(cfg.Booking.RateLimitPerSec, cfg.Booking.RateLimitBurst)
	defer rateLimiter.Stop()
	v1.POST("/bookings", bookingHandler.Create, rateLimiter.Middleware())
	v1.GET("/bookings/:id", bookingHandler.GetByID)

	// 空き座席数キャッシュの定期リフレッシュ（Redisあり構成のみ）
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	if availCache != nil {
		refresher := worker.NewAvailabilityRefresher(showtimeService, cfg.Worker.RefreshInterval)
		go refresher.Start(workerCtx)
		defer refresher.Stop()
	}

	// サーバー起動
	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("サーバーをシャットダウンしています...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal("サーバーシャットダウンエラー", zap.Error(err))
	}

	log.Info("サーバーが正常にシャットダウンしました")
}
