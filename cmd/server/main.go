package main // Entry point package

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/config"
	"github.com/iliyamo/restaurant-table-reservation/internal/database"
	"github.com/iliyamo/restaurant-table-reservation/internal/handler"
	"github.com/iliyamo/restaurant-table-reservation/internal/queue"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
	"github.com/iliyamo/restaurant-table-reservation/internal/router"
	"github.com/iliyamo/restaurant-table-reservation/internal/scheduler"
	"github.com/iliyamo/restaurant-table-reservation/internal/sequence"
	"github.com/iliyamo/restaurant-table-reservation/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb := config.NewRedisClient() // nil when Redis is absent; limiter degrades to pass-through

	// Repositories.
	reservationRepo := repository.NewReservationRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	tableRepo := repository.NewTableRepo(db)
	menuRepo := repository.NewMenuRepo(db)
	notificationRepo := repository.NewNotificationRepo(db)
	feedbackRepo := repository.NewFeedbackRepo(db)
	sequenceRepo := repository.NewSequenceRepo(db)

	// Services.
	numbers := sequence.NewGenerator(sequenceRepo)
	publisher := queue.NewPublisher(cfg.AMQPURL)
	reservationSvc := service.NewReservationService(reservationRepo, tableRepo, numbers, publisher)
	orderSvc := service.NewOrderService(orderRepo, menuRepo, numbers, publisher)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Background workers: the periodic status sweep and the broker
	// consumer feeding the admin notification feed.
	go scheduler.New(reservationSvc, cfg.SweepInterval).Start(ctx)
	go queue.StartNotificationConsumer(ctx, cfg.AMQPURL, notificationRepo)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, router.Handlers{
		Auth:          handler.NewAuthHandler(cfg),
		Reservations:  handler.NewReservationHandler(reservationSvc),
		Orders:        handler.NewOrderHandler(orderSvc),
		Tables:        handler.NewTableHandler(tableRepo),
		Menu:          handler.NewMenuHandler(menuRepo),
		Notifications: handler.NewNotificationHandler(notificationRepo),
		Feedback:      handler.NewFeedbackHandler(feedbackRepo),
	}, cfg, config.LoadRateLimitConfig(), rdb)

	go func() {
		<-ctx.Done()
		log.Println("shutting down")
		_ = e.Shutdown(context.Background())
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Println(err)
	}
}
