package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/config"
	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/internal/bootstrap"
	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/internal/cache"
	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/internal/kafka"
	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/internal/repository"
	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/internal/service/flights"
	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/internal/service/reservations"
	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/internal/service/scheduling"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Scheduling.ResourcesCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	resourceRepo := repository.NewResourceRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)
	reservationRepo := repository.NewReservationRepository(pool)

	engine := scheduling.NewEngine(
		resourceRepo,
		bookingRepo,
		scheduling.WithCache(redisCache, time.Duration(cfg.Scheduling.ResourceLockTTLSeconds)*time.Second),
		scheduling.WithFlightDirectory(flightRepo),
	)
	flightService := flights.NewFlightService(
		flightRepo,
		bookingRepo,
		producer,
		cfg.Kafka.FlightTopic,
		flights.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	reservationService := reservations.NewReservationService(
		reservationRepo,
		flightRepo,
		redisCache,
		producer,
		cfg.Kafka.ReservationTopic,
		time.Duration(cfg.Scheduling.SeatLockTTLSeconds)*time.Second,
	)

	if err := bootstrap.Run(ctx, cfg, engine, flightService, reservationService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
