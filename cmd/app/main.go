package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/travelbooking/api"
	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/bootstrap"
	"github.com/Domenick1991/travelbooking/internal/cache"
	"github.com/Domenick1991/travelbooking/internal/kafka"
	"github.com/Domenick1991/travelbooking/internal/service/auth"
	"github.com/Domenick1991/travelbooking/internal/service/booking"
	"github.com/Domenick1991/travelbooking/internal/service/catalog"
	"github.com/Domenick1991/travelbooking/internal/token"
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

	storage, err := bootstrap.OpenStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer storage.Close()

	var (
		catalogCache catalog.Cache
		bookingOpts  = []booking.BookingServiceOption{booking.WithMaxRetries(cfg.Booking.MaxRetries)}
	)
	if cfg.Redis.Enabled() {
		redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.CatalogCacheTTL)*time.Second)
		defer redisCache.Close()
		catalogCache = redisCache
		bookingOpts = append(bookingOpts, booking.WithCache(redisCache))
	}
	if cfg.Kafka.Enabled() {
		producer := kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		if err := producer.CheckConnection(ctx); err != nil {
			log.Printf("WARNING: kafka unavailable, booking events may be lost: %v", err)
		}
		bookingOpts = append(bookingOpts, booking.WithProducer(producer, cfg.Kafka.BookingEventsTopic))
	}

	tokens := token.New(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)

	catalogService := catalog.NewCatalogService(storage.Options, catalogCache,
		catalog.WithPageLimits(cfg.Catalog.DefaultLimit, cfg.Catalog.MaxLimit),
		catalog.WithSoldOutHiddenInList(cfg.Catalog.HideSoldOutInList),
	)
	if cfg.Storage.Driver == config.StorageDriverMemory {
		if n, err := catalogService.SeedSampleCatalog(ctx, time.Now()); err != nil {
			log.Fatalf("seed catalog: %v", err)
		} else {
			log.Printf("memory catalog seeded options=%d", n)
		}
	}

	services := api.Services{
		Catalog:  catalogService,
		Bookings: booking.NewBookingService(storage.Bookings, storage.Options, bookingOpts...),
		Auth:     auth.NewAuthService(storage.Users, tokens),
		Tokens:   tokens,
	}

	if err := bootstrap.Run(ctx, cfg, services); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
