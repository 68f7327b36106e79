package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/bootstrap"
	"github.com/Domenick1991/travelbooking/internal/kafka"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/Domenick1991/travelbooking/internal/service/booking"
	kafkaGo "github.com/segmentio/kafka-go"
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

	bookingService := booking.NewBookingService(storage.Bookings, storage.Options)

	if cfg.Kafka.Enabled() {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.BookingEventsTopic)
		defer consumer.Close()

		go func() {
			if err := consumer.Consume(ctx, auditHandler(storage.Events)); err != nil {
				log.Printf("consumer stopped: %v", err)
			}
		}()
	} else {
		log.Printf("kafka not configured, booking event audit disabled")
	}

	reconcile(ctx, bookingService)

	ticker := time.NewTicker(time.Duration(cfg.Worker.ReconcileIntervalMinutes) * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			reconcile(ctx, bookingService)
		case <-ctx.Done():
			log.Printf("worker shutting down")
			return
		}
	}
}

// auditHandler stores every booking event. Undecodable messages are skipped
// so they do not block the partition.
func auditHandler(events repository.EventRepository) func(context.Context, kafkaGo.Message) error {
	return func(ctx context.Context, msg kafkaGo.Message) error {
		event, err := kafka.DecodeBookingEvent(msg)
		if err != nil {
			log.Printf("decode event error offset=%d: %v", msg.Offset, err)
			return nil
		}
		if err := events.Append(ctx, event); err != nil {
			return err
		}
		log.Printf("booking event stored type=%s ref=%s booking=%d", event.Type, event.Reference, event.BookingID)
		return nil
	}
}

func reconcile(ctx context.Context, svc *booking.BookingService) {
	broken, err := svc.Reconcile(ctx)
	if err != nil {
		log.Printf("reconcile error: %v", err)
		return
	}
	for _, l := range broken {
		log.Printf("WARNING: inventory mismatch option=%d total=%d available=%d confirmed=%d",
			l.OptionID, l.TotalSeats, l.AvailableSeats, l.ConfirmedSeats)
	}
	log.Printf("reconcile done mismatches=%d", len(broken))
}
