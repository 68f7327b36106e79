package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Storage struct {
	Options  repository.TravelOptionRepository
	Bookings repository.BookingRepository
	Users    repository.UserRepository
	Events   repository.EventRepository

	close func()
}

func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStorage connects the configured storage driver. The postgres driver
// applies the schema before returning.
func OpenStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		log.Printf("storage driver=memory, data is lost on exit")
		store := repository.NewMemoryStore()
		return &Storage{
			Options:  store.TravelOptions(),
			Bookings: store.Bookings(),
			Users:    store.Users(),
			Events:   store.Events(),
		}, nil

	case config.StorageDriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		if err := repository.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Printf("storage driver=postgres host=%s db=%s", cfg.Database.Host, cfg.Database.Name)
		return &Storage{
			Options:  repository.NewTravelOptionRepository(pool),
			Bookings: repository.NewBookingRepository(pool),
			Users:    repository.NewUserRepository(pool),
			Events:   repository.NewEventRepository(pool),
			close:    pool.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
