package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/google/uuid"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	CancelBooking(ctx context.Context, bookingID, userID int64) (*domain.Booking, error)
	ListUserBookings(ctx context.Context, userID int64) ([]domain.Booking, error)
	GetUserBooking(ctx context.Context, userID, bookingID int64) (*domain.Booking, error)
}

// Invalidator drops cached catalog reads after a seat mutation.
type Invalidator interface {
	InvalidateOption(ctx context.Context, id int64) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

const defaultMaxRetries = 5

type BookingService struct {
	bookings    repository.BookingRepository
	options     repository.TravelOptionRepository
	cache       Invalidator
	producer    Producer
	eventsTopic string
	maxRetries  int
	now         func() time.Time
}

// CreateBookingInput carries the authenticated user id; it never comes from
// the request body.
type CreateBookingInput struct {
	OptionID int64
	NumSeats int
	UserID   int64
}

type BookingServiceOption func(*BookingService)

func WithCache(cache Invalidator) BookingServiceOption {
	return func(s *BookingService) {
		s.cache = cache
	}
}

func WithProducer(producer Producer, topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.eventsTopic = topic
	}
}

// WithMaxRetries bounds how often a reservation is re-attempted after losing
// an optimistic version race.
func WithMaxRetries(n int) BookingServiceOption {
	return func(s *BookingService) {
		if n > 0 {
			s.maxRetries = n
		}
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	options repository.TravelOptionRepository,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:   bookings,
		options:    options,
		maxRetries: defaultMaxRetries,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking reserves seats on an option. Each attempt re-reads the option
// and writes conditionally on the version it saw; losing a race re-runs the
// attempt, running out of seats does not.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if input.NumSeats <= 0 {
		return nil, domain.InvalidArgumentf("Number of seats must be greater than 0")
	}

	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		option, err := s.options.GetByID(ctx, input.OptionID)
		if err != nil {
			return nil, err
		}
		if option.AvailableSeats < input.NumSeats {
			return nil, &domain.InsufficientSeatsError{Requested: input.NumSeats, Remaining: option.AvailableSeats}
		}

		total, err := option.PricePerSeat.Mul(input.NumSeats)
		if err != nil {
			return nil, err
		}

		booking := &domain.Booking{
			Reference:  uuid.NewString(),
			UserID:     input.UserID,
			OptionID:   option.ID,
			NumSeats:   input.NumSeats,
			TotalPrice: total,
		}

		err = s.bookings.Reserve(ctx, booking, option.Version)
		if errors.Is(err, repository.ErrStaleOption) {
			log.Printf("booking retry option=%d attempt=%d/%d: %v", option.ID, attempt, s.maxRetries, err)
			continue
		}
		if err != nil {
			return nil, err
		}

		option.AvailableSeats -= input.NumSeats
		option.Version++
		booking.Option = option

		log.Printf("booking confirmed id=%d ref=%s option=%d user=%d seats=%d total=%s",
			booking.ID, booking.Reference, booking.OptionID, booking.UserID, booking.NumSeats, booking.TotalPrice)
		s.afterCommit(ctx, domain.EventBookingCreated, booking)
		return booking, nil
	}

	log.Printf("booking gave up option=%d after %d attempts", input.OptionID, s.maxRetries)
	return nil, domain.Conflictf("Travel option %d is busy, please retry", input.OptionID)
}

// CancelBooking flips a confirmed booking of the user to cancelled and
// returns its seats. A second cancel of the same booking fails.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, userID int64) (*domain.Booking, error) {
	cancelled, err := s.bookings.Cancel(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}

	log.Printf("booking cancelled id=%d ref=%s option=%d user=%d seats=%d",
		cancelled.ID, cancelled.Reference, cancelled.OptionID, cancelled.UserID, cancelled.NumSeats)
	s.afterCommit(ctx, domain.EventBookingCancelled, cancelled)

	if full, err := s.bookings.GetByUserAndID(ctx, userID, bookingID); err == nil {
		return full, nil
	}
	return cancelled, nil
}

func (s *BookingService) ListUserBookings(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

func (s *BookingService) GetUserBooking(ctx context.Context, userID, bookingID int64) (*domain.Booking, error) {
	return s.bookings.GetByUserAndID(ctx, userID, bookingID)
}

// Reconcile returns every option whose seat counter disagrees with its
// confirmed bookings or leaves the [0, total] range.
func (s *BookingService) Reconcile(ctx context.Context) ([]domain.InventoryLevel, error) {
	levels, err := s.options.InventoryLevels(ctx)
	if err != nil {
		return nil, err
	}
	var broken []domain.InventoryLevel
	for _, l := range levels {
		if !l.Consistent() {
			broken = append(broken, l)
		}
	}
	return broken, nil
}

func (s *BookingService) afterCommit(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.cache != nil {
		if err := s.cache.InvalidateOption(ctx, booking.OptionID); err != nil {
			log.Printf("WARNING: cache invalidation failed option=%d: %v", booking.OptionID, err)
		}
	}
	if err := s.publish(ctx, eventType, booking); err != nil {
		log.Printf("WARNING: failed to publish %s event for booking %s: %v", eventType, booking.Reference, err)
	}
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) error {
	if s.producer == nil || s.eventsTopic == "" {
		return nil
	}
	event := domain.NewBookingEvent(eventType, booking, s.now().UTC())
	return s.producer.Publish(ctx, s.eventsTopic, booking.Reference, event)
}

var _ BookingUseCase = (*BookingService)(nil)
