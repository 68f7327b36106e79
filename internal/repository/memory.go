package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
)

// MemoryStore keeps every table in process memory behind one mutex. It
// honours the same version and capacity rules as the Postgres repositories
// and backs the "memory" storage driver and the tests.
type MemoryStore struct {
	mu       sync.Mutex
	options  map[int64]*domain.TravelOption
	bookings map[int64]*domain.Booking
	users    map[int64]*domain.User
	events   map[string]domain.BookingEvent
	lastID   int64
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		options:  make(map[int64]*domain.TravelOption),
		bookings: make(map[int64]*domain.Booking),
		users:    make(map[int64]*domain.User),
		events:   make(map[string]domain.BookingEvent),
		now:      time.Now,
	}
}

func (s *MemoryStore) TravelOptions() TravelOptionRepository { return memoryOptions{s} }
func (s *MemoryStore) Bookings() BookingRepository           { return memoryBookings{s} }
func (s *MemoryStore) Users() UserRepository                 { return memoryUsers{s} }
func (s *MemoryStore) Events() EventRepository               { return memoryEvents{s} }

func (s *MemoryStore) nextID() int64 {
	s.lastID++
	return s.lastID
}

// StoredEvents returns the audit trail ordered by booking id.
func (s *MemoryStore) StoredEvents() []domain.BookingEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.BookingEvent, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BookingID != out[j].BookingID {
			return out[i].BookingID < out[j].BookingID
		}
		return out[i].Type < out[j].Type
	})
	return out
}

type memoryOptions struct{ s *MemoryStore }

func (m memoryOptions) Create(_ context.Context, option *domain.TravelOption) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if option.AvailableSeats < 0 || option.AvailableSeats > option.TotalSeats {
		return domain.Conflictf("travel option violates travel_options_seats_check")
	}
	now := m.s.now()
	option.ID = m.s.nextID()
	option.Version = 0
	option.CreatedAt = now
	option.UpdatedAt = now
	stored := *option
	m.s.options[option.ID] = &stored
	return nil
}

func (m memoryOptions) GetByID(_ context.Context, id int64) (*domain.TravelOption, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	o, ok := m.s.options[id]
	if !ok {
		return nil, domain.NotFoundf("travel option not found")
	}
	out := *o
	return &out, nil
}

func (m memoryOptions) List(_ context.Context, page domain.Page) ([]domain.TravelOption, error) {
	return m.filter(page, func(domain.TravelOption) bool { return true }), nil
}

func (m memoryOptions) Search(_ context.Context, criteria domain.SearchCriteria, page domain.Page) ([]domain.TravelOption, error) {
	return m.filter(page, criteria.Matches), nil
}

func (m memoryOptions) filter(page domain.Page, keep func(domain.TravelOption) bool) []domain.TravelOption {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	ids := make([]int64, 0, len(m.s.options))
	for id := range m.s.options {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]domain.TravelOption, 0)
	skipped := 0
	for _, id := range ids {
		o := *m.s.options[id]
		if !keep(o) {
			continue
		}
		if skipped < page.Skip {
			skipped++
			continue
		}
		if len(out) >= page.Limit {
			break
		}
		out = append(out, o)
	}
	return out
}

func (m memoryOptions) InventoryLevels(_ context.Context) ([]domain.InventoryLevel, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	confirmed := make(map[int64]int)
	for _, b := range m.s.bookings {
		if b.Status == domain.BookingStatusConfirmed {
			confirmed[b.OptionID] += b.NumSeats
		}
	}

	levels := make([]domain.InventoryLevel, 0, len(m.s.options))
	for _, o := range m.s.options {
		levels = append(levels, domain.InventoryLevel{
			OptionID:       o.ID,
			TotalSeats:     o.TotalSeats,
			AvailableSeats: o.AvailableSeats,
			ConfirmedSeats: confirmed[o.ID],
		})
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].OptionID < levels[j].OptionID })
	return levels, nil
}

type memoryBookings struct{ s *MemoryStore }

func (m memoryBookings) Reserve(_ context.Context, booking *domain.Booking, expectedVersion int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	o, ok := m.s.options[booking.OptionID]
	if !ok || o.Version != expectedVersion || o.AvailableSeats < booking.NumSeats {
		return ErrStaleOption
	}

	now := m.s.now()
	o.AvailableSeats -= booking.NumSeats
	o.Version++
	o.UpdatedAt = now

	booking.ID = m.s.nextID()
	booking.Status = domain.BookingStatusConfirmed
	booking.BookingDate = now
	stored := *booking
	stored.Option = nil
	m.s.bookings[booking.ID] = &stored
	return nil
}

func (m memoryBookings) Cancel(_ context.Context, bookingID, userID int64) (*domain.Booking, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	b, ok := m.s.bookings[bookingID]
	if !ok || b.UserID != userID || b.Status != domain.BookingStatusConfirmed {
		return nil, ErrNotCancellable
	}
	o, ok := m.s.options[b.OptionID]
	if !ok || o.AvailableSeats+b.NumSeats > o.TotalSeats {
		return nil, fmt.Errorf("option %d: %w", b.OptionID, ErrSeatOverflow)
	}

	now := m.s.now()
	o.AvailableSeats += b.NumSeats
	o.Version++
	o.UpdatedAt = now
	b.Status = domain.BookingStatusCancelled
	b.CancelledAt = &now

	out := *b
	return &out, nil
}

func (m memoryBookings) withOption(b *domain.Booking) domain.Booking {
	out := *b
	if o, ok := m.s.options[b.OptionID]; ok {
		opt := *o
		out.Option = &opt
	}
	return out
}

func (m memoryBookings) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	b, ok := m.s.bookings[id]
	if !ok {
		return nil, domain.NotFoundf("booking not found")
	}
	out := m.withOption(b)
	return &out, nil
}

func (m memoryBookings) GetByUserAndID(_ context.Context, userID, bookingID int64) (*domain.Booking, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	b, ok := m.s.bookings[bookingID]
	if !ok || b.UserID != userID {
		return nil, domain.NotFoundf("booking not found")
	}
	out := m.withOption(b)
	return &out, nil
}

func (m memoryBookings) ListByUser(_ context.Context, userID int64) ([]domain.Booking, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	out := make([]domain.Booking, 0)
	for _, b := range m.s.bookings {
		if b.UserID == userID {
			out = append(out, m.withOption(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memoryUsers struct{ s *MemoryStore }

func (m memoryUsers) Create(_ context.Context, user *domain.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	for _, u := range m.s.users {
		if u.Username == user.Username {
			return domain.Conflictf("user already exists (users_username_key)")
		}
		if u.Email == user.Email {
			return domain.Conflictf("user already exists (users_email_key)")
		}
	}
	user.ID = m.s.nextID()
	user.CreatedAt = m.s.now()
	stored := *user
	m.s.users[user.ID] = &stored
	return nil
}

func (m memoryUsers) find(match func(*domain.User) bool) (*domain.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	for _, u := range m.s.users {
		if match(u) {
			out := *u
			return &out, nil
		}
	}
	return nil, domain.NotFoundf("user not found")
}

func (m memoryUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.ID == id })
}

func (m memoryUsers) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.Username == username })
}

func (m memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.Email == email })
}

func (m memoryUsers) Update(_ context.Context, id int64, update domain.UserUpdate) (*domain.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	u, ok := m.s.users[id]
	if !ok {
		return nil, domain.NotFoundf("user not found")
	}
	if update.Email != nil {
		for _, other := range m.s.users {
			if other.ID != id && other.Email == *update.Email {
				return nil, domain.Conflictf("user already exists (users_email_key)")
			}
		}
		u.Email = *update.Email
	}
	if update.FullName != nil {
		u.FullName = *update.FullName
	}
	if update.PhoneNumber != nil {
		u.PhoneNumber = *update.PhoneNumber
	}
	out := *u
	return &out, nil
}

type memoryEvents struct{ s *MemoryStore }

func (m memoryEvents) Append(_ context.Context, event domain.BookingEvent) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	key := event.Reference + "/" + event.Type
	if _, ok := m.s.events[key]; !ok {
		m.s.events[key] = event
	}
	return nil
}

var (
	_ TravelOptionRepository = memoryOptions{}
	_ BookingRepository      = memoryBookings{}
	_ UserRepository         = memoryUsers{}
	_ EventRepository        = memoryEvents{}
)
