package catalog

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/repository"
)

type CatalogUseCase interface {
	Search(ctx context.Context, criteria domain.SearchCriteria, page domain.Page) ([]domain.TravelOption, error)
	GetOption(ctx context.Context, id int64) (*domain.TravelOption, error)
	CreateOption(ctx context.Context, input domain.CreateTravelOptionInput) (*domain.TravelOption, error)
}

// Cache serves catalog reads for display. A miss is (nil, nil). Entries are
// scoped to a generation that InvalidateOption advances.
type Cache interface {
	Generation(ctx context.Context) (int64, error)
	GetOption(ctx context.Context, gen, id int64) (*domain.TravelOption, error)
	SetOption(ctx context.Context, gen int64, option *domain.TravelOption) error
	GetOptions(ctx context.Context, gen int64, query string) ([]domain.TravelOption, error)
	SetOptions(ctx context.Context, gen int64, query string, options []domain.TravelOption) error
	InvalidateOption(ctx context.Context, id int64) error
}

const (
	defaultPageLimit = 100
	maxPageLimit     = 500
)

type CatalogService struct {
	repo              repository.TravelOptionRepository
	cache             Cache
	defaultLimit      int
	maxLimit          int
	hideSoldOutInList bool
}

type CatalogServiceOption func(*CatalogService)

func WithPageLimits(defaultLimit, maxLimit int) CatalogServiceOption {
	return func(s *CatalogService) {
		if defaultLimit > 0 {
			s.defaultLimit = defaultLimit
		}
		if maxLimit > 0 {
			s.maxLimit = maxLimit
		}
	}
}

// WithSoldOutHiddenInList makes the unfiltered listing drop sold-out options
// the same way search does.
func WithSoldOutHiddenInList(hide bool) CatalogServiceOption {
	return func(s *CatalogService) {
		s.hideSoldOutInList = hide
	}
}

// cache may be nil to disable caching.
func NewCatalogService(repo repository.TravelOptionRepository, cache Cache, opts ...CatalogServiceOption) *CatalogService {
	s := &CatalogService{
		repo:         repo,
		cache:        cache,
		defaultLimit: defaultPageLimit,
		maxLimit:     maxPageLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search lists the catalog when no filter is given and searches it otherwise.
// Only the search path hides sold-out options unless configured otherwise.
func (s *CatalogService) Search(ctx context.Context, criteria domain.SearchCriteria, page domain.Page) ([]domain.TravelOption, error) {
	page = s.normalizePage(page)
	filtered := criteria.HasFilters() || s.hideSoldOutInList
	key := cacheKey(criteria, page, filtered)

	gen, useCache := s.generation(ctx)
	if useCache {
		if cached, err := s.cache.GetOptions(ctx, gen, key); err == nil && cached != nil {
			return cached, nil
		} else if err != nil {
			log.Printf("catalog cache read failed key=%q: %v", key, err)
		}
	}

	var (
		options []domain.TravelOption
		err     error
	)
	if filtered {
		options, err = s.repo.Search(ctx, criteria, page)
	} else {
		options, err = s.repo.List(ctx, page)
	}
	if err != nil {
		return nil, err
	}

	if useCache {
		_ = s.cache.SetOptions(ctx, gen, key, options)
	}
	return options, nil
}

func (s *CatalogService) GetOption(ctx context.Context, id int64) (*domain.TravelOption, error) {
	gen, useCache := s.generation(ctx)
	if useCache {
		if cached, err := s.cache.GetOption(ctx, gen, id); err == nil && cached != nil {
			return cached, nil
		}
	}

	option, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if useCache {
		_ = s.cache.SetOption(ctx, gen, option)
	}
	return option, nil
}

func (s *CatalogService) CreateOption(ctx context.Context, input domain.CreateTravelOptionInput) (*domain.TravelOption, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	input.Type, _ = domain.ParseTravelType(string(input.Type))

	option := input.ToOption()
	if err := s.repo.Create(ctx, &option); err != nil {
		return nil, err
	}
	log.Printf("travel option created id=%d type=%s route=%s->%s seats=%d", option.ID, option.Type, option.Source, option.Destination, option.TotalSeats)

	if s.cache != nil {
		if err := s.cache.InvalidateOption(ctx, option.ID); err != nil {
			log.Printf("catalog cache invalidation failed option=%d: %v", option.ID, err)
		}
	}
	return &option, nil
}

// generation is read once per request, before the repository query; the
// result is written back under it even if an invalidation happened meanwhile.
func (s *CatalogService) generation(ctx context.Context) (int64, bool) {
	if s.cache == nil {
		return 0, false
	}
	gen, err := s.cache.Generation(ctx)
	if err != nil {
		log.Printf("catalog cache unavailable: %v", err)
		return 0, false
	}
	return gen, true
}

func (s *CatalogService) normalizePage(page domain.Page) domain.Page {
	if page.Skip < 0 {
		page.Skip = 0
	}
	if page.Limit <= 0 {
		page.Limit = s.defaultLimit
	}
	if page.Limit > s.maxLimit {
		page.Limit = s.maxLimit
	}
	return page
}

func cacheKey(c domain.SearchCriteria, page domain.Page, filtered bool) string {
	price := func(m *domain.Money) string {
		if m == nil {
			return ""
		}
		return m.String()
	}
	return fmt.Sprintf("filtered=%t|type=%s|source=%s|destination=%s|date=%s|min=%s|max=%s|skip=%d|limit=%d",
		filtered,
		strings.ToLower(c.Type), strings.ToLower(c.Source), strings.ToLower(c.Destination), c.Date,
		price(c.MinPrice), price(c.MaxPrice), page.Skip, page.Limit)
}

var _ CatalogUseCase = (*CatalogService)(nil)
