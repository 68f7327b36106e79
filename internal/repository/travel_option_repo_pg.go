package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TravelOptionRepository interface {
	Create(ctx context.Context, option *domain.TravelOption) error
	GetByID(ctx context.Context, id int64) (*domain.TravelOption, error)
	List(ctx context.Context, page domain.Page) ([]domain.TravelOption, error)
	Search(ctx context.Context, criteria domain.SearchCriteria, page domain.Page) ([]domain.TravelOption, error)
	InventoryLevels(ctx context.Context) ([]domain.InventoryLevel, error)
}

type PGTravelOptionRepository struct {
	db *pgxpool.Pool
}

func NewTravelOptionRepository(db *pgxpool.Pool) TravelOptionRepository {
	return &PGTravelOptionRepository{db: db}
}

const optionColumns = `id, title, type, source, destination, departure_time, arrival_time, price_cents, total_seats, available_seats, version, created_at, updated_at`

func scanOption(row pgx.Row) (*domain.TravelOption, error) {
	var o domain.TravelOption
	if err := row.Scan(&o.ID, &o.Title, &o.Type, &o.Source, &o.Destination, &o.DepartureTime, &o.ArrivalTime,
		&o.PricePerSeat, &o.TotalSeats, &o.AvailableSeats, &o.Version, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

func collectOptions(rows pgx.Rows) ([]domain.TravelOption, error) {
	defer rows.Close()

	options := make([]domain.TravelOption, 0)
	for rows.Next() {
		o, err := scanOption(rows)
		if err != nil {
			return nil, err
		}
		options = append(options, *o)
	}
	return options, rows.Err()
}

func (r *PGTravelOptionRepository) Create(ctx context.Context, option *domain.TravelOption) error {
	err := r.db.QueryRow(ctx, `INSERT INTO travel_options (title, type, source, destination, departure_time, arrival_time, price_cents, total_seats, available_seats)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, version, created_at, updated_at`,
		option.Title, string(option.Type), option.Source, option.Destination, option.DepartureTime, option.ArrivalTime,
		option.PricePerSeat.Cents(), option.TotalSeats, option.AvailableSeats).
		Scan(&option.ID, &option.Version, &option.CreatedAt, &option.UpdatedAt)
	if err != nil {
		return mapPGError(err, "travel option")
	}
	return nil
}

func (r *PGTravelOptionRepository) GetByID(ctx context.Context, id int64) (*domain.TravelOption, error) {
	o, err := scanOption(r.db.QueryRow(ctx, `SELECT `+optionColumns+` FROM travel_options WHERE id=$1`, id))
	if err != nil {
		return nil, mapPGError(err, "travel option")
	}
	return o, nil
}

func (r *PGTravelOptionRepository) List(ctx context.Context, page domain.Page) ([]domain.TravelOption, error) {
	rows, err := r.db.Query(ctx, `SELECT `+optionColumns+` FROM travel_options ORDER BY id OFFSET $1 LIMIT $2`, page.Skip, page.Limit)
	if err != nil {
		return nil, err
	}
	return collectOptions(rows)
}

func (r *PGTravelOptionRepository) Search(ctx context.Context, criteria domain.SearchCriteria, page domain.Page) ([]domain.TravelOption, error) {
	query, args := buildSearchQuery(criteria, page)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectOptions(rows)
}

// buildSearchQuery mirrors domain.SearchCriteria.Matches in SQL.
func buildSearchQuery(criteria domain.SearchCriteria, page domain.Page) (string, []any) {
	where := []string{"available_seats > 0"}
	var args []any
	add := func(cond string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if criteria.Type != "" {
		add("type ILIKE $%d", likePattern(criteria.Type))
	}
	if criteria.Source != "" {
		add("source ILIKE $%d", likePattern(criteria.Source))
	}
	if criteria.Destination != "" {
		add("destination ILIKE $%d", likePattern(criteria.Destination))
	}
	if start, end, ok := criteria.DayBounds(); ok {
		add("departure_time >= $%d", start)
		add("departure_time < $%d", end)
	}
	if criteria.MinPrice != nil {
		add("price_cents >= $%d", criteria.MinPrice.Cents())
	}
	if criteria.MaxPrice != nil {
		add("price_cents <= $%d", criteria.MaxPrice.Cents())
	}

	args = append(args, page.Skip, page.Limit)
	query := fmt.Sprintf(`SELECT %s FROM travel_options WHERE %s ORDER BY id OFFSET $%d LIMIT $%d`,
		optionColumns, strings.Join(where, " AND "), len(args)-1, len(args))
	return query, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func (r *PGTravelOptionRepository) InventoryLevels(ctx context.Context) ([]domain.InventoryLevel, error) {
	rows, err := r.db.Query(ctx, `
		SELECT o.id, o.total_seats, o.available_seats, COALESCE(SUM(b.num_seats), 0)
		FROM travel_options o
		LEFT JOIN bookings b ON b.option_id = o.id AND b.status = 'Confirmed'
		GROUP BY o.id, o.total_seats, o.available_seats
		ORDER BY o.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	levels := make([]domain.InventoryLevel, 0)
	for rows.Next() {
		var l domain.InventoryLevel
		if err := rows.Scan(&l.OptionID, &l.TotalSeats, &l.AvailableSeats, &l.ConfirmedSeats); err != nil {
			return nil, err
		}
		levels = append(levels, l)
	}
	return levels, rows.Err()
}

var _ TravelOptionRepository = (*PGTravelOptionRepository)(nil)
