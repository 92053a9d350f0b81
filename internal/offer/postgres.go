package offer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Hitarth2510/thrive-backend/internal/common"
)

// PostgresStore persists offers in the offers table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const offerColumns = `id, org_id, name, percent, start_date, end_date, start_time, end_time, scope, active, created_at, updated_at`

func scanOffer(row pgx.Row) (Offer, error) {
	var o Offer
	err := row.Scan(&o.ID, &o.OrgID, &o.Name, &o.Percent,
		&o.Window.StartDate, &o.Window.EndDate, &o.Window.StartTime, &o.Window.EndTime,
		&o.Scope, &o.Active, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Offer{}, common.ErrNotFound
	}
	if err != nil {
		return Offer{}, fmt.Errorf("scan offer: %w", err)
	}
	return o, nil
}

func (s *PostgresStore) ListOffers(ctx context.Context, orgID uuid.UUID) ([]Offer, error) {
	q := `SELECT ` + offerColumns + ` FROM offers WHERE org_id = $1 ORDER BY name`
	rows, err := s.pool.Query(ctx, q, orgID)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	defer rows.Close()
	var out []Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetOffer(ctx context.Context, orgID, id uuid.UUID) (Offer, error) {
	q := `SELECT ` + offerColumns + ` FROM offers WHERE org_id = $1 AND id = $2`
	return scanOffer(s.pool.QueryRow(ctx, q, orgID, id))
}

func (s *PostgresStore) CreateOffer(ctx context.Context, o Offer) (Offer, error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	q := `
		INSERT INTO offers (id, org_id, name, percent, start_date, end_date, start_time, end_time, scope, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`
	err := s.pool.QueryRow(ctx, q, o.ID, o.OrgID, o.Name, o.Percent,
		o.Window.StartDate, o.Window.EndDate, o.Window.StartTime, o.Window.EndTime,
		o.Scope, o.Active).
		Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return Offer{}, fmt.Errorf("create offer: %w", err)
	}
	return o, nil
}

func (s *PostgresStore) UpdateOffer(ctx context.Context, o Offer) (Offer, error) {
	q := `
		UPDATE offers
		SET name = $3, percent = $4, start_date = $5, end_date = $6,
		    start_time = $7, end_time = $8, scope = $9, active = $10, updated_at = now()
		WHERE org_id = $1 AND id = $2
		RETURNING created_at, updated_at`
	err := s.pool.QueryRow(ctx, q, o.OrgID, o.ID, o.Name, o.Percent,
		o.Window.StartDate, o.Window.EndDate, o.Window.StartTime, o.Window.EndTime,
		o.Scope, o.Active).
		Scan(&o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Offer{}, common.ErrNotFound
	}
	if err != nil {
		return Offer{}, fmt.Errorf("update offer: %w", err)
	}
	return o, nil
}

func (s *PostgresStore) DeleteOffer(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM offers WHERE org_id = $1 AND id = $2`, orgID, id)
	if err != nil {
		return fmt.Errorf("delete offer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}
