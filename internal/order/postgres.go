package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Hitarth2510/thrive-backend/internal/common"
)

// PostgresStore persists drafts and sales. Draft snapshots are stored as
// JSONB; sale lines get their own table for reporting.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) SaveDraft(ctx context.Context, d Draft) (Draft, error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	snapshot, err := json.Marshal(d.Snapshot)
	if err != nil {
		return Draft{}, fmt.Errorf("marshal draft snapshot: %w", err)
	}
	q := `
		INSERT INTO drafts (id, org_id, name, snapshot)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, snapshot = EXCLUDED.snapshot
		RETURNING created_at`
	if err := s.pool.QueryRow(ctx, q, d.ID, d.OrgID, d.Name, snapshot).Scan(&d.CreatedAt); err != nil {
		return Draft{}, fmt.Errorf("save draft: %w", err)
	}
	return d, nil
}

func scanDraft(row pgx.Row) (Draft, error) {
	var d Draft
	var snapshot []byte
	err := row.Scan(&d.ID, &d.OrgID, &d.Name, &snapshot, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Draft{}, common.ErrNotFound
	}
	if err != nil {
		return Draft{}, fmt.Errorf("scan draft: %w", err)
	}
	if err := json.Unmarshal(snapshot, &d.Snapshot); err != nil {
		return Draft{}, fmt.Errorf("unmarshal draft snapshot: %w", err)
	}
	if d.Snapshot.SelectedOfferIDs == nil {
		d.Snapshot.SelectedOfferIDs = []uuid.UUID{}
	}
	return d, nil
}

func (s *PostgresStore) ListDrafts(ctx context.Context, orgID uuid.UUID) ([]Draft, error) {
	q := `SELECT id, org_id, name, snapshot, created_at FROM drafts WHERE org_id = $1 ORDER BY created_at DESC`
	rows, err := s.pool.Query(ctx, q, orgID)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()
	var out []Draft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetDraft(ctx context.Context, orgID, id uuid.UUID) (Draft, error) {
	q := `SELECT id, org_id, name, snapshot, created_at FROM drafts WHERE org_id = $1 AND id = $2`
	return scanDraft(s.pool.QueryRow(ctx, q, orgID, id))
}

func (s *PostgresStore) DeleteDraft(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM drafts WHERE org_id = $1 AND id = $2`, orgID, id)
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CommitSale(ctx context.Context, sale Sale) (Sale, error) {
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Sale{}, fmt.Errorf("begin sale tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO sales (id, org_id, customer_name, customer_phone, payment_method, subtotal, discount, total, cashier_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`,
		sale.ID, sale.OrgID, sale.CustomerName, sale.CustomerPhone, sale.PaymentMethod,
		sale.Subtotal, sale.Discount, sale.Total, sale.CashierID).
		Scan(&sale.CreatedAt)
	if err != nil {
		return Sale{}, fmt.Errorf("insert sale: %w", err)
	}
	for _, it := range sale.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO sale_items (sale_id, item_id, kind, name, unit_price, quantity, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			sale.ID, it.ItemID, it.Kind, it.Name, it.UnitPrice, it.Quantity, it.LineTotal); err != nil {
			return Sale{}, fmt.Errorf("insert sale item: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return Sale{}, fmt.Errorf("commit sale tx: %w", err)
	}
	return sale, nil
}

const saleColumns = `id, org_id, customer_name, customer_phone, payment_method, subtotal, discount, total, cashier_id, created_at`

func scanSale(row pgx.Row) (Sale, error) {
	var s Sale
	err := row.Scan(&s.ID, &s.OrgID, &s.CustomerName, &s.CustomerPhone, &s.PaymentMethod,
		&s.Subtotal, &s.Discount, &s.Total, &s.CashierID, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Sale{}, common.ErrNotFound
	}
	if err != nil {
		return Sale{}, fmt.Errorf("scan sale: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) loadItems(ctx context.Context, sales []Sale) error {
	for i := range sales {
		rows, err := s.pool.Query(ctx, `
			SELECT item_id, kind, name, unit_price, quantity, line_total
			FROM sale_items WHERE sale_id = $1`, sales[i].ID)
		if err != nil {
			return fmt.Errorf("list sale items: %w", err)
		}
		var items []SaleItem
		for rows.Next() {
			var it SaleItem
			if err := rows.Scan(&it.ItemID, &it.Kind, &it.Name, &it.UnitPrice, &it.Quantity, &it.LineTotal); err != nil {
				rows.Close()
				return fmt.Errorf("scan sale item: %w", err)
			}
			items = append(items, it)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
		sales[i].Items = items
	}
	return nil
}

func (s *PostgresStore) ListSales(ctx context.Context, orgID uuid.UUID, page, perPage int) ([]Sale, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM sales WHERE org_id = $1`, orgID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}
	q := `SELECT ` + saleColumns + ` FROM sales WHERE org_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := s.pool.Query(ctx, q, orgID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var out []Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if err := s.loadItems(ctx, out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *PostgresStore) GetSale(ctx context.Context, orgID, id uuid.UUID) (Sale, error) {
	q := `SELECT ` + saleColumns + ` FROM sales WHERE org_id = $1 AND id = $2`
	sale, err := scanSale(s.pool.QueryRow(ctx, q, orgID, id))
	if err != nil {
		return Sale{}, err
	}
	sales := []Sale{sale}
	if err := s.loadItems(ctx, sales); err != nil {
		return Sale{}, err
	}
	return sales[0], nil
}

func (s *PostgresStore) ListSalesBetween(ctx context.Context, orgID uuid.UUID, from, to time.Time) ([]Sale, error) {
	q := `SELECT ` + saleColumns + ` FROM sales WHERE org_id = $1 AND created_at >= $2 AND created_at < $3 ORDER BY created_at`
	rows, err := s.pool.Query(ctx, q, orgID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list sales between: %w", err)
	}
	defer rows.Close()
	var out []Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.loadItems(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}
