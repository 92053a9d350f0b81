package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Hitarth2510/thrive-backend/internal/common"
)

// PostgresStore persists the menu in the products, combos, and combo_items
// tables.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const productColumns = `id, org_id, name, category, price, available, created_at, updated_at`

func (s *PostgresStore) ListProducts(ctx context.Context, orgID uuid.UUID) ([]Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE org_id = $1 ORDER BY name`
	rows, err := s.pool.Query(ctx, q, orgID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.OrgID, &p.Name, &p.Category, &p.Price, &p.Available, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetProduct(ctx context.Context, orgID, id uuid.UUID) (Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE org_id = $1 AND id = $2`
	var p Product
	err := s.pool.QueryRow(ctx, q, orgID, id).
		Scan(&p.ID, &p.OrgID, &p.Name, &p.Category, &p.Price, &p.Available, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, common.ErrNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) CreateProduct(ctx context.Context, p Product) (Product, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	q := `
		INSERT INTO products (id, org_id, name, category, price, available)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`
	err := s.pool.QueryRow(ctx, q, p.ID, p.OrgID, p.Name, p.Category, p.Price, p.Available).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) UpdateProduct(ctx context.Context, p Product) (Product, error) {
	q := `
		UPDATE products
		SET name = $3, category = $4, price = $5, available = $6, updated_at = now()
		WHERE org_id = $1 AND id = $2
		RETURNING created_at, updated_at`
	err := s.pool.QueryRow(ctx, q, p.OrgID, p.ID, p.Name, p.Category, p.Price, p.Available).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, common.ErrNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) DeleteProduct(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM products WHERE org_id = $1 AND id = $2`, orgID, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

const comboColumns = `id, org_id, name, price, available, created_at, updated_at`

func (s *PostgresStore) ListCombos(ctx context.Context, orgID uuid.UUID) ([]Combo, error) {
	q := `SELECT ` + comboColumns + ` FROM combos WHERE org_id = $1 ORDER BY name`
	rows, err := s.pool.Query(ctx, q, orgID)
	if err != nil {
		return nil, fmt.Errorf("list combos: %w", err)
	}
	defer rows.Close()
	var out []Combo
	for rows.Next() {
		var c Combo
		if err := rows.Scan(&c.ID, &c.OrgID, &c.Name, &c.Price, &c.Available, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan combo: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		items, err := s.listComboItems(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Items = items
	}
	return out, nil
}

func (s *PostgresStore) GetCombo(ctx context.Context, orgID, id uuid.UUID) (Combo, error) {
	q := `SELECT ` + comboColumns + ` FROM combos WHERE org_id = $1 AND id = $2`
	var c Combo
	err := s.pool.QueryRow(ctx, q, orgID, id).
		Scan(&c.ID, &c.OrgID, &c.Name, &c.Price, &c.Available, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Combo{}, common.ErrNotFound
	}
	if err != nil {
		return Combo{}, fmt.Errorf("get combo: %w", err)
	}
	items, err := s.listComboItems(ctx, c.ID)
	if err != nil {
		return Combo{}, err
	}
	c.Items = items
	return c, nil
}

func (s *PostgresStore) listComboItems(ctx context.Context, comboID uuid.UUID) ([]ComboItem, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT product_id, quantity FROM combo_items WHERE combo_id = $1`, comboID)
	if err != nil {
		return nil, fmt.Errorf("list combo items: %w", err)
	}
	defer rows.Close()
	var items []ComboItem
	for rows.Next() {
		var it ComboItem
		if err := rows.Scan(&it.ProductID, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan combo item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *PostgresStore) CreateCombo(ctx context.Context, c Combo) (Combo, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Combo{}, fmt.Errorf("begin combo tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO combos (id, org_id, name, price, available)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		c.ID, c.OrgID, c.Name, c.Price, c.Available).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return Combo{}, fmt.Errorf("create combo: %w", err)
	}
	if err := insertComboItems(ctx, tx, c.ID, c.Items); err != nil {
		return Combo{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Combo{}, fmt.Errorf("commit combo tx: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) UpdateCombo(ctx context.Context, c Combo) (Combo, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Combo{}, fmt.Errorf("begin combo tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		UPDATE combos
		SET name = $3, price = $4, available = $5, updated_at = now()
		WHERE org_id = $1 AND id = $2
		RETURNING created_at, updated_at`,
		c.OrgID, c.ID, c.Name, c.Price, c.Available).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Combo{}, common.ErrNotFound
	}
	if err != nil {
		return Combo{}, fmt.Errorf("update combo: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM combo_items WHERE combo_id = $1`, c.ID); err != nil {
		return Combo{}, fmt.Errorf("clear combo items: %w", err)
	}
	if err := insertComboItems(ctx, tx, c.ID, c.Items); err != nil {
		return Combo{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Combo{}, fmt.Errorf("commit combo tx: %w", err)
	}
	return c, nil
}

func insertComboItems(ctx context.Context, tx pgx.Tx, comboID uuid.UUID, items []ComboItem) error {
	for _, it := range items {
		if _, err := tx.Exec(ctx,
			`INSERT INTO combo_items (combo_id, product_id, quantity) VALUES ($1, $2, $3)`,
			comboID, it.ProductID, it.Quantity); err != nil {
			return fmt.Errorf("insert combo item: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) DeleteCombo(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM combos WHERE org_id = $1 AND id = $2`, orgID, id)
	if err != nil {
		return fmt.Errorf("delete combo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}
