package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/alexedwards/argon2id"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

// Seeds a demo organization with a menu, combos, offers and two users so a
// fresh database is usable right away. Safe to re-run: everything upserts.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close(ctx)

	orgID := seedOrg(ctx, conn)
	log.Printf("Using Org ID: %s", orgID)

	seedUsers(ctx, conn, orgID)
	productIDs := seedProducts(ctx, conn, orgID)
	seedCombos(ctx, conn, orgID, productIDs)
	seedOffers(ctx, conn, orgID)

	log.Println("Seeding completed successfully!")
}

func seedOrg(ctx context.Context, conn *pgx.Conn) string {
	var orgID string
	err := conn.QueryRow(ctx, "SELECT id FROM orgs WHERE name = 'Thrive Demo Cafe'").Scan(&orgID)
	if err == nil {
		return orgID
	}
	log.Println("Demo org not found, creating...")
	err = conn.QueryRow(ctx, `
		INSERT INTO orgs (name) VALUES ('Thrive Demo Cafe')
		RETURNING id;
	`).Scan(&orgID)
	if err != nil {
		log.Fatalf("Failed to create demo org: %v", err)
	}
	return orgID
}

func seedUsers(ctx context.Context, conn *pgx.Conn, orgID string) {
	users := []struct {
		Name  string
		Email string
		Role  string
	}{
		{"Demo Admin", "admin@thrive.demo", "admin"},
		{"Demo Staff", "staff@thrive.demo", "staff"},
	}

	fmt.Println("Seeding Users...")
	hash, err := argon2id.CreateHash("demo1234", argon2id.DefaultParams)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	for _, u := range users {
		_, err := conn.Exec(ctx, `
			INSERT INTO users (name, email, password_hash, role, org_id)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (email) DO NOTHING;
		`, u.Name, u.Email, hash, u.Role, orgID)
		if err != nil {
			log.Printf("Failed to seed user %s: %v", u.Email, err)
		}
	}
}

func seedProducts(ctx context.Context, conn *pgx.Conn, orgID string) map[string]string {
	products := []struct {
		Name     string
		Category string
		Price    string
	}{
		{"Cappuccino", "coffee", "4.50"},
		{"Espresso", "coffee", "3.00"},
		{"Latte", "coffee", "4.80"},
		{"Americano", "coffee", "3.50"},
		{"Mocha", "coffee", "5.20"},
		{"Croissant", "pastry", "3.20"},
		{"Blueberry Muffin", "pastry", "3.80"},
	}

	fmt.Println("Seeding Products...")
	ids := make(map[string]string)
	for _, p := range products {
		var id string
		err := conn.QueryRow(ctx, `
			SELECT id FROM products WHERE org_id = $1 AND name = $2
		`, orgID, p.Name).Scan(&id)
		if err == nil {
			ids[p.Name] = id
			continue
		}
		err = conn.QueryRow(ctx, `
			INSERT INTO products (org_id, name, category, price, available)
			VALUES ($1, $2, $3, $4, TRUE)
			RETURNING id;
		`, orgID, p.Name, p.Category, p.Price).Scan(&id)
		if err != nil {
			log.Printf("Failed to seed product %s: %v", p.Name, err)
			continue
		}
		ids[p.Name] = id
	}
	return ids
}

func seedCombos(ctx context.Context, conn *pgx.Conn, orgID string, productIDs map[string]string) {
	combos := []struct {
		Name  string
		Price string
		Items map[string]int
	}{
		{"Coffee + Pastry", "7.50", map[string]int{"Cappuccino": 1, "Croissant": 1}},
		{"Breakfast Set", "12.00", map[string]int{"Latte": 1, "Croissant": 1, "Blueberry Muffin": 1}},
	}

	fmt.Println("Seeding Combos...")
	for _, c := range combos {
		var id string
		err := conn.QueryRow(ctx, `
			SELECT id FROM combos WHERE org_id = $1 AND name = $2
		`, orgID, c.Name).Scan(&id)
		if err == nil {
			continue
		}
		err = conn.QueryRow(ctx, `
			INSERT INTO combos (org_id, name, price, available)
			VALUES ($1, $2, $3, TRUE)
			RETURNING id;
		`, orgID, c.Name, c.Price).Scan(&id)
		if err != nil {
			log.Printf("Failed to seed combo %s: %v", c.Name, err)
			continue
		}
		for productName, qty := range c.Items {
			productID, ok := productIDs[productName]
			if !ok {
				log.Printf("Missing product ID for %s", productName)
				continue
			}
			_, err := conn.Exec(ctx, `
				INSERT INTO combo_items (combo_id, product_id, quantity)
				VALUES ($1, $2, $3)
				ON CONFLICT (combo_id, product_id) DO UPDATE SET quantity = EXCLUDED.quantity;
			`, id, productID, qty)
			if err != nil {
				log.Printf("Failed to seed combo item %s for %s: %v", productName, c.Name, err)
			}
		}
	}
}

func seedOffers(ctx context.Context, conn *pgx.Conn, orgID string) {
	offers := []struct {
		Name      string
		Percent   string
		StartDate string
		EndDate   string
		StartTime string
		EndTime   string
		Scope     string
	}{
		{"Happy Hour", "10", "2026-01-01", "2026-12-31", "15:00", "17:00", "all"},
		{"Student Discount", "15", "2026-01-01", "2026-12-31", "08:00", "11:00", "products"},
	}

	fmt.Println("Seeding Offers...")
	for _, o := range offers {
		var exists bool
		err := conn.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM offers WHERE org_id = $1 AND name = $2)
		`, orgID, o.Name).Scan(&exists)
		if err != nil {
			log.Printf("Failed to check offer %s: %v", o.Name, err)
			continue
		}
		if exists {
			continue
		}
		_, err = conn.Exec(ctx, `
			INSERT INTO offers (org_id, name, percent, start_date, end_date, start_time, end_time, scope, active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE);
		`, orgID, o.Name, o.Percent, o.StartDate, o.EndDate, o.StartTime, o.EndTime, o.Scope)
		if err != nil {
			log.Printf("Failed to seed offer %s: %v", o.Name, err)
		}
	}
}
