package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"deal-hunter/models"
)

// PostgresWriter persists scored deals to PostgreSQL. Deals are keyed by
// listing URL: re-scraping a known listing refreshes its score and
// financials instead of duplicating it.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS deals (
			id               SERIAL PRIMARY KEY,
			title            TEXT          NOT NULL,
			url              TEXT          NOT NULL DEFAULT '',
			location         TEXT          NOT NULL DEFAULT '',
			asking_price     NUMERIC(14,2),
			revenue          NUMERIC(14,2),
			ebitda           NUMERIC(14,2),
			cash_flow_sde    NUMERIC(14,2),
			year_established INTEGER,
			employees        INTEGER,
			description      TEXT          NOT NULL DEFAULT '',
			source           VARCHAR(100)  NOT NULL DEFAULT 'BizBuySell',
			industry         TEXT          NOT NULL DEFAULT 'Other',
			date_found       DATE,
			traits           TEXT[]        NOT NULL DEFAULT '{}',
			avoid_traits     TEXT[]        NOT NULL DEFAULT '{}',
			score            INTEGER       NOT NULL DEFAULT 0,
			multiple         NUMERIC(8,2),
			broker           TEXT          NOT NULL DEFAULT '',
			listing_id       TEXT          NOT NULL DEFAULT '',
			category         TEXT          NOT NULL DEFAULT '',
			created_at       TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_deals_url ON deals(url) WHERE url <> '';
		CREATE INDEX IF NOT EXISTS idx_deals_score    ON deals(score);
		CREATE INDEX IF NOT EXISTS idx_deals_industry ON deals(industry);
	`)
	return err
}

// Write upserts all deals in a single transaction. A conflicting URL updates
// the scoring-sensitive columns in place.
func (pw *PostgresWriter) Write(deals []*models.Deal) error {
	if len(deals) == 0 {
		return nil
	}

	tx, err := pw.db.Begin()
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO deals (
			title, url, location, asking_price, revenue, ebitda,
			cash_flow_sde, year_established, employees, description,
			source, industry, date_found, traits, avoid_traits,
			score, multiple, broker, listing_id, category
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
		ON CONFLICT (url) WHERE url <> '' DO UPDATE SET
			score         = EXCLUDED.score,
			asking_price  = EXCLUDED.asking_price,
			revenue       = EXCLUDED.revenue,
			ebitda        = EXCLUDED.ebitda,
			cash_flow_sde = EXCLUDED.cash_flow_sde,
			multiple      = EXCLUDED.multiple,
			traits        = EXCLUDED.traits,
			avoid_traits  = EXCLUDED.avoid_traits,
			industry      = EXCLUDED.industry,
			description   = EXCLUDED.description
	`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("postgres: prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, d := range deals {
		_, err := stmt.Exec(
			d.Title, d.URL, d.Location, d.AskingPrice, d.Revenue, d.EBITDA,
			d.CashFlowSDE, d.YearEstablished, d.Employees, d.Description,
			d.Source, d.Industry, nullableDate(d.DateFound),
			pq.Array(d.Traits), pq.Array(d.AvoidTraits),
			d.Score, d.Multiple, d.Broker, d.ListingID, d.Category,
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("postgres: upsert %q: %w", d.Title, err)
		}
	}

	return tx.Commit()
}

func nullableDate(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchAll retrieves all stored deals ordered by score — used by the digest
// service.
func (pw *PostgresWriter) FetchAll() ([]*models.Deal, error) {
	rows, err := pw.db.Query(`
		SELECT id, title, url, location, asking_price, revenue, ebitda,
		       cash_flow_sde, year_established, employees, description,
		       source, industry, COALESCE(date_found::text, ''), traits,
		       avoid_traits, score, multiple, broker, listing_id, category,
		       created_at
		FROM deals
		ORDER BY score DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var deals []*models.Deal
	for rows.Next() {
		d := &models.Deal{}
		if err := rows.Scan(
			&d.ID, &d.Title, &d.URL, &d.Location, &d.AskingPrice, &d.Revenue,
			&d.EBITDA, &d.CashFlowSDE, &d.YearEstablished, &d.Employees,
			&d.Description, &d.Source, &d.Industry, &d.DateFound,
			pq.Array(&d.Traits), pq.Array(&d.AvoidTraits), &d.Score,
			&d.Multiple, &d.Broker, &d.ListingID, &d.Category, &d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		deals = append(deals, d)
	}
	return deals, rows.Err()
}
