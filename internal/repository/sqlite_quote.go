package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/studioops/internal/db"
	"github.com/alexanderramin/studioops/internal/domain"
)

// SQLiteQuoteRepo implements QuoteRepo and catalog.Source using a SQLite
// database.
type SQLiteQuoteRepo struct {
	db db.DBTX
}

func NewSQLiteQuoteRepo(conn db.DBTX) *SQLiteQuoteRepo {
	return &SQLiteQuoteRepo{db: conn}
}

const quoteColumns = `q.id, q.vendor_id, q.item_name, q.category, q.unit, q.unit_price, q.confidence,
	q.sku, q.is_quote, q.historical, q.fetched_at, q.created_at`

func (r *SQLiteQuoteRepo) Create(ctx context.Context, q *domain.VendorQuote) error {
	query := `INSERT INTO vendor_quotes (id, vendor_id, item_name, item_key, category, unit, unit_price,
		confidence, sku, is_quote, historical, fetched_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		q.ID,
		q.VendorID,
		q.ItemName,
		db.ItemKey(q.ItemName),
		string(q.Category),
		q.Unit,
		q.UnitPrice.String(),
		q.Confidence,
		q.SKU,
		boolToInt(q.IsQuote),
		boolToInt(q.Historical),
		formatTime(q.FetchedAt),
		formatTime(q.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting quote: %w", err)
	}
	return nil
}

func (r *SQLiteQuoteRepo) ListByItem(ctx context.Context, itemName string, category domain.Category) ([]*domain.VendorQuote, error) {
	query := `SELECT ` + quoteColumns + ` FROM vendor_quotes q
		WHERE q.item_key = ? AND (? = '' OR q.category = ?)
		ORDER BY q.fetched_at DESC, q.id`
	rows, err := r.db.QueryContext(ctx, query, db.ItemKey(itemName), string(category), string(category))
	if err != nil {
		return nil, fmt.Errorf("listing quotes: %w", err)
	}
	defer rows.Close()

	var quotes []*domain.VendorQuote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating quotes: %w", err)
	}
	return quotes, nil
}

// Candidates returns the stored quotes for an item joined with their vendor
// names, in no particular order; the resolver decides precedence.
func (r *SQLiteQuoteRepo) Candidates(ctx context.Context, itemName string, category domain.Category) ([]domain.CandidateQuote, error) {
	query := `SELECT v.name, q.unit_price, q.confidence, q.fetched_at, q.historical, q.sku, q.is_quote, q.unit
		FROM vendor_quotes q JOIN vendors v ON v.id = q.vendor_id
		WHERE q.item_key = ? AND q.category = ?`
	rows, err := r.db.QueryContext(ctx, query, db.ItemKey(itemName), string(category))
	if err != nil {
		return nil, fmt.Errorf("querying candidates: %w", err)
	}
	defer rows.Close()

	var out []domain.CandidateQuote
	for rows.Next() {
		var c domain.CandidateQuote
		var priceStr, fetchedAtStr string
		var historical, isQuote int
		if err := rows.Scan(&c.Vendor, &priceStr, &c.Confidence, &fetchedAtStr, &historical, &c.SKU, &isQuote, &c.Unit); err != nil {
			return nil, fmt.Errorf("scanning candidate: %w", err)
		}
		if c.UnitPrice, err = parseDecimal("unit_price", priceStr); err != nil {
			return nil, err
		}
		if c.FetchedAt, err = parseTime("fetched_at", fetchedAtStr); err != nil {
			return nil, err
		}
		c.IsHistorical = intToBool(historical)
		c.IsQuote = intToBool(isQuote)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating candidates: %w", err)
	}
	return out, nil
}

func scanQuote(row scanner) (*domain.VendorQuote, error) {
	var q domain.VendorQuote
	var categoryStr, priceStr, fetchedAtStr, createdAtStr string
	var isQuote, historical int
	if err := row.Scan(&q.ID, &q.VendorID, &q.ItemName, &categoryStr, &q.Unit, &priceStr, &q.Confidence,
		&q.SKU, &isQuote, &historical, &fetchedAtStr, &createdAtStr); err != nil {
		return nil, fmt.Errorf("scanning quote: %w", err)
	}
	q.Category = domain.Category(categoryStr)
	q.IsQuote = intToBool(isQuote)
	q.Historical = intToBool(historical)

	var err error
	if q.UnitPrice, err = parseDecimal("unit_price", priceStr); err != nil {
		return nil, err
	}
	if q.FetchedAt, err = parseTime("fetched_at", fetchedAtStr); err != nil {
		return nil, err
	}
	if q.CreatedAt, err = parseTime("created_at", createdAtStr); err != nil {
		return nil, err
	}
	return &q, nil
}
