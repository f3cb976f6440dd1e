package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/studioops/internal/db"
	"github.com/alexanderramin/studioops/internal/domain"
)

// SQLitePlanRepo implements PlanRepo using a SQLite database. Stored
// subtotals and totals are informational: loading a plan recomputes them
// through domain.NewPlan.
type SQLitePlanRepo struct {
	db db.DBTX
}

func NewSQLitePlanRepo(conn db.DBTX) *SQLitePlanRepo {
	return &SQLitePlanRepo{db: conn}
}

const planColumns = `id, project_id, currency, margin_target, state, created_at, updated_at, approved_at`

func (r *SQLitePlanRepo) Save(ctx context.Context, p *domain.Plan) error {
	h := p.Header()
	upsert := `INSERT INTO plans (id, project_id, currency, margin_target, state, total, created_at, updated_at, approved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project_id = excluded.project_id,
			currency = excluded.currency,
			margin_target = excluded.margin_target,
			state = excluded.state,
			total = excluded.total,
			updated_at = excluded.updated_at,
			approved_at = excluded.approved_at`
	_, err := r.db.ExecContext(ctx, upsert,
		h.ID,
		nullableString(p.ProjectID()),
		h.Currency,
		h.MarginTarget.String(),
		string(h.State),
		p.Total().String(),
		formatTime(h.CreatedAt),
		formatTime(h.UpdatedAt),
		nullableTimeToString(h.ApprovedAt),
	)
	if err != nil {
		return fmt.Errorf("saving plan header: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM plan_items WHERE plan_id = ?`, h.ID); err != nil {
		return fmt.Errorf("clearing plan items: %w", err)
	}

	insert := `INSERT INTO plan_items (plan_id, position, title, description, category, quantity, unit,
		unit_price, subtotal, details, source_vendor, source_confidence, source_fetched_at, source_sku, source_is_quote)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for i, it := range p.Items() {
		details, err := json.Marshal(domain.RecordOf(it.Details))
		if err != nil {
			return fmt.Errorf("encoding details of item %d: %w", i, err)
		}
		var vendor, confidence, fetchedAt, sku, isQuote any
		if src := it.PriceSource; src != nil {
			vendor = src.Vendor
			confidence = src.Confidence
			fetchedAt = formatTime(src.FetchedAt)
			sku = src.SKU
			isQuote = boolToInt(src.IsQuote)
		}
		_, err = r.db.ExecContext(ctx, insert,
			h.ID, i, it.Title, it.Description, string(it.Category()),
			it.Quantity.String(), it.Unit, it.UnitPrice.String(), it.Subtotal().String(),
			string(details), vendor, confidence, fetchedAt, sku, isQuote,
		)
		if err != nil {
			return fmt.Errorf("inserting plan item %d: %w", i, err)
		}
	}
	return nil
}

func (r *SQLitePlanRepo) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE id = ?`
	h, err := scanPlanHeader(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("plan %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return r.hydrate(ctx, h)
}

func (r *SQLitePlanRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE project_id = ? ORDER BY created_at, id`
	return r.list(ctx, query, projectID)
}

func (r *SQLitePlanRepo) List(ctx context.Context) ([]*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans ORDER BY created_at, id`
	return r.list(ctx, query)
}

func (r *SQLitePlanRepo) list(ctx context.Context, query string, args ...any) ([]*domain.Plan, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	// Headers are collected first: item queries must not run while rows is
	// open on a single-connection database.
	var headers []domain.PlanHeader
	for rows.Next() {
		h, err := scanPlanHeader(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		headers = append(headers, h)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating plans: %w", err)
	}
	rows.Close()

	plans := make([]*domain.Plan, 0, len(headers))
	for _, h := range headers {
		p, err := r.hydrate(ctx, h)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, nil
}

func (r *SQLitePlanRepo) hydrate(ctx context.Context, h domain.PlanHeader) (*domain.Plan, error) {
	items, err := r.loadItems(ctx, h.ID)
	if err != nil {
		return nil, err
	}
	p, err := domain.NewPlan(h, items)
	if err != nil {
		return nil, fmt.Errorf("stored plan %s is invalid: %w", h.ID, err)
	}
	return p, nil
}

func (r *SQLitePlanRepo) loadItems(ctx context.Context, planID string) ([]domain.PlanItem, error) {
	query := `SELECT title, description, category, quantity, unit, unit_price, details,
		source_vendor, source_confidence, source_fetched_at, source_sku, source_is_quote
		FROM plan_items WHERE plan_id = ? ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("loading plan items: %w", err)
	}
	defer rows.Close()

	var items []domain.PlanItem
	for rows.Next() {
		it, err := scanPlanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plan items: %w", err)
	}
	return items, nil
}

func scanPlanHeader(row scanner) (domain.PlanHeader, error) {
	var h domain.PlanHeader
	var projectID, approvedAtStr sql.NullString
	var marginStr, stateStr, createdAtStr, updatedAtStr string

	if err := row.Scan(&h.ID, &projectID, &h.Currency, &marginStr, &stateStr, &createdAtStr, &updatedAtStr, &approvedAtStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return h, err
		}
		return h, fmt.Errorf("scanning plan: %w", err)
	}
	if projectID.Valid && projectID.String != "" {
		pid := projectID.String
		h.ProjectID = &pid
	}
	h.State = domain.PlanState(stateStr)
	h.ApprovedAt = parseNullableTime(approvedAtStr)

	var err error
	if h.MarginTarget, err = parseDecimal("margin_target", marginStr); err != nil {
		return h, err
	}
	if h.CreatedAt, err = parseTime("created_at", createdAtStr); err != nil {
		return h, err
	}
	if h.UpdatedAt, err = parseTime("updated_at", updatedAtStr); err != nil {
		return h, err
	}
	return h, nil
}

func scanPlanItem(row scanner) (domain.PlanItem, error) {
	var it domain.PlanItem
	var categoryStr, quantityStr, priceStr, detailsStr string
	var vendor, fetchedAt, sku sql.NullString
	var confidence sql.NullFloat64
	var isQuote sql.NullInt64

	if err := row.Scan(&it.Title, &it.Description, &categoryStr, &quantityStr, &it.Unit, &priceStr, &detailsStr,
		&vendor, &confidence, &fetchedAt, &sku, &isQuote); err != nil {
		return it, fmt.Errorf("scanning plan item: %w", err)
	}

	var err error
	if it.Quantity, err = parseDecimal("quantity", quantityStr); err != nil {
		return it, err
	}
	if it.UnitPrice, err = parseDecimal("unit_price", priceStr); err != nil {
		return it, err
	}

	var rec domain.DetailsRecord
	if err := json.Unmarshal([]byte(detailsStr), &rec); err != nil {
		return it, fmt.Errorf("decoding item details: %w", err)
	}
	if it.Details, err = rec.Details(domain.Category(categoryStr)); err != nil {
		return it, err
	}

	if vendor.Valid {
		src := &domain.PriceSource{
			Vendor:     vendor.String,
			Confidence: confidence.Float64,
			SKU:        sku.String,
			IsQuote:    isQuote.Int64 != 0,
		}
		if at := parseNullableTime(fetchedAt); at != nil {
			src.FetchedAt = *at
		}
		it.PriceSource = src
	}
	return it, nil
}
