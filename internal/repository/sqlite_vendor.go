package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/studioops/internal/db"
	"github.com/alexanderramin/studioops/internal/domain"
)

// SQLiteVendorRepo implements VendorRepo using a SQLite database.
type SQLiteVendorRepo struct {
	db db.DBTX
}

func NewSQLiteVendorRepo(conn db.DBTX) *SQLiteVendorRepo {
	return &SQLiteVendorRepo{db: conn}
}

const vendorColumns = `id, name, contact, created_at`

func (r *SQLiteVendorRepo) Create(ctx context.Context, v *domain.Vendor) error {
	query := `INSERT INTO vendors (` + vendorColumns + `) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, v.ID, strings.TrimSpace(v.Name), v.Contact, formatTime(v.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting vendor: %w", err)
	}
	return nil
}

func (r *SQLiteVendorRepo) GetByID(ctx context.Context, id string) (*domain.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE id = ?`
	v, err := scanVendor(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("vendor %s: %w", id, ErrNotFound)
	}
	return v, err
}

// GetByName matches case-insensitively.
func (r *SQLiteVendorRepo) GetByName(ctx context.Context, name string) (*domain.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE name = ?`
	v, err := scanVendor(r.db.QueryRowContext(ctx, query, strings.TrimSpace(name)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("vendor %q: %w", name, ErrNotFound)
	}
	return v, err
}

func (r *SQLiteVendorRepo) List(ctx context.Context) ([]*domain.Vendor, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+vendorColumns+` FROM vendors ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing vendors: %w", err)
	}
	defer rows.Close()

	var vendors []*domain.Vendor
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		vendors = append(vendors, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vendors: %w", err)
	}
	return vendors, nil
}

func scanVendor(row scanner) (*domain.Vendor, error) {
	var v domain.Vendor
	var createdAtStr string
	if err := row.Scan(&v.ID, &v.Name, &v.Contact, &createdAtStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning vendor: %w", err)
	}
	var err error
	if v.CreatedAt, err = parseTime("created_at", createdAtStr); err != nil {
		return nil, err
	}
	return &v, nil
}
