package repository

import (
	"context"
	"errors"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/fleet-maintenance/internal/domain"
)

// SparePartRepository encapsulates warehouse inventory persistence.
type SparePartRepository interface {
	Create(ctx context.Context, part *domain.SparePart) error
	Update(ctx context.Context, part *domain.SparePart) error
	GetBySAPCode(ctx context.Context, sapCode string) (*domain.SparePart, error)
	List(ctx context.Context) ([]domain.SparePart, error)
	// ReplaceAll swaps the whole catalog for an imported one.
	ReplaceAll(ctx context.Context, parts []domain.SparePart) error
	// IssueStock decrements balances for every line item in one transaction.
	// If any line lacks stock it returns *InsufficientStockError and nothing
	// is decremented.
	IssueStock(ctx context.Context, parts map[string]int) error
}

type sparePartRepository struct {
	pool *pgxpool.Pool
}

// NewSparePartRepository instantiates repository.
func NewSparePartRepository(pool *pgxpool.Pool) SparePartRepository {
	return &sparePartRepository{pool: pool}
}

const sparePartColumns = `sap_code, material_description, description_ar, location, dept, uom, balance_on_sap`

func (r *sparePartRepository) Create(ctx context.Context, part *domain.SparePart) error {
	const query = `
        INSERT INTO spare_parts (sap_code, material_description, description_ar, location, dept, uom, balance_on_sap)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := r.pool.Exec(ctx, query,
		part.SAPCode, part.MaterialDescription, part.DescriptionAr,
		part.Location, part.Dept, part.UOM, part.BalanceOnSAP)
	return err
}

func (r *sparePartRepository) Update(ctx context.Context, part *domain.SparePart) error {
	const query = `
        UPDATE spare_parts SET material_description=$1, description_ar=$2, location=$3,
            dept=$4, uom=$5, balance_on_sap=$6
        WHERE sap_code=$7`
	cmd, err := r.pool.Exec(ctx, query,
		part.MaterialDescription, part.DescriptionAr, part.Location,
		part.Dept, part.UOM, part.BalanceOnSAP, part.SAPCode)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sparePartRepository) GetBySAPCode(ctx context.Context, sapCode string) (*domain.SparePart, error) {
	query := `SELECT ` + sparePartColumns + ` FROM spare_parts WHERE sap_code=$1`
	var part domain.SparePart
	if err := r.pool.QueryRow(ctx, query, sapCode).Scan(
		&part.SAPCode, &part.MaterialDescription, &part.DescriptionAr,
		&part.Location, &part.Dept, &part.UOM, &part.BalanceOnSAP,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &part, nil
}

func (r *sparePartRepository) List(ctx context.Context) ([]domain.SparePart, error) {
	query := `SELECT ` + sparePartColumns + ` FROM spare_parts ORDER BY sap_code`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SparePart
	for rows.Next() {
		var part domain.SparePart
		if err := rows.Scan(
			&part.SAPCode, &part.MaterialDescription, &part.DescriptionAr,
			&part.Location, &part.Dept, &part.UOM, &part.BalanceOnSAP,
		); err != nil {
			return nil, err
		}
		result = append(result, part)
	}
	return result, rows.Err()
}

func (r *sparePartRepository) ReplaceAll(ctx context.Context, parts []domain.SparePart) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM spare_parts`); err != nil {
		return err
	}
	const insert = `
        INSERT INTO spare_parts (sap_code, material_description, description_ar, location, dept, uom, balance_on_sap)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`
	for _, part := range parts {
		if _, err := tx.Exec(ctx, insert,
			part.SAPCode, part.MaterialDescription, part.DescriptionAr,
			part.Location, part.Dept, part.UOM, part.BalanceOnSAP); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *sparePartRepository) IssueStock(ctx context.Context, parts map[string]int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// Lock rows in deterministic order so concurrent issues cannot deadlock.
	codes := make([]string, 0, len(parts))
	for code := range parts {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		qty := parts[code]
		var balance int
		err := tx.QueryRow(ctx,
			`SELECT balance_on_sap FROM spare_parts WHERE sap_code=$1 FOR UPDATE`, code,
		).Scan(&balance)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return &InsufficientStockError{SAPCode: code, Requested: qty, Available: 0}
			}
			return err
		}
		if balance < qty {
			return &InsufficientStockError{SAPCode: code, Requested: qty, Available: balance}
		}
	}
	for _, code := range codes {
		if _, err := tx.Exec(ctx,
			`UPDATE spare_parts SET balance_on_sap = balance_on_sap - $1 WHERE sap_code=$2`,
			parts[code], code); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
