package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/fleet-maintenance/internal/domain"
)

// InspectionRepository encapsulates inspection log persistence.
type InspectionRepository interface {
	Create(ctx context.Context, inspection *domain.Inspection) error
	ListByVehicle(ctx context.Context, vehicleID string, limit int) ([]domain.Inspection, error)
	// LatestByVehicle returns the most recent inspection for the vehicle,
	// or ErrNotFound when none exists.
	LatestByVehicle(ctx context.Context, vehicleID string) (*domain.Inspection, error)
}

type inspectionRepository struct {
	pool *pgxpool.Pool
}

// NewInspectionRepository instantiates repository.
func NewInspectionRepository(pool *pgxpool.Pool) InspectionRepository {
	return &inspectionRepository{pool: pool}
}

func (r *inspectionRepository) Create(ctx context.Context, inspection *domain.Inspection) error {
	const query = `
        INSERT INTO inspections (id, vehicle_id, notes, image_front, image_back, image_left, image_right, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err := r.pool.Exec(ctx, query,
		inspection.ID,
		inspection.VehicleID,
		inspection.Notes,
		inspection.Images.Front,
		inspection.Images.Back,
		inspection.Images.Left,
		inspection.Images.Right,
		inspection.CreatedAt,
	)
	return err
}

const inspectionColumns = `id, vehicle_id, notes, image_front, image_back, image_left, image_right, created_at`

func (r *inspectionRepository) ListByVehicle(ctx context.Context, vehicleID string, limit int) ([]domain.Inspection, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + inspectionColumns + ` FROM inspections WHERE vehicle_id=$1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, vehicleID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Inspection
	for rows.Next() {
		var insp domain.Inspection
		if err := rows.Scan(
			&insp.ID, &insp.VehicleID, &insp.Notes,
			&insp.Images.Front, &insp.Images.Back, &insp.Images.Left, &insp.Images.Right,
			&insp.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, insp)
	}
	return result, rows.Err()
}

func (r *inspectionRepository) LatestByVehicle(ctx context.Context, vehicleID string) (*domain.Inspection, error) {
	query := `SELECT ` + inspectionColumns + ` FROM inspections WHERE vehicle_id=$1 ORDER BY created_at DESC LIMIT 1`
	var insp domain.Inspection
	if err := r.pool.QueryRow(ctx, query, vehicleID).Scan(
		&insp.ID, &insp.VehicleID, &insp.Notes,
		&insp.Images.Front, &insp.Images.Back, &insp.Images.Left, &insp.Images.Right,
		&insp.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &insp, nil
}
