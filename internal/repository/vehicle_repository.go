package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/fleet-maintenance/internal/domain"
)

// VehicleRepository encapsulates fleet reference data.
type VehicleRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Vehicle, error)
	List(ctx context.Context) ([]domain.Vehicle, error)
	Upsert(ctx context.Context, vehicle *domain.Vehicle) error
}

type vehicleRepository struct {
	pool *pgxpool.Pool
}

// NewVehicleRepository instantiates repository.
func NewVehicleRepository(pool *pgxpool.Pool) VehicleRepository {
	return &vehicleRepository{pool: pool}
}

func (r *vehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	const query = `
        SELECT id, current_kilometers, last_engine_service_km, last_transmission_service_km
        FROM vehicles WHERE id=$1`
	var v domain.Vehicle
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.CurrentKilometers, &v.LastEngineServiceKm, &v.LastTransmissionServiceKm,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *vehicleRepository) List(ctx context.Context) ([]domain.Vehicle, error) {
	const query = `
        SELECT id, current_kilometers, last_engine_service_km, last_transmission_service_km
        FROM vehicles ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Vehicle
	for rows.Next() {
		var v domain.Vehicle
		if err := rows.Scan(&v.ID, &v.CurrentKilometers, &v.LastEngineServiceKm, &v.LastTransmissionServiceKm); err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, rows.Err()
}

func (r *vehicleRepository) Upsert(ctx context.Context, vehicle *domain.Vehicle) error {
	const query = `
        INSERT INTO vehicles (id, current_kilometers, last_engine_service_km, last_transmission_service_km)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (id) DO UPDATE SET
            current_kilometers=EXCLUDED.current_kilometers,
            last_engine_service_km=EXCLUDED.last_engine_service_km,
            last_transmission_service_km=EXCLUDED.last_transmission_service_km`
	_, err := r.pool.Exec(ctx, query,
		vehicle.ID, vehicle.CurrentKilometers, vehicle.LastEngineServiceKm, vehicle.LastTransmissionServiceKm)
	return err
}
