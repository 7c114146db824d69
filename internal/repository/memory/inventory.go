package memory

import (
	"context"
	"sort"

	"github.com/spec-kit/fleet-maintenance/internal/domain"
	"github.com/spec-kit/fleet-maintenance/internal/repository"
)

type sparePartStore Store

func (s *sparePartStore) Create(ctx context.Context, part *domain.SparePart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *part
	s.spareParts[part.SAPCode] = &clone
	return nil
}

func (s *sparePartStore) Update(ctx context.Context, part *domain.SparePart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.spareParts[part.SAPCode]; !ok {
		return repository.ErrNotFound
	}
	clone := *part
	s.spareParts[part.SAPCode] = &clone
	return nil
}

func (s *sparePartStore) GetBySAPCode(ctx context.Context, sapCode string) (*domain.SparePart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	part, ok := s.spareParts[sapCode]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *part
	return &clone, nil
}

func (s *sparePartStore) List(ctx context.Context) ([]domain.SparePart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.SparePart, 0, len(s.spareParts))
	for _, part := range s.spareParts {
		result = append(result, *part)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SAPCode < result[j].SAPCode })
	return result, nil
}

func (s *sparePartStore) ReplaceAll(ctx context.Context, parts []domain.SparePart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spareParts = make(map[string]*domain.SparePart, len(parts))
	for i := range parts {
		clone := parts[i]
		s.spareParts[clone.SAPCode] = &clone
	}
	return nil
}

func (s *sparePartStore) IssueStock(ctx context.Context, parts map[string]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate every line before touching any balance.
	for code, qty := range parts {
		part, ok := s.spareParts[code]
		if !ok {
			return &repository.InsufficientStockError{SAPCode: code, Requested: qty, Available: 0}
		}
		if part.BalanceOnSAP < qty {
			return &repository.InsufficientStockError{SAPCode: code, Requested: qty, Available: part.BalanceOnSAP}
		}
	}
	for code, qty := range parts {
		s.spareParts[code].BalanceOnSAP -= qty
	}
	return nil
}

type vehicleStore Store

func (s *vehicleStore) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vehicle, ok := s.vehicles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *vehicle
	return &clone, nil
}

func (s *vehicleStore) List(ctx context.Context) ([]domain.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Vehicle, 0, len(s.vehicles))
	for _, vehicle := range s.vehicles {
		result = append(result, *vehicle)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *vehicleStore) Upsert(ctx context.Context, vehicle *domain.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *vehicle
	s.vehicles[vehicle.ID] = &clone
	return nil
}
