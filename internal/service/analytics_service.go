package service

import (
	"context"
	"sort"
	"time"

	"github.com/spec-kit/fleet-maintenance/internal/domain"
	"github.com/spec-kit/fleet-maintenance/internal/repository"
	apperrors "github.com/spec-kit/fleet-maintenance/pkg/util"
)

// AnalyticsService derives dashboard counts and warehouse replenishment
// figures from the ticket log.
type AnalyticsService struct {
	tickets           repository.TicketRepository
	spareParts        repository.SparePartRepository
	lowStockThreshold int
}

// NewAnalyticsService constructs the service. lowStockThreshold marks
// replenishment lines whose remaining balance is at or below it.
func NewAnalyticsService(tickets repository.TicketRepository, spareParts repository.SparePartRepository, lowStockThreshold int) *AnalyticsService {
	return &AnalyticsService{tickets: tickets, spareParts: spareParts, lowStockThreshold: lowStockThreshold}
}

// DashboardCounts is the status breakdown shown on the landing page.
type DashboardCounts struct {
	Total               int `json:"total"`
	Open                int `json:"open"`
	InProgress          int `json:"in_progress"`
	AwaitingParts       int `json:"awaiting_parts"`
	AwaitingWarehouse   int `json:"awaiting_warehouse"`
	PendingConfirmation int `json:"pending_confirmation"`
	Closed              int `json:"closed"`
}

// Dashboard counts tickets per derived status.
func (s *AnalyticsService) Dashboard(ctx context.Context) (*DashboardCounts, error) {
	tickets, err := s.tickets.List(ctx, repository.TicketFilter{})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	counts := &DashboardCounts{Total: len(tickets)}
	for i := range tickets {
		switch tickets[i].Status() {
		case domain.TicketStatusOpen:
			counts.Open++
		case domain.TicketStatusInProgress:
			counts.InProgress++
		case domain.TicketStatusAwaitingParts:
			counts.AwaitingParts++
		case domain.TicketStatusAwaitingWarehouse:
			counts.AwaitingWarehouse++
		case domain.TicketStatusPendingConfirmation:
			counts.PendingConfirmation++
		case domain.TicketStatusClosed:
			counts.Closed++
		}
	}
	return counts, nil
}

// ReplenishmentLine aggregates one part's consumption for a month.
type ReplenishmentLine struct {
	SAPCode             string `json:"sap_code"`
	MaterialDescription string `json:"material_description"`
	UOM                 string `json:"uom"`
	Consumed            int    `json:"consumed"`
	BalanceOnSAP        int    `json:"balance_on_sap"`
	Low                 bool   `json:"low"`
}

// Replenishment totals the parts issued by the warehouse during the given
// month. A request counts once it is issued, keyed by the issue date, and
// stays counted after handover.
func (s *AnalyticsService) Replenishment(ctx context.Context, year int, month time.Month) ([]ReplenishmentLine, error) {
	if year < 2000 || year > 2200 {
		return nil, apperrors.NewValidationError("year out of range", map[string]any{"year": year})
	}
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	to := from.AddDate(0, 1, 0)

	tickets, err := s.tickets.List(ctx, repository.TicketFilter{})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	consumed := make(map[string]int)
	for i := range tickets {
		pr := tickets[i].PartRequest
		if pr == nil || pr.WarehouseResolvedAt == nil {
			continue
		}
		if pr.Status != domain.PartRequestIssued && pr.Status != domain.PartRequestWarehouseCompleted {
			continue
		}
		at := *pr.WarehouseResolvedAt
		if at.Before(from) || !at.Before(to) {
			continue
		}
		for code, qty := range pr.Parts {
			consumed[code] += qty
		}
	}

	catalog, err := s.spareParts.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	byCode := make(map[string]*domain.SparePart, len(catalog))
	for i := range catalog {
		byCode[catalog[i].SAPCode] = &catalog[i]
	}

	lines := make([]ReplenishmentLine, 0, len(consumed))
	for code, qty := range consumed {
		line := ReplenishmentLine{SAPCode: code, Consumed: qty}
		if part, ok := byCode[code]; ok {
			line.MaterialDescription = part.MaterialDescription
			line.UOM = part.UOM
			line.BalanceOnSAP = part.BalanceOnSAP
			line.Low = part.BalanceOnSAP <= s.lowStockThreshold
		}
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].SAPCode < lines[j].SAPCode })
	return lines, nil
}

// HistoryQuery narrows the closed-ticket listing. Zero values leave the
// corresponding dimension unfiltered.
type HistoryQuery struct {
	VehicleID  string
	Section    domain.TicketSection
	Technician string
	From       *time.Time
	To         *time.Time
	Limit      int
}

// History lists closed tickets, newest first.
func (s *AnalyticsService) History(ctx context.Context, query HistoryQuery) ([]domain.Ticket, error) {
	filter := repository.TicketFilter{
		Statuses:    []domain.TicketStatus{domain.TicketStatusClosed},
		Limit:       query.Limit,
		CreatedFrom: query.From,
		CreatedTo:   query.To,
	}
	if query.VehicleID != "" {
		filter.VehicleID = &query.VehicleID
	}
	if query.Section != "" {
		section := query.Section
		filter.Section = &section
	}
	if query.Technician != "" {
		filter.Technician = &query.Technician
	}
	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}
