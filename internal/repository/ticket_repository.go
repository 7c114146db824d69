package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/fleet-maintenance/internal/domain"
)

// TicketFilter captures listing parameters.
type TicketFilter struct {
	VehicleID   *string
	Section     *domain.TicketSection
	Statuses    []domain.TicketStatus
	Priorities  []domain.TicketPriority
	Technician  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// TicketRepository encapsulates ticket persistence. The status column is a
// stored projection of Ticket.Status(), refreshed on every write so listing
// can filter on it.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetBySerial(ctx context.Context, serial string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (id, serial, vehicle_id, issue, reported_by, section, priority,
            kilometers, location, assigned_to, work_done_notes, status,
            created_at, started_at, closed_at, confirmed_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`
	_, err := r.pool.Exec(ctx, query,
		ticket.ID,
		ticket.Serial,
		ticket.VehicleID,
		ticket.Issue,
		ticket.ReportedBy,
		ticket.Section,
		ticket.Priority,
		ticket.Kilometers,
		ticket.Location,
		ticket.AssignedTo,
		ticket.WorkDoneNotes,
		ticket.Status(),
		ticket.CreatedAt,
		ticket.StartedAt,
		ticket.ClosedAt,
		ticket.ConfirmedAt,
	)
	if err != nil {
		return err
	}
	return r.savePartRequest(ctx, ticket)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET issue=$1, priority=$2, kilometers=$3, location=$4, assigned_to=$5,
            work_done_notes=$6, status=$7, started_at=$8, closed_at=$9, confirmed_at=$10
        WHERE id=$11`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Issue,
		ticket.Priority,
		ticket.Kilometers,
		ticket.Location,
		ticket.AssignedTo,
		ticket.WorkDoneNotes,
		ticket.Status(),
		ticket.StartedAt,
		ticket.ClosedAt,
		ticket.ConfirmedAt,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return r.savePartRequest(ctx, ticket)
}

func (r *ticketRepository) savePartRequest(ctx context.Context, ticket *domain.Ticket) error {
	pr := ticket.PartRequest
	if pr == nil {
		return nil
	}
	const query = `
        INSERT INTO part_requests (ticket_id, serial, parts, status, requested_at,
            admin_resolved_at, warehouse_resolved_at, warehouse_completed_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        ON CONFLICT (ticket_id) DO UPDATE SET
            serial=EXCLUDED.serial, parts=EXCLUDED.parts, status=EXCLUDED.status,
            requested_at=EXCLUDED.requested_at, admin_resolved_at=EXCLUDED.admin_resolved_at,
            warehouse_resolved_at=EXCLUDED.warehouse_resolved_at,
            warehouse_completed_at=EXCLUDED.warehouse_completed_at`
	_, err := r.pool.Exec(ctx, query,
		ticket.ID,
		pr.Serial,
		pr.Parts,
		pr.Status,
		pr.RequestedAt,
		pr.AdminResolvedAt,
		pr.WarehouseResolvedAt,
		pr.WarehouseCompletedAt,
	)
	return err
}

const ticketColumns = `
        t.id, t.serial, t.vehicle_id, t.issue, t.reported_by, t.section, t.priority,
        t.kilometers, t.location, t.assigned_to, t.work_done_notes,
        t.created_at, t.started_at, t.closed_at, t.confirmed_at,
        pr.serial, pr.parts, pr.status, pr.requested_at,
        pr.admin_resolved_at, pr.warehouse_resolved_at, pr.warehouse_completed_at`

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets t
        LEFT JOIN part_requests pr ON pr.ticket_id = t.id WHERE t.id=$1`, ticketColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketRepository) GetBySerial(ctx context.Context, serial string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets t
        LEFT JOIN part_requests pr ON pr.ticket_id = t.id WHERE t.serial=$1`, ticketColumns)
	return r.fetchSingle(ctx, query, serial)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	row := r.pool.QueryRow(ctx, query, arg)
	ticket, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.VehicleID != nil {
		args = append(args, *filter.VehicleID)
		clauses = append(clauses, fmt.Sprintf("t.vehicle_id=$%d", len(args)))
	}
	if filter.Section != nil {
		args = append(args, *filter.Section)
		clauses = append(clauses, fmt.Sprintf("t.section=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("t.status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("t.priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.Technician != nil {
		args = append(args, *filter.Technician)
		clauses = append(clauses, fmt.Sprintf("$%d = ANY(t.assigned_to)", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("t.created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("t.created_at <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets t
        LEFT JOIN part_requests pr ON pr.ticket_id = t.id
        WHERE %s ORDER BY t.created_at DESC LIMIT %d OFFSET %d`,
		ticketColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		ticket     domain.Ticket
		prSerial   *string
		prParts    map[string]int
		prStatus   *domain.PartRequestStatus
		prReqAt    *time.Time
		prAdminAt  *time.Time
		prIssueAt  *time.Time
		prFinishAt *time.Time
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.Serial,
		&ticket.VehicleID,
		&ticket.Issue,
		&ticket.ReportedBy,
		&ticket.Section,
		&ticket.Priority,
		&ticket.Kilometers,
		&ticket.Location,
		&ticket.AssignedTo,
		&ticket.WorkDoneNotes,
		&ticket.CreatedAt,
		&ticket.StartedAt,
		&ticket.ClosedAt,
		&ticket.ConfirmedAt,
		&prSerial,
		&prParts,
		&prStatus,
		&prReqAt,
		&prAdminAt,
		&prIssueAt,
		&prFinishAt,
	); err != nil {
		return nil, err
	}
	if prSerial != nil && prStatus != nil && prReqAt != nil {
		ticket.PartRequest = &domain.PartRequest{
			Serial:               *prSerial,
			Parts:                prParts,
			Status:               *prStatus,
			RequestedAt:          *prReqAt,
			AdminResolvedAt:      prAdminAt,
			WarehouseResolvedAt:  prIssueAt,
			WarehouseCompletedAt: prFinishAt,
		}
	}
	return &ticket, nil
}
