package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/fleet-maintenance/internal/domain"
	"github.com/spec-kit/fleet-maintenance/internal/events"
	"github.com/spec-kit/fleet-maintenance/internal/repository/memory"
	apperrors "github.com/spec-kit/fleet-maintenance/pkg/util"
)

var (
	opsUser    = &domain.User{ID: "ops01", Name: "Operations", Role: domain.RoleOperations, Active: true}
	maintUser  = &domain.User{ID: "maint01", Name: "Maintenance", Role: domain.RoleMaintenance, Active: true}
	inspUser   = &domain.User{ID: "insp01", Name: "Inspector", Role: domain.RoleInspection, Active: true}
	sparesUser = &domain.User{ID: "spares01", Name: "Spares Admin", Role: domain.RoleSparesAdmin, Active: true}
	whUser     = &domain.User{ID: "wh01", Name: "Warehouse", Role: domain.RoleWarehouse, Active: true}
	adminUser  = &domain.User{ID: "admin01", Name: "Admin", Role: domain.RoleAdmin, Active: true}
)

type fixture struct {
	store      *memory.Store
	dispatcher events.Dispatcher
	tickets    *TicketService
	parts      *PartsService

	mu       sync.Mutex
	recorded []events.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:      memory.NewStore(),
		dispatcher: events.NewInMemoryDispatcher(),
	}
	locks := NewTicketLocks()
	f.tickets = NewTicketService(TicketDependencies{
		TicketRepo:     f.store.Tickets(),
		VehicleRepo:    f.store.Vehicles(),
		InspectionRepo: f.store.Inspections(),
		Dispatcher:     f.dispatcher,
		Locks:          locks,
	})
	f.parts = NewPartsService(PartsDependencies{
		TicketRepo:    f.store.Tickets(),
		SparePartRepo: f.store.SpareParts(),
		Dispatcher:    f.dispatcher,
		Locks:         locks,
	})

	record := func(ctx context.Context, event events.Event) error {
		f.mu.Lock()
		f.recorded = append(f.recorded, event)
		f.mu.Unlock()
		return nil
	}
	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventWorkStarted,
		events.EventWorkFinished,
		events.EventTicketConfirmed,
		events.EventTechniciansAssigned,
		events.EventPartsRequested,
		events.EventPartRequestApproved,
		events.EventPartRequestRejected,
		events.EventPartsIssued,
		events.EventPartsRejectedByWarehouse,
		events.EventHandoverCompleted,
	} {
		f.dispatcher.Subscribe(eventType, record)
	}

	ctx := context.Background()
	if err := f.store.Vehicles().Upsert(ctx, &domain.Vehicle{ID: "HD-105", CurrentKilometers: 152345}); err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}
	for _, part := range []domain.SparePart{
		{SAPCode: "OF-002", MaterialDescription: "Oil Filter", UOM: "EA", BalanceOnSAP: 50},
		{SAPCode: "ALT-010", MaterialDescription: "Alternator 24V", UOM: "EA", BalanceOnSAP: 8},
	} {
		p := part
		if err := f.store.SpareParts().Create(ctx, &p); err != nil {
			t.Fatalf("seed spare part: %v", err)
		}
	}
	return f
}

func (f *fixture) eventTypes() []events.EventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	types := make([]events.EventType, 0, len(f.recorded))
	for _, event := range f.recorded {
		types = append(types, event.Type)
	}
	return types
}

// createOpenTicket seeds a ticket through the service so serials and events
// behave like production writes.
func (f *fixture) createOpenTicket(t *testing.T) *domain.Ticket {
	t.Helper()
	ticket, err := f.tickets.Create(context.Background(), opsUser, TicketCreateInput{
		VehicleID:  "HD-105",
		Issue:      "engine overheating",
		ReportedBy: "Driver 44",
		Section:    domain.SectionMechanical,
		Priority:   domain.TicketPriorityHigh,
	})
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	return ticket
}

// startedTicket returns a ticket moved to in-progress behind a fresh
// inspection.
func (f *fixture) startedTicket(t *testing.T) *domain.Ticket {
	t.Helper()
	ticket := f.createOpenTicket(t)
	f.recordInspection(t, ticket.VehicleID, time.Now())
	ticket, err := f.tickets.StartWork(context.Background(), maintUser, ticket.ID)
	if err != nil {
		t.Fatalf("start work: %v", err)
	}
	return ticket
}

func (f *fixture) recordInspection(t *testing.T, vehicleID string, at time.Time) {
	t.Helper()
	err := f.store.Inspections().Create(context.Background(), &domain.Inspection{
		ID:        uuid.NewString(),
		VehicleID: vehicleID,
		CreatedAt: at,
	})
	if err != nil {
		t.Fatalf("record inspection: %v", err)
	}
}

func errorCode(t *testing.T, err error) string {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	return apperrors.ToDomainError(err).Code
}
