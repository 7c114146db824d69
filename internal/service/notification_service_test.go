package service

import (
	"context"
	"testing"

	"github.com/spec-kit/fleet-maintenance/internal/domain"
)

func seedUsers(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()
	for _, user := range []*domain.User{opsUser, maintUser, inspUser, sparesUser, whUser, adminUser} {
		if err := f.store.Users().Create(ctx, user); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	if err := f.store.Users().Create(ctx, &domain.User{
		ID: "maint02", Name: "Second Mechanic", Role: domain.RoleMaintenance, Active: true,
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func newNotificationFixture(t *testing.T) (*fixture, *NotificationService) {
	t.Helper()
	f := newFixture(t)
	seedUsers(t, f)
	svc := NewNotificationService(NotificationDependencies{
		Notifications: f.store.Notifications(),
		Users:         f.store.Users(),
	})
	svc.RegisterHandlers(f.dispatcher)
	return f, svc
}

func TestNotificationsRoutedByRole(t *testing.T) {
	f, svc := newNotificationFixture(t)
	ctx := context.Background()

	ticket := f.createOpenTicket(t)

	// Ticket creation alerts every maintenance user.
	for _, userID := range []string{"maint01", "maint02"} {
		feed, err := svc.ListForUser(ctx, userID, 0)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(feed) != 1 {
			t.Fatalf("feed for %s = %v, want one entry", userID, feed)
		}
		if feed[0].TicketSerial != ticket.Serial {
			t.Errorf("ticket serial = %q", feed[0].TicketSerial)
		}
	}

	// Parts flow: request alerts spares admin, approval alerts warehouse.
	f.recordInspection(t, ticket.VehicleID, ticket.CreatedAt)
	if _, err := f.tickets.StartWork(ctx, maintUser, ticket.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.parts.Request(ctx, maintUser, ticket.ID, map[string]int{"OF-002": 1}); err != nil {
		t.Fatalf("request: %v", err)
	}
	sparesFeed, err := svc.ListForUser(ctx, "spares01", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sparesFeed) != 1 {
		t.Fatalf("spares feed = %v, want one entry", sparesFeed)
	}

	if _, err := f.parts.Approve(ctx, sparesUser, ticket.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	whFeed, err := svc.ListForUser(ctx, "wh01", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(whFeed) != 1 {
		t.Fatalf("warehouse feed = %v, want one entry", whFeed)
	}

	// Finishing work alerts operations, not the acting mechanic.
	if _, err := f.tickets.FinishWork(ctx, maintUser, ticket.ID, "done"); err != nil {
		t.Fatalf("finish: %v", err)
	}
	opsFeed, err := svc.ListForUser(ctx, "ops01", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(opsFeed) != 1 {
		t.Fatalf("ops feed = %v, want one entry", opsFeed)
	}
}

func TestNotificationSkipsActor(t *testing.T) {
	f, svc := newNotificationFixture(t)
	ctx := context.Background()

	ticket := f.createOpenTicket(t)
	f.recordInspection(t, ticket.VehicleID, ticket.CreatedAt)
	if _, err := f.tickets.StartWork(ctx, maintUser, ticket.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.parts.Request(ctx, maintUser, ticket.ID, map[string]int{"OF-002": 1}); err != nil {
		t.Fatalf("request: %v", err)
	}
	if _, err := f.parts.Reject(ctx, sparesUser, ticket.ID); err != nil {
		t.Fatalf("reject: %v", err)
	}

	// The rejection alerts maintenance; maint01 acted earlier but is the
	// recipient here, while maint02 also gets it. Neither alert goes to the
	// spares admin who performed the rejection.
	// spares01 got exactly the parts_requested alert, nothing from its own
	// rejection.
	feed, err := svc.ListForUser(ctx, "spares01", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(feed) != 1 {
		t.Fatalf("spares feed = %v, want only the request alert", feed)
	}
}

func TestUnreadCountAndMarkRead(t *testing.T) {
	f, svc := newNotificationFixture(t)
	ctx := context.Background()

	f.createOpenTicket(t)
	f.createOpenTicket(t)

	count, err := svc.UnreadCount(ctx, "maint01")
	if err != nil {
		t.Fatalf("unread: %v", err)
	}
	if count != 2 {
		t.Fatalf("unread = %d, want 2", count)
	}

	feed, err := svc.ListForUser(ctx, "maint01", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if err := svc.MarkRead(ctx, "maint01", feed[0].ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	count, err = svc.UnreadCount(ctx, "maint01")
	if err != nil {
		t.Fatalf("unread: %v", err)
	}
	if count != 1 {
		t.Fatalf("unread = %d, want 1", count)
	}

	// A user cannot mark someone else's notification.
	if err := svc.MarkRead(ctx, "maint02", feed[1].ID); err == nil {
		t.Fatal("expected not-found marking another user's notification")
	}
}
