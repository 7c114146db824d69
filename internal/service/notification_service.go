package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/fleet-maintenance/internal/domain"
	"github.com/spec-kit/fleet-maintenance/internal/events"
	"github.com/spec-kit/fleet-maintenance/internal/repository"
	apperrors "github.com/spec-kit/fleet-maintenance/pkg/util"
)

const unreadCountTTL = 10 * time.Minute

// NotificationService fans workflow events out to the roles that act next and
// serves each user's notification feed. Unread counts are cached in Redis and
// invalidated whenever a notification is written or read.
type NotificationService struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	cache         *redis.Client
	logger        *zap.Logger
}

// NotificationDependencies bundles constructor arguments. Cache may be nil,
// in which case counts always hit the store.
type NotificationDependencies struct {
	Notifications repository.NotificationRepository
	Users         repository.UserRepository
	Cache         *redis.Client
	Logger        *zap.Logger
}

// NewNotificationService constructs the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	return &NotificationService{
		notifications: deps.Notifications,
		users:         deps.Users,
		cache:         deps.Cache,
		logger:        deps.Logger,
	}
}

// RegisterHandlers subscribes the emitter to every lifecycle event that must
// alert a role.
func (s *NotificationService) RegisterHandlers(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventTicketCreated, s.notifyRole(domain.RoleMaintenance, func(e events.Event) string {
		return fmt.Sprintf("New ticket %s reported for vehicle %s", e.TicketSerial, e.VehicleID)
	}))
	dispatcher.Subscribe(events.EventWorkFinished, s.notifyRole(domain.RoleOperations, func(e events.Event) string {
		return fmt.Sprintf("Ticket %s is awaiting your confirmation", e.TicketSerial)
	}))
	dispatcher.Subscribe(events.EventPartsRequested, s.notifyRole(domain.RoleSparesAdmin, func(e events.Event) string {
		return fmt.Sprintf("Ticket %s requested spare parts", e.TicketSerial)
	}))
	dispatcher.Subscribe(events.EventPartRequestApproved, s.notifyRole(domain.RoleWarehouse, func(e events.Event) string {
		return fmt.Sprintf("Part request for ticket %s was approved and awaits issue", e.TicketSerial)
	}))
	dispatcher.Subscribe(events.EventPartRequestRejected, s.notifyRole(domain.RoleMaintenance, func(e events.Event) string {
		return fmt.Sprintf("Part request for ticket %s was rejected", e.TicketSerial)
	}))
	dispatcher.Subscribe(events.EventPartsIssued, s.notifyRole(domain.RoleMaintenance, func(e events.Event) string {
		return fmt.Sprintf("Parts for ticket %s were issued by the warehouse", e.TicketSerial)
	}))
	dispatcher.Subscribe(events.EventPartsRejectedByWarehouse, s.notifyRole(domain.RoleMaintenance, func(e events.Event) string {
		return fmt.Sprintf("Warehouse rejected the part request for ticket %s", e.TicketSerial)
	}))
	dispatcher.Subscribe(events.EventHandoverCompleted, s.notifyRole(domain.RoleMaintenance, func(e events.Event) string {
		return fmt.Sprintf("Parts handover for ticket %s is complete", e.TicketSerial)
	}))
}

func (s *NotificationService) notifyRole(role domain.Role, message func(events.Event) string) events.EventHandler {
	return func(ctx context.Context, event events.Event) error {
		recipients, err := s.users.ListByRole(ctx, role)
		if err != nil {
			return err
		}
		text := message(event)
		for i := range recipients {
			if recipients[i].ID == event.Actor.UserID {
				continue
			}
			notification := &domain.Notification{
				ID:           uuid.NewString(),
				UserID:       recipients[i].ID,
				TicketID:     event.TicketID,
				TicketSerial: event.TicketSerial,
				Message:      text,
				CreatedAt:    event.Timestamp,
			}
			if err := s.notifications.Create(ctx, notification); err != nil {
				return err
			}
			s.invalidateUnread(ctx, recipients[i].ID)
		}
		return nil
	}
}

// ListForUser returns the user's feed, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	notifications, err := s.notifications.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return notifications, nil
}

// MarkRead flips one notification to read. The user must own it.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	if err := s.notifications.MarkRead(ctx, notificationID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("notification", map[string]any{"notification_id": notificationID})
		}
		return apperrors.MapError(err)
	}
	s.invalidateUnread(ctx, userID)
	return nil
}

// UnreadCount returns the number of unread notifications, consulting the
// cache first.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	key := unreadCountKey(userID)
	if s.cache != nil {
		if count, err := s.cache.Get(ctx, key).Int(); err == nil {
			return count, nil
		} else if !errors.Is(err, redis.Nil) && s.logger != nil {
			s.logger.Warn("unread count cache read failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
	count, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, count, unreadCountTTL).Err(); err != nil && s.logger != nil {
			s.logger.Warn("unread count cache write failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return count, nil
}

func (s *NotificationService) invalidateUnread(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, unreadCountKey(userID)).Err(); err != nil && s.logger != nil {
		s.logger.Warn("unread count cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func unreadCountKey(userID string) string {
	return "notifications:unread:" + userID
}
