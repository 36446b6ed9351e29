package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sharmaasahill/ticket-dashboard/internal/core/ports"
)

// DefaultDispatchTimeout bounds a single outbound delivery so a slow
// mail server cannot pile up unbounded in-flight sends.
const DefaultDispatchTimeout = 15 * time.Second

// NotificationService decides, per project member, whether a change
// reaches them via the live board or needs an out-of-band message. It
// diffs the persisted membership list against the presence registry's
// snapshot and mails everyone who is not connected to the project room.
//
// This is a best-effort side channel: duplicate or missed notifications
// under reconnect races are acceptable, and no delivery result is ever
// surfaced to end users.
type NotificationService struct {
	projectRepo     ports.ProjectRepository
	presence        ports.PresenceTracker
	mailer          ports.Mailer
	dispatchTimeout time.Duration
	logger          *slog.Logger
}

var _ ports.OfflineNotifier = (*NotificationService)(nil)

// NewNotificationService creates a new offline notification service.
// A non-positive dispatchTimeout falls back to DefaultDispatchTimeout.
func NewNotificationService(
	projectRepo ports.ProjectRepository,
	presence ports.PresenceTracker,
	mailer ports.Mailer,
	dispatchTimeout time.Duration,
	logger *slog.Logger,
) *NotificationService {
	if dispatchTimeout <= 0 {
		dispatchTimeout = DefaultDispatchTimeout
	}
	return &NotificationService{
		projectRepo:     projectRepo,
		presence:        presence,
		mailer:          mailer,
		dispatchTimeout: dispatchTimeout,
		logger:          logger.With("component", "notification_service"),
	}
}

// NotifyProjectMembersIfOffline dispatches the message to every project
// member without a live connection to the project's room. Dispatches run
// concurrently and independently; one recipient's failure never blocks
// another's. An empty membership list or an all-online roster is a
// successful no-op.
func (s *NotificationService) NotifyProjectMembersIfOffline(ctx context.Context, projectID uuid.UUID, message string) error {
	members, err := s.projectRepo.ListMembers(ctx, projectID)
	if err != nil {
		return err
	}
	if len(members) == 0 {
		return nil
	}

	online := s.presence.OnlineUsers(projectID)

	var wg sync.WaitGroup
	dispatched := 0
	for _, member := range members {
		if online[member.UserID] {
			continue
		}
		dispatched++

		wg.Add(1)
		go func(address string, userID uuid.UUID) {
			defer wg.Done()

			sendCtx, cancel := context.WithTimeout(ctx, s.dispatchTimeout)
			defer cancel()

			if err := s.mailer.Send(sendCtx, address, "Board update", message); err != nil {
				s.logger.Error("notification delivery failed",
					"project_id", projectID,
					"user_id", userID,
					"error", err,
				)
			}
		}(member.Email, member.UserID)
	}
	wg.Wait()

	s.logger.Debug("offline notification pass complete",
		"project_id", projectID,
		"members", len(members),
		"online", len(online),
		"dispatched", dispatched,
	)
	return nil
}
