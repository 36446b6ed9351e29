package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/sharmaasahill/ticket-dashboard/internal/core/domain"
	"github.com/sharmaasahill/ticket-dashboard/internal/core/ports"
)

// recentActivityLimit caps the activity feed per project.
const recentActivityLimit = 50

// ActivityService records and serves the project activity feed.
type ActivityService struct {
	activityRepo ports.ActivityRepository
}

var _ ports.ActivityService = (*ActivityService)(nil)

// NewActivityService creates a new activity service.
func NewActivityService(activityRepo ports.ActivityRepository) *ActivityService {
	return &ActivityService{activityRepo: activityRepo}
}

// Log appends an activity entry.
func (s *ActivityService) Log(ctx context.Context, activity *domain.Activity) error {
	_, err := s.activityRepo.Create(ctx, activity)
	return err
}

// ListRecent returns the newest activity entries for a project.
func (s *ActivityService) ListRecent(ctx context.Context, projectID uuid.UUID) ([]*domain.Activity, error) {
	return s.activityRepo.ListRecent(ctx, projectID, recentActivityLimit)
}
