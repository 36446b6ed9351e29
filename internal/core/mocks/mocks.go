package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/sharmaasahill/ticket-dashboard/internal/core/domain"
)

// MockUserRepository is a mock implementation of ports.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockProjectRepository is a mock implementation of ports.ProjectRepository
type MockProjectRepository struct {
	mock.Mock
}

func NewMockProjectRepository() *MockProjectRepository {
	return &MockProjectRepository{}
}

func (m *MockProjectRepository) Create(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	args := m.Called(ctx, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) List(ctx context.Context) ([]*domain.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) Update(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	args := m.Called(ctx, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProjectRepository) AddMember(ctx context.Context, membership *domain.Membership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockProjectRepository) ListMembers(ctx context.Context, projectID uuid.UUID) ([]*domain.Member, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Member), args.Error(1)
}

// MockTicketRepository is a mock implementation of ports.TicketRepository
type MockTicketRepository struct {
	mock.Mock
}

func NewMockTicketRepository() *MockTicketRepository {
	return &MockTicketRepository{}
}

func (m *MockTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	args := m.Called(ctx, ticket)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Ticket, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) Update(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	args := m.Called(ctx, ticket)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

// MockActivityRepository is a mock implementation of ports.ActivityRepository
type MockActivityRepository struct {
	mock.Mock
}

func NewMockActivityRepository() *MockActivityRepository {
	return &MockActivityRepository{}
}

func (m *MockActivityRepository) Create(ctx context.Context, activity *domain.Activity) (*domain.Activity, error) {
	args := m.Called(ctx, activity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Activity), args.Error(1)
}

func (m *MockActivityRepository) ListRecent(ctx context.Context, projectID uuid.UUID, limit int) ([]*domain.Activity, error) {
	args := m.Called(ctx, projectID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Activity), args.Error(1)
}

// MockLoginCodeRepository is a mock implementation of ports.LoginCodeRepository
type MockLoginCodeRepository struct {
	mock.Mock
}

func NewMockLoginCodeRepository() *MockLoginCodeRepository {
	return &MockLoginCodeRepository{}
}

func (m *MockLoginCodeRepository) Create(ctx context.Context, code *domain.LoginCode) (*domain.LoginCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoginCode), args.Error(1)
}

func (m *MockLoginCodeRepository) GetLatestActive(ctx context.Context, email string) (*domain.LoginCode, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoginCode), args.Error(1)
}

func (m *MockLoginCodeRepository) MarkConsumed(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRoomBroadcaster is a mock implementation of ports.RoomBroadcaster
type MockRoomBroadcaster struct {
	mock.Mock
}

func NewMockRoomBroadcaster() *MockRoomBroadcaster {
	return &MockRoomBroadcaster{}
}

func (m *MockRoomBroadcaster) Broadcast(projectID uuid.UUID, event domain.TicketEvent) error {
	args := m.Called(projectID, event)
	return args.Error(0)
}

// MockPresenceTracker is a mock implementation of ports.PresenceTracker
type MockPresenceTracker struct {
	mock.Mock
}

func NewMockPresenceTracker() *MockPresenceTracker {
	return &MockPresenceTracker{}
}

func (m *MockPresenceTracker) OnlineUsers(projectID uuid.UUID) map[uuid.UUID]bool {
	args := m.Called(projectID)
	if args.Get(0) == nil {
		return map[uuid.UUID]bool{}
	}
	return args.Get(0).(map[uuid.UUID]bool)
}

// MockOfflineNotifier is a mock implementation of ports.OfflineNotifier
type MockOfflineNotifier struct {
	mock.Mock
}

func NewMockOfflineNotifier() *MockOfflineNotifier {
	return &MockOfflineNotifier{}
}

func (m *MockOfflineNotifier) NotifyProjectMembersIfOffline(ctx context.Context, projectID uuid.UUID, message string) error {
	args := m.Called(ctx, projectID, message)
	return args.Error(0)
}

// MockMailer is a mock implementation of ports.Mailer
type MockMailer struct {
	mock.Mock
}

func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) Send(ctx context.Context, address, subject, body string) error {
	args := m.Called(ctx, address, subject, body)
	return args.Error(0)
}

// MockActivityService is a mock implementation of ports.ActivityService
type MockActivityService struct {
	mock.Mock
}

func NewMockActivityService() *MockActivityService {
	return &MockActivityService{}
}

func (m *MockActivityService) Log(ctx context.Context, activity *domain.Activity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *MockActivityService) ListRecent(ctx context.Context, projectID uuid.UUID) ([]*domain.Activity, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Activity), args.Error(1)
}
