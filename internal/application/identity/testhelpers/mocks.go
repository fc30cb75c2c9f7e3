package testhelpers

import (
	"context"
	"fmt"
	"time"

	"github.com/stretchr/testify/mock"

	appidentity "github.com/yegamble/licensevault/internal/application/identity"
	"github.com/yegamble/licensevault/internal/domain/identity"
)

// MockUserRepository is a mock implementation of identity.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

// NextID generates a new UserID.
func (m *MockUserRepository) NextID() identity.UserID {
	args := m.Called()
	return args.Get(0).(identity.UserID)
}

// FindByID retrieves a user by ID.
func (m *MockUserRepository) FindByID(ctx context.Context, id identity.UserID) (*identity.User, error) {
	args := m.Called(ctx, id)
	var user *identity.User
	if args.Get(0) != nil {
		user = args.Get(0).(*identity.User)
	}
	if err := args.Error(1); err != nil {
		return user, fmt.Errorf("mock FindByID: %w", err)
	}
	return user, nil
}

// FindByEmail retrieves a user by email.
func (m *MockUserRepository) FindByEmail(ctx context.Context, email identity.Email) (*identity.User, error) {
	args := m.Called(ctx, email)
	var user *identity.User
	if args.Get(0) != nil {
		user = args.Get(0).(*identity.User)
	}
	if err := args.Error(1); err != nil {
		return user, fmt.Errorf("mock FindByEmail: %w", err)
	}
	return user, nil
}

// FindByUsername retrieves a user by username.
func (m *MockUserRepository) FindByUsername(ctx context.Context, username identity.Username) (*identity.User, error) {
	args := m.Called(ctx, username)
	var user *identity.User
	if args.Get(0) != nil {
		user = args.Get(0).(*identity.User)
	}
	if err := args.Error(1); err != nil {
		return user, fmt.Errorf("mock FindByUsername: %w", err)
	}
	return user, nil
}

// Save persists a user.
func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// Delete removes a user.
func (m *MockUserRepository) Delete(ctx context.Context, id identity.UserID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTokenService is a mock implementation of appidentity.TokenService.
type MockTokenService struct {
	mock.Mock
}

// IssueSession mints a fresh access+refresh pair.
func (m *MockTokenService) IssueSession(ctx context.Context, user appidentity.UserClaims) (string, string, time.Time, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.String(1), args.Get(2).(time.Time), args.Error(3)
}

// Refresh rotates a refresh token.
func (m *MockTokenService) Refresh(ctx context.Context, user appidentity.UserClaims, refreshToken string) (string, string, time.Time, error) {
	args := m.Called(ctx, user, refreshToken)
	return args.String(0), args.String(1), args.Get(2).(time.Time), args.Error(3)
}

// RevokeSession revokes a single session.
func (m *MockTokenService) RevokeSession(ctx context.Context, userID, jti string) error {
	args := m.Called(ctx, userID, jti)
	return args.Error(0)
}

// RevokeAllSessions revokes every live session for a user.
func (m *MockTokenService) RevokeAllSessions(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

// RevokeByRefreshToken revokes whatever session a refresh token resolves to.
func (m *MockTokenService) RevokeByRefreshToken(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

// ValidateRefresh reports whether a refresh token is live.
func (m *MockTokenService) ValidateRefresh(ctx context.Context, refreshToken string) (bool, error) {
	args := m.Called(ctx, refreshToken)
	return args.Bool(0), args.Error(1)
}

// ResolveUserID returns the user id a refresh token belongs to.
func (m *MockTokenService) ResolveUserID(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

// ListSessions returns every stored session record for a user.
func (m *MockTokenService) ListSessions(ctx context.Context, userID string) ([]appidentity.SessionInfo, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]appidentity.SessionInfo), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

// Publish publishes a domain event.
func (m *MockEventPublisher) Publish(ctx context.Context, event interface{}) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockMailDispatcher is a mock implementation of appidentity.MailDispatcher.
type MockMailDispatcher struct {
	mock.Mock
}

// Enqueue enqueues a fire-and-forget mail task.
func (m *MockMailDispatcher) Enqueue(ctx context.Context, task appidentity.MailTask) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// MockTokenGenerator is a mock implementation of appidentity.TokenGenerator.
type MockTokenGenerator struct {
	mock.Mock
}

// Generate returns a random token of the given size.
func (m *MockTokenGenerator) Generate(size int) (string, error) {
	args := m.Called(size)
	return args.String(0), args.Error(1)
}

// MockVerificationStore is a mock implementation of appidentity.VerificationStore.
type MockVerificationStore struct {
	mock.Mock
}

// PutEmailVerification stores an email-verification token.
func (m *MockVerificationStore) PutEmailVerification(ctx context.Context, token, userID string) error {
	args := m.Called(ctx, token, userID)
	return args.Error(0)
}

// ConsumeEmailVerification retrieves and deletes an email-verification token.
func (m *MockVerificationStore) ConsumeEmailVerification(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

// PutPasswordReset stores a password-reset token.
func (m *MockVerificationStore) PutPasswordReset(ctx context.Context, token, userID string) error {
	args := m.Called(ctx, token, userID)
	return args.Error(0)
}

// ConsumePasswordReset retrieves and deletes a password-reset token.
func (m *MockVerificationStore) ConsumePasswordReset(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}
