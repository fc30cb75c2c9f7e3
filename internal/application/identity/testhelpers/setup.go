package testhelpers

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"

	appidentity "github.com/yegamble/licensevault/internal/application/identity"
	"github.com/yegamble/licensevault/internal/domain/identity"
)

// TestSuite encapsulates all mocks and test dependencies for application layer tests.
// Use NewTestSuite to create a properly initialized test suite with all mocks.
type TestSuite struct {
	// Domain Layer Mocks
	UserRepo *MockUserRepository

	// Token service mock (access signing, refresh rotation, revocation)
	TokenService *MockTokenService

	// Verification/mail mocks for the auth orchestration commands
	MailDispatcher    *MockMailDispatcher
	VerificationStore *MockVerificationStore
	TokenGenerator    *MockTokenGenerator

	// Event Publishing Mock
	EventPublisher *MockEventPublisher

	// Logger for handlers (no-op logger for tests)
	Logger zerolog.Logger

	// Testing context
	t *testing.T
}

// NewTestSuite creates a new test suite with all mocks initialized.
// This is the recommended way to set up tests for application layer handlers.
//
// Example:
//
//	func TestMyCommand(t *testing.T) {
//	    suite := testhelpers.NewTestSuite(t)
//	    // Configure mocks
//	    suite.UserRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
//	    // Run test
//	    // ...
//	    // Verify expectations
//	    suite.AssertExpectations()
//	}
func NewTestSuite(t *testing.T) *TestSuite {
	return &TestSuite{
		UserRepo:          new(MockUserRepository),
		TokenService:      new(MockTokenService),
		MailDispatcher:    new(MockMailDispatcher),
		VerificationStore: new(MockVerificationStore),
		TokenGenerator:    new(MockTokenGenerator),
		EventPublisher:    new(MockEventPublisher),
		Logger:            zerolog.Nop(), // No-op logger for tests
		t:                 t,
	}
}

// AssertExpectations asserts that all mocks had their expected methods called.
// Call this at the end of each test to verify all mock expectations were met.
func (s *TestSuite) AssertExpectations() {
	s.UserRepo.AssertExpectations(s.t)
	s.TokenService.AssertExpectations(s.t)
	s.MailDispatcher.AssertExpectations(s.t)
	s.VerificationStore.AssertExpectations(s.t)
	s.TokenGenerator.AssertExpectations(s.t)
	s.EventPublisher.AssertExpectations(s.t)
}

// Helper methods for common test setups

// SetupSuccessfulUserCreation configures mocks for a successful user registration.
func (s *TestSuite) SetupSuccessfulUserCreation() {
	s.UserRepo.On("FindByEmail", mock.Anything, mock.Anything).
		Return(nil, identity.ErrUserNotFound)
	s.UserRepo.On("FindByUsername", mock.Anything, mock.Anything).
		Return(nil, identity.ErrUserNotFound)
	s.UserRepo.On("Save", mock.Anything, mock.Anything).
		Return(nil)
}

// SetupSuccessfulLogin configures mocks for a successful login flow.
func (s *TestSuite) SetupSuccessfulLogin(user *identity.User) {
	s.UserRepo.On("FindByEmail", mock.Anything, mock.Anything).
		Return(user, nil)

	s.TokenService.On("IssueSession", mock.Anything, mock.MatchedBy(func(c appidentity.UserClaims) bool {
		return c.UserID == user.ID().String()
	})).Return("access.token.value", "refresh.token.value", time.Now().UTC().Add(15*time.Minute), nil)
}

// SetupSuccessfulTokenRefresh configures mocks for a successful token refresh.
func (s *TestSuite) SetupSuccessfulTokenRefresh(user *identity.User, refreshToken string) {
	s.TokenService.On("ResolveUserID", mock.Anything, refreshToken).
		Return(user.ID().String(), nil)

	s.UserRepo.On("FindByID", mock.Anything, user.ID()).
		Return(user, nil)

	s.TokenService.On("Refresh", mock.Anything, mock.MatchedBy(func(c appidentity.UserClaims) bool {
		return c.UserID == user.ID().String()
	}), refreshToken).Return("new.access.token", "new.refresh.token", time.Now().UTC().Add(15*time.Minute), nil)
}

// SetupSuccessfulLogout configures mocks for a successful logout.
func (s *TestSuite) SetupSuccessfulLogout(refreshToken string) {
	s.TokenService.On("RevokeByRefreshToken", mock.Anything, refreshToken).
		Return(nil)
}

// SetupUserNotFound configures mocks to return "user not found" error.
func (s *TestSuite) SetupUserNotFound() {
	s.UserRepo.On("FindByEmail", mock.Anything, mock.Anything).
		Return(nil, identity.ErrUserNotFound)
	s.UserRepo.On("FindByID", mock.Anything, mock.Anything).
		Return(nil, identity.ErrUserNotFound)
	s.UserRepo.On("FindByUsername", mock.Anything, mock.Anything).
		Return(nil, identity.ErrUserNotFound)
}

// SetupEmailAlreadyExists configures mocks to simulate duplicate email.
func (s *TestSuite) SetupEmailAlreadyExists(existingUser *identity.User) {
	s.UserRepo.On("FindByEmail", mock.Anything, mock.Anything).
		Return(existingUser, nil)
}

// SetupUsernameAlreadyExists configures mocks to simulate duplicate username.
func (s *TestSuite) SetupUsernameAlreadyExists(existingUser *identity.User) {
	s.UserRepo.On("FindByUsername", mock.Anything, mock.Anything).
		Return(existingUser, nil)
}
