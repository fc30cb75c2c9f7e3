package commands_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appidentity "github.com/yegamble/licensevault/internal/application/identity"
	"github.com/yegamble/licensevault/internal/application/identity/commands"
	"github.com/yegamble/licensevault/internal/application/identity/testhelpers"
	"github.com/yegamble/licensevault/internal/domain/identity"
	infrajwt "github.com/yegamble/licensevault/internal/infrastructure/security/jwt"
)

//nolint:funlen // Table-driven test with comprehensive test cases
func TestRefreshTokenHandler_Handle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cmd    commands.RefreshTokenCommand
		setup  func(t *testing.T, suite *testhelpers.TestSuite)
		assert func(t *testing.T, suite *testhelpers.TestSuite, result interface{}, err error)
	}{
		{
			name: "successful token refresh",
			cmd:  commands.RefreshTokenCommand{RefreshToken: "valid.refresh.token"},
			setup: func(t *testing.T, suite *testhelpers.TestSuite) {
				user := testhelpers.ValidActiveUser()

				suite.TokenService.On("ResolveUserID", mock.Anything, "valid.refresh.token").
					Return(user.ID().String(), nil).Once()

				suite.UserRepo.On("FindByID", mock.Anything, user.ID()).
					Return(user, nil).Once()

				suite.TokenService.On("Refresh", mock.Anything, mock.Anything, "valid.refresh.token").
					Return("new.access.token", "new.refresh.token", time.Now().UTC().Add(15*time.Minute), nil).Once()
			},
			assert: func(t *testing.T, suite *testhelpers.TestSuite, result interface{}, err error) {
				require.NoError(t, err)
				require.NotNil(t, result)
			},
		},
		{
			name: "unknown refresh token",
			cmd:  commands.RefreshTokenCommand{RefreshToken: "unknown.token"},
			setup: func(t *testing.T, suite *testhelpers.TestSuite) {
				suite.TokenService.On("ResolveUserID", mock.Anything, "unknown.token").
					Return("", infrajwt.ErrTokenNotFound).Once()
			},
			assert: func(t *testing.T, suite *testhelpers.TestSuite, result interface{}, err error) {
				require.ErrorIs(t, err, appidentity.ErrTokenNotFound)
				assert.Nil(t, result)
			},
		},
		{
			name: "revoked refresh token",
			cmd:  commands.RefreshTokenCommand{RefreshToken: "revoked.token"},
			setup: func(t *testing.T, suite *testhelpers.TestSuite) {
				suite.TokenService.On("ResolveUserID", mock.Anything, "revoked.token").
					Return("", infrajwt.ErrTokenRevoked).Once()
			},
			assert: func(t *testing.T, suite *testhelpers.TestSuite, result interface{}, err error) {
				require.ErrorIs(t, err, appidentity.ErrTokenRevoked)
				assert.Nil(t, result)
			},
		},
		{
			name: "owning user no longer exists",
			cmd:  commands.RefreshTokenCommand{RefreshToken: "orphaned.token"},
			setup: func(t *testing.T, suite *testhelpers.TestSuite) {
				suite.TokenService.On("ResolveUserID", mock.Anything, "orphaned.token").
					Return(testhelpers.ValidUserID.String(), nil).Once()

				suite.UserRepo.On("FindByID", mock.Anything, testhelpers.ValidUserID).
					Return(nil, identity.ErrUserNotFound).Once()
			},
			assert: func(t *testing.T, suite *testhelpers.TestSuite, result interface{}, err error) {
				require.ErrorIs(t, err, appidentity.ErrTokenNotFound)
				assert.Nil(t, result)
			},
		},
		{
			name: "account blocked during refresh revokes the session",
			cmd:  commands.RefreshTokenCommand{RefreshToken: "blocked.user.token"},
			setup: func(t *testing.T, suite *testhelpers.TestSuite) {
				user := testhelpers.ValidBlockedUser()

				suite.TokenService.On("ResolveUserID", mock.Anything, "blocked.user.token").
					Return(user.ID().String(), nil).Once()

				suite.UserRepo.On("FindByID", mock.Anything, user.ID()).
					Return(user, nil).Once()

				suite.TokenService.On("RevokeByRefreshToken", mock.Anything, "blocked.user.token").
					Return(nil).Once()
			},
			assert: func(t *testing.T, suite *testhelpers.TestSuite, result interface{}, err error) {
				require.ErrorIs(t, err, appidentity.ErrAccountBlocked)
				assert.Nil(t, result)
			},
		},
		{
			name: "rotation fails",
			cmd:  commands.RefreshTokenCommand{RefreshToken: "valid.token"},
			setup: func(t *testing.T, suite *testhelpers.TestSuite) {
				user := testhelpers.ValidActiveUser()

				suite.TokenService.On("ResolveUserID", mock.Anything, "valid.token").
					Return(user.ID().String(), nil).Once()

				suite.UserRepo.On("FindByID", mock.Anything, user.ID()).
					Return(user, nil).Once()

				suite.TokenService.On("Refresh", mock.Anything, mock.Anything, "valid.token").
					Return("", "", time.Time{}, fmt.Errorf("cache unavailable")).Once()
			},
			assert: func(t *testing.T, suite *testhelpers.TestSuite, result interface{}, err error) {
				require.Error(t, err)
				assert.Nil(t, result)
			},
		},
	}

	for _, tt := range tests {
		tt := tt // Capture range variable
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			suite := testhelpers.NewTestSuite(t)
			if tt.setup != nil {
				tt.setup(t, suite)
			}

			handler := commands.NewRefreshTokenHandler(suite.UserRepo, suite.TokenService, &suite.Logger)

			result, err := handler.Handle(context.Background(), tt.cmd)
			tt.assert(t, suite, result, err)

			suite.AssertExpectations()
		})
	}
}
