package commands_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appidentity "github.com/yegamble/licensevault/internal/application/identity"
	"github.com/yegamble/licensevault/internal/application/identity/commands"
	"github.com/yegamble/licensevault/internal/application/identity/testhelpers"
)

func TestResetPasswordHandler_Handle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		setup func(suite *testhelpers.TestSuite) commands.ResetPasswordCommand
		check func(t *testing.T, err error)
	}{
		{
			name: "valid token resets password and revokes sessions",
			setup: func(suite *testhelpers.TestSuite) commands.ResetPasswordCommand {
				user := testhelpers.ValidUserWithID(testhelpers.ValidUserID)
				suite.VerificationStore.On("ConsumePasswordReset", mock.Anything, "good-token").
					Return(user.ID().String(), nil).Once()
				suite.UserRepo.On("FindByID", mock.Anything, user.ID()).Return(user, nil).Once()
				suite.UserRepo.On("Save", mock.Anything, mock.Anything).Return(nil).Once()
				suite.TokenService.On("RevokeAllSessions", mock.Anything, user.ID().String()).
					Return(1, nil).Once()
				return commands.ResetPasswordCommand{Token: "good-token", NewPassword: "AnotherStr0ng!Pass"}
			},
			check: func(t *testing.T, err error) {
				require.NoError(t, err)
			},
		},
		{
			name: "unknown token",
			setup: func(suite *testhelpers.TestSuite) commands.ResetPasswordCommand {
				suite.VerificationStore.On("ConsumePasswordReset", mock.Anything, "bad-token").
					Return("", fmt.Errorf("not found")).Once()
				return commands.ResetPasswordCommand{Token: "bad-token", NewPassword: "AnotherStr0ng!Pass"}
			},
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, appidentity.ErrInvalidOrExpiredToken)
			},
		},
		{
			name: "weak new password is rejected",
			setup: func(suite *testhelpers.TestSuite) commands.ResetPasswordCommand {
				user := testhelpers.ValidUserWithID(testhelpers.ValidUserID)
				suite.VerificationStore.On("ConsumePasswordReset", mock.Anything, "good-token").
					Return(user.ID().String(), nil).Once()
				suite.UserRepo.On("FindByID", mock.Anything, user.ID()).Return(user, nil).Once()
				return commands.ResetPasswordCommand{Token: "good-token", NewPassword: "short"}
			},
			check: func(t *testing.T, err error) {
				require.Error(t, err)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			suite := testhelpers.NewTestSuite(t)
			cmd := tt.setup(suite)

			handler := commands.NewResetPasswordHandler(
				suite.UserRepo, suite.VerificationStore, suite.TokenService, &suite.Logger,
			)
			_, err := handler.Handle(context.Background(), cmd)

			tt.check(t, err)
			suite.AssertExpectations()
		})
	}
}
