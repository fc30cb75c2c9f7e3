package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appidentity "github.com/yegamble/licensevault/internal/application/identity"
	"github.com/yegamble/licensevault/internal/application/identity/commands"
	"github.com/yegamble/licensevault/internal/application/identity/testhelpers"
	"github.com/yegamble/licensevault/internal/domain/identity"
)

func TestForgotPasswordHandler_Handle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		setup func(suite *testhelpers.TestSuite) commands.ForgotPasswordCommand
		check func(t *testing.T, err error)
	}{
		{
			name: "known email gets a reset token",
			setup: func(suite *testhelpers.TestSuite) commands.ForgotPasswordCommand {
				user := testhelpers.ValidUser()
				suite.UserRepo.On("FindByEmail", mock.Anything, mock.Anything).Return(user, nil).Once()
				suite.TokenGenerator.On("Generate", 32).Return("reset-token", nil).Once()
				suite.VerificationStore.On("PutPasswordReset", mock.Anything, "reset-token", user.ID().String()).
					Return(nil).Once()
				suite.MailDispatcher.On("Enqueue", mock.Anything, mock.MatchedBy(func(task appidentity.MailTask) bool {
					return task.Kind == "password_reset" && task.Token == "reset-token"
				})).Return(nil).Once()
				return commands.ForgotPasswordCommand{Email: testhelpers.ValidEmail}
			},
			check: func(t *testing.T, err error) {
				require.NoError(t, err)
			},
		},
		{
			name: "blocked account still receives a reset email",
			setup: func(suite *testhelpers.TestSuite) commands.ForgotPasswordCommand {
				user := testhelpers.ValidBlockedUser()
				suite.UserRepo.On("FindByEmail", mock.Anything, mock.Anything).Return(user, nil).Once()
				suite.TokenGenerator.On("Generate", 32).Return("reset-token", nil).Once()
				suite.VerificationStore.On("PutPasswordReset", mock.Anything, "reset-token", user.ID().String()).
					Return(nil).Once()
				suite.MailDispatcher.On("Enqueue", mock.Anything, mock.Anything).Return(nil).Once()
				return commands.ForgotPasswordCommand{Email: testhelpers.ValidEmail}
			},
			check: func(t *testing.T, err error) {
				require.NoError(t, err)
			},
		},
		{
			name: "unknown email propagates user-not-found",
			setup: func(suite *testhelpers.TestSuite) commands.ForgotPasswordCommand {
				suite.UserRepo.On("FindByEmail", mock.Anything, mock.Anything).
					Return(nil, identity.ErrUserNotFound).Once()
				return commands.ForgotPasswordCommand{Email: "nobody@example.com"}
			},
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, identity.ErrUserNotFound)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			suite := testhelpers.NewTestSuite(t)
			cmd := tt.setup(suite)

			handler := commands.NewForgotPasswordHandler(
				suite.UserRepo, suite.VerificationStore, suite.TokenGenerator, suite.MailDispatcher, &suite.Logger,
			)
			err := handler.Handle(context.Background(), cmd)

			tt.check(t, err)
			suite.AssertExpectations()
		})
	}
}
