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

func TestVerifyEmailHandler_Handle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		setup func(suite *testhelpers.TestSuite) commands.VerifyEmailCommand
		check func(t *testing.T, err error)
	}{
		{
			name: "consumes token and verifies unverified user",
			setup: func(suite *testhelpers.TestSuite) commands.VerifyEmailCommand {
				user := testhelpers.ValidUser() // Unverified by default
				suite.VerificationStore.On("ConsumeEmailVerification", mock.Anything, "good-token").
					Return(user.ID().String(), nil).Once()
				suite.UserRepo.On("FindByID", mock.Anything, user.ID()).Return(user, nil).Once()
				suite.UserRepo.On("Save", mock.Anything, mock.Anything).Return(nil).Once()
				return commands.VerifyEmailCommand{Token: "good-token"}
			},
			check: func(t *testing.T, err error) {
				require.NoError(t, err)
			},
		},
		{
			name: "consumes token for already-verified user",
			setup: func(suite *testhelpers.TestSuite) commands.VerifyEmailCommand {
				user := testhelpers.ValidActiveUser()
				suite.VerificationStore.On("ConsumeEmailVerification", mock.Anything, "stale-token").
					Return(user.ID().String(), nil).Once()
				suite.UserRepo.On("FindByID", mock.Anything, user.ID()).Return(user, nil).Once()
				return commands.VerifyEmailCommand{Token: "stale-token"}
			},
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, appidentity.ErrAlreadyVerified)
			},
		},
		{
			name: "unknown token",
			setup: func(suite *testhelpers.TestSuite) commands.VerifyEmailCommand {
				suite.VerificationStore.On("ConsumeEmailVerification", mock.Anything, "bad-token").
					Return("", fmt.Errorf("not found")).Once()
				return commands.VerifyEmailCommand{Token: "bad-token"}
			},
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, appidentity.ErrInvalidOrExpiredToken)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			suite := testhelpers.NewTestSuite(t)
			cmd := tt.setup(suite)

			handler := commands.NewVerifyEmailHandler(suite.UserRepo, suite.VerificationStore, &suite.Logger)
			_, err := handler.Handle(context.Background(), cmd)

			tt.check(t, err)
			suite.AssertExpectations()
		})
	}
}
