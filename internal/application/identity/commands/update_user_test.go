package commands_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yegamble/licensevault/internal/application/identity/commands"
	"github.com/yegamble/licensevault/internal/application/identity/testhelpers"
	"github.com/yegamble/licensevault/internal/domain/identity"
)

func TestUpdateUserHandler_Handle_Success(t *testing.T) {
	t.Parallel()

	// Arrange
	mockRepo := new(testhelpers.MockUserRepository)
	handler := commands.NewUpdateUserHandler(mockRepo)

	user := testhelpers.ValidUser()
	userID := user.ID()
	uuidParsed := uuid.MustParse(userID.String())

	mockRepo.On("FindByID", mock.Anything, userID).Return(user, nil)

	var savedUser *identity.User
	mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(u *identity.User) bool {
		savedUser = u
		return true
	})).Return(nil)

	noExpiry := false
	announce := true

	cmd := commands.UpdateUserCommand{
		UserID:        uuidParsed,
		RequestorID:   uuidParsed, // Same user updating their own preferences
		Expiry:        &noExpiry,
		Announcements: &announce,
	}

	// Act
	result, err := handler.Handle(context.Background(), cmd)

	// Assert
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.False(t, result.NotificationPreferences.Expiry)
	assert.True(t, result.NotificationPreferences.Announcements)
	assert.NotNil(t, savedUser)
	assert.False(t, savedUser.NotificationPreferences().Expiry)
	assert.True(t, savedUser.NotificationPreferences().Announcements)
	mockRepo.AssertExpectations(t)
}

func TestUpdateUserHandler_Handle_PartialUpdate(t *testing.T) {
	t.Parallel()

	// Arrange
	mockRepo := new(testhelpers.MockUserRepository)
	handler := commands.NewUpdateUserHandler(mockRepo)

	user := testhelpers.ValidUser()
	userID := user.ID()
	uuidParsed := uuid.MustParse(userID.String())

	mockRepo.On("FindByID", mock.Anything, userID).Return(user, nil)
	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

	activity := false

	cmd := commands.UpdateUserCommand{
		UserID:      uuidParsed,
		RequestorID: uuidParsed,
		Activity:    &activity,
		Expiry:      nil, // Not updating expiry
	}

	// Act
	result, err := handler.Handle(context.Background(), cmd)

	// Assert
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.False(t, result.NotificationPreferences.Activity)
	mockRepo.AssertExpectations(t)
}

func TestUpdateUserHandler_Handle_NoChanges(t *testing.T) {
	t.Parallel()

	// Arrange
	mockRepo := new(testhelpers.MockUserRepository)
	handler := commands.NewUpdateUserHandler(mockRepo)

	user := testhelpers.ValidUser()
	userID := user.ID()
	uuidParsed := uuid.MustParse(userID.String())

	mockRepo.On("FindByID", mock.Anything, userID).Return(user, nil)

	cmd := commands.UpdateUserCommand{
		UserID:      uuidParsed,
		RequestorID: uuidParsed,
		Expiry:      nil, // No updates
		Activity:    nil,
	}

	// Act
	result, err := handler.Handle(context.Background(), cmd)

	// Assert
	require.NoError(t, err)
	assert.NotNil(t, result)
	// Save should not be called when no changes
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUpdateUserHandler_Handle_Unauthorized(t *testing.T) {
	t.Parallel()

	// Arrange
	mockRepo := new(testhelpers.MockUserRepository)
	handler := commands.NewUpdateUserHandler(mockRepo)

	userID := uuid.New()
	otherUserID := uuid.New()

	activity := true

	cmd := commands.UpdateUserCommand{
		UserID:      userID,
		RequestorID: otherUserID, // Different user trying to update
		Activity:    &activity,
	}

	// Act
	result, err := handler.Handle(context.Background(), cmd)

	// Assert
	assert.Nil(t, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unauthorized")
}

func TestUpdateUserHandler_Handle_UserNotFound(t *testing.T) {
	t.Parallel()

	// Arrange
	mockRepo := new(testhelpers.MockUserRepository)
	handler := commands.NewUpdateUserHandler(mockRepo)

	userID := identity.NewUserID()
	uuidParsed := uuid.MustParse(userID.String())

	mockRepo.On("FindByID", mock.Anything, userID).Return(nil, identity.ErrUserNotFound)

	activity := true

	cmd := commands.UpdateUserCommand{
		UserID:      uuidParsed,
		RequestorID: uuidParsed,
		Activity:    &activity,
	}

	// Act
	result, err := handler.Handle(context.Background(), cmd)

	// Assert
	assert.Nil(t, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "find user by id")
	mockRepo.AssertExpectations(t)
}
