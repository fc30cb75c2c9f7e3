package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appidentity "github.com/yegamble/licensevault/internal/application/identity"
	"github.com/yegamble/licensevault/internal/application/identity/queries"
	"github.com/yegamble/licensevault/internal/application/identity/testhelpers"
)

func TestGetUserSessionsHandler_Handle_FiltersRevokedAndExpired(t *testing.T) {
	t.Parallel()

	// Arrange
	mockTokens := new(testhelpers.MockTokenService)
	handler := queries.NewGetUserSessionsHandler(mockTokens)

	userID := uuid.New()
	now := time.Now().UTC()
	live := appidentity.SessionInfo{
		JTI:       uuid.New().String(),
		CreatedAt: now.Add(-time.Hour),
		ExpiresAt: now.Add(24 * time.Hour),
	}
	revoked := appidentity.SessionInfo{
		JTI:       uuid.New().String(),
		CreatedAt: now.Add(-2 * time.Hour),
		ExpiresAt: now.Add(24 * time.Hour),
		Revoked:   true,
	}
	expired := appidentity.SessionInfo{
		JTI:       uuid.New().String(),
		CreatedAt: now.Add(-48 * time.Hour),
		ExpiresAt: now.Add(-time.Hour),
	}

	mockTokens.On("ListSessions", mock.Anything, userID.String()).
		Return([]appidentity.SessionInfo{live, revoked, expired}, nil)

	// Act
	result, err := handler.Handle(context.Background(), queries.GetUserSessionsQuery{
		UserID:      userID,
		RequestorID: userID,
	})

	// Assert
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, live.JTI, result[0].SessionID)
	assert.False(t, result[0].IsCurrent)
	mockTokens.AssertExpectations(t)
}

func TestGetUserSessionsHandler_Handle_EmptyWhenNoSessions(t *testing.T) {
	t.Parallel()

	mockTokens := new(testhelpers.MockTokenService)
	handler := queries.NewGetUserSessionsHandler(mockTokens)

	userID := uuid.New()
	mockTokens.On("ListSessions", mock.Anything, userID.String()).
		Return([]appidentity.SessionInfo{}, nil)

	result, err := handler.Handle(context.Background(), queries.GetUserSessionsQuery{
		UserID:      userID,
		RequestorID: userID,
	})

	require.NoError(t, err)
	assert.Empty(t, result)
	mockTokens.AssertExpectations(t)
}

func TestGetUserSessionsHandler_Handle_PropagatesStoreError(t *testing.T) {
	t.Parallel()

	mockTokens := new(testhelpers.MockTokenService)
	handler := queries.NewGetUserSessionsHandler(mockTokens)

	userID := uuid.New()
	mockTokens.On("ListSessions", mock.Anything, userID.String()).
		Return(nil, errors.New("cache unavailable"))

	_, err := handler.Handle(context.Background(), queries.GetUserSessionsQuery{
		UserID:      userID,
		RequestorID: userID,
	})

	require.Error(t, err)
	mockTokens.AssertExpectations(t)
}
