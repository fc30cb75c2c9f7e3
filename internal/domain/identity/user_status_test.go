package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUserStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    UserStatus
		wantErr bool
	}{
		{
			name:  "valid unverified status",
			input: "unverified",
			want:  StatusUnverified,
		},
		{
			name:  "valid verified status",
			input: "verified",
			want:  StatusVerified,
		},
		{
			name:  "valid active status",
			input: "active",
			want:  StatusActive,
		},
		{
			name:  "valid blocked status",
			input: "blocked",
			want:  StatusBlocked,
		},
		{
			name:    "invalid status",
			input:   "inactive",
			wantErr: true,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "uppercase not valid",
			input:   "ACTIVE",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			status, err := ParseUserStatus(tt.input)

			if tt.wantErr {
				require.Error(t, err)
				assert.Empty(t, status)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, status)
			}
		})
	}
}

func TestUserStatus_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "unverified", StatusUnverified.String())
	assert.Equal(t, "verified", StatusVerified.String())
	assert.Equal(t, "active", StatusActive.String())
	assert.Equal(t, "blocked", StatusBlocked.String())
}

func TestUserStatus_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status UserStatus
		want   bool
	}{
		{name: "unverified is valid", status: StatusUnverified, want: true},
		{name: "verified is valid", status: StatusVerified, want: true},
		{name: "active is valid", status: StatusActive, want: true},
		{name: "blocked is valid", status: StatusBlocked, want: true},
		{name: "empty is invalid", status: UserStatus(""), want: false},
		{name: "random string is invalid", status: UserStatus("inactive"), want: false},
		{name: "uppercase is invalid", status: UserStatus("ACTIVE"), want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.status.IsValid())
		})
	}
}

func TestUserStatus_CanLogin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status UserStatus
		want   bool
	}{
		{name: "unverified cannot login", status: StatusUnverified, want: false},
		{name: "verified cannot login", status: StatusVerified, want: false},
		{name: "active can login", status: StatusActive, want: true},
		{name: "blocked cannot login", status: StatusBlocked, want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.status.CanLogin())
		})
	}
}
