package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProfileStatus(t *testing.T) {
	for _, valid := range []string{"DRAFT", "PENDING", "APPROVED", "REJECTED"} {
		st, err := ParseProfileStatus(valid)
		require.NoError(t, err)
		assert.Equal(t, ProfileStatus(valid), st)
		assert.True(t, st.Valid())
	}

	_, err := ParseProfileStatus("approved")
	assert.Error(t, err)
	_, err = ParseProfileStatus("")
	assert.Error(t, err)
	assert.False(t, ProfileStatus("BOGUS").Valid())
}

func TestCheckModerationInvariants(t *testing.T) {
	now := time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		profile AlumniProfile
		wantErr bool
	}{
		{
			name:    "draft clean",
			profile: AlumniProfile{UID: "u1", Status: ProfileStatusDraft},
		},
		{
			name:    "pending clean",
			profile: AlumniProfile{UID: "u1", Status: ProfileStatusPending},
		},
		{
			name:    "approved with stamps",
			profile: AlumniProfile{UID: "u1", Status: ProfileStatusApproved, DateValidation: &now, ValidatedBy: "admin-1"},
		},
		{
			name:    "rejected with reason",
			profile: AlumniProfile{UID: "u1", Status: ProfileStatusRejected, RejectionReason: "incomplet"},
		},
		{
			name:    "approved without validator",
			profile: AlumniProfile{UID: "u1", Status: ProfileStatusApproved, DateValidation: &now},
			wantErr: true,
		},
		{
			name:    "approved without date",
			profile: AlumniProfile{UID: "u1", Status: ProfileStatusApproved, ValidatedBy: "admin-1"},
			wantErr: true,
		},
		{
			name:    "approved carrying rejection reason",
			profile: AlumniProfile{UID: "u1", Status: ProfileStatusApproved, DateValidation: &now, ValidatedBy: "admin-1", RejectionReason: "old"},
			wantErr: true,
		},
		{
			name:    "rejected without reason",
			profile: AlumniProfile{UID: "u1", Status: ProfileStatusRejected},
			wantErr: true,
		},
		{
			name:    "rejected carrying stamps",
			profile: AlumniProfile{UID: "u1", Status: ProfileStatusRejected, RejectionReason: "x", ValidatedBy: "admin-1"},
			wantErr: true,
		},
		{
			name:    "draft carrying stamps",
			profile: AlumniProfile{UID: "u1", Status: ProfileStatusDraft, DateValidation: &now},
			wantErr: true,
		},
		{
			name:    "pending carrying reason",
			profile: AlumniProfile{UID: "u1", Status: ProfileStatusPending, RejectionReason: "x"},
			wantErr: true,
		},
		{
			name:    "unknown status",
			profile: AlumniProfile{UID: "u1", Status: ProfileStatus("BOGUS")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.CheckModerationInvariants()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCallerOwns(t *testing.T) {
	c := Caller{UID: "u1"}
	assert.True(t, c.Owns("u1"))
	assert.False(t, c.Owns("u2"))
	assert.False(t, Caller{}.Owns(""))
}
