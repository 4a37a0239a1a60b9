package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askbase/identity-store/internal/crypto"
	"github.com/askbase/identity-store/internal/store/models"
)

func TestCreateUserAccount(t *testing.T) {
	s := testService(t)

	user, err := s.CreateUserAccount("dana@example.com", "Dana", "s3cret-pw", nil)
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", user.Email)
	assert.Equal(t, models.StatusActive, user.Status)
	assert.Empty(t, user.Organizations)

	// Duplicate email, any case, is rejected.
	_, err = s.CreateUserAccount("DANA@example.com", "Other", "pw", nil)
	assert.ErrorIs(t, err, ErrEmailInUse)
}

func TestGetUserByEmailCaseInsensitive(t *testing.T) {
	s := testService(t)

	created, err := s.CreateUserAccount("Mixed.Case@Example.COM", "Mixed", "pw-123456", nil)
	require.NoError(t, err)

	found, err := s.GetUserByEmail("mixed.case@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = s.GetUserByEmail("nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestVerifyUserPassword(t *testing.T) {
	s := testService(t)

	_, err := s.CreateUserAccount("dana@example.com", "Dana", "correct-horse", nil)
	require.NoError(t, err)

	user, ok, err := s.VerifyUserPassword("dana@example.com", "correct-horse")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dana@example.com", user.Email)

	_, ok, err = s.VerifyUserPassword("dana@example.com", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = s.VerifyUserPassword("nobody@example.com", "whatever")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateUserLastLogin(t *testing.T) {
	s := testService(t)

	user, err := s.CreateUserAccount("dana@example.com", "Dana", "pw-123456", nil)
	require.NoError(t, err)
	assert.Nil(t, user.LastLoginAt)

	require.NoError(t, s.UpdateUserLastLogin(user.ID))

	after, err := s.GetUser(user.ID)
	require.NoError(t, err)
	assert.NotNil(t, after.LastLoginAt)

	assert.ErrorIs(t, s.UpdateUserLastLogin("no-such-user"), ErrUserNotFound)
}

func TestAttachUserToOrganizationIdempotent(t *testing.T) {
	s := testService(t)
	org := bootstrapOrg(t, s)

	user, err := s.CreateUserAccount("dana@example.com", "Dana", "pw-123456", nil)
	require.NoError(t, err)

	require.NoError(t, s.AttachUserToOrganization(user.ID, org.ID, []string{models.RoleMember}))
	require.NoError(t, s.AttachUserToOrganization(user.ID, org.ID, []string{models.RoleAdmin, models.RoleMember}))

	doc, err := s.store.Load()
	require.NoError(t, err)

	// Exactly one membership per side, carrying the latest role set.
	stored := doc.Users[user.ID]
	count := 0
	for _, m := range stored.Organizations {
		if m.OrgID == org.ID {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.ElementsMatch(t, []string{models.RoleAdmin, models.RoleMember}, stored.MembershipFor(org.ID).Roles)

	count = 0
	for _, m := range doc.Organizations[org.ID].Members {
		if m.UserID == user.ID {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.ElementsMatch(t, []string{models.RoleAdmin, models.RoleMember}, doc.Organizations[org.ID].MemberFor(user.ID).Roles)
}

func TestAttachUserToOrganizationErrors(t *testing.T) {
	s := testService(t)
	org := bootstrapOrg(t, s)

	user, err := s.CreateUserAccount("dana@example.com", "Dana", "pw-123456", nil)
	require.NoError(t, err)

	assert.ErrorIs(t, s.AttachUserToOrganization("no-such-user", org.ID, []string{models.RoleMember}), ErrUserNotFound)
	assert.ErrorIs(t, s.AttachUserToOrganization(user.ID, "no-such-org", []string{models.RoleMember}), ErrOrgNotFound)
	assert.ErrorIs(t, s.AttachUserToOrganization(user.ID, org.ID, []string{"superuser"}), ErrInvalidRole)
}

func TestCreateOrUpdateOrgUser(t *testing.T) {
	s := testService(t)
	org := bootstrapOrg(t, s)

	// New user, no password supplied: one is generated and revealed once.
	result, err := s.CreateOrUpdateOrgUser(org.ID, "new@example.com", "New User", []string{models.RoleMember}, "")
	require.NoError(t, err)
	assert.True(t, result.Created)
	require.NotEmpty(t, result.GeneratedPassword)

	doc, err := s.store.Load()
	require.NoError(t, err)
	stored := doc.Users[result.User.ID]
	assert.True(t, crypto.VerifyPassword(result.GeneratedPassword, stored.PasswordHash))

	// Same email again: found, not created, roles updated.
	again, err := s.CreateOrUpdateOrgUser(org.ID, "NEW@example.com", "New User", []string{models.RoleBilling}, "")
	require.NoError(t, err)
	assert.False(t, again.Created)
	assert.Empty(t, again.GeneratedPassword)
	assert.Equal(t, result.User.ID, again.User.ID)
	var roles []string
	for _, m := range again.User.Organizations {
		if m.OrgID == org.ID {
			roles = m.Roles
		}
	}
	assert.ElementsMatch(t, []string{models.RoleBilling}, roles)

	_, err = s.CreateOrUpdateOrgUser("no-such-org", "x@example.com", "X", []string{models.RoleMember}, "")
	assert.ErrorIs(t, err, ErrOrgNotFound)
}
