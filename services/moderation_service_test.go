// file: services/moderation_service_test.go
package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"club-portal/mirror"
	"club-portal/models"
	"club-portal/services"
	"club-portal/store"
)

func newModerationEnv(t *testing.T) (*store.MemStore, *mirror.Mirror, *services.ModerationService) {
	t.Helper()
	s := store.NewMemStore()
	m := mirror.New(s)
	m.Start()
	t.Cleanup(m.Stop)
	return s, m, services.NewModerationService(s, m)
}

func TestRegister_CreatesPendingAccount(t *testing.T) {
	_, m, svc := newModerationEnv(t)

	account, err := svc.Register(context.Background(), services.RegistrationForm{
		Name:     "Rahim Uddin",
		Email:    "a@x.com",
		Phone:    "01700000000",
		Password: "pw",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, account.ID)
	assert.Equal(t, models.StatusPending, account.Status)
	assert.Equal(t, models.RoleUser, account.Role)
	assert.Equal(t, models.DefaultAvatarURL, account.ImageURL)
	assert.NotEqual(t, "pw", account.PasswordHash, "password must never be stored in plain text")

	require.Len(t, m.Accounts(), 1)
}

func TestRegister_MissingFields(t *testing.T) {
	_, _, svc := newModerationEnv(t)

	_, err := svc.Register(context.Background(), services.RegistrationForm{Email: "a@x.com"})
	assert.ErrorIs(t, err, services.ErrMissingFields)
}

func TestRegister_DuplicateEmailAlwaysRejected(t *testing.T) {
	_, _, svc := newModerationEnv(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, services.RegistrationForm{Name: "A", Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)

	// different name and password make no difference
	_, err = svc.Register(ctx, services.RegistrationForm{Name: "B", Email: "a@x.com", Password: "pw2"})
	assert.ErrorIs(t, err, services.ErrDuplicateEmail)
}

func TestAuthenticate_UnknownEmail(t *testing.T) {
	_, _, svc := newModerationEnv(t)

	_, err := svc.Authenticate(context.Background(), "nobody@x.com", "pw")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestAuthenticate_PendingAccountBlocked(t *testing.T) {
	_, _, svc := newModerationEnv(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, services.RegistrationForm{Name: "A", Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "a@x.com", "pw")
	assert.ErrorIs(t, err, services.ErrAwaitingApproval,
		"correct credentials on a pending account must answer awaiting-approval, not success and not invalid")
}

func TestModerationScenario_RegisterApproveLogin(t *testing.T) {
	_, m, svc := newModerationEnv(t)
	ctx := context.Background()

	account, err := svc.Register(ctx, services.RegistrationForm{
		Name: "Rahim Uddin", Email: "a@x.com", Phone: "01700000000", Password: "pw",
	})
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "a@x.com", "pw")
	require.ErrorIs(t, err, services.ErrAwaitingApproval)

	require.NoError(t, svc.Approve(ctx, account.ID))

	accounts := m.Accounts()
	require.Len(t, accounts, 1)
	assert.Equal(t, models.StatusApproved, accounts[0].Status)

	members := m.Members()
	require.Len(t, members, 1, "exactly one member materialized")
	assert.Equal(t, "Rahim Uddin", members[0].Name)
	assert.Equal(t, "01700000000", members[0].Phone)
	assert.Equal(t, "General Member", members[0].Role)

	result, err := svc.Authenticate(ctx, "a@x.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, result.Role)
}

func TestApprove_SecondCallIsRejectedAndCreatesNoSecondPerson(t *testing.T) {
	_, m, svc := newModerationEnv(t)
	ctx := context.Background()

	account, err := svc.Register(ctx, services.RegistrationForm{Name: "A", Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)

	require.NoError(t, svc.Approve(ctx, account.ID))
	err = svc.Approve(ctx, account.ID)
	assert.ErrorIs(t, err, services.ErrAlreadyApproved)

	assert.Len(t, m.Members(), 1, "a double approve must never create a second member")
}

func TestApprove_RedrivesMissingMaterialize(t *testing.T) {
	s, m, svc := newModerationEnv(t)
	ctx := context.Background()

	// an earlier approve got the status written but lost the member write
	require.NoError(t, s.WriteFull(ctx, "accounts/a1", models.Account{
		ID: "a1", Name: "A", Email: "a@x.com", Status: models.StatusApproved, Role: models.RoleUser,
	}))
	require.Empty(t, m.Members())

	require.NoError(t, svc.Approve(ctx, "a1"))

	members := m.Members()
	require.Len(t, members, 1)
	assert.Equal(t, services.MemberIDForAccount("a1"), members[0].ID)
}

func TestApprove_UnknownAccount(t *testing.T) {
	_, _, svc := newModerationEnv(t)

	err := svc.Approve(context.Background(), "missing")
	assert.ErrorIs(t, err, services.ErrAccountNotFound)
}

func TestApprove_StoreFailureSurfaces(t *testing.T) {
	s, m, svc := newModerationEnv(t)
	ctx := context.Background()

	account, err := svc.Register(ctx, services.RegistrationForm{Name: "A", Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)

	s.SetUnavailable(true)
	err = svc.Approve(ctx, account.ID)
	assert.Error(t, err)
	assert.Empty(t, m.Members())
}

func TestReject_DeletesAccountForever(t *testing.T) {
	_, m, svc := newModerationEnv(t)
	ctx := context.Background()

	account, err := svc.Register(ctx, services.RegistrationForm{Name: "A", Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)

	require.NoError(t, svc.Reject(ctx, account.ID))
	assert.Empty(t, m.Accounts())
	assert.Empty(t, m.Members(), "rejection must not materialize anyone")

	_, err = svc.Authenticate(ctx, "a@x.com", "pw")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestSeedAdmin_AuthenticatesWithAdminRole(t *testing.T) {
	_, _, svc := newModerationEnv(t)
	ctx := context.Background()

	require.NoError(t, svc.SeedAdmin(ctx, "admin@club.org", "admin-pw"))
	// second seed is a no-op
	require.NoError(t, svc.SeedAdmin(ctx, "admin@club.org", "admin-pw"))

	result, err := svc.Authenticate(ctx, "admin@club.org", "admin-pw")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, result.Role)

	_, err = svc.Authenticate(ctx, "admin@club.org", "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials, "there is no credential bypass")
}
